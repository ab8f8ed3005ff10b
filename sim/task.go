package sim

import (
	"fmt"
	"sync"
)

// Task is a suspendable unit of work that runs cooperatively under a
// Scheduler. Constructing a Task begins executing it eagerly, up to its
// first suspension point, exactly as the reference engine's SerialEngine
// runs an event's Handle method synchronously the moment it is popped —
// the difference is that a Task's body can suspend itself mid-flight
// instead of returning control after a single call.
//
// The only two operations that suspend a Task are Delay and the Wait
// family; nothing else yields, matching the suspension-point contract.
// A Task never runs concurrently with any other Task or with the
// scheduler's own bookkeeping: the goroutine backing it is only ever
// alive between a resume signal and the following yield signal, so it
// behaves like a single-threaded coroutine even though it is implemented
// on top of goroutines.
type Task struct {
	ID string

	sched *Scheduler

	resume chan interface{}
	yield  chan struct{}

	mu       sync.Mutex
	done     bool
	detached bool
	err      error
}

// spawn creates a Task from fn and drives it eagerly until fn suspends or
// returns.
func spawn(s *Scheduler, fn func(t *Task)) *Task {
	t := &Task{
		ID:     GetIDGenerator().Generate(),
		sched:  s,
		resume: make(chan interface{}),
		yield:  make(chan struct{}),
	}

	go t.run(fn)

	<-t.yield
	s.absorbFatal(t)

	return t
}

func (t *Task) run(fn func(t *Task)) {
	defer func() {
		if r := recover(); r != nil {
			t.mu.Lock()
			t.err = fmt.Errorf("task %s: %v", t.ID, r)
			t.done = true
			t.mu.Unlock()
			t.yield <- struct{}{}
			return
		}
	}()

	fn(t)

	t.mu.Lock()
	t.done = true
	t.mu.Unlock()
	t.yield <- struct{}{}
}

// resumeWith hands control to the task's goroutine with the given
// payload and blocks until the task suspends again or finishes. Only the
// scheduler's driving goroutine may call this.
func (t *Task) resumeWith(payload interface{}) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()
	if done {
		return
	}

	t.resume <- payload
	<-t.yield
}

// Delay suspends the calling task until d milliseconds of virtual time
// have passed.
func (t *Task) Delay(d VTimeInMillis) {
	deadline := t.sched.Now() + d
	t.sched.scheduleAfter(deadline, func() {
		t.sched.drive(t, nil)
	})

	t.yield <- struct{}{}
	<-t.resume
}

// WaitEvent suspends the calling task until event id is triggered, and
// returns whatever payload the trigger carried (nil for untyped
// triggers). This is a one-shot subscription: re-arming requires calling
// WaitEvent again.
func (t *Task) WaitEvent(id EventID) interface{} {
	t.sched.subscribe(id, func(data interface{}) {
		t.sched.drive(t, data)
	})

	t.yield <- struct{}{}
	return <-t.resume
}

// Wait suspends task t until event id is triggered, and type-asserts the
// payload to T. Mismatched payload types between the subscriber and the
// triggerer are a programmer error and will panic on assertion, matching
// the source's untyped-pointer contract made explicit through generics.
func Wait[T any](t *Task, id EventID) T {
	payload := t.WaitEvent(id)
	return payload.(T)
}

// Detach releases ownership of the task to the scheduler. A detached
// task is never resumed by anything but the scheduler's own machinery
// (timers and subscriptions) from this point on; dropping the returned
// *Task on the caller's side has no effect on it.
func (t *Task) Detach() {
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()

	t.sched.trackDetached(t)
}

// IsDone reports whether the task has run to completion (successfully or
// with a fatal error).
func (t *Task) IsDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Err returns the fatal error the task ended with, if any. A non-nil Err
// is, per the core's error model, fatal to the process; Scheduler.Run
// surfaces it as its own return value so a driving program can decide
// how to die.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
