package sim

import (
	"context"
	"sync"
	"sync/atomic"
)

// TimeTeller can be used to get the current virtual time. It exists
// separately from Scheduler so that read-only collaborators (sinks, the
// monitoring server) can depend on the narrower capability.
type TimeTeller interface {
	Now() VTimeInMillis
}

// Scheduler owns virtual time and runs the ready queue and timer queue
// described in the kernel design: a FIFO of continuations ready to run
// now, and a time-ordered queue of continuations waiting for a deadline.
// It plays the role the reference engine's SerialEngine plays, adapted
// from a Handler/Event dispatch model to a Task/continuation model.
//
// A Scheduler must not be copied after first use.
type Scheduler struct {
	HookableBase

	timeMu sync.Mutex
	now    VTimeInMillis
	seq    uint64

	ready  *readyQueue
	timers *timerQueue

	subsMu sync.Mutex
	subs   map[EventID][]func(interface{})

	detachedMu sync.Mutex
	detached   []*Task

	fatalMu  sync.Mutex
	fatalErr error

	paused    atomic.Bool
	pauseLock sync.Mutex
}

// NewScheduler creates an idle Scheduler with virtual time starting at 0.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		ready:  newReadyQueue(),
		timers: newTimerQueue(),
		subs:   make(map[EventID][]func(interface{})),
	}
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() VTimeInMillis {
	s.timeMu.Lock()
	defer s.timeMu.Unlock()
	return s.now
}

// SetTime forces the current virtual time. The core never needs to move
// time backward, but nothing here rejects it either, matching §4.1.
func (s *Scheduler) SetTime(t VTimeInMillis) {
	s.timeMu.Lock()
	s.now = t
	s.timeMu.Unlock()
}

// AdvanceTime moves the current virtual time forward by delta.
func (s *Scheduler) AdvanceTime(delta VTimeInMillis) {
	s.timeMu.Lock()
	s.now += delta
	s.timeMu.Unlock()
}

func (s *Scheduler) nextSeq() uint64 {
	s.timeMu.Lock()
	defer s.timeMu.Unlock()
	seq := s.seq
	s.seq++
	return seq
}

// Schedule appends a continuation to the ready queue, to run on the next
// step the scheduler takes.
func (s *Scheduler) Schedule(k func()) {
	s.ready.push(k)
}

// scheduleAfter inserts a continuation into the timer queue at the
// absolute deadline given; callers such as Delay compute it as now+delta.
func (s *Scheduler) scheduleAfter(deadline VTimeInMillis, k func()) {
	s.timers.push(&timerEntry{
		deadline: deadline,
		seq:      s.nextSeq(),
		resume:   k,
	})
}

// Spawn constructs a Task from fn and runs it eagerly under this
// scheduler until it suspends or completes.
func (s *Scheduler) Spawn(fn func(t *Task)) *Task {
	return spawn(s, fn)
}

// subscribe registers sink to be invoked, at most once, the next time id
// is triggered.
func (s *Scheduler) subscribe(id EventID, sink func(interface{})) {
	s.subsMu.Lock()
	s.subs[id] = append(s.subs[id], sink)
	s.subsMu.Unlock()
}

// Trigger snapshots every sink currently subscribed to id, clears that
// subscription list, then invokes each sink with data in subscription
// order. Subscribers added by a sink while Trigger is running are not
// notified by this call — they wait for the next trigger.
func (s *Scheduler) Trigger(id EventID, data interface{}) {
	s.subsMu.Lock()
	fired := s.subs[id]
	delete(s.subs, id)
	s.subsMu.Unlock()

	s.InvokeHook(HookCtx{Pos: HookPosTrigger, Event: id, Payload: data})

	for _, sink := range fired {
		sink(data)
	}
}

// drive resumes task t with payload and, if that step ends the task with
// a fatal error, latches it as the scheduler's fatal error. It is the
// single choke point every suspension primitive routes its resume
// through, so Run can detect a fatal task error regardless of whether it
// happened inside a timer callback or an event dispatch.
func (s *Scheduler) drive(t *Task, payload interface{}) {
	t.resumeWith(payload)
	s.absorbFatal(t)
}

func (s *Scheduler) absorbFatal(t *Task) {
	err := t.Err()
	if err == nil {
		return
	}

	s.fatalMu.Lock()
	if s.fatalErr == nil {
		s.fatalErr = err
	}
	s.fatalMu.Unlock()
}

func (s *Scheduler) fatal() error {
	s.fatalMu.Lock()
	defer s.fatalMu.Unlock()
	return s.fatalErr
}

// FatalErr returns the first fatal task error the scheduler has
// absorbed, if any. Unlike Run, RunOneStep and RunUntil do not stop or
// return early when a task fails fatally — they keep draining the
// queues exactly as §4.1 specifies — so a caller driving the scheduler
// through those lower-level primitives must poll FatalErr itself to
// honor §4.2's "fatal to the process" contract.
func (s *Scheduler) FatalErr() error {
	return s.fatal()
}

// trackDetached records a detached task so the scheduler is its sole
// owner for introspection purposes; it has no effect on scheduling.
func (s *Scheduler) trackDetached(t *Task) {
	s.detachedMu.Lock()
	s.detached = append(s.detached, t)
	s.detachedMu.Unlock()
}

// DetachedTasks returns the tasks that have been detached so far.
func (s *Scheduler) DetachedTasks() []*Task {
	s.detachedMu.Lock()
	defer s.detachedMu.Unlock()
	out := make([]*Task, len(s.detached))
	copy(out, s.detached)
	return out
}

// Pause blocks new steps from starting once whichever step is currently
// mid-flight finishes, until Continue is called. It is idempotent: a
// second Pause call while already paused is a no-op rather than a
// second acquisition of pauseLock, so callers never need to track
// whether they already hold the pause.
func (s *Scheduler) Pause() {
	if !s.paused.CompareAndSwap(false, true) {
		return
	}

	s.pauseLock.Lock()
}

// Continue releases a pause taken by Pause, letting runStep proceed
// again. A Continue with no matching Pause is a no-op.
func (s *Scheduler) Continue() {
	if !s.paused.CompareAndSwap(true, false) {
		return
	}

	s.pauseLock.Unlock()
}

// runStep is the sole place a unit of work passes through, so it is
// also the sole place a pause takes effect: acquiring pauseLock here
// blocks until any in-flight Pause has run its course, and blocks a
// concurrent Pause from being considered "in effect" until this step
// releases it.
func (s *Scheduler) runStep(k func()) {
	s.pauseLock.Lock()
	defer s.pauseLock.Unlock()

	hookCtx := HookCtx{Pos: HookPosBeforeStep}
	s.InvokeHook(hookCtx)

	k()

	hookCtx.Pos = HookPosAfterStep
	s.InvokeHook(hookCtx)
}

// migrateDueTimers jumps now to the earliest pending timer's deadline and
// moves every timer entry due at or before that deadline into the ready
// queue, preserving insertion order for entries sharing a deadline.
func (s *Scheduler) migrateDueTimers() {
	earliest := s.timers.peek()

	s.timeMu.Lock()
	if s.now < earliest.deadline {
		s.now = earliest.deadline
	}
	now := s.now
	s.timeMu.Unlock()

	for s.timers.len() > 0 && s.timers.peek().deadline <= now {
		e := s.timers.pop()
		s.ready.push(e.resume)
	}
}

// RunOneStep advances the simulation by one unit of work: if the ready
// queue is non-empty, it pops and runs one continuation; otherwise, if
// the timer queue is non-empty, it jumps time to the earliest deadline
// and migrates all due timers into the ready queue. It reports whether
// any work was done.
func (s *Scheduler) RunOneStep() bool {
	if k := s.ready.pop(); k != nil {
		s.runStep(k)
		return true
	}

	if s.timers.len() > 0 {
		s.migrateDueTimers()
		return true
	}

	return false
}

// RunUntil drains the ready queue and migrates due timers until virtual
// time reaches end or the scheduler runs out of work. Ready work at the
// current time is always drained before any time jump.
func (s *Scheduler) RunUntil(end VTimeInMillis) {
	for {
		for {
			k := s.ready.pop()
			if k == nil {
				break
			}
			s.runStep(k)
		}

		if s.timers.len() > 0 && s.timers.peek().deadline < end {
			s.migrateDueTimers()
			continue
		}

		s.timeMu.Lock()
		if s.now < end {
			s.now = end
		}
		s.timeMu.Unlock()

		return
	}
}

// Run drives the scheduler until it becomes fully idle (no ready work and
// no pending timers), ctx is cancelled, or a task ends with a fatal
// error. A fatal task error is returned so the driving program (a test,
// or cmd/gridsim) can decide how to die, matching the source's "fatal to
// the process" contract without hard-crashing library callers.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.fatal(); err != nil {
			return err
		}

		if !s.RunOneStep() {
			return nil
		}
	}
}
