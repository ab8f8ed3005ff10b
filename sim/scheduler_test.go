package sim

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Scheduler", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = NewScheduler()
	})

	It("resumes two readied continuations in FIFO order", func() {
		var order []string
		s.Schedule(func() { order = append(order, "A") })
		s.Schedule(func() { order = append(order, "B") })

		Expect(s.RunOneStep()).To(BeTrue())
		Expect(s.RunOneStep()).To(BeTrue())
		Expect(order).To(Equal([]string{"A", "B"}))
	})

	It("jumps now to the single pending timer's deadline", func() {
		fired := false
		s.scheduleAfter(50, func() { fired = true })

		Expect(s.RunOneStep()).To(BeTrue())
		Expect(s.Now()).To(Equal(VTimeInMillis(50)))
		Expect(fired).To(BeFalse(), "migration only readies the continuation")

		Expect(s.RunOneStep()).To(BeTrue())
		Expect(fired).To(BeTrue())
	})

	It("drains ready work before jumping time", func() {
		var order []string
		s.scheduleAfter(10, func() { order = append(order, "timer") })
		s.Schedule(func() { order = append(order, "ready") })

		s.RunUntil(100)

		Expect(order).To(Equal([]string{"ready", "timer"}))
		Expect(s.Now()).To(BeNumerically(">=", VTimeInMillis(100)))
	})

	It("keeps now monotonically non-decreasing across steps", func() {
		s.scheduleAfter(30, func() {})
		s.scheduleAfter(10, func() {})

		last := s.Now()
		for s.RunOneStep() {
			Expect(s.Now() >= last).To(BeTrue())
			last = s.Now()
		}
	})

	It("empties subscriptions present at trigger time after Trigger returns", func() {
		s.subscribe(EventFaultInfo, func(interface{}) {})
		s.subscribe(EventFaultInfo, func(interface{}) {})

		s.Trigger(EventFaultInfo, nil)

		s.subsMu.Lock()
		remaining := len(s.subs[EventFaultInfo])
		s.subsMu.Unlock()
		Expect(remaining).To(Equal(0))
	})

	It("does not notify subscribers registered during a trigger", func() {
		reentrantFired := false
		s.subscribe(EventLoadChange, func(interface{}) {
			s.subscribe(EventLoadChange, func(interface{}) { reentrantFired = true })
		})

		s.Trigger(EventLoadChange, nil)
		Expect(reentrantFired).To(BeFalse())

		s.Trigger(EventLoadChange, nil)
		Expect(reentrantFired).To(BeTrue())
	})

	It("notifies subscribers of a trigger in subscription order", func() {
		var order []int
		s.subscribe(EventGeneratorReady, func(interface{}) { order = append(order, 1) })
		s.subscribe(EventGeneratorReady, func(interface{}) { order = append(order, 2) })
		s.subscribe(EventGeneratorReady, func(interface{}) { order = append(order, 3) })

		s.Trigger(EventGeneratorReady, nil)

		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("runs until idle and returns nil error when no task fails", func() {
		steps := 0
		var loop func()
		loop = func() {
			steps++
			if steps < 3 {
				s.Schedule(loop)
			}
		}
		s.Schedule(loop)

		err := s.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(Equal(3))
	})

	It("surfaces a task's fatal error from Run", func() {
		s.Spawn(func(t *Task) {
			panic("boom")
		})

		err := s.Run(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("cancels Run when the context is done", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s.Schedule(func() {})
		err := s.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("pauses and resumes taking steps", func() {
		ran := false
		s.Pause()
		s.Schedule(func() { ran = true })

		done := make(chan struct{})
		go func() {
			s.RunOneStep()
			close(done)
		}()

		Consistently(func() bool { return ran }).Should(BeFalse())

		s.Continue()
		<-done
		Expect(ran).To(BeTrue())
	})
})
