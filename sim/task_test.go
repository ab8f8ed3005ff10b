package sim

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Task", func() {
	var s *Scheduler

	BeforeEach(func() {
		s = NewScheduler()
	})

	It("runs eagerly up to its first suspension point", func() {
		ranBeforeSuspend := false
		task := s.Spawn(func(t *Task) {
			ranBeforeSuspend = true
			t.Delay(10)
		})

		Expect(ranBeforeSuspend).To(BeTrue())
		Expect(task.IsDone()).To(BeFalse())
	})

	It("resumes no earlier than its deadline", func() {
		task := s.Spawn(func(t *Task) {
			t.Delay(100)
		})

		Expect(s.RunOneStep()).To(BeTrue())
		Expect(s.Now()).To(Equal(VTimeInMillis(100)))
		Expect(task.IsDone()).To(BeFalse())

		Expect(s.RunOneStep()).To(BeTrue())
		Expect(task.IsDone()).To(BeTrue())
	})

	It("resumes with the triggered payload on WaitEvent", func() {
		var got interface{}
		s.Spawn(func(t *Task) {
			got = t.WaitEvent(EventEntityTrip)
		})

		s.Trigger(EventEntityTrip, uint64(42))

		Expect(got).To(Equal(uint64(42)))
	})

	It("requires re-subscription for each loop iteration", func() {
		var receives int
		s.Spawn(func(t *Task) {
			for i := 0; i < 3; i++ {
				t.WaitEvent(EventLoadChange)
				receives++
			}
		})

		s.Trigger(EventLoadChange, nil)
		s.Trigger(EventLoadChange, nil)
		Expect(receives).To(Equal(2))

		s.Trigger(EventLoadChange, nil)
		Expect(receives).To(Equal(3))
	})

	It("type-asserts the payload through Wait", func() {
		var got uint64
		s.Spawn(func(t *Task) {
			got = Wait[uint64](t, EventBreakerOpened)
		})

		s.Trigger(EventBreakerOpened, uint64(7))
		Expect(got).To(Equal(uint64(7)))
	})

	It("marks itself done without being resumable by its former owner", func() {
		task := s.Spawn(func(t *Task) {})
		Expect(task.IsDone()).To(BeTrue())

		task.Detach()
		Expect(s.DetachedTasks()).To(ContainElement(task))
	})

	It("surfaces a panic raised after a suspension as a fatal error", func() {
		s.Spawn(func(t *Task) {
			t.Delay(5)
			panic("late failure")
		})

		Expect(s.RunOneStep()).To(BeTrue()) // migrate timer
		Expect(s.RunOneStep()).To(BeTrue()) // resume and panic

		err := s.Run(context.Background())
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("late failure"))
	})
})
