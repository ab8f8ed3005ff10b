package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("timerQueue", func() {
	var queue *timerQueue

	BeforeEach(func() {
		queue = newTimerQueue()
	})

	It("should pop in deadline order", func() {
		numEntries := 100
		for i := 0; i < numEntries; i++ {
			queue.push(&timerEntry{
				deadline: VTimeInMillis(rand.Intn(1000)),
				seq:      uint64(i),
			})
		}

		last := VTimeInMillis(-1)
		for queue.len() > 0 {
			e := queue.pop()
			Expect(e.deadline >= last).To(BeTrue())
			last = e.deadline
		}
	})

	It("should break ties by insertion order", func() {
		queue.push(&timerEntry{deadline: 5, seq: 2})
		queue.push(&timerEntry{deadline: 5, seq: 0})
		queue.push(&timerEntry{deadline: 5, seq: 1})

		Expect(queue.pop().seq).To(Equal(uint64(0)))
		Expect(queue.pop().seq).To(Equal(uint64(1)))
		Expect(queue.pop().seq).To(Equal(uint64(2)))
	})

	It("should peek without removing", func() {
		queue.push(&timerEntry{deadline: 3, seq: 0})
		Expect(queue.peek().deadline).To(Equal(VTimeInMillis(3)))
		Expect(queue.len()).To(Equal(1))
	})
})

var _ = Describe("readyQueue", func() {
	var queue *readyQueue

	BeforeEach(func() {
		queue = newReadyQueue()
	})

	It("should pop in FIFO order", func() {
		var order []int
		queue.push(func() { order = append(order, 1) })
		queue.push(func() { order = append(order, 2) })
		queue.push(func() { order = append(order, 3) })

		for queue.len() > 0 {
			queue.pop()()
		}

		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("should return nil when empty", func() {
		Expect(queue.pop()).To(BeNil())
	})
})
