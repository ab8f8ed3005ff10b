package sim

import (
	"container/heap"
	"sync"
)

// timerQueue is a thread-safe priority queue of timerEntry ordered by
// deadline, with insertion order breaking ties. It plays the role the
// reference engine's EventQueueImpl plays for its Event heap, specialized
// to timerEntry instead of Event.
type timerQueue struct {
	sync.Mutex
	entries timerHeap
}

// newTimerQueue creates and returns an empty timerQueue.
func newTimerQueue() *timerQueue {
	q := new(timerQueue)
	q.entries = make(timerHeap, 0)
	heap.Init(&q.entries)
	return q
}

// push adds an entry to the queue.
func (q *timerQueue) push(e *timerEntry) {
	q.Lock()
	heap.Push(&q.entries, e)
	q.Unlock()
}

// pop removes and returns the entry with the earliest deadline.
func (q *timerQueue) pop() *timerEntry {
	q.Lock()
	e := heap.Pop(&q.entries).(*timerEntry)
	q.Unlock()
	return e
}

// peek returns the entry with the earliest deadline without removing it.
func (q *timerQueue) peek() *timerEntry {
	q.Lock()
	e := q.entries[0]
	q.Unlock()
	return e
}

// len returns the number of pending entries.
func (q *timerQueue) len() int {
	q.Lock()
	n := len(q.entries)
	q.Unlock()
	return n
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x interface{}) {
	*h = append(*h, x.(*timerEntry))
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return e
}
