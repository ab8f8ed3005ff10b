package sim

import (
	"container/list"
	"sync"
)

// readyQueue is a thread-safe FIFO of continuations, playing the role the
// reference engine's InsertionQueue plays as a container/list-backed
// queue, specialized to plain continuations and to strict FIFO order
// (insertion order only, no time-based reordering) since everything
// placed here is already due to run at the current time.
type readyQueue struct {
	lock sync.Mutex
	l    *list.List
}

func newReadyQueue() *readyQueue {
	return &readyQueue{l: list.New()}
}

func (q *readyQueue) push(k func()) {
	q.lock.Lock()
	q.l.PushBack(k)
	q.lock.Unlock()
}

func (q *readyQueue) pop() func() {
	q.lock.Lock()
	defer q.lock.Unlock()

	front := q.l.Front()
	if front == nil {
		return nil
	}

	q.l.Remove(front)
	return front.Value.(func())
}

func (q *readyQueue) len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.l.Len()
}
