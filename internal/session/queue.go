package session

import "sync"

// resultQueue is a fixed-capacity overwrite queue. Push never blocks: when
// the queue is full the oldest entry is evicted to admit the newest. Pop is
// non-blocking and destructive. Safe for one producer and one consumer.
type resultQueue struct {
	mu    sync.Mutex
	buf   []Result
	head  int
	count int
}

func newResultQueue(capacity int) *resultQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &resultQueue{buf: make([]Result, capacity)}
}

// Push enqueues r, evicting the oldest entry when full.
func (q *resultQueue) Push(r Result) {
	q.mu.Lock()
	defer q.mu.Unlock()

	tail := (q.head + q.count) % len(q.buf)
	q.buf[tail] = r
	if q.count < len(q.buf) {
		q.count++
	} else {
		// Full: tail just overwrote head, advance past it
		q.head = (q.head + 1) % len(q.buf)
	}
}

// TryPop dequeues the oldest entry, reporting whether one was present.
func (q *resultQueue) TryPop() (Result, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Result{}, false
	}

	r := q.buf[q.head]
	q.buf[q.head] = Result{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return r, true
}

// Len returns the number of queued results.
func (q *resultQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}
