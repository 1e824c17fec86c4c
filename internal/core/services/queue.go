package services

import "sync"

// tableQueue orders the operations issued against one table.
//
// A write waits for the previous write and for every read issued since it.
// A read waits only for the previous write, so reads overlap each other but
// always observe earlier writes.
type tableQueue struct {
	mu        sync.Mutex
	lastWrite chan struct{}
	readers   []chan struct{}
}

// reserve claims the next position in the queue. The caller must call wait
// before running the operation and done once it has finished.
func (q *tableQueue) reserve(write bool) (wait func(), done func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	next := make(chan struct{})
	deps := []chan struct{}{}
	if q.lastWrite != nil {
		deps = append(deps, q.lastWrite)
	}

	if write {
		deps = append(deps, q.readers...)
		q.readers = nil
		q.lastWrite = next
	} else {
		q.readers = append(q.readers, next)
	}

	wait = func() {
		for _, ch := range deps {
			<-ch
		}
	}
	done = func() {
		close(next)
	}
	return wait, done
}
