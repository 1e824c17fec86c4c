package services

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// barrier tracks in-flight operations so shutdown can wait for them.
// While a close is in progress, new operations wait until it finishes.
type barrier struct {
	mu      sync.Mutex
	closing chan struct{}
	active  int
	idle    chan struct{}
	writes  map[uuid.UUID]string
}

func newBarrier() *barrier {
	return &barrier{writes: make(map[uuid.UUID]string)}
}

// enter registers an operation, waiting out any close in progress.
func (b *barrier) enter() {
	b.mu.Lock()
	for b.closing != nil {
		ch := b.closing
		b.mu.Unlock()
		<-ch
		b.mu.Lock()
	}
	b.active++
	b.mu.Unlock()
}

// leave marks an operation as finished.
func (b *barrier) leave() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active--
	if b.active == 0 && b.idle != nil {
		close(b.idle)
		b.idle = nil
	}
}

// trackWrite records a named in-flight write and returns its id.
// An empty name is not recorded.
func (b *barrier) trackWrite(name string) uuid.UUID {
	if name == "" {
		return uuid.Nil
	}
	id := uuid.New()
	b.mu.Lock()
	b.writes[id] = name
	b.mu.Unlock()
	return id
}

// untrackWrite forgets a finished write.
func (b *barrier) untrackWrite(id uuid.UUID) {
	if id == uuid.Nil {
		return
	}
	b.mu.Lock()
	delete(b.writes, id)
	b.mu.Unlock()
}

// pendingWrites lists the names of writes still in flight, sorted.
func (b *barrier) pendingWrites() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.writes))
	for _, name := range b.writes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// drain blocks new operations and waits for active ones. On success the
// barrier stays closed until release is called. If ctx ends first the
// barrier is reopened and ctx's error returned.
func (b *barrier) drain(ctx context.Context) error {
	b.mu.Lock()
	for b.closing != nil {
		ch := b.closing
		b.mu.Unlock()
		<-ch
		b.mu.Lock()
	}
	b.closing = make(chan struct{})
	if b.active == 0 {
		b.mu.Unlock()
		return nil
	}
	idle := make(chan struct{})
	b.idle = idle
	b.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		b.mu.Lock()
		if b.idle == idle {
			b.idle = nil
		}
		b.mu.Unlock()
		b.release()
		return ctx.Err()
	}
}

// release reopens the barrier after drain.
func (b *barrier) release() {
	b.mu.Lock()
	close(b.closing)
	b.closing = nil
	b.mu.Unlock()
}
