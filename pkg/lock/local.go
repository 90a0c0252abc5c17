package lock

import (
	"context"
	"sync"
)

type localEntry struct {
	sem  chan struct{}
	refs int
}

// Local is an in-process keyed mutex
// It's only suitable when a single server process is serving requests.
type Local struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

// NewLocal returns a new in-process Locker
func NewLocal() *Local {
	return &Local{
		entries: make(map[string]*localEntry),
	}
}

var _ Locker = (*Local)(nil)

// Lock waits for the key until ctx is done
func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

// release drops the reference and forgets the key once nobody is waiting on it
func (l *Local) release(key string, e *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// size returns the number of keys currently tracked
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}
