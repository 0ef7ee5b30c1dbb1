package dbmanager

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db/dberror"
)

// KeyedLock serializes critical sections per key. Different keys never
// contend with each other; waiters on the same key block until the
// holder releases or the wait bound expires.
type KeyedLock struct {
	mu      sync.Mutex
	timeout time.Duration
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewKeyedLock creates a keyed lock whose Acquire waits at most
// timeout. A zero timeout means waiters block until the caller's
// context is done.
func NewKeyedLock(timeout time.Duration) *KeyedLock {
	return &KeyedLock{
		timeout: timeout,
		entries: make(map[string]*lockEntry),
	}
}

// Acquire blocks until the lock for key is held by the caller. Returns
// ErrLockTimeout if the wait bound elapses or ctx is done first.
func (l *KeyedLock) Acquire(ctx context.Context, key string) error {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	acquireCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		l.drop(key)
		return dberror.ErrLockTimeout.MsgErr("timed out waiting for lock on "+key, err)
	}
	return nil
}

// Release releases the lock for key. It must only be called after a
// successful Acquire for the same key.
func (l *KeyedLock) Release(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	l.mu.Unlock()
	if !ok {
		return
	}
	e.sem.Release(1)
	l.drop(key)
}

// drop decrements the refcount for key and forgets the entry once no
// holder or waiter references it, so the map does not grow with the
// set of keys ever seen.
func (l *KeyedLock) drop(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(l.entries, key)
	}
}
