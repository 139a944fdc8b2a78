package engine

import "sync"

// sessionLocks provides a non-blocking per-key mutex. A mutating operation
// must acquire the session's lock before touching it; a failed acquire
// means another operation is in flight.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

// tryAcquire attempts to take the lock for key without blocking. It
// returns a release func on success, nil when the lock is already held.
func (l *sessionLocks) tryAcquire(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil
	}
	return m.Unlock
}
