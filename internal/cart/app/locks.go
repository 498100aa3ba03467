package app

import "sync"

// sessionLocks hands out one mutex per session. Entries are dropped when the
// last holder unlocks.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{held: make(map[string]*sessionLock)}
}

// lock blocks until session is free and returns its unlock function.
func (l *sessionLocks) lock(session string) func() {
	l.mu.Lock()
	sl, ok := l.held[session]
	if !ok {
		sl = &sessionLock{}
		l.held[session] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		if sl.refs--; sl.refs == 0 {
			delete(l.held, session)
		}
		l.mu.Unlock()
	}
}

// lockPair locks two sessions in a fixed order so concurrent transfers in
// opposite directions cannot deadlock.
func (l *sessionLocks) lockPair(a, b string) func() {
	if b < a {
		a, b = b, a
	}
	unlockA := l.lock(a)
	unlockB := l.lock(b)
	return func() {
		unlockB()
		unlockA()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
