// Package keylock provides one mutex per string key.
//
// Entries are reference counted and dropped when the last holder or waiter
// releases them, so the map only holds keys that are currently contended.
package keylock

import "sync"

type Locker struct {
	mu    sync.Mutex
	byKey map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *Locker {
	return &Locker{byKey: make(map[string]*entry)}
}

// Lock blocks until key is held by the caller and returns the matching unlock.
// Different keys never block each other.
func (l *Locker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.byKey[key]
	if !ok {
		e = &entry{}
		l.byKey[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			l.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(l.byKey, key)
			}
			l.mu.Unlock()
		})
	}
}

// Len returns the number of keys currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byKey)
}
