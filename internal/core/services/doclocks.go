package services

import "sync"

// docLocks serialises work on one document id. Entries are dropped when
// their last holder unlocks.
type docLocks struct {
	mu    sync.Mutex
	locks map[string]*docLock
}

type docLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until id is free and returns the matching unlock.
func (d *docLocks) lock(id string) (unlock func()) {
	d.mu.Lock()
	if d.locks == nil {
		d.locks = make(map[string]*docLock)
	}
	l, ok := d.locks[id]
	if !ok {
		l = &docLock{}
		d.locks[id] = l
	}
	l.refs++
	d.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(d.locks, id)
		}
		d.mu.Unlock()
	}
}
