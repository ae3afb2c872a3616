package drag

import (
	"sync"

	"github.com/thenoetrevino/pasoboard/internal/snapshot"
)

// Store owns the board snapshot shown to the user.
// Snapshots are immutable, so readers only need the pointer.
type Store struct {
	mu        sync.RWMutex
	current   *snapshot.Snapshot
	listeners []func(*snapshot.Snapshot)
}

// NewStore creates a store holding s
func NewStore(s *snapshot.Snapshot) *Store {
	return &Store{current: s}
}

// Current returns the snapshot currently shown
func (st *Store) Current() *snapshot.Snapshot {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// OnChange registers fn to be called after every replacement.
// fn runs on the goroutine that made the change.
func (st *Store) OnChange(fn func(*snapshot.Snapshot)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.listeners = append(st.listeners, fn)
}

// Restore puts back an earlier snapshot
func (st *Store) Restore(s *snapshot.Snapshot) {
	st.swap(s)
}

// ApplyRemote replaces the snapshot with one pushed by the server.
// The latest arrival wins.
func (st *Store) ApplyRemote(s *snapshot.Snapshot) {
	if s == nil {
		return
	}
	st.swap(s)
}

// swap installs next and notifies listeners
func (st *Store) swap(next *snapshot.Snapshot) {
	st.install(next)()
}

// install replaces the snapshot and returns the listener notification
// without running it, so callers holding their own locks can notify later
func (st *Store) install(next *snapshot.Snapshot) func() {
	st.mu.Lock()
	st.current = next
	listeners := st.listeners
	st.mu.Unlock()

	return func() { notify(listeners, next) }
}

func notify(listeners []func(*snapshot.Snapshot), s *snapshot.Snapshot) {
	for _, fn := range listeners {
		fn(s)
	}
}
