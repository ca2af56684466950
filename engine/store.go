package engine

import (
	"sync"

	"github.com/grovetools/gitstatus/status"
)

// Update is broadcast to subscribers whenever the snapshot is replaced.
// A nil Snapshot means the snapshot was cleared (not a repository).
type Update struct {
	Snapshot *status.Snapshot
}

// Store holds the latest successfully parsed snapshot. It is thread-safe and
// supports pub/sub so push consumers (daemon stream, editor host) learn about
// replacements without polling.
type Store struct {
	mu          sync.RWMutex
	snapshot    *status.Snapshot
	subscribers map[chan Update]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		subscribers: make(map[chan Update]struct{}),
	}
}

// Get returns the current snapshot, or nil when absent. The returned value
// is never mutated after publication; callers may hold it indefinitely.
func (s *Store) Get() *status.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Set replaces the snapshot wholesale and notifies subscribers.
func (s *Store) Set(snap *status.Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.broadcastLocked(Update{Snapshot: snap})
	s.mu.Unlock()
}

// Clear drops the snapshot (confirmed non-repository) and notifies subscribers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.snapshot = nil
	s.broadcastLocked(Update{})
	s.mu.Unlock()
}

// Subscribe creates a new subscription channel for snapshot updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 16)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscribers, ch)
	close(ch)
}

// broadcastLocked sends the update to all subscribers without blocking, so a
// slow consumer cannot stall the engine.
func (s *Store) broadcastLocked(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
		}
	}
}
