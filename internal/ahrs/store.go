package ahrs

import "sync"

// Store holds the latest snapshot, capabilities and availability under one
// lock. It is held only to copy values in or out, never across I/O.
type Store struct {
	mu        sync.RWMutex
	snap      Snapshot
	caps      Capabilities
	available bool
}

// Publish replaces the snapshot and marks the source available.
func (s *Store) Publish(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.available = true
	s.mu.Unlock()
}

func (s *Store) SetCapabilities(caps Capabilities) {
	s.mu.Lock()
	s.caps = caps
	s.mu.Unlock()
}

// Read returns a consistent copy of everything the store holds.
func (s *Store) Read() (Snapshot, Capabilities, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.caps, s.available
}

func (s *Store) Snapshot() Snapshot {
	snap, _, _ := s.Read()
	return snap
}

func (s *Store) Capabilities() Capabilities {
	_, caps, _ := s.Read()
	return caps
}

func (s *Store) Available() bool {
	_, _, ok := s.Read()
	return ok
}
