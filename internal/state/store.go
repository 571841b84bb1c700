package state

import (
	"fmt"
	"sync"
	"time"
)

// Digest identifies log contents.
type Digest [32]byte

// Snapshot is the latest followed log contents available to the viewer.
type Snapshot struct {
	Raw                 []byte
	Digest              Digest
	Version             uint64 // incremented each time the contents change
	LastUpdated         time.Time
	LastChanged         time.Time
	LastError           error
	ConsecutiveFailures int
}

// HasData reports whether a read has ever succeeded.
func (s Snapshot) HasData() bool {
	return s.Version > 0
}

// IsOffline returns true when the log has been unreadable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records the result of one read. When err is non-nil the previous
// contents are kept and the failure is counted. Otherwise the contents are
// replaced and Version advances only if digest differs from the stored one.
// It reports whether the contents changed.
func (s *Store) Update(raw []byte, digest Digest, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.snapshot.LastUpdated = now

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return false
	}

	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0

	if s.snapshot.Version > 0 && digest == s.snapshot.Digest {
		return false
	}
	s.snapshot.Raw = cloneBytes(raw)
	s.snapshot.Digest = digest
	s.snapshot.Version++
	s.snapshot.LastChanged = now
	return true
}

// Version returns the current content version without copying the contents.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Version
}

// Status returns the current snapshot without its contents.
func (s *Store) Status() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Raw = nil
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Raw = cloneBytes(s.snapshot.Raw)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
