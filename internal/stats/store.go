// File: internal/stats/store.go
// Package stats publishes engine counter snapshots to an external store.
// Publishing is best effort: failures are logged and never reach the loop.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package stats

import (
	"context"
	"sync"
	"time"

	"github.com/momentics/hioload-fix/api"
)

// Snapshot is one sample of engine counters.
type Snapshot struct {
	Node  string
	At    time.Time
	Stats api.Stats
}

// Store persists snapshots.
type Store interface {
	Record(ctx context.Context, snap Snapshot) error
}

// MemoryStore keeps the latest snapshot per node in process memory. fixserver
// uses it when no Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	latest  map[string]Snapshot
	records int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{latest: make(map[string]Snapshot)}
}

// Record replaces the node's latest snapshot. It never fails.
func (s *MemoryStore) Record(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[snap.Node] = snap
	s.records++
	return nil
}

// Latest returns the last snapshot recorded for node.
func (s *MemoryStore) Latest(node string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.latest[node]
	return snap, ok
}

// Records returns how many snapshots were recorded in total.
func (s *MemoryStore) Records() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records
}
