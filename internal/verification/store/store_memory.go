// Package store persists submission records. Stores return sentinel errors
// for infrastructure facts; services translate them at the boundary.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"attest/internal/verification"
	"attest/pkg/platform/sentinel"
)

// InMemorySubmissionStore keeps submission records in memory for tests/dev.
type InMemorySubmissionStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*verification.SubmissionRecord
}

// NewMemory constructs an empty in-memory submission store.
func NewMemory() *InMemorySubmissionStore {
	return &InMemorySubmissionStore{
		records: make(map[uuid.UUID]*verification.SubmissionRecord),
	}
}

func (s *InMemorySubmissionStore) Save(_ context.Context, record *verification.SubmissionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *InMemorySubmissionStore) FindByID(_ context.Context, id uuid.UUID) (*verification.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.records[id]; ok {
		clone := *record
		return &clone, nil
	}
	return nil, fmt.Errorf("submission %s: %w", id, sentinel.ErrNotFound)
}

func (s *InMemorySubmissionStore) ListByUser(_ context.Context, userID string, limit int) ([]*verification.SubmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*verification.SubmissionRecord, 0)
	for _, record := range s.records {
		if record.UserID == userID {
			clone := *record
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
