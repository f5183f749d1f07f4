package answerstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
)

type memoryRecord struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory storage port for tests/dev.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory. A zero ttl
// keeps records forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get implements funnel.StoragePort.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !record.expiresAt.IsZero() && record.expiresAt.Before(s.now()) {
		s.mu.Lock()
		delete(s.records, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return record.value, true, nil
}

// Set implements funnel.StoragePort.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.records[key] = memoryRecord{value: value, expiresAt: exp}
	return nil
}

// Delete implements funnel.StoragePort.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Len returns the number of stored keys, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ funnel.StoragePort = (*MemoryStore)(nil)
