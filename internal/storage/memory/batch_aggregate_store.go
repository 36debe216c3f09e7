package memory

import (
	"context"
	"sort"
	"sync"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/storage"
)

// BatchAggregateStore is an in-memory implementation of storage.BatchAggregateStore.
type BatchAggregateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.BatchAggregate // keyed by batch_id
}

// NewBatchAggregateStore creates a new in-memory batch aggregate store.
func NewBatchAggregateStore() *BatchAggregateStore {
	return &BatchAggregateStore{
		data: make(map[string]*domain.BatchAggregate),
	}
}

// Insert adds a new aggregate. Returns ErrDuplicateKey if batch_id exists.
func (s *BatchAggregateStore) Insert(_ context.Context, a *domain.BatchAggregate) error {
	if a == nil || a.BatchID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.BatchID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *a
	s.data[a.BatchID] = &copy
	return nil
}

// InsertBulk adds multiple aggregates atomically. Fails entire batch on any duplicate.
func (s *BatchAggregateStore) InsertBulk(_ context.Context, aggregates []*domain.BatchAggregate) error {
	if len(aggregates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Track keys in this batch to detect intra-batch duplicates
	batchKeys := make(map[string]struct{}, len(aggregates))

	// First pass: check for duplicates (existing + intra-batch)
	for _, a := range aggregates {
		if a == nil || a.BatchID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[a.BatchID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[a.BatchID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[a.BatchID] = struct{}{}
	}

	// Second pass: insert all
	for _, a := range aggregates {
		copy := *a
		s.data[a.BatchID] = &copy
	}

	return nil
}

// GetByID retrieves an aggregate by batch_id. Returns ErrNotFound if not exists.
func (s *BatchAggregateStore) GetByID(_ context.Context, batchID string) (*domain.BatchAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[batchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *a
	return &copy, nil
}

// GetAll retrieves all aggregates, ordered by starting bankroll ASC.
func (s *BatchAggregateStore) GetAll(_ context.Context) ([]*domain.BatchAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BatchAggregate, 0, len(s.data))
	for _, a := range s.data {
		copy := *a
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartingBankroll != result[j].StartingBankroll {
			return result[i].StartingBankroll < result[j].StartingBankroll
		}
		return result[i].BatchID < result[j].BatchID
	})

	return result, nil
}

var _ storage.BatchAggregateStore = (*BatchAggregateStore)(nil)
