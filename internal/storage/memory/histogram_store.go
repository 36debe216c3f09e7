package memory

import (
	"context"
	"sync"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/storage"
)

// HistogramStore is an in-memory implementation of storage.HistogramStore.
type HistogramStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Histogram // keyed by batch_id
}

// NewHistogramStore creates a new in-memory histogram store.
func NewHistogramStore() *HistogramStore {
	return &HistogramStore{
		data: make(map[string]*domain.Histogram),
	}
}

// Insert adds the histogram for a batch. Returns ErrDuplicateKey if batch_id exists.
func (s *HistogramStore) Insert(_ context.Context, batchID string, h *domain.Histogram) error {
	if batchID == "" || h == nil || len(h.Bins) == 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[batchID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[batchID] = copyHistogram(h)
	return nil
}

// GetByBatchID retrieves the histogram for a batch. Returns ErrNotFound if not exists.
func (s *HistogramStore) GetByBatchID(_ context.Context, batchID string) (*domain.Histogram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, exists := s.data[batchID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyHistogram(h), nil
}

// copyHistogram deep-copies a histogram so callers cannot mutate stored state.
func copyHistogram(h *domain.Histogram) *domain.Histogram {
	copy := *h
	copy.Bins = make([]domain.Bin, len(h.Bins))
	for i, b := range h.Bins {
		copy.Bins[i] = b
	}
	return &copy
}

var _ storage.HistogramStore = (*HistogramStore)(nil)
