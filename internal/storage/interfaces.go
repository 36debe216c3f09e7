package storage

import (
	"context"

	"casino-ruin-lab/internal/domain"
)

// BatchAggregateStore provides access to batch_aggregates storage.
// Raw trial outcomes are never persisted; one aggregate row per batch.
type BatchAggregateStore interface {
	// Insert adds a new aggregate. Returns ErrDuplicateKey if batch_id exists.
	Insert(ctx context.Context, a *domain.BatchAggregate) error

	// InsertBulk adds multiple aggregates atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, aggregates []*domain.BatchAggregate) error

	// GetByID retrieves an aggregate by batch_id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, batchID string) (*domain.BatchAggregate, error)

	// GetAll retrieves all aggregates, ordered by starting bankroll ASC.
	GetAll(ctx context.Context) ([]*domain.BatchAggregate, error)
}

// HistogramStore provides access to histogram storage, one histogram per batch.
type HistogramStore interface {
	// Insert adds the histogram for a batch. Returns ErrDuplicateKey if batch_id exists.
	Insert(ctx context.Context, batchID string, h *domain.Histogram) error

	// GetByBatchID retrieves the histogram for a batch. Returns ErrNotFound if not exists.
	GetByBatchID(ctx context.Context, batchID string) (*domain.Histogram, error)
}
