package clickhouse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/storage"
)

func createTestHistogram() *domain.Histogram {
	return &domain.Histogram{
		Bins: []domain.Bin{
			{LowerBound: 25, UpperBound: 125, Count: 10},
			{LowerBound: 125, UpperBound: 225, Count: 42},
			{LowerBound: 225, UpperBound: 325, Count: 7},
		},
		Min:           25,
		Max:           325,
		BinWidth:      100,
		SurvivorCount: 59,
		MaxBinCount:   42,
	}
}

func TestHistogramStore_InsertAndGetByBatchID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewHistogramStore(conn)

	h := createTestHistogram()

	err := store.Insert(ctx, "batch-hist-001", h)
	require.NoError(t, err)

	retrieved, err := store.GetByBatchID(ctx, "batch-hist-001")
	require.NoError(t, err)

	require.Len(t, retrieved.Bins, len(h.Bins))
	for i, b := range h.Bins {
		assert.InDelta(t, b.LowerBound, retrieved.Bins[i].LowerBound, 0.0001)
		assert.InDelta(t, b.UpperBound, retrieved.Bins[i].UpperBound, 0.0001)
		assert.Equal(t, b.Count, retrieved.Bins[i].Count)
	}
	assert.InDelta(t, h.Min, retrieved.Min, 0.0001)
	assert.InDelta(t, h.Max, retrieved.Max, 0.0001)
	assert.InDelta(t, h.BinWidth, retrieved.BinWidth, 0.0001)
	assert.Equal(t, h.SurvivorCount, retrieved.SurvivorCount)
	assert.Equal(t, h.MaxBinCount, retrieved.MaxBinCount)
	assert.Equal(t, h.SurvivorCount, retrieved.TotalCount())
}

func TestHistogramStore_InsertDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewHistogramStore(conn)

	h := createTestHistogram()

	err := store.Insert(ctx, "batch-hist-dup", h)
	require.NoError(t, err)

	err = store.Insert(ctx, "batch-hist-dup", h)
	assert.True(t, errors.Is(err, storage.ErrDuplicateKey))
}

func TestHistogramStore_GetByBatchIDNotFound(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewHistogramStore(conn)

	_, err := store.GetByBatchID(ctx, "no-such-batch")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestHistogramStore_InsertInvalidInput(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewHistogramStore(conn)

	err := store.Insert(ctx, "", createTestHistogram())
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))

	err = store.Insert(ctx, "batch-x", nil)
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))

	err = store.Insert(ctx, "batch-x", &domain.Histogram{})
	assert.True(t, errors.Is(err, storage.ErrInvalidInput))
}
