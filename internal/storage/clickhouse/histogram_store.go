package clickhouse

import (
	"context"
	"fmt"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/storage"
)

// HistogramStore implements storage.HistogramStore using ClickHouse.
// Histograms are stored one row per bin, keyed by (batch_id, bin_index).
type HistogramStore struct {
	conn *Conn
}

// NewHistogramStore creates a new HistogramStore.
func NewHistogramStore(conn *Conn) *HistogramStore {
	return &HistogramStore{conn: conn}
}

// Compile-time interface check.
var _ storage.HistogramStore = (*HistogramStore)(nil)

// Insert adds the histogram for a batch. Returns ErrDuplicateKey if batch_id exists.
func (s *HistogramStore) Insert(ctx context.Context, batchID string, h *domain.Histogram) error {
	if batchID == "" || h == nil || len(h.Bins) == 0 {
		return storage.ErrInvalidInput
	}

	// Check if exists (MergeTree does not enforce uniqueness, so we keep
	// append-only semantics with an explicit check)
	exists, err := s.exists(ctx, batchID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO histogram_bins (
			batch_id, bin_index, bin_count,
			lower_bound, upper_bound,
			hist_min, hist_max, bin_width, survivor_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, b := range h.Bins {
		err = batch.Append(
			batchID, uint32(i), uint64(b.Count),
			b.LowerBound, b.UpperBound,
			h.Min, h.Max, h.BinWidth, uint64(h.SurvivorCount),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByBatchID retrieves the histogram for a batch. Returns ErrNotFound if not exists.
func (s *HistogramStore) GetByBatchID(ctx context.Context, batchID string) (*domain.Histogram, error) {
	query := `
		SELECT
			bin_index, bin_count,
			lower_bound, upper_bound,
			hist_min, hist_max, bin_width, survivor_count
		FROM histogram_bins FINAL
		WHERE batch_id = ?
		ORDER BY bin_index ASC
	`

	rows, err := s.conn.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("query histogram: %w", err)
	}
	defer rows.Close()

	var h domain.Histogram
	for rows.Next() {
		var (
			binIndex      uint32
			binCount      uint64
			survivorCount uint64
			b             domain.Bin
		)
		err := rows.Scan(
			&binIndex, &binCount,
			&b.LowerBound, &b.UpperBound,
			&h.Min, &h.Max, &h.BinWidth, &survivorCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan histogram row: %w", err)
		}
		b.Count = int(binCount)
		if b.Count > h.MaxBinCount {
			h.MaxBinCount = b.Count
		}
		h.SurvivorCount = int(survivorCount)
		h.Bins = append(h.Bins, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate histogram rows: %w", err)
	}

	if len(h.Bins) == 0 {
		return nil, storage.ErrNotFound
	}

	return &h, nil
}

// exists checks if any histogram rows exist for the batch.
func (s *HistogramStore) exists(ctx context.Context, batchID string) (bool, error) {
	query := `SELECT count(*) FROM histogram_bins FINAL WHERE batch_id = ?`

	var count uint64
	err := s.conn.QueryRow(ctx, query, batchID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
