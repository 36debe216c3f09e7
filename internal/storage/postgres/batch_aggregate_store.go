package postgres

import (
	"context"
	"fmt"

	"casino-ruin-lab/internal/domain"
	"casino-ruin-lab/internal/storage"
)

// BatchAggregateStore implements storage.BatchAggregateStore using PostgreSQL.
type BatchAggregateStore struct {
	pool *Pool
}

// NewBatchAggregateStore creates a new BatchAggregateStore.
func NewBatchAggregateStore(pool *Pool) *BatchAggregateStore {
	return &BatchAggregateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.BatchAggregateStore = (*BatchAggregateStore)(nil)

const insertAggregateQuery = `
	INSERT INTO batch_aggregates (
		batch_id,
		starting_bankroll, bet_amount, house_win_prob, rounds_per_trial, trial_count,
		ruin_count, survivor_count, ruin_probability,
		survivor_mean, survivor_median,
		survivor_p10, survivor_p25, survivor_p75, survivor_p90,
		survivor_min, survivor_max, survivor_stddev
	) VALUES (
		$1,
		$2, $3, $4, $5, $6,
		$7, $8, $9,
		$10, $11,
		$12, $13, $14, $15,
		$16, $17, $18
	)
`

const selectAggregateColumns = `
	batch_id,
	starting_bankroll, bet_amount, house_win_prob, rounds_per_trial, trial_count,
	ruin_count, survivor_count, ruin_probability,
	survivor_mean, survivor_median,
	survivor_p10, survivor_p25, survivor_p75, survivor_p90,
	survivor_min, survivor_max, survivor_stddev
`

// Insert adds a new aggregate. Returns ErrDuplicateKey if batch_id exists.
func (s *BatchAggregateStore) Insert(ctx context.Context, a *domain.BatchAggregate) error {
	_, err := s.pool.Exec(ctx, insertAggregateQuery,
		a.BatchID,
		a.StartingBankroll, a.BetAmount, a.HouseWinProb, a.RoundsPerTrial, a.TrialCount,
		a.RuinCount, a.SurvivorCount, a.RuinProbability,
		a.SurvivorMean, a.SurvivorMedian,
		a.SurvivorP10, a.SurvivorP25, a.SurvivorP75, a.SurvivorP90,
		a.SurvivorMin, a.SurvivorMax, a.SurvivorStddev,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert batch aggregate: %w", err)
	}
	return nil
}

// InsertBulk adds multiple aggregates atomically. Fails entire batch on any duplicate.
func (s *BatchAggregateStore) InsertBulk(ctx context.Context, aggregates []*domain.BatchAggregate) error {
	if len(aggregates) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range aggregates {
		_, err := tx.Exec(ctx, insertAggregateQuery,
			a.BatchID,
			a.StartingBankroll, a.BetAmount, a.HouseWinProb, a.RoundsPerTrial, a.TrialCount,
			a.RuinCount, a.SurvivorCount, a.RuinProbability,
			a.SurvivorMean, a.SurvivorMedian,
			a.SurvivorP10, a.SurvivorP25, a.SurvivorP75, a.SurvivorP90,
			a.SurvivorMin, a.SurvivorMax, a.SurvivorStddev,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert batch aggregate in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves an aggregate by batch_id. Returns ErrNotFound if not exists.
func (s *BatchAggregateStore) GetByID(ctx context.Context, batchID string) (*domain.BatchAggregate, error) {
	query := `SELECT ` + selectAggregateColumns + ` FROM batch_aggregates WHERE batch_id = $1`

	row := s.pool.QueryRow(ctx, query, batchID)

	a, err := scanAggregate(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get batch aggregate by id: %w", err)
	}
	return a, nil
}

// GetAll retrieves all aggregates, ordered by starting bankroll ASC.
func (s *BatchAggregateStore) GetAll(ctx context.Context) ([]*domain.BatchAggregate, error) {
	query := `SELECT ` + selectAggregateColumns + `
		FROM batch_aggregates
		ORDER BY starting_bankroll ASC, batch_id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query batch aggregates: %w", err)
	}
	defer rows.Close()

	var result []*domain.BatchAggregate
	for rows.Next() {
		a, err := scanAggregate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch aggregate: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch aggregates: %w", err)
	}

	return result, nil
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAggregate scans one batch_aggregates row.
func scanAggregate(row rowScanner) (*domain.BatchAggregate, error) {
	var a domain.BatchAggregate
	err := row.Scan(
		&a.BatchID,
		&a.StartingBankroll, &a.BetAmount, &a.HouseWinProb, &a.RoundsPerTrial, &a.TrialCount,
		&a.RuinCount, &a.SurvivorCount, &a.RuinProbability,
		&a.SurvivorMean, &a.SurvivorMedian,
		&a.SurvivorP10, &a.SurvivorP25, &a.SurvivorP75, &a.SurvivorP90,
		&a.SurvivorMin, &a.SurvivorMax, &a.SurvivorStddev,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
