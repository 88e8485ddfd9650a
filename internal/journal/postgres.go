package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/osse101/farmclock/internal/logger"
)

// PostgresStore keeps the journal in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPool creates a pgx connection pool with the journal's pool settings
func NewPool(ctx context.Context, connString string, maxConns int32) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnStr, err)
	}

	if maxConns <= 0 {
		maxConns = DefaultMaxConns
	}
	config.MaxConns = maxConns
	config.MinConns = DefaultMinConns
	config.MaxConnIdleTime = DefaultMaxConnIdleTime
	config.MaxConnLifetime = DefaultMaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPing, err)
	}
	return pool, nil
}

// OpenPostgres connects, migrates and returns a store
func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := NewPool(ctx, connString, DefaultMaxConns)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDBFromPool(pool)
	err = migrate(ctx, db, goose.DialectPostgres, migrationsDirPostgres)
	db.Close()
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgJournalOpened, "backend", "postgres")
	return &PostgresStore{pool: pool}, nil
}

// Record inserts e
func (s *PostgresStore) Record(ctx context.Context, e Entry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO journal_entries
			(id, action_key, action, farm_id, plot_id, slot, memo, tx_id, outcome, message, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		e.ID, e.Key, e.Action, e.FarmID, e.PlotID, e.Slot, e.Memo, e.TxID, e.Outcome, e.Message,
		e.CreatedAt, e.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

// Resolve stores the final outcome of an entry
func (s *PostgresStore) Resolve(ctx context.Context, id string, r Resolution) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE journal_entries SET outcome = $1, tx_id = $2, message = $3, resolved_at = $4
		WHERE id = $5`,
		r.Outcome, r.TxID, r.Message, r.At.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return nil
}

// Recent returns the newest entries first
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, action_key, action, farm_id, plot_id, slot, memo, tx_id, outcome, message, created_at, resolved_at
		FROM journal_entries
		ORDER BY created_at DESC
		LIMIT $1`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		err := row.Scan(&e.ID, &e.Key, &e.Action, &e.FarmID, &e.PlotID, &e.Slot, &e.Memo,
			&e.TxID, &e.Outcome, &e.Message, &e.CreatedAt, &e.ResolvedAt)
		e.CreatedAt = e.CreatedAt.UTC()
		if e.ResolvedAt != nil {
			t := e.ResolvedAt.UTC()
			e.ResolvedAt = &t
		}
		return e, err
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	return entries, nil
}

// Ping checks the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
