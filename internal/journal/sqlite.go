package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/osse101/farmclock/internal/logger"
)

// SQLiteStore keeps the journal in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the journal at path. Use ":memory:" for a
// throwaway store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = MemoryDSN
	}
	dsn := path
	if path != MemoryDSN {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}
	// one writer; also keeps a :memory: database alive across calls
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPing, err)
	}
	if err := migrate(ctx, db, goose.DialectSQLite3, migrationsDirSQLite); err != nil {
		db.Close()
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgJournalOpened, "backend", "sqlite", "path", path)
	return &SQLiteStore{db: db}, nil
}

// Record inserts e
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	var resolved sql.NullInt64
	if e.ResolvedAt != nil {
		resolved = sql.NullInt64{Int64: e.ResolvedAt.UnixMilli(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries
			(id, action_key, action, farm_id, plot_id, slot, memo, tx_id, outcome, message, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Key, e.Action, e.FarmID, e.PlotID, e.Slot, e.Memo, e.TxID, e.Outcome, e.Message,
		e.CreatedAt.UnixMilli(), resolved)
	if err != nil {
		return fmt.Errorf("failed to record journal entry: %w", err)
	}
	return nil
}

// Resolve stores the final outcome of an entry
func (s *SQLiteStore) Resolve(ctx context.Context, id string, r Resolution) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE journal_entries SET outcome = ?, tx_id = ?, message = ?, resolved_at = ?
		WHERE id = ?`,
		r.Outcome, r.TxID, r.Message, r.At.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("failed to resolve journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to resolve journal entry: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return nil
}

// Recent returns the newest entries first
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action_key, action, farm_id, plot_id, slot, memo, tx_id, outcome, message, created_at, resolved_at
		FROM journal_entries
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e        Entry
			created  int64
			resolved sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Key, &e.Action, &e.FarmID, &e.PlotID, &e.Slot, &e.Memo,
			&e.TxID, &e.Outcome, &e.Message, &created, &resolved); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		if resolved.Valid {
			t := time.UnixMilli(resolved.Int64).UTC()
			e.ResolvedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Ping checks the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
