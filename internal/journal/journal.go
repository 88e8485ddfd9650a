// Package journal persists a record of every wallet submission and its outcome.
package journal

import (
	"context"
	"embed"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/farmclock/internal/domain"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// ErrEntryNotFound is returned by Resolve for an unknown id
var ErrEntryNotFound = errors.New(ErrMsgEntryNotFound)

// Entry is one submission
type Entry struct {
	ID         string     `json:"id"`
	Key        string     `json:"key"`
	Action     string     `json:"action"`
	FarmID     string     `json:"farm_id,omitempty"`
	PlotID     string     `json:"plot_id,omitempty"`
	Slot       int        `json:"slot"`
	Memo       string     `json:"memo,omitempty"`
	TxID       string     `json:"tx_id,omitempty"`
	Outcome    string     `json:"outcome"`
	Message    string     `json:"message,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// NewEntry creates a submitted entry for key
func NewEntry(key domain.ActionKey, farmID, memo string, now time.Time) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Key:       key.String(),
		Action:    string(key.Action),
		FarmID:    farmID,
		PlotID:    key.PlotID(),
		Slot:      key.SlotIndex,
		Memo:      memo,
		Outcome:   domain.OutcomeSubmitted,
		CreatedAt: now.UTC(),
	}
}

// Resolution is the final state of an entry
type Resolution struct {
	Outcome string
	TxID    string
	Message string
	At      time.Time
}

// Store persists journal entries
type Store interface {
	Record(ctx context.Context, e Entry) error
	Resolve(ctx context.Context, id string, r Resolution) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open picks a backend from dsn: postgres:// or postgresql:// URLs use
// PostgreSQL, anything else is a SQLite path (optionally sqlite://-prefixed).
// Migrations are applied before returning.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, SchemePostgres), strings.HasPrefix(dsn, SchemePostgreSQL):
		return OpenPostgres(ctx, dsn)
	default:
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, SchemeSQLite))
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		return MaxRecentLimit
	}
	return limit
}
