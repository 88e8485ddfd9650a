package journal

import "time"

// Defaults
const (
	DefaultRecentLimit = 50
	MaxRecentLimit     = 500

	DefaultMaxConns        = 4
	DefaultMinConns        = 1
	DefaultMaxConnIdleTime = 5 * time.Minute
	DefaultMaxConnLifetime = 30 * time.Minute
)

// DSN prefixes selecting the backend
const (
	SchemePostgres   = "postgres://"
	SchemePostgreSQL = "postgresql://"
	SchemeSQLite     = "sqlite://"
	MemoryDSN        = ":memory:"
)

// Migration directories inside the embedded filesystem
const (
	migrationsDirSQLite   = "migrations/sqlite"
	migrationsDirPostgres = "migrations/postgres"
)

// Error messages
const (
	ErrMsgEntryNotFound        = "journal entry not found"
	ErrMsgFailedToOpen         = "failed to open journal"
	ErrMsgFailedToMigrate      = "failed to migrate journal"
	ErrMsgFailedToParseConnStr = "failed to parse connection string"
	ErrMsgFailedToCreatePool   = "failed to create connection pool"
	ErrMsgFailedToPing         = "failed to ping database"
)

// Log messages
const (
	LogMsgJournalOpened   = "Journal opened"
	LogMsgMigrationsApply = "Applied journal migrations"
)
