package journal

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/farmclock/internal/domain"
)

var testDBConnString string

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		testDBConnString, terminate = setupContainer(context.Background())
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

func setupContainer(ctx context.Context) (string, func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setupContainer: %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return "", func() {}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		pgContainer.Terminate(ctx)
		return "", func() {}
	}

	return connStr, func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}
}

func sampleEntry(t *testing.T, slot int, at time.Time) Entry {
	t.Helper()
	key := domain.NewSlotKey(domain.ActionWater, "plot-7", slot)
	return NewEntry(key, "farm-1", "water:plot-7:1", at)
}

// exerciseStore runs the same contract against any backend
func exerciseStore(t *testing.T, store Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Ping(ctx))

	first := sampleEntry(t, 0, base)
	second := sampleEntry(t, 1, base.Add(time.Second))
	require.NoError(t, store.Record(ctx, first))
	require.NoError(t, store.Record(ctx, second))

	entries, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "newest first")
	assert.Equal(t, "water-plot-7-1", entries[0].Key)
	assert.Equal(t, domain.OutcomeSubmitted, entries[0].Outcome)
	assert.Nil(t, entries[0].ResolvedAt)
	assert.True(t, second.CreatedAt.Equal(entries[0].CreatedAt))

	resolvedAt := base.Add(5 * time.Second)
	require.NoError(t, store.Resolve(ctx, first.ID, Resolution{
		Outcome: domain.OutcomeSucceeded,
		TxID:    "abc123",
		At:      resolvedAt,
	}))

	entries, err = store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, second.ID, entries[0].ID)

	entries, err = store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	got := entries[1]
	assert.Equal(t, domain.OutcomeSucceeded, got.Outcome)
	assert.Equal(t, "abc123", got.TxID)
	require.NotNil(t, got.ResolvedAt)
	assert.True(t, resolvedAt.Equal(*got.ResolvedAt))

	err = store.Resolve(ctx, NewEntry(domain.NewPlotKey(domain.ActionUnstake, "plot-7"), "", "", base).ID,
		Resolution{Outcome: domain.OutcomeFailed, At: base})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSQLiteStore_Memory(t *testing.T) {
	store, err := OpenSQLite(context.Background(), MemoryDSN)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStore_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	store, err := Open(ctx, SchemeSQLite+path)
	require.NoError(t, err)
	e := sampleEntry(t, 2, time.Now())
	require.NoError(t, store.Record(ctx, e))
	require.NoError(t, store.Close())

	// migrations are idempotent and data survives
	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)
}

func TestNewEntry_PlotLevelKey(t *testing.T) {
	e := NewEntry(domain.NewPlotKey(domain.ActionUnstake, "plot-9"), "farm-2", "", time.Now())

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "unstake-plot-9-plot", e.Key)
	assert.Equal(t, domain.PlotLevel, e.Slot)
	assert.Equal(t, "farm-2", e.FarmID)
	assert.Equal(t, "plot-9", e.PlotID)

	farmWide := NewEntry(domain.NewFarmKey(domain.ActionRecharge, "farm-2"), "farm-2", "recharge:farm-2", time.Now())
	assert.Equal(t, "recharge-farm-farm-2", farmWide.Key)
	assert.Empty(t, farmWide.PlotID)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultRecentLimit, clampLimit(0))
	assert.Equal(t, DefaultRecentLimit, clampLimit(-3))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxRecentLimit, clampLimit(MaxRecentLimit+1))
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testDBConnString == "" {
		t.Skip("Skipping integration test: database not available")
	}

	store, err := Open(context.Background(), testDBConnString)
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(*PostgresStore)
	require.True(t, ok)

	exerciseStore(t, store)
}
