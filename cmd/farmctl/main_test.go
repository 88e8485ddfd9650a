package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/growth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMemoFixed(t *testing.T) {
	out, err := run(t, "memo", "fixed", "1.5")
	require.NoError(t, err)
	assert.Equal(t, "15000\n", out)

	out, err = run(t, "memo", "fixed", "--precision", "2", "0.019")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out, "excess digits round up")
}

func TestMemoAsset(t *testing.T) {
	out, err := run(t, "memo", "asset", "--symbol", "FWG", "12")
	require.NoError(t, err)
	assert.Equal(t, "12.0000 FWG\n", out)
}

func TestMemoFixed_Invalid(t *testing.T) {
	_, err := run(t, "memo", "fixed", "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMemoPropose(t *testing.T) {
	out, err := run(t, "memo", "propose",
		"--actor", "alice", "--collection", "farmclock", "--template", "1234",
		"--fee", "10", "--reward", "0.5", "--cap", "100")
	require.NoError(t, err)
	assert.Equal(t, "propose:alice:farmclock:1234:100000:5000:100\n", out)
}

func TestMemoPropose_MissingFlag(t *testing.T) {
	_, err := run(t, "memo", "propose", "--actor", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestClock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"head_block_num": 7, "head_block_time": "2024-05-01T12:00:00.500"}`))
	}))
	defer srv.Close()

	out, err := run(t, "clock", "--rpc", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "chain time: 2024-05-01T12:00:00Z")
	assert.Contains(t, out, "skew:")
}

func TestSlots_RequiresFarm(t *testing.T) {
	_, err := run(t, "slots")
	require.Error(t, err)
}

func TestRenderSlots(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	plots := []domain.Plot{{
		ID: "plot-1",
		Slots: []domain.Slot{
			{Index: 0},
			{Index: 1, SeedTemplateID: "77", Tick: 1, TickGoal: 3, SecondsPerTick: 3600, LastAction: now.Add(-30 * time.Minute)},
			{Index: 2, SeedTemplateID: "77", Tick: 3, TickGoal: 3},
		},
	}}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)

	require.NoError(t, renderSlots(root, plots, growth.Context{Now: now, SeedsAvailable: 1}))

	text := out.String()
	assert.Contains(t, text, "EMPTY")
	assert.Contains(t, text, "plant")
	assert.Contains(t, text, "30:00")
	assert.Contains(t, text, "harvest")
}
