package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/domain"
)

func TestParseChainTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"no zone treated as UTC", "2024-05-01T12:00:00", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"fractional seconds", "2024-05-01T12:00:00.500", time.Date(2024, 5, 1, 12, 0, 0, 500_000_000, time.UTC)},
		{"explicit Z", "2024-05-01T12:00:00Z", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"explicit offset", "2024-05-01T14:00:00+02:00", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		{"surrounding space", " 2024-05-01T12:00:00 ", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChainTime(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v got %v", tt.want, got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseChainTime_Invalid(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "2024-05-01", "12:00:00"} {
		_, err := ParseChainTime(raw)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}

func TestHeadBlockTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathGetInfo, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chain_id":"abc","head_block_num":42,"head_block_time":"2024-05-01T12:00:00.000"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 0)
	got, err := c.HeadBlockTime(context.Background())

	require.NoError(t, err)
	assert.True(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).Equal(got))
}

func TestHeadBlockTime_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).HeadBlockTime(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetworkOrIndexerLag)
	})

	t.Run("empty time", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"head_block_num":1}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).HeadBlockTime(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetworkOrIndexerLag)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewClient(url, 0).HeadBlockTime(context.Background())
		assert.ErrorIs(t, err, domain.ErrNetworkOrIndexerLag)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewClient("http://127.0.0.1:1", 1).HeadBlockTime(ctx)
		assert.Error(t, err)
	})
}
