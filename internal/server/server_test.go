package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/farmclock/internal/chainclock"
	"github.com/osse101/farmclock/internal/domain"
	"github.com/osse101/farmclock/internal/farm"
	"github.com/osse101/farmclock/internal/handler"
	"github.com/osse101/farmclock/internal/journal"
)

type stubFarm struct {
	pending []domain.ActionKey
}

func (s *stubFarm) Execute(ctx context.Context, req farm.ActionRequest) (*farm.Outcome, error) {
	return &farm.Outcome{Action: string(req.Action), Outcome: domain.OutcomeSucceeded}, nil
}

func (s *stubFarm) Farm(ctx context.Context, farmID string) (*farm.FarmView, error) {
	return &farm.FarmView{FarmID: farmID}, nil
}

func (s *stubFarm) Pending() []domain.ActionKey { return s.pending }

func (s *stubFarm) Journal(ctx context.Context, limit int) ([]journal.Entry, error) {
	return nil, nil
}

func (s *stubFarm) Shutdown(ctx context.Context) error { return nil }

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

type syncedClock struct{}

func (syncedClock) Refresh(ctx context.Context) error { return nil }

func (syncedClock) Status() chainclock.Status {
	return chainclock.Status{Now: time.Unix(1700000000, 0), Synced: true}
}

func testRouter(opts Options) http.Handler {
	return NewRouter(opts, Deps{
		Farm:           &stubFarm{},
		Clock:          syncedClock{},
		Journal:        okPinger{},
		TokenSymbol:    "FWG",
		TokenPrecision: 4,
	})
}

func do(h http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Routes(t *testing.T) {
	h := testRouter(Options{})

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/readyz", http.StatusOK},
		{http.MethodGet, "/version", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/v1/clock", http.StatusOK},
		{http.MethodGet, "/api/v1/pending", http.StatusOK},
		{http.MethodGet, "/api/v1/journal", http.StatusOK},
		{http.MethodGet, "/api/v1/farms/farm-1/plots", http.StatusOK},
		{http.MethodGet, "/api/v1/events", http.StatusNotFound},
		{http.MethodPost, "/api/v1/admin/clock/refresh", http.StatusOK},
		{http.MethodGet, "/api/v1/admin/sse", http.StatusNotFound},
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{http.MethodGet, "/api/v1/actions/water", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(h, tt.method, tt.path, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRouter_JSONErrors(t *testing.T) {
	h := testRouter(Options{})

	rec := do(h, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"`+handler.ErrMsgNotFoundError+`"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/v1/actions/water", nil)
	assert.JSONEq(t, `{"error":"`+handler.ErrMsgMethodNotAllowed+`"}`, rec.Body.String())
}

func TestSecurityHeaders(t *testing.T) {
	rec := do(testRouter(Options{}), http.MethodGet, "/healthz", nil)

	assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
	assert.Equal(t, HeaderValueSameOrigin, rec.Header().Get(HeaderFrameOptions))
	assert.Equal(t, HeaderValueReferrerStrictOrigin, rec.Header().Get(HeaderReferrerPolicy))
}

func TestAuthMiddleware(t *testing.T) {
	h := testRouter(Options{APIKey: "s3cret"})

	t.Run("public path needs no key", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", nil).Code)
		assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/version", nil).Code)
	})

	t.Run("missing key", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/v1/clock", nil).Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/api/v1/clock", map[string]string{HeaderAPIKey: "guess"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid key", func(t *testing.T) {
		rec := do(h, http.MethodGet, "/api/v1/clock", map[string]string{HeaderAPIKey: "s3cret"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("disabled without key", func(t *testing.T) {
		open := testRouter(Options{})
		assert.Equal(t, http.StatusOK, do(open, http.MethodGet, "/api/v1/clock", nil).Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	h := testRouter(Options{RateLimit: 1, Burst: 2})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/healthz", nil).Code)
}

func TestSuspiciousActivityDetector_PerIPAndReset(t *testing.T) {
	now := time.Unix(1700000000, 0)
	d := NewSuspiciousActivityDetector(1, 1)
	d.now = func() time.Time { return now }
	d.lastResetTime = now

	assert.True(t, d.Allow("1.1.1.1"))
	assert.False(t, d.Allow("1.1.1.1"))
	assert.True(t, d.Allow("2.2.2.2"), "limits are per client")

	now = now.Add(detectorWindow + time.Second)
	assert.True(t, d.Allow("1.1.1.1"))
	assert.Len(t, d.limiters, 1, "idle clients are forgotten after the window")
}

func TestSuspiciousActivityDetector_Defaults(t *testing.T) {
	d := NewSuspiciousActivityDetector(0, 0)
	assert.Equal(t, DefaultBurst, d.burst)
	assert.InDelta(t, DefaultRequestsPerSec, float64(d.limit), 1e-9)
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		trusted   []string
		want      string
	}{
		{"direct", "203.0.113.5:4000", "", nil, "203.0.113.5"},
		{"untrusted forwarder ignored", "203.0.113.5:4000", "6.6.6.6", nil, "203.0.113.5"},
		{"trusted proxy", "10.0.0.1:4000", "6.6.6.6, 198.51.100.7", []string{"10.0.0.1"}, "198.51.100.7"},
		{"trusted proxy without header", "10.0.0.1:4000", "", []string{"10.0.0.1"}, "10.0.0.1"},
		{"no port", "203.0.113.5", "", nil, "203.0.113.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set(HeaderForwardedFor, tt.forwarded)
			}
			assert.Equal(t, tt.want, extractIP(req, tt.trusted))
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	var readErr error
	h := RequestSizeLimitMiddleware(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		_, readErr = r.Body.Read(buf)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789abcdef"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var maxErr *http.MaxBytesError
	require.ErrorAs(t, readErr, &maxErr)
}

func TestLoggingMiddleware_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	do(h, http.MethodGet, "/api/v1/clock", map[string]string{
		HeaderAPIKey:        "s3cret",
		HeaderAuthorization: "Bearer token",
	})

	out := buf.String()
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "Bearer token")
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "status=418")
}

func TestLoggingMiddleware_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	do(h, http.MethodGet, "/healthz", nil)
	do(h, http.MethodGet, "/metrics", nil)

	assert.Empty(t, buf.String())
}

func TestResponseWriter_Flush(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	_, err := rw.Write([]byte("data: x\n\n"))
	require.NoError(t, err)
	rw.Flush()

	assert.True(t, rec.Flushed)
	assert.Equal(t, rec, rw.Unwrap())
}
