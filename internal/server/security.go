package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/farmclock/internal/logger"
)

// AuthMiddleware validates the API key on every non-public path. An empty
// apiKey disables the check.
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range PublicPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)
				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed, "path", r.URL.Path, "ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SuspiciousActivityDetector rate-limits clients per IP and alerts on
// repeated failed authentication
type SuspiciousActivityDetector struct {
	mu             sync.Mutex
	limit          rate.Limit
	burst          int
	limiters       map[string]*rate.Limiter
	failedAuthByIP map[string]int
	lastResetTime  time.Time
	now            func() time.Time
}

// NewSuspiciousActivityDetector allows rps requests per second per IP with the given burst
func NewSuspiciousActivityDetector(rps float64, burst int) *SuspiciousActivityDetector {
	if rps <= 0 {
		rps = DefaultRequestsPerSec
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &SuspiciousActivityDetector{
		limit:          rate.Limit(rps),
		burst:          burst,
		limiters:       make(map[string]*rate.Limiter),
		failedAuthByIP: make(map[string]int),
		lastResetTime:  time.Now(),
		now:            time.Now,
	}
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetIfNeeded()
	s.failedAuthByIP[ip]++

	if s.failedAuthByIP[ip] >= FailedAuthAlertAt {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", s.failedAuthByIP[ip])
	}
}

// Allow reports whether ip may make another request now
func (s *SuspiciousActivityDetector) Allow(ip string) bool {
	s.mu.Lock()
	s.resetIfNeeded()
	lim, ok := s.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(s.limit, s.burst)
		s.limiters[ip] = lim
	}
	now := s.now()
	s.mu.Unlock()

	if !lim.AllowN(now, 1) {
		slog.Warn(SecurityAlertHighRate, "ip", ip)
		return false
	}
	return true
}

// resetIfNeeded forgets idle clients once per window. Caller must hold the mutex.
func (s *SuspiciousActivityDetector) resetIfNeeded() {
	if s.now().Sub(s.lastResetTime) > detectorWindow {
		s.limiters = make(map[string]*rate.Limiter)
		s.failedAuthByIP = make(map[string]int)
		s.lastResetTime = s.now()
	}
}

// RateLimitMiddleware rejects clients that exceed their per-IP rate
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.Allow(extractIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	for _, proxy := range trustedProxies {
		if proxy != remoteIP {
			continue
		}
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// rightmost entry is the hop our proxy saw
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
		break
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
