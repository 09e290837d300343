package handler

import (
	"crypto/subtle"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gym-wars/internal/domain"
)

// AdminTokenHeader carries the shared admin secret.
const AdminTokenHeader = "X-Admin-Token"

// adminOnly rejects requests without the configured admin token before the
// body is read. An empty configured token rejects everything.
func (h *Handler) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tokenMatches(h.cfg.Admin.Token, r.Header.Get(AdminTokenHeader)) {
			h.metrics.AdminAuthFailure()
			h.logger.Warn("admin request rejected", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			h.writeError(w, r, domain.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func tokenMatches(secret, got string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(got)) == 1
}

// rateLimited throttles public form submissions per client IP. It is a
// pass-through when rate limiting is disabled.
func (h *Handler) rateLimited(next http.Handler) http.Handler {
	if h.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !h.limiter.GetLimiter(ip).Allow() {
			h.writeError(w, r, domain.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// cleanupThreshold is the minimum map size before a cleanup pass runs.
const cleanupThreshold = 500

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP and prunes idle
// entries inline.
type IPRateLimiter struct {
	mu      sync.Mutex
	ips     map[string]*ipEntry
	r       rate.Limit
	b       int
	maxIdle time.Duration
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int, maxIdle time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		ips:     make(map[string]*ipEntry),
		r:       r,
		b:       b,
		maxIdle: maxIdle,
	}
}

// GetLimiter returns the limiter for ip.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := time.Now()
	if len(i.ips) > cleanupThreshold {
		cutoff := now.Add(-i.maxIdle)
		for k, e := range i.ips {
			if e.lastSeen.Before(cutoff) {
				delete(i.ips, k)
			}
		}
	}

	e, exists := i.ips[ip]
	if !exists {
		e = &ipEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

// corsMiddleware adds CORS headers for allowed origins; "*" allows any.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := slices.Contains(allowedOrigins, "*")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origin != "" && slices.Contains(allowedOrigins, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Request-ID, "+AdminTokenHeader)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
