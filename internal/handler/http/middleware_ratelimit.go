package http

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client address.
// A non-positive rate disables limiting altogether.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	limit rate.Limit
	burst int
	now   func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter returns a limiter allowing rps requests per second with
// the given burst for every distinct key.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Enabled reports whether the limiter rejects anything at all.
func (l *IPRateLimiter) Enabled() bool {
	return l.limit > 0
}

// Allow consumes one token from the bucket of key.
func (l *IPRateLimiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// RetryAfter is the time until one token is refilled.
func (l *IPRateLimiter) RetryAfter() time.Duration {
	if !l.Enabled() {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(l.limit))
}

// Sweep drops the buckets of keys not seen for idle and returns how many
// were removed.
func (l *IPRateLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked keys.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// rateLimit rejects requests of a client address that exhausted its bucket
// with 429 and a Retry-After header in whole seconds.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientAddress(r)
		if h.limiter.Allow(key) {
			next.ServeHTTP(w, r)
			return
		}

		logger.FromRequest(r).Warn().Str("client", key).Str("path", r.URL.Path).Msg("auth rate limit exceeded")

		seconds := int(math.Ceil(h.limiter.RetryAfter().Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
		h.writeError(w, r, ErrTooManyRequests)
	})
}

// clientAddress is the host part of the TCP peer address. Forwarding
// headers are ignored since they are client controlled.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
