package scorehttp

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/cors"
	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client address. Buckets idle
// longer than idleTTL are dropped once the table grows past pruneAt.
type clientLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	pruneAt int
	idleTTL time.Duration
	now     func() time.Time
}

type bucket struct {
	*rate.Limiter
	seen time.Time
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		pruneAt: 500,
		idleTTL: 10 * time.Minute,
		now:     time.Now,
	}
}

// Allow spends one token from key's bucket.
func (c *clientLimiter) Allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.buckets) >= c.pruneAt {
		c.prune(now)
	}
	b, ok := c.buckets[key]
	if !ok {
		b = &bucket{Limiter: rate.NewLimiter(c.limit, c.burst)}
		c.buckets[key] = b
	}
	b.seen = now
	return b.AllowN(now, 1)
}

func (c *clientLimiter) prune(now time.Time) {
	for key, b := range c.buckets {
		if now.Sub(b.seen) > c.idleTTL {
			delete(c.buckets, key)
		}
	}
}

// clientAddr strips the port chi's RealIP may or may not have left on
// RemoteAddr.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimitMiddleware answers 429 once a client address exceeds limit
// requests per second beyond burst.
func RateLimitMiddleware(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := newClientLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientAddr(r)) {
				writeError(w, http.StatusTooManyRequests, "rate_limited", http.StatusText(http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows GET from the configured origins. With no origins it
// adds no CORS headers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler
}
