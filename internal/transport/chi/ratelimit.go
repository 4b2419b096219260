package chi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yuan1108code/Fukui-LLM-Tourism/internal/domain"
)

// clientLimiter is a per-client token bucket with a last-seen timestamp for
// eviction.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterPool tracks per-client limiters. Stale entries are evicted lazily
// so the map cannot grow without bound.
type limiterPool struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

const limiterIdleEviction = 10 * time.Minute

func newLimiterPool(rps float64, burst int) *limiterPool {
	return &limiterPool{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

func (p *limiterPool) allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	cl, ok := p.clients[key]
	if !ok {
		for k, v := range p.clients {
			if now.Sub(v.lastSeen) > limiterIdleEviction {
				delete(p.clients, k)
			}
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(p.rps, p.burst)}
		p.clients[key] = cl
	}
	cl.lastSeen = now

	return cl.limiter.Allow()
}

// RateLimitMiddleware limits requests per client IP. Completion calls are
// expensive, so each caller gets a small token bucket. rps <= 0 disables
// limiting. Health and metrics are exempt.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		pool := newLimiterPool(rps, burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if !pool.allow(clientKey(r)) {
				writeError(w, http.StatusTooManyRequests, domain.CodeRateLimited, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller. RealIP middleware has already folded
// X-Forwarded-For into RemoteAddr by the time this runs.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
