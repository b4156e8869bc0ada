package httpserver

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"drivent/internal/adapters/auth"
	"drivent/internal/adapters/observability"
)

// timeoutBody is what http.TimeoutHandler writes once d has elapsed.
const timeoutBody = `{"type":"about:blank","title":"Service Unavailable","status":503,"detail":"request timed out"}` + "\n"

func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		th := http.TimeoutHandler(next, d, timeoutBody)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			th.ServeHTTP(&timeoutWriter{ResponseWriter: w}, r)
		})
	}
}

// timeoutWriter labels the bare 503 written by http.TimeoutHandler as a
// problem document. Handler responses always carry their own Content-Type.
type timeoutWriter struct{ http.ResponseWriter }

func (w *timeoutWriter) WriteHeader(code int) {
	if code == http.StatusServiceUnavailable && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/problem+json")
	}
	w.ResponseWriter.WriteHeader(code)
}

// ---- status-recording ResponseWriter ----

type srw struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *srw) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *srw) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *srw) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// ---- Metrics middleware ----

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &srw{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		observability.ObserveHTTP(routePattern(r), r.Method, sw.Status(), time.Since(start))
	})
}

// ---- Structured logging middleware ----

func Logger(l zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &srw{ResponseWriter: w}
			next.ServeHTTP(sw, r)
			l.Info().
				Str("route", routePattern(r)).
				Str("method", r.Method).
				Int("status", sw.Status()).
				Dur("duration", time.Since(start)).
				Str("remote", remoteIP(r)).
				Str("ua", r.UserAgent()).
				Msg("http_request")
		})
	}
}

// Picks first X-Forwarded-For IP, else X-Real-IP, else RemoteAddr host.
// Client supplied; only fit for log fields.
func remoteIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// ---- Rate limiting middleware ----

// clientHost is the peer address of the connection. Forwarded headers only
// reach it when chimw.RealIP is mounted for a trusted proxy.
func clientHost(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// ClientLimiter keeps one token bucket per client IP. Buckets idle for
// longer than idleTTL are dropped on the next sweep.
type ClientLimiter struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

const idleTTL = 10 * time.Minute

func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst <= 0 {
		burst = int(rps) + 1
	}
	return &ClientLimiter{rps: rate.Limit(rps), burst: burst, clients: map[string]*clientBucket{}, lastSweep: time.Now()}
}

func (c *ClientLimiter) Allow(key string) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > idleTTL {
		for k, b := range c.clients {
			if now.Sub(b.seen) > idleTTL {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	b, ok := c.clients[key]
	if !ok {
		b = &clientBucket{lim: rate.NewLimiter(c.rps, c.burst)}
		c.clients[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

func RateLimit(c *ClientLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !c.Allow(clientHost(r)) {
				w.Header().Set("Retry-After", "1")
				writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ---- Authentication middleware ----

type ctxKey struct{}

// UserID returns the authenticated user placed in ctx by RequireUser.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ctxKey{}).(int64)
	return id, ok
}

func RequireUser(a *auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				if auth.IsUnauthorized(err) {
					log.Debug().Err(err).Str("remote", remoteIP(r)).Msg("request rejected")
					writeProblem(w, http.StatusUnauthorized, "Unauthorized", "a valid bearer token is required")
					return
				}
				log.Error().Err(err).Msg("authentication failed")
				writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}
