package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Options struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64 // <= 0 disables rate limiting
	RateLimitBurst int
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool
}

type Server struct{ mux *chi.Mux }

func New(opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 15 * time.Second
	}
	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	if opts.TrustProxy {
		m.Use(chimw.RealIP)
	}
	m.Use(chimw.RequestID)
	// Metrics and Logger wrap Timeout so they record the status the client got.
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	m.Use(chimw.Recoverer)
	m.Use(Timeout(opts.RequestTimeout))
	if opts.RateLimitRPS > 0 {
		m.Use(RateLimit(NewClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst)))
	}

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
