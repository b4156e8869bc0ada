package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "drivent", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drivent", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	HotelAccess = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "drivent", Name: "hotel_access_total", Help: "Hotel access decisions."},
		[]string{"operation", "outcome"}, // outcome: granted|not_found|payment_required|error
	)
	DBQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "drivent", Name: "db_queries_total", Help: "Database lookups."},
		[]string{"query", "result"},
	)
	DBLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "drivent", Name: "db_query_duration_seconds",
			Help:    "Database lookup duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
	SessionLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "drivent", Name: "session_lookups_total", Help: "Session store lookups."},
		[]string{"result"}, // result: hit|miss|error
	)
)

// Serve exposes reg on a dedicated listener until ctx is cancelled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, HotelAccess, DBQueries, DBLatency, SessionLookups)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveAccess(operation, outcome string) {
	HotelAccess.WithLabelValues(operation, outcome).Inc()
}

func ObserveDB(query string, err error, dur time.Duration) {
	DBQueries.WithLabelValues(query, LabelErr(err)).Inc()
	DBLatency.WithLabelValues(query).Observe(dur.Seconds())
}

func ObserveSession(result string) { // result: hit|miss|error
	SessionLookups.WithLabelValues(result).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
