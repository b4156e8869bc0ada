package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"drivent/internal/adapters/auth"
	server "drivent/internal/adapters/http_server"
	"drivent/internal/adapters/observability"
	redisad "drivent/internal/adapters/redis"
	"drivent/internal/app"
	"drivent/internal/shared"
	mysqlrepo "drivent/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// db
	db, err := sqlx.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sqlx.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer sessions.Close()
	if err := sessions.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	log.Info().Msg("session store connection ok")

	// deps
	repo := mysqlrepo.New(db)
	hotels := app.NewHotelService(repo, repo, repo)
	authn, err := auth.New([]byte(cfg.JWTSecret), sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET must be set")
	}

	// http
	srv := server.New(server.Options{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		TrustProxy:     cfg.TrustProxy,
	})
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Hotels: hotels, Auth: authn})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: cfg.RequestTimeout}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error { return observability.Serve(gctx, cfg.MetricsAddr, reg) })
	}

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("bye")
}
