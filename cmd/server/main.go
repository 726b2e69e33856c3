package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"authlander/internal/auth/handler"
	"authlander/internal/auth/service"
	apiuserStore "authlander/internal/auth/store/apiuser"
	scopeStore "authlander/internal/auth/store/scope"
	sessionStore "authlander/internal/auth/store/session"
	stateStore "authlander/internal/auth/store/state"
	userStore "authlander/internal/auth/store/user"
	httpapi "authlander/internal/http"
	"authlander/internal/idp"
	"authlander/internal/platform/config"
	"authlander/internal/platform/database"
	"authlander/internal/platform/httpserver"
	"authlander/internal/platform/logger"
	"authlander/internal/platform/metrics"
	platformRedis "authlander/internal/platform/redis"
	"authlander/internal/ratelimit"
	"authlander/pkg/platform/audit"
	"authlander/pkg/platform/tx"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	log := logger.New()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	m := metrics.New()
	auditor := audit.NewPublisher(audit.NewSlogSink(log), audit.WithAsyncBuffer(256))
	defer auditor.Close()

	provider := idp.New(cfg.Provider.ClientID, cfg.Provider.ClientSecret,
		idp.WithTimeout(cfg.Provider.Timeout))

	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditor(auditor),
		service.WithTxRunner(tx.NewRunner(db)),
		service.WithProviderConfig(service.ProviderConfig{
			ClientID:   cfg.Provider.ClientID,
			PublicHost: cfg.Provider.PublicHost,
		}),
	}
	if cfg.SessionTTL > 0 {
		svcOpts = append(svcOpts, service.WithSessionTTL(cfg.SessionTTL))
	}

	svc := service.New(
		stateStore.NewPostgres(db),
		userStore.NewPostgres(db),
		sessionStore.NewPostgres(db),
		apiuserStore.NewPostgres(db),
		scopeStore.NewPostgres(db),
		provider,
		svcOpts...,
	)

	var limiter ratelimit.Store = ratelimit.NewMemoryStore()
	redisClient, err := platformRedis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		limiter = ratelimit.NewRedisStore(redisClient.Client, "authlander")
	}

	router := httpapi.NewRouter(httpapi.Options{
		Auth:      handler.New(svc, log, m),
		Metrics:   m,
		DB:        db,
		Limiter:   limiter,
		RateLimit: cfg.RateLimit.Requests,
		RateSpan:  cfg.RateLimit.Window,
		Logger:    log,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting authlander", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWait)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Optional periodic sweep. Lazy on-read expiry stays the source of truth;
	// this only trims rows nobody will read again.
	if cfg.Server.SweepEvery > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.Server.SweepEvery)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if _, err := svc.SweepExpiredSessions(ctx); err != nil {
						log.Warn("session sweep failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
