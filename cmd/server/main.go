package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/orderledger/internal/adapter/http"
	"github.com/iho/orderledger/internal/adapter/http/handler"
	"github.com/iho/orderledger/internal/adapter/http/middleware"
	"github.com/iho/orderledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/orderledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/orderledger/internal/adapter/repository/redis"
	"github.com/iho/orderledger/internal/infrastructure/auth"
	"github.com/iho/orderledger/internal/infrastructure/config"
	"github.com/iho/orderledger/internal/infrastructure/logger"
	"github.com/iho/orderledger/internal/infrastructure/metrics"
	"github.com/iho/orderledger/internal/infrastructure/postgres"
	"github.com/iho/orderledger/internal/infrastructure/redis"
	"github.com/iho/orderledger/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 10 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// app is the wired service and the resources it owns.
type app struct {
	handler     http.Handler
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
	if err != nil {
		return err
	}
	defer a.Close()

	go cleanupLimiters(ctx, a.rateLimiter, limiterCleanupInterval, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("backend", cfg.StorageBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

// newApp connects the configured backends and builds the HTTP handler.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg prometheus.Registerer, gatherer prometheus.Gatherer) (*app, error) {
	a := &app{}

	m := metrics.New(reg)
	deps := usecase.Dependencies{
		StoreCacheTTL: cfg.StoreCacheTTL,
		Metrics:       m,
		Logger:        log,
		Limits:        cfg.Limits(),
	}

	var checks []handler.HealthCheck

	switch cfg.StorageBackend {
	case config.BackendPostgres:
		pool, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		deps.TxManager = postgresRepo.NewTxManager(pool)
		deps.EntryRepo = postgresRepo.NewEntryRepository(pool)
		deps.IDGen = postgresRepo.NewULIDGenerator()
		deps.Retrier = postgresRepo.NewRetrier(log)
		checks = append(checks, handler.HealthCheck{Name: "postgres", Ping: pool.Ping})
	default:
		store := memory.NewStore()
		deps.TxManager = memory.NewTxManager(store)
		deps.EntryRepo = memory.NewEntryRepository(store)
		deps.IDGen = postgresRepo.NewULIDGenerator()
		log.Warn().Msg("using in-memory storage; data is lost on restart")
	}

	var idempotencyStore usecase.IdempotencyStore
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisTimeout)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		log.Info().Msg("connected to redis")

		deps.StoreCache = redisRepo.NewStoreNameCache(client)
		idempotencyStore = redisRepo.NewIdempotencyStore(client)
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: pingRedis(client)})
	}

	identity := middleware.HeaderIdentity(cfg.OwnerHeader)
	if cfg.AuthEnabled {
		identity = middleware.JWTIdentity(auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration))
	}

	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	a.handler = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		EntryHandler:       handler.NewEntryHandler(usecase.NewEntryUseCase(deps), usecase.NewQueryUseCase(deps)),
		BulkHandler:        handler.NewBulkHandler(usecase.NewBulkUseCase(deps)),
		InterchangeHandler: handler.NewInterchangeHandler(usecase.NewInterchangeUseCase(deps)),
		AnalyticsHandler:   handler.NewAnalyticsHandler(usecase.NewAnalyticsUseCase(deps)),
		HealthHandler:      handler.NewHealthHandler(checks...),
		Identity:           identity,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        a.rateLimiter,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
		Logger:             log,
		MaintenanceMode:    cfg.MaintenanceMode,
		MaintenanceMessage: cfg.MaintenanceMessage,
	})

	return a, nil
}

func connectPostgres(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return nil, err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	log.Info().Msg("connected to postgres")
	return pool, nil
}

func pingRedis(client *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// cleanupLimiters drops idle per-client limiters until ctx is done.
func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(limiterMaxIdle); n > 0 {
				log.Debug().Int("removed", n).Msg("idle rate limiters removed")
			}
		}
	}
}
