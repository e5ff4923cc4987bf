package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mhasan0505/sanslibyzebin/internal/cart"
	"github.com/mhasan0505/sanslibyzebin/internal/catalog"
	"github.com/mhasan0505/sanslibyzebin/internal/config"
	"github.com/mhasan0505/sanslibyzebin/internal/event"
	"github.com/mhasan0505/sanslibyzebin/internal/fixture"
	handler "github.com/mhasan0505/sanslibyzebin/internal/handler/http"
	"github.com/mhasan0505/sanslibyzebin/internal/store"
	"github.com/mhasan0505/sanslibyzebin/internal/store/memory"
	redisstore "github.com/mhasan0505/sanslibyzebin/internal/store/redis"
	"github.com/mhasan0505/sanslibyzebin/internal/wishlist"
	"github.com/mhasan0505/sanslibyzebin/pkg/health"
	pkgkafka "github.com/mhasan0505/sanslibyzebin/pkg/kafka"
	"github.com/mhasan0505/sanslibyzebin/pkg/middleware"
	"github.com/mhasan0505/sanslibyzebin/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	tracerStop func(context.Context) error
	httpServer *http.Server
}

// initTracing is swapped in tests.
var initTracing = tracing.Init

// NewApp creates a new application instance, initializing all dependencies.
// Whatever was started before a failure is stopped again.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tracerStop, err := initTracing(ctx, tracing.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracerStop = tracerStop
	defer func() {
		if err == nil {
			return
		}
		if stopErr := tracerStop(context.Background()); stopErr != nil {
			logger.Warn("failed to stop tracer", slog.String("error", stopErr.Error()))
		}
	}()

	// Catalog.
	products, err := fixture.LoadFile(cfg.FixturePath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	formatter, err := catalog.NewFormatter(cfg.Locale, cfg.CurrencySymbol)
	if err != nil {
		return nil, fmt.Errorf("currency formatter: %w", err)
	}
	cat := catalog.New(products, catalog.WithFormatter(formatter))
	logger.Info("catalog loaded",
		slog.Int("products", len(products)),
		slog.String("locale", formatter.Tag().String()),
	)

	healthHandler := health.NewHandler()

	// Session store.
	st, err := a.openStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	// Event publisher.
	var publisher event.Publisher = event.Noop{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, cfg.KafkaTopicPrefix, cfg.CurrencyCode, logger)
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:    cfg.ServiceName,
		RequestTimeout: cfg.RequestTimeout,
		CatalogMaxAge:  cfg.CatalogMaxAge,
		PprofCIDRs:     cfg.PprofCIDRs,
		CORS:           corsConfig(cfg),
		Session: middleware.SessionConfig{
			MaxAge: cfg.SessionTTL,
			Secure: cfg.SecureCookies,
		},
	}, handler.Dependencies{
		Catalog:   cat,
		Carts:     cart.NewProvider(st, publisher, logger),
		Wishlists: wishlist.NewProvider(st, publisher, logger),
		Health:    healthHandler,
		Logger:    logger,
	})

	a.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context, h *health.Handler) (store.Store, error) {
	switch a.cfg.StoreBackend {
	case config.StoreRedis:
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPass,
			DB:       a.cfg.RedisDB,
		})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			_ = a.rdb.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Int("db", a.cfg.RedisDB),
		)
		st := store.Instrument(redisstore.New(a.rdb, a.cfg.SessionTTL), config.StoreRedis)
		h.RegisterCritical("redis", st.Ping)
		return st, nil
	default:
		a.logger.Warn("using in-memory session store; carts are lost on restart")
		return store.Instrument(memory.New(), config.StoreMemory), nil
	}
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	c.AllowedOrigins = cfg.CORSOrigins
	c.Environment = cfg.Environment
	c.AllowCredentials = true
	return c
}

// Handler returns the HTTP handler serving every route.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	timeout := a.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerStop(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
