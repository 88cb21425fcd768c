package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/acs027/eshop-backend/internal/config"
	"github.com/acs027/eshop-backend/internal/event"
	"github.com/acs027/eshop-backend/internal/feed"
	handler "github.com/acs027/eshop-backend/internal/handler/http"
	"github.com/acs027/eshop-backend/internal/repository/mongodb"
	"github.com/acs027/eshop-backend/internal/repository/postgres"
	"github.com/acs027/eshop-backend/internal/repository/rediscache"
	"github.com/acs027/eshop-backend/internal/service"
	"github.com/acs027/eshop-backend/migrations"
	"github.com/acs027/eshop-backend/pkg/database"
	"github.com/acs027/eshop-backend/pkg/health"
	pkgkafka "github.com/acs027/eshop-backend/pkg/kafka"
	"github.com/acs027/eshop-backend/pkg/tracing"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// App wires together all dependencies and runs the storefront backend.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	pool            *pgxpool.Pool
	mongoClient     *mongo.Client
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	catalogService  *service.CatalogService
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, cfg.Tracing(Version))
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Postgres: catalog store and cart ledger.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	database.RegisterPoolMetrics(pool, "eshop-backend")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	// MongoDB: review store.
	mongoClient, err := database.NewMongoClient(ctx, cfg.Mongo())
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	mongoDB := mongoClient.Database(cfg.MongoDB)

	// Redis: catalog cache.
	rdb, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// Kafka producer for domain events.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Repositories.
	catalogRepo := postgres.NewCatalogRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	reviewRepo := mongodb.NewReviewRepository(mongoDB)
	if err := reviewRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure review indexes: %w", err)
	}
	catalogCache := rediscache.NewCatalogCache(rdb, cfg.CatalogCacheTTL)

	// Upstream feed client, only when configured.
	var feedClient service.FeedFetcher
	if cfg.FeedURL != "" {
		feedClient = feed.NewClient(cfg.FeedURL, logger)
	}

	// Services.
	eventProducer := event.NewProducer(producer, logger)
	catalogService := service.NewCatalogService(catalogRepo, catalogCache, feedClient, logger)
	cartService := service.NewCartService(cartRepo, eventProducer, logger)
	reviewService := service.NewReviewService(reviewRepo, eventProducer, logger)

	// Health checks. Kafka and Redis are non-critical: events are fire-and-
	// forget and the cache degrades to direct store reads.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterCritical("mongo", func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// HTTP router and server.
	router := handler.NewRouter(handler.RouterConfig{
		CatalogService: catalogService,
		CartService:    cartService,
		ReviewService:  reviewService,
		HealthHandler:  healthHandler,
		Logger:         logger,
		GuestUserID:    cfg.GuestUserID,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		pool:            pool,
		mongoClient:     mongoClient,
		rdb:             rdb,
		producer:        producer,
		catalogService:  catalogService,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled. When a
// feed URL is configured an initial catalog sync runs before serving; a
// failure there is logged, not fatal, since the store may already be seeded.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.FeedURL != "" {
		if _, err := a.catalogService.Sync(ctx); err != nil {
			a.logger.Warn("initial catalog sync failed",
				slog.String("error", err.Error()),
			)
		}
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("version", Version),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
		a.logger.Error("mongo disconnect error", slog.String("error", err.Error()))
	}

	a.pool.Close()

	if a.tracingShutdown != nil {
		if err := a.tracingShutdown(shutdownCtx); err != nil {
			a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
	return nil
}
