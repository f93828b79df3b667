package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/turtacn/MatForge/internal/application/materials"
	"github.com/turtacn/MatForge/internal/application/simulation"
	"github.com/turtacn/MatForge/internal/config"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/internal/infrastructure/database/postgres"
	"github.com/turtacn/MatForge/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/MatForge/internal/infrastructure/database/redis"
	"github.com/turtacn/MatForge/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MatForge/internal/infrastructure/search/opensearch"
	"github.com/turtacn/MatForge/internal/infrastructure/storage/minio"
	"github.com/turtacn/MatForge/internal/intelligence/oracle"
	httpserver "github.com/turtacn/MatForge/internal/interfaces/http"
	"github.com/turtacn/MatForge/internal/interfaces/http/handlers"
	"github.com/turtacn/MatForge/internal/interfaces/http/middleware"
)

const (
	reindexLockName = "reindex"
	reindexLockTTL  = 15 * time.Minute

	limiterCleanupInterval = 5 * time.Minute
)

// application holds the wired services and everything that needs closing.
type application struct {
	simulation *simulation.Service
	gateway    *oracle.Gateway
	library    *materials.Service
	reindexer  *materials.Reindexer
	checkers   []handlers.HealthChecker
	limiter    *middleware.TokenBucketLimiter

	closers []io.Closer
	logger  logging.Logger
}

func wire(ctx context.Context, cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) (_ *application, err error) {
	app := &application{logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	// PostgreSQL
	conn, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	app.closers = append(app.closers, conn)
	app.check("postgres", conn.HealthCheck)
	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(ctx, conn.DB(), logger); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	repo := repositories.NewPostgresMaterialRepo(conn, logger, metrics)

	// Redis
	rdb, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	app.closers = append(app.closers, rdb)
	app.check("redis", rdb.HealthCheck)
	prefs := redis.NewPreferenceStore(rdb, logger)

	// Kafka
	var publisher material.EventPublisher = kafka.NopPublisher{}
	if cfg.Kafka.Enabled {
		if err := ensureTopics(ctx, cfg.Kafka, logger); err != nil {
			logger.Warn("kafka topics not ensured", logging.Err(err))
		}
		producer, err := kafka.NewProducer(cfg.Kafka, logger)
		if err != nil {
			return nil, fmt.Errorf("kafka: %w", err)
		}
		app.closers = append(app.closers, producer)
		publisher = kafka.NewEventPublisher(producer, cfg.Kafka.TopicPrefix, logger, metrics)
	}

	// OpenSearch
	var index material.SearchIndex
	if cfg.OpenSearch.Enabled {
		client, err := opensearch.NewClient(ctx, cfg.OpenSearch, logger)
		if err != nil {
			return nil, fmt.Errorf("opensearch: %w", err)
		}
		app.closers = append(app.closers, client)
		app.check("opensearch", client.HealthCheck)
		mi := opensearch.NewMaterialIndex(client, cfg.OpenSearch.IndexPrefix)
		if err := mi.EnsureIndex(ctx); err != nil {
			return nil, fmt.Errorf("opensearch index: %w", err)
		}
		index = mi
		lock := redis.NewMutex(rdb, reindexLockName, reindexLockTTL)
		app.reindexer = materials.NewReindexer(material.Materials(), repo, mi, lock, metrics, logger)
	}

	// MinIO
	var exports material.ExportStore
	if cfg.MinIO.Enabled {
		client, err := minio.NewClient(ctx, cfg.MinIO, logger)
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		app.closers = append(app.closers, client)
		app.check("minio", client.HealthCheck)
		exports = minio.NewExportStore(client)
	}

	// Oracle
	svc, err := oracle.NewService(ctx, oracle.Config{
		Backend:      oracle.BackendType(cfg.Oracle.Backend),
		APIKey:       cfg.Oracle.APIKey,
		BaseURL:      cfg.Oracle.BaseURL,
		FastModel:    cfg.Oracle.FastModel,
		QualityModel: cfg.Oracle.QualityModel,
		MaxTokens:    cfg.Oracle.MaxTokens,
		Timeout:      cfg.Oracle.Timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}
	app.gateway, err = oracle.NewGateway(svc, oracle.GatewayConfig{
		Backend:      oracle.BackendType(cfg.Oracle.Backend),
		FastModel:    cfg.Oracle.FastModel,
		QualityModel: cfg.Oracle.QualityModel,
		Timeout:      cfg.Oracle.Timeout,
	}, logger, metrics)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}

	app.simulation = simulation.NewService(simulation.Config{
		Oracle:    app.gateway,
		Elements:  reference.PeriodicTable(),
		Monomers:  reference.Monomers(),
		Publisher: publisher,
		Metrics:   metrics,
		Logger:    logger,
	})
	app.library, err = materials.NewService(materials.Config{
		Repository:  repo,
		Index:       index,
		Exports:     exports,
		Publisher:   publisher,
		Preferences: prefs,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Server.OracleRateLimit > 0 {
		app.limiter = middleware.NewTokenBucketLimiter(cfg.Server.OracleRateLimit, cfg.Server.OracleBurst, limiterCleanupInterval)
	}
	return app, nil
}

func (a *application) routerConfig(cfg *config.Config, logger logging.Logger, metrics *prometheus.AppMetrics) httpserver.RouterConfig {
	rc := httpserver.RouterConfig{
		Simulation: handlers.NewSimulationHandler(a.simulation),
		Oracle:     handlers.NewOracleHandler(a.gateway),
		Reference:  handlers.NewReferenceHandler(reference.PeriodicTable(), reference.Monomers(), material.Materials()),
		Materials:  handlers.NewMaterialHandler(a.library),
		Health:     handlers.NewHealthHandler(version, metrics, a.checkers...),
		Server:     cfg.Server,
		Logging:    middleware.DefaultLoggingConfig(),
		Logger:     logger,
		Metrics:    metrics,
	}
	if a.limiter != nil {
		rc.OracleLimiter = a.limiter
	}
	return rc
}

func (a *application) check(name string, fn func(context.Context) error) {
	a.checkers = append(a.checkers, handlers.CheckerFunc{Component: name, Fn: fn})
}

// close releases resources in reverse order of acquisition.
func (a *application) close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Warn("close failed", logging.Err(err))
		}
	}
	a.closers = nil
}

func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) error {
	tm, err := kafka.NewTopicManager(cfg.Brokers, logger)
	if err != nil {
		return err
	}
	defer tm.Close()
	return tm.EnsureTopics(ctx, cfg.TopicPrefix)
}
