// Command matforge-api serves the MatForge HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/MatForge/internal/config"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/MatForge/internal/interfaces/http"
)

// Build-time variables injected via ldflags.
var version = "dev"

const reindexTimeout = 10 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "matforge-api: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logConfig(cfg.Log))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.SetDefault(logger)
	logger.Info("starting MatForge API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
		logging.String("oracle_backend", cfg.Oracle.Backend))

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            cfg.Metrics.Namespace,
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create metrics collector: %w", err)
	}
	metrics := prometheus.NewAppMetrics(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := wire(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer app.close()

	gin.SetMode(cfg.Server.Mode)
	routerCfg := app.routerConfig(cfg, logger, metrics)
	separateMetrics := cfg.Metrics.Enabled && cfg.Metrics.Port != 0 && cfg.Metrics.Port != cfg.Server.Port
	if cfg.Metrics.Enabled && !separateMetrics {
		routerCfg.MetricsHandler = collector.Handler()
	}
	api := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	var metricsSrv *httpserver.Server
	if separateMetrics {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, collector.Handler())
		metricsCfg := cfg.Server
		metricsCfg.Port = cfg.Metrics.Port
		metricsSrv = httpserver.NewServer(metricsCfg, mux, logger.Named("metrics"))
	}

	scheduler, err := scheduleReindex(cfg.Catalog.ReindexSchedule, app, logger)
	if err != nil {
		return err
	}
	if scheduler != nil {
		scheduler.Start()
	}

	if configPath != "" {
		watchLogLevel(configPath, logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(api.Start)
	if metricsSrv != nil {
		g.Go(metricsSrv.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		shutdownCtx := context.WithoutCancel(gctx)
		if metricsSrv != nil {
			if err := metricsSrv.Stop(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}
		return api.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func logConfig(c config.LogConfig) logging.LogConfig {
	lc := logging.LogConfig{Level: c.Level, Format: c.Format}
	if c.Output != "" {
		lc.OutputPaths = []string{c.Output}
	}
	return lc
}

// scheduleReindex returns nil when no schedule is configured or search is
// disabled.
func scheduleReindex(spec string, app *application, logger logging.Logger) (*cron.Cron, error) {
	if spec == "" || app.reindexer == nil {
		return nil, nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reindexTimeout)
		defer cancel()
		if err := app.reindexer.Run(ctx); err != nil {
			logger.Error("scheduled reindex failed", logging.Err(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid catalog.reindex_schedule %q: %w", spec, err)
	}
	logger.Info("catalog reindex scheduled", logging.String("schedule", spec))
	return c, nil
}

// watchLogLevel applies log.level changes without a restart. Other settings
// need one.
func watchLogLevel(path string, logger logging.Logger) {
	setter, ok := logger.(logging.LevelSetter)
	if !ok {
		return
	}
	err := config.Watch(path, func(c *config.Config) {
		setter.SetLevel(c.Log.Level)
		logger.Info("log level reloaded", logging.String("level", c.Log.Level))
	}, func(err error) {
		logger.Warn("ignoring invalid config change", logging.Err(err))
	})
	if err != nil {
		logger.Warn("config watch disabled", logging.Err(err))
	}
}
