// Package http assembles the gin engine and the HTTP server that serves it.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/internal/config"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/interfaces/http/handlers"
	"github.com/turtacn/MatForge/internal/interfaces/http/middleware"
	"github.com/turtacn/MatForge/pkg/errors"
)

// APIPrefix is the path prefix of every versioned route.
const APIPrefix = "/api/v1"

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	Simulation *handlers.SimulationHandler
	Oracle     *handlers.OracleHandler
	Reference  *handlers.ReferenceHandler
	Materials  *handlers.MaterialHandler
	Health     *handlers.HealthHandler

	Server  config.ServerConfig
	Logging middleware.LoggingConfig
	Logger  logging.Logger

	// Metrics observes every request; MetricsHandler serves /metrics.
	Metrics        middleware.HTTPRecorder
	MetricsHandler http.Handler

	// OracleLimiter throttles the routes that call the oracle.
	OracleLimiter middleware.RateLimiter
}

// NewRouter builds the gin engine: global middleware, probes, /metrics and
// the /api/v1 groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery(logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.RequestLogging(logger, cfg.Logging))
	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSOrigins
		r.Use(middleware.CORS(cors))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.ErrorResponse{
			Code:    string(errors.ErrCodeNotFound),
			Message: "no route for " + c.Request.Method + " " + c.Request.URL.Path,
		})
	})

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group(APIPrefix, middleware.MaxBodySize(cfg.Server.MaxBodySize))

	var oracleMW []gin.HandlerFunc
	if cfg.OracleLimiter != nil {
		oracleMW = append(oracleMW, middleware.RateLimit(cfg.OracleLimiter))
	}

	if cfg.Simulation != nil {
		cfg.Simulation.RegisterRoutes(api, oracleMW...)
	}
	if cfg.Oracle != nil {
		cfg.Oracle.RegisterRoutes(api, oracleMW...)
	}
	if cfg.Reference != nil {
		cfg.Reference.RegisterRoutes(api)
	}
	if cfg.Materials != nil {
		cfg.Materials.RegisterRoutes(api)
	}
	return r
}
