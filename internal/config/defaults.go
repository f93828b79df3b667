package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 120 * time.Second
	DefaultServerMaxBodySize     = 1 << 20
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultServerOracleBurst     = 5

	DefaultDBDriver   = "pgx"
	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBUser     = "matforge"
	DefaultDBName     = "matforge"
	DefaultDBSSLMode  = "disable"
	DefaultDBMaxConns = 25
	DefaultDBMaxIdle  = 10

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisPoolSize  = 10
	DefaultRedisKeyPrefix = "matforge:"

	DefaultKafkaBroker      = "localhost:9092"
	DefaultKafkaClientID    = "matforge"
	DefaultKafkaTopicPrefix = "matforge."
	DefaultKafkaAcks        = "all"

	DefaultOpenSearchAddress     = "http://localhost:9200"
	DefaultOpenSearchIndexPrefix = "matforge"

	DefaultMinIOEndpoint      = "localhost:9000"
	DefaultMinIOBucket        = "matforge-exports"
	DefaultMinIORegion        = "us-east-1"
	DefaultMinIOPresignExpiry = 15 * time.Minute

	DefaultOracleBackend   = "openai"
	DefaultOracleMaxTokens = 4096

	DefaultMetricsPort      = 9091
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "matforge"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// OracleModels is the fast and quality model pair of one backend.
type OracleModels struct {
	Fast    string
	Quality string
}

// DefaultOracleModels maps each oracle backend to its default models.
var DefaultOracleModels = map[string]OracleModels{
	"openai":    {Fast: "gpt-4o-mini", Quality: "gpt-4o"},
	"anthropic": {Fast: "claude-haiku-4-5", Quality: "claude-sonnet-4-5"},
	"gemini":    {Fast: "gemini-2.5-flash", Quality: "gemini-2.5-pro"},
}

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly configured values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.OracleBurst == 0 {
		cfg.Server.OracleBurst = DefaultServerOracleBurst
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDBDriver
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = DefaultDBSSLMode
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = DefaultDBMaxIdle
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = DefaultKafkaTopicPrefix
	}
	if cfg.Kafka.Acks == "" {
		cfg.Kafka.Acks = DefaultKafkaAcks
	}

	// ── OpenSearch ────────────────────────────────────────────────────────────
	if len(cfg.OpenSearch.Addresses) == 0 {
		cfg.OpenSearch.Addresses = []string{DefaultOpenSearchAddress}
	}
	if cfg.OpenSearch.IndexPrefix == "" {
		cfg.OpenSearch.IndexPrefix = DefaultOpenSearchIndexPrefix
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultMinIOPresignExpiry
	}

	// ── Oracle ────────────────────────────────────────────────────────────────
	if cfg.Oracle.Backend == "" {
		cfg.Oracle.Backend = DefaultOracleBackend
	}
	// An unknown backend gets no model defaults; Validate rejects it.
	models := DefaultOracleModels[cfg.Oracle.Backend]
	if cfg.Oracle.FastModel == "" {
		cfg.Oracle.FastModel = models.Fast
	}
	if cfg.Oracle.QualityModel == "" {
		cfg.Oracle.QualityModel = models.Quality
	}
	if cfg.Oracle.MaxTokens == 0 {
		cfg.Oracle.MaxTokens = DefaultOracleMaxTokens
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = DefaultMetricsPort
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
