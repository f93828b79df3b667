package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

// BackendType selects the completion provider.
type BackendType string

const (
	BackendOpenAI    BackendType = "openai"
	BackendAnthropic BackendType = "anthropic"
	BackendGemini    BackendType = "gemini"
)

// DefaultModels returns the fast and quality models used when none are
// configured for b.
func DefaultModels(b BackendType) (fast, quality string) {
	switch b {
	case BackendAnthropic:
		return "claude-haiku-4-5", "claude-sonnet-4-5"
	case BackendGemini:
		return "gemini-2.5-flash", "gemini-2.5-pro"
	default:
		return "gpt-4o-mini", "gpt-4o"
	}
}

// Request is one completion. JSONMode asks the backend to return a bare JSON
// object.
type Request struct {
	Prompt   string
	Model    string
	JSONMode bool
}

// PredictionService turns a prompt into raw completion text. Implementations
// make exactly one upstream call per Complete and never retry.
type PredictionService interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Config configures a backend.
type Config struct {
	Backend      BackendType
	APIKey       string
	BaseURL      string
	FastModel    string
	QualityModel string
	MaxTokens    int
	Timeout      time.Duration
}

// systemPrompt is sent to backends that take one separately.
const systemPrompt = "You are a materials science assistant. Reply with a single JSON object and nothing else."

// NewService builds the backend named in cfg. A missing API key still yields
// a service; its calls fail with ErrCodeOracleNotConfigured.
func NewService(ctx context.Context, cfg Config, logger logging.Logger) (PredictionService, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("oracle API key not set, prediction calls will fail", logging.String("backend", string(cfg.Backend)))
		return unconfigured{backend: cfg.Backend}, nil
	}

	switch cfg.Backend {
	case BackendOpenAI, "":
		return newOpenAIService(cfg), nil
	case BackendAnthropic:
		return newAnthropicService(cfg), nil
	case BackendGemini:
		return newGeminiService(ctx, cfg)
	default:
		return nil, errors.New(errors.ErrCodeOracleNotConfigured, "unknown oracle backend").WithDetail(string(cfg.Backend))
	}
}

type unconfigured struct{ backend BackendType }

func (u unconfigured) Complete(context.Context, Request) (string, error) {
	return "", errors.New(errors.ErrCodeOracleNotConfigured, "oracle backend is not configured").
		WithDetail(fmt.Sprintf("backend=%s: api key missing", u.backend))
}

func callFailed(backend BackendType, err error) error {
	return errors.Wrap(err, errors.ErrCodeOracleCallFailed, "oracle call failed").WithDetail(string(backend))
}

func emptyResponse(backend BackendType) error {
	return errors.New(errors.ErrCodeOracleMalformed, "oracle returned no content").WithDetail(string(backend))
}
