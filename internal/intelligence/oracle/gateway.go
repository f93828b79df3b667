// Package oracle is the boundary to the external language model that
// predicts material properties and proposes compositions. Every operation
// renders one prompt, makes one completion call and decodes the JSON reply.
// Nothing is cached, retried or coalesced; a failed call leaves no partial
// result.
package oracle

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Operation names, used for logs and metrics.
const (
	OpPredictProperties = "predict_properties"
	OpOptimize          = "optimize"
	OpRecommend         = "recommend"
	OpSuggestForTarget  = "suggest_for_target"
	OpAnalyzeIssues     = "analyze_issues"
)

// Recorder receives one observation per completion call.
type Recorder interface {
	RecordOracleCall(operation, backend string, d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordOracleCall(string, string, time.Duration, error) {}

// GatewayConfig names the models used by the fast and quality tiers.
type GatewayConfig struct {
	Backend      BackendType
	FastModel    string
	QualityModel string
	Timeout      time.Duration
}

// Gateway exposes the oracle operations.
type Gateway struct {
	svc     PredictionService
	prompts *PromptManager
	cfg     GatewayConfig
	logger  logging.Logger
	metrics Recorder
}

// NewGateway wires svc to the built-in prompts. metrics may be nil.
func NewGateway(svc PredictionService, cfg GatewayConfig, logger logging.Logger, metrics Recorder) (*Gateway, error) {
	if svc == nil {
		return nil, errors.New(errors.ErrCodeOracleNotConfigured, "prediction service is required")
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendOpenAI
	}
	fast, quality := DefaultModels(cfg.Backend)
	if cfg.FastModel == "" {
		cfg.FastModel = fast
	}
	if cfg.QualityModel == "" {
		cfg.QualityModel = quality
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	pm, err := NewPromptManager()
	if err != nil {
		return nil, err
	}
	return &Gateway{svc: svc, prompts: pm, cfg: cfg, logger: logger.Named("oracle"), metrics: metrics}, nil
}

// Prompts exposes the template registry so callers can override prompts.
func (g *Gateway) Prompts() *PromptManager { return g.prompts }

// PredictProperties asks the fast model for the full property bundle of c
// under conditions.
func (g *Gateway) PredictProperties(ctx context.Context, c composition.Composition, conditions material.Conditions) (*material.Properties, error) {
	if len(c) == 0 {
		return nil, errors.New(errors.ErrCodeCompositionEmpty, "composition is empty")
	}
	data := struct {
		Composition composition.Composition
		Conditions  material.Conditions
	}{c, conditions}

	var props material.Properties
	if err := g.call(ctx, OpPredictProperties, TemplatePredictProperties, g.cfg.FastModel, data, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

// Optimize asks the quality model for candidate materials meeting target.
func (g *Gateway) Optimize(ctx context.Context, target material.Properties, objectives Objectives, constraints Constraints) ([]OptimizationResult, error) {
	data := struct {
		Target      material.Properties
		Objectives  Objectives
		Constraints Constraints
	}{target, objectives, constraints}

	var out struct {
		Results []OptimizationResult `json:"results"`
	}
	if err := g.call(ctx, OpOptimize, TemplateOptimize, g.cfg.QualityModel, data, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Results), nil
}

// Recommend asks for composition changes. Both arguments are optional.
func (g *Gateway) Recommend(ctx context.Context, target *material.Properties, current composition.Composition) ([]Recommendation, error) {
	data := struct {
		Target  *material.Properties
		Current composition.Composition
	}{target, current}

	var out struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := g.call(ctx, OpRecommend, TemplateRecommend, g.cfg.QualityModel, data, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Recommendations), nil
}

// SuggestForTarget asks for compositions reaching a single property value.
func (g *Gateway) SuggestForTarget(ctx context.Context, target PropertyTarget) ([]Recommendation, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	var out struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := g.call(ctx, OpSuggestForTarget, TemplateSuggestForTarget, g.cfg.QualityModel, target, &out); err != nil {
		return nil, err
	}
	return nonNil(out.Recommendations), nil
}

// AnalyzeIssues asks the fast model to review a simulated material.
func (g *Gateway) AnalyzeIssues(ctx context.Context, c composition.Composition, props material.Properties) (*IssueAnalysis, error) {
	if len(c) == 0 {
		return nil, errors.New(errors.ErrCodeCompositionEmpty, "composition is empty")
	}
	data := struct {
		Composition composition.Composition
		Properties  material.Properties
	}{c, props}

	var out IssueAnalysis
	if err := g.call(ctx, OpAnalyzeIssues, TemplateAnalyzeIssues, g.cfg.FastModel, data, &out); err != nil {
		return nil, err
	}
	out.Issues = nonNil(out.Issues)
	out.Suggestions = nonNil(out.Suggestions)
	return &out, nil
}

func (g *Gateway) call(ctx context.Context, op, tmpl, model string, data, dst any) error {
	prompt, err := g.prompts.Render(tmpl, data)
	if err != nil {
		return err
	}
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	log := g.logger.With(logging.String("operation", op), logging.String("model", model))
	start := time.Now()
	raw, err := g.svc.Complete(ctx, Request{Prompt: prompt, Model: model, JSONMode: true})
	if err == nil {
		err = decode(raw, dst)
	}
	elapsed := time.Since(start)
	g.metrics.RecordOracleCall(op, string(g.cfg.Backend), elapsed, err)

	if err != nil {
		log.Error("oracle call failed", logging.Duration("elapsed", elapsed), logging.Err(err))
		if errors.GetCode(err) == errors.CodeUnknown {
			return callFailedWithContext(ctx, err)
		}
		return err
	}
	log.Debug("oracle call completed", logging.Duration("elapsed", elapsed), logging.Int("response_bytes", len(raw)))
	return nil
}

// decode parses raw into dst, tolerating a surrounding code fence.
func decode(raw string, dst any) error {
	body := extractJSON(raw)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeOracleMalformed, "oracle returned malformed JSON")
	}
	return nil
}

func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return strings.TrimSpace(s)
}

func callFailedWithContext(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(err, errors.ErrCodeOracleCallFailed, "oracle call cancelled").WithDetail(ctx.Err().Error())
	}
	return errors.Wrap(err, errors.ErrCodeOracleCallFailed, "oracle call failed")
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
