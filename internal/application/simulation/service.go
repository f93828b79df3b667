// Package simulation runs element and polymer simulations. Element
// simulations go to the oracle; polymer simulations use the local heuristic.
package simulation

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/polymer"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Simulation kinds, used for metrics and events.
const (
	KindElements = "elements"
	KindPolymer  = "polymer"
)

// Predictor is the oracle operation element simulations need.
type Predictor interface {
	PredictProperties(ctx context.Context, c composition.Composition, conditions material.Conditions) (*material.Properties, error)
}

// Recorder observes finished simulations.
type Recorder interface {
	RecordSimulation(kind string, d time.Duration, err error)
}

// CompletedEvent is published after every successful simulation.
type CompletedEvent struct {
	Kind        string                  `json:"kind"`
	Composition composition.Composition `json:"composition"`
	Confidence  *float64                `json:"confidence,omitempty"`
	CompletedAt time.Time               `json:"completedAt"`
}

func (CompletedEvent) EventType() string { return "simulation.completed" }

// Analysis is the local, oracle-free assessment of an element composition.
type Analysis struct {
	Total         float64                   `json:"total"`
	Valid         bool                      `json:"valid"`
	Density       float64                   `json:"estimatedDensity"`
	Compatibility composition.Compatibility `json:"compatibility"`
	Processing    composition.Processing    `json:"processing"`
}

// ElementsRequest asks for a property prediction. Nil Conditions means room
// conditions.
type ElementsRequest struct {
	Composition composition.Composition `json:"composition"`
	Conditions  *material.Conditions    `json:"conditions,omitempty"`
}

// ElementsResult is the oracle prediction with the local analysis attached.
type ElementsResult struct {
	Composition composition.Composition `json:"composition"`
	Conditions  material.Conditions     `json:"conditions"`
	Properties  material.Properties     `json:"properties"`
	Analysis
}

// PolymerResult is the heuristic prediction for a polymer.
type PolymerResult struct {
	Composition          polymer.Composition         `json:"composition"`
	Properties           material.Properties         `json:"properties"`
	Thermal              material.Thermal            `json:"thermal"`
	ElementalComposition composition.Composition     `json:"elementalComposition"`
	Method               polymer.Method              `json:"polymerizationMethod"`
	Compatibility        polymer.CompatibilityReport `json:"compatibility"`
	UnknownMonomers      []string                    `json:"unknownMonomers,omitempty"`
}

// Config holds the collaborators of Service. Only Oracle is required for
// element simulations; every other field has a default.
type Config struct {
	Oracle    Predictor
	Elements  *reference.ElementTable
	Monomers  *reference.MonomerCatalog
	Publisher material.EventPublisher
	Metrics   Recorder
	Rand      polymer.Rand
	Logger    logging.Logger
	Now       func() time.Time
}

// Service runs simulations.
type Service struct {
	oracle    Predictor
	elements  *reference.ElementTable
	monomers  *reference.MonomerCatalog
	publisher material.EventPublisher
	metrics   Recorder
	rng       polymer.Rand
	logger    logging.Logger
	now       func() time.Time
}

func NewService(cfg Config) *Service {
	s := &Service{
		oracle:    cfg.Oracle,
		elements:  cfg.Elements,
		monomers:  cfg.Monomers,
		publisher: cfg.Publisher,
		metrics:   cfg.Metrics,
		rng:       cfg.Rand,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if s.elements == nil {
		s.elements = reference.PeriodicTable()
	}
	if s.monomers == nil {
		s.monomers = reference.Monomers()
	}
	if s.logger == nil {
		s.logger = logging.NewNopLogger()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.logger = s.logger.Named("simulation")
	return s
}

// Analyze computes density, compatibility and processing for c locally.
func (s *Service) Analyze(c composition.Composition) Analysis {
	return Analysis{
		Total:         c.Total(),
		Valid:         composition.IsValid(c),
		Density:       composition.EstimateDensity(c, s.elements),
		Compatibility: composition.ScoreCompatibility(c, s.elements),
		Processing:    composition.ProcessingRecommendation(c, s.elements),
	}
}

// SimulateElements predicts the properties of an element composition. An
// empty or invalid composition fails before the oracle is called.
func (s *Service) SimulateElements(ctx context.Context, req ElementsRequest) (res *ElementsResult, err error) {
	start := s.now()
	defer func() { s.record(KindElements, start, err) }()

	if err := composition.Validate(req.Composition); err != nil {
		return nil, err
	}
	if s.oracle == nil {
		return nil, errors.New(errors.ErrCodeOracleNotConfigured, "no oracle configured")
	}
	conditions := material.DefaultConditions()
	if req.Conditions != nil {
		conditions = *req.Conditions
	}

	props, err := s.oracle.PredictProperties(ctx, req.Composition, conditions)
	if err != nil {
		return nil, err
	}

	res = &ElementsResult{
		Composition: req.Composition.Clone(),
		Conditions:  conditions,
		Properties:  *props,
		Analysis:    s.Analyze(req.Composition),
	}
	s.publish(ctx, CompletedEvent{
		Kind:        KindElements,
		Composition: res.Composition,
		Confidence:  props.Confidence,
		CompletedAt: s.now().UTC(),
	})
	return res, nil
}

// SimulatePolymer predicts polymer properties with the local heuristic.
// Unknown monomer IDs are reported and contribute nothing; a composition
// with no known monomer is rejected.
func (s *Service) SimulatePolymer(ctx context.Context, comp polymer.Composition) (res *PolymerResult, err error) {
	start := s.now()
	defer func() { s.record(KindPolymer, start, err) }()

	if err := comp.Validate(); err != nil {
		return nil, err
	}
	if comp.Architecture == "" {
		comp.Architecture = polymer.Linear
	}
	arch, err := polymer.ParseArchitecture(string(comp.Architecture))
	if err != nil {
		return nil, err
	}
	comp.Architecture = arch

	ids := make([]string, 0, len(comp.Units))
	for _, u := range comp.Units {
		ids = append(ids, u.MonomerID)
	}
	monomers, missing := s.monomers.Resolve(ids)
	if len(monomers) == 0 {
		return nil, errors.New(errors.ErrCodePolymerInvalid, "no known monomers in composition").
			WithDetail(strings.Join(missing, ","))
	}
	if len(missing) > 0 {
		s.logger.Warn("unknown monomers ignored", logging.Strings("ids", missing))
	}

	pred := polymer.Predict(monomers, comp, s.rng)
	res = &PolymerResult{
		Composition:          comp,
		Properties:           pred.Properties,
		Thermal:              pred.Thermal,
		ElementalComposition: polymer.ElementalComposition(polymer.Resolve(monomers, comp)),
		Method:               polymer.SuggestMethod(monomers),
		Compatibility:        polymer.CheckCompatibility(monomers),
		UnknownMonomers:      missing,
	}
	s.publish(ctx, CompletedEvent{
		Kind:        KindPolymer,
		Composition: res.ElementalComposition,
		Confidence:  pred.Confidence,
		CompletedAt: s.now().UTC(),
	})
	return res, nil
}

// CheckMonomers reports compatibility and the suggested method for ids.
func (s *Service) CheckMonomers(ids []string) (polymer.CompatibilityReport, polymer.Method, []string) {
	monomers, missing := s.monomers.Resolve(ids)
	return polymer.CheckCompatibility(monomers), polymer.SuggestMethod(monomers), missing
}

func (s *Service) record(kind string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.RecordSimulation(kind, s.now().Sub(start), err)
	}
}

// publish never fails the simulation; the result is already computed.
func (s *Service) publish(ctx context.Context, ev CompletedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("simulation event dropped", logging.String("kind", ev.Kind), logging.Err(err))
	}
}
