package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/turtacn/MatForge/internal/intelligence/oracle"
)

// Canned oracle replies keyed by the prompt they answer.
const (
	PropertiesReply = `{"mechanical":{"tensileStrength":520,"yieldStrength":215,"elasticity":193,"hardness":201,"density":7.9,"toughness":80},` +
		`"electrical":{"conductivity":1.4,"resistivity":0.72},` +
		`"chemical":{"corrosionResistance":85,"reactivity":20,"stability":90,"oxidationResistance":80},` +
		`"sustainability":{"overallScore":70,"recyclability":90},"cost":{"costPerKg":3.5},"confidence":0.8}`
	OptimizeReply = `{"results":[{"material":{"id":"opt-1","name":"Candidate A","composition":{"Al":95,"Mg":5},"category":"alloy",` +
		`"properties":{"mechanical":{"density":2.7},"electrical":{},"chemical":{}}},"score":81,` +
		`"tradeoffs":{"cost":70,"performance":75,"sustainability":80,"availability":90,"weight":95}}]}`
	RecommendReply = `{"recommendations":[{"name":"Add molybdenum","composition":{"Fe":68,"Cr":18,"Ni":12,"Mo":2},` +
		`"category":"corrosion resistance","rationale":"Mo improves pitting resistance","expectedImprovements":["corrosion"],"impact":"high"}]}`
	IssuesReply = `{"issues":["Nickel content raises cost"],"suggestions":[{"type":"decrease","element":"Ni","amount":2,` +
		`"reason":"cost","expectedEffect":"lower price"}]}`
)

// FakeOracle is a deterministic oracle.PredictionService. It picks a canned
// reply from the prompt text and records every request.
type FakeOracle struct {
	mu       sync.Mutex
	Requests []oracle.Request
	// Err, when set, is returned from every call.
	Err error
}

// NewFakeOracle returns a FakeOracle that always answers.
func NewFakeOracle() *FakeOracle { return &FakeOracle{} }

func (f *FakeOracle) Complete(ctx context.Context, req oracle.Request) (string, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	err := f.Err
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	p := req.Prompt
	switch {
	case strings.Contains(p, "Optimization Objectives"):
		return OptimizeReply, nil
	case strings.Contains(p, `"recommendations"`):
		return RecommendReply, nil
	case strings.Contains(p, `"issues"`):
		return IssuesReply, nil
	default:
		return PropertiesReply, nil
	}
}

// Calls returns the number of requests seen.
func (f *FakeOracle) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

// NewFakeGateway wires a FakeOracle into a gateway with fixed model names.
func NewFakeGateway() (*oracle.Gateway, *FakeOracle) {
	fake := NewFakeOracle()
	g, err := oracle.NewGateway(fake, oracle.GatewayConfig{FastModel: "fast", QualityModel: "quality"}, nil, nil)
	if err != nil {
		panic(err)
	}
	return g, fake
}

// FixedRand yields the same value from every Float64 call.
type FixedRand float64

func (r FixedRand) Float64() float64 { return float64(r) }
