package oracle

import (
	"strings"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Objectives weights the optimisation goals, each 0–100. In a result the
// same shape scores how well a candidate meets each goal; Weight is higher
// for lighter materials.
type Objectives struct {
	Cost           float64 `json:"cost"`
	Performance    float64 `json:"performance"`
	Sustainability float64 `json:"sustainability"`
	Availability   float64 `json:"availability"`
	Weight         float64 `json:"weight"`
}

// DefaultObjectives weighs every goal equally.
func DefaultObjectives() Objectives {
	return Objectives{Cost: 50, Performance: 50, Sustainability: 50, Availability: 50, Weight: 50}
}

// Constraints bound an optimisation.
type Constraints struct {
	MaxCost           *float64 `json:"maxCost,omitempty"`
	MinSustainability *float64 `json:"minSustainability,omitempty"`
}

// Candidate is a material proposed by the oracle. It is not saved and has no
// timestamps of its own.
type Candidate struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Composition composition.Composition `json:"composition"`
	Category    material.Category       `json:"category"`
	Description string                  `json:"description,omitempty"`
	Properties  material.Properties     `json:"properties"`
}

// OptimizationResult is one ranked candidate.
type OptimizationResult struct {
	Material  Candidate  `json:"material"`
	Score     float64    `json:"score"`
	Tradeoffs Objectives `json:"tradeoffs"`
}

// Impact grades a recommendation.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Recommendation is a suggested composition change.
type Recommendation struct {
	Name                 string                  `json:"name"`
	Composition          composition.Composition `json:"composition"`
	Category             string                  `json:"category"`
	Rationale            string                  `json:"rationale"`
	ExpectedImprovements []string                `json:"expectedImprovements"`
	Tradeoffs            []string                `json:"tradeoffs,omitempty"`
	Impact               Impact                  `json:"impact"`
	SustainabilityImpact string                  `json:"sustainabilityImpact,omitempty"`
	CostImpact           string                  `json:"costImpact,omitempty"`
}

// PropertyType names a property bundle.
type PropertyType string

const (
	PropertyMechanical PropertyType = "mechanical"
	PropertyElectrical PropertyType = "electrical"
	PropertyChemical   PropertyType = "chemical"
)

// PropertyTarget asks for compositions reaching one property value.
type PropertyTarget struct {
	PropertyType PropertyType `json:"propertyType"`
	PropertyName string       `json:"propertyName"`
	TargetValue  float64      `json:"targetValue"`
	Unit         string       `json:"unit"`
}

// Validate checks the target names a known bundle and a property.
func (t PropertyTarget) Validate() error {
	switch t.PropertyType {
	case PropertyMechanical, PropertyElectrical, PropertyChemical:
	default:
		return errors.InvalidParam("propertyType must be mechanical, electrical or chemical").
			WithDetail(string(t.PropertyType))
	}
	if strings.TrimSpace(t.PropertyName) == "" {
		return errors.InvalidParam("propertyName is required")
	}
	return nil
}

// ModificationType is the kind of change a Modification makes.
type ModificationType string

const (
	ModAdd      ModificationType = "add"
	ModRemove   ModificationType = "remove"
	ModIncrease ModificationType = "increase"
	ModDecrease ModificationType = "decrease"
)

// Modification is a single-element composition tweak. Amount is in
// percentage points.
type Modification struct {
	Type           ModificationType `json:"type"`
	Element        string           `json:"element"`
	Amount         float64          `json:"amount"`
	Reason         string           `json:"reason"`
	ExpectedEffect string           `json:"expectedEffect"`
}

// IssueAnalysis lists problems found in a material and fixes for them.
type IssueAnalysis struct {
	Issues      []string       `json:"issues"`
	Suggestions []Modification `json:"suggestions"`
}
