package polymer

import (
	"strings"

	"github.com/turtacn/MatForge/internal/domain/reference"
)

// Method is a suggested polymerisation route.
type Method string

const (
	FreeRadical     Method = "free-radical"
	RingOpeningPoly Method = "ring-opening"
	Anionic         Method = "anionic"
	StepGrowthPoly  Method = "step-growth"
)

// MaxMonomers is the largest monomer set considered stable.
const MaxMonomers = 5

// Issue texts reported by CheckCompatibility.
const (
	IssueNoMonomers    = "At least one monomer is required"
	IssueTooMany       = "Maximum 5 monomers recommended for stable polymerization"
	IssueNoCommonRoute = "Selected monomers may not co-polymerize effectively - incompatible polymerization mechanisms"
	issueToxicPrefix   = "Warning: Contains highly toxic monomer(s): "
)

// SuggestMethod picks a route supported by at least one monomer, preferring
// radical, then ring-opening, ionic and step-growth. Free-radical is the
// fallback.
func SuggestMethod(monomers []reference.Monomer) Method {
	has := func(p reference.PolymerizationType) bool {
		for _, m := range monomers {
			if m.Supports(p) {
				return true
			}
		}
		return false
	}
	switch {
	case has(reference.Radical):
		return FreeRadical
	case has(reference.RingOpening):
		return RingOpeningPoly
	case has(reference.Ionic):
		return Anionic
	case has(reference.StepGrowth):
		return StepGrowthPoly
	default:
		return FreeRadical
	}
}

// CompatibilityReport lists the problems with a monomer selection.
// Compatible is false only when an issue other than a warning is present.
type CompatibilityReport struct {
	Compatible bool     `json:"compatible"`
	Issues     []string `json:"issues"`
}

// CheckCompatibility reports whether monomers can be polymerised together.
func CheckCompatibility(monomers []reference.Monomer) CompatibilityReport {
	issues := []string{}
	if len(monomers) == 0 {
		return CompatibilityReport{Compatible: false, Issues: append(issues, IssueNoMonomers)}
	}
	if len(monomers) > MaxMonomers {
		issues = append(issues, IssueTooMany)
	}
	if len(monomers) > 1 && !shareMechanism(monomers) {
		issues = append(issues, IssueNoCommonRoute)
	}

	var toxic []string
	for _, m := range monomers {
		if m.Properties.Toxicity == reference.ToxicityHigh {
			toxic = append(toxic, m.Name)
		}
	}
	if len(toxic) > 0 {
		issues = append(issues, issueToxicPrefix+strings.Join(toxic, ", "))
	}

	compatible := true
	for _, i := range issues {
		if !IsWarning(i) {
			compatible = false
			break
		}
	}
	return CompatibilityReport{Compatible: compatible, Issues: issues}
}

// IsWarning reports whether issue is advisory only.
func IsWarning(issue string) bool {
	return strings.HasPrefix(issue, "Warning")
}

// shareMechanism reports whether one mechanism of the first monomer is
// supported by all of them.
func shareMechanism(monomers []reference.Monomer) bool {
	for _, p := range monomers[0].Properties.PolymerizationTypes {
		all := true
		for _, m := range monomers[1:] {
			if !m.Supports(p) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
