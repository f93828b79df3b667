package composition

import (
	"math"

	"github.com/turtacn/MatForge/internal/domain/reference"
)

// Warning texts returned by ScoreCompatibility.
const (
	WarnNobleGas        = "Noble gases typically do not form stable compounds"
	WarnAlkaliReactive  = "Alkali metals react violently with halogens/oxygen - handle with care"
	WarnHighEntropy     = "High-entropy alloys with >10 elements are extremely difficult to synthesize"
	WarnComplexAlloy    = "Complex alloys with >7 elements require advanced processing"
	WarnSumNot100       = "Composition must sum to 100%"
	penaltyNobleGas     = 30
	penaltyAlkali       = 15
	penaltyHighEntropy  = 25
	penaltyComplexAlloy = 10
)

// molarVolume is the ideal-gas molar volume (L/mol) used as the density proxy.
const molarVolume = 22.4

// Compatibility is the outcome of ScoreCompatibility.
type Compatibility struct {
	Score    int      `json:"score"`
	Warnings []string `json:"warnings"`
}

// EstimateDensity returns Σ(percent/100 · atomicMass/22.4) over the symbols
// found in table, divided by (total/100) where total is the full supplied
// percentage. Unknown symbols add nothing to the numerator but still count in
// the denominator, so compositions with unknown symbols under-estimate.
func EstimateDensity(c Composition, table ElementLookup) float64 {
	total := c.Total()
	if total <= 0 {
		return 0
	}
	var density float64
	for sym, pct := range c {
		if e, ok := table.Lookup(sym); ok {
			density += (pct / 100) * (e.AtomicMass / molarVolume)
		}
	}
	return density / (total / 100)
}

// ScoreCompatibility applies the fixed deduction table starting at 100:
// noble gas −30, alkali with halogen/oxygen −15, >10 symbols −25 or 8–10
// symbols −10. A sum outside tolerance resets the score to 0. Warnings are
// ordered as the rules are listed.
func ScoreCompatibility(c Composition, table ElementLookup) Compatibility {
	warnings := []string{}
	score := 100

	var noble, alkali, oxidiser bool
	for sym := range c {
		if sym == "O" {
			oxidiser = true
		}
		e, ok := table.Lookup(sym)
		if !ok {
			continue
		}
		switch e.Category {
		case reference.NobleGas:
			noble = true
		case reference.AlkaliMetal:
			alkali = true
		case reference.Halogen:
			oxidiser = true
		}
	}

	if noble {
		warnings = append(warnings, WarnNobleGas)
		score -= penaltyNobleGas
	}
	if alkali && oxidiser {
		warnings = append(warnings, WarnAlkaliReactive)
		score -= penaltyAlkali
	}

	switch n := len(c); {
	case n > 10:
		warnings = append(warnings, WarnHighEntropy)
		score -= penaltyHighEntropy
	case n > 7:
		warnings = append(warnings, WarnComplexAlloy)
		score -= penaltyComplexAlloy
	}

	if math.Abs(c.Total()-100) > Tolerance {
		warnings = append(warnings, WarnSumNot100)
		score = 0
	}

	if score < 0 {
		score = 0
	}
	return Compatibility{Score: score, Warnings: warnings}
}

// Processing holds suggested synthesis parameters.
type Processing struct {
	Temperature float64 `json:"temperature"` // K
	Pressure    float64 `json:"pressure"`    // atm
	Time        float64 `json:"time"`        // minutes
	Atmosphere  string  `json:"atmosphere"`
}

// reactiveMetals need an inert atmosphere and near-vacuum.
var reactiveMetals = map[string]struct{}{
	"Li": {}, "Na": {}, "K": {}, "Mg": {}, "Ca": {}, "Al": {}, "Ti": {},
}

// ProcessingRecommendation derives processing parameters: three quarters of
// the highest known melting point, rounded, for 120 minutes; inert gas at
// 0.001 atm when a reactive metal is present, air at 1 atm otherwise.
func ProcessingRecommendation(c Composition, table ElementLookup) Processing {
	var maxMelting float64
	reactive := false
	for sym := range c {
		if e, ok := table.Lookup(sym); ok && e.MeltingPoint > maxMelting {
			maxMelting = e.MeltingPoint
		}
		if _, ok := reactiveMetals[sym]; ok {
			reactive = true
		}
	}

	p := Processing{
		Temperature: math.Round(maxMelting * 0.75),
		Pressure:    1,
		Time:        120,
		Atmosphere:  "Air",
	}
	if reactive {
		p.Pressure = 0.001
		p.Atmosphere = "Inert (Ar/N2)"
	}
	return p
}
