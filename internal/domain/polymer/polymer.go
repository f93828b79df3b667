// Package polymer predicts polymer properties from monomer attributes with a
// fixed local heuristic. It never calls out; the only nondeterminism is the
// confidence draw from the injected random source.
package polymer

import (
	"math"
	"math/rand"
	"strings"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Architecture
// ─────────────────────────────────────────────────────────────────────────────

// Architecture is the chain topology of a polymer.
type Architecture string

const (
	Linear    Architecture = "linear"
	Branched  Architecture = "branched"
	Star      Architecture = "star"
	Comb      Architecture = "comb"
	Dendritic Architecture = "dendritic"
	Network   Architecture = "network"
)

// Architectures lists every known topology.
var Architectures = []Architecture{Linear, Branched, Star, Comb, Dendritic, Network}

// ParseArchitecture returns the architecture named s (case-insensitive).
func ParseArchitecture(s string) (Architecture, error) {
	for _, a := range Architectures {
		if strings.EqualFold(string(a), strings.TrimSpace(s)) {
			return a, nil
		}
	}
	return "", errors.New(errors.ErrCodeArchitectureInvalid, "unknown polymer architecture").WithDetail(s)
}

// Modifier scales the base mechanical estimates.
type Modifier struct {
	Strength   float64
	Elasticity float64
	Hardness   float64
	Toughness  float64
}

// Modifier returns the multipliers for a. Anything outside Architectures
// gets all ones.
func (a Architecture) Modifier() Modifier {
	switch a {
	case Linear:
		return Modifier{Strength: 1.0, Elasticity: 1.2, Hardness: 0.9, Toughness: 1.1}
	case Branched:
		return Modifier{Strength: 0.85, Elasticity: 1.4, Hardness: 0.8, Toughness: 1.0}
	case Star:
		return Modifier{Strength: 0.9, Elasticity: 1.3, Hardness: 0.85, Toughness: 1.05}
	case Comb:
		return Modifier{Strength: 0.8, Elasticity: 1.5, Hardness: 0.75, Toughness: 0.95}
	case Dendritic:
		return Modifier{Strength: 1.1, Elasticity: 0.8, Hardness: 1.2, Toughness: 1.15}
	case Network:
		return Modifier{Strength: 1.3, Elasticity: 0.6, Hardness: 1.5, Toughness: 1.2}
	default:
		return Modifier{Strength: 1, Elasticity: 1, Hardness: 1, Toughness: 1}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Composition
// ─────────────────────────────────────────────────────────────────────────────

// Unit is one monomer's share of a polymer. MoleFraction need not be
// normalised; Predict rescales against the sum of all units.
type Unit struct {
	MonomerID    string  `json:"monomerId"`
	MonomerName  string  `json:"monomerName,omitempty"`
	MoleFraction float64 `json:"moleFraction"`
	Distribution string  `json:"distribution,omitempty"`
}

// Composition describes a polymer. Crosslinking is a fraction in [0, 1].
type Composition struct {
	Units           []Unit       `json:"monomers"`
	Architecture    Architecture `json:"architecture"`
	Crosslinking    float64      `json:"crosslinking"`
	MolecularWeight float64      `json:"molecularWeight,omitempty"`
	Polydispersity  float64      `json:"polydispersity,omitempty"`
}

// Validate rejects compositions Predict could not make sense of.
func (c Composition) Validate() error {
	if len(c.Units) == 0 {
		return errors.New(errors.ErrCodePolymerInvalid, "at least one monomer is required")
	}
	for _, u := range c.Units {
		if u.MoleFraction < 0 || math.IsNaN(u.MoleFraction) {
			return errors.New(errors.ErrCodePolymerInvalid, "mole fractions must be non-negative").WithDetail(u.MonomerID)
		}
	}
	if c.Crosslinking < 0 || c.Crosslinking > 1 {
		return errors.New(errors.ErrCodePolymerInvalid, "crosslinking must be between 0 and 1")
	}
	return nil
}

// Rand is the random source behind the confidence draw and the sampled
// chain statistics.
type Rand interface {
	Float64() float64
}

// Build assembles a Composition from percentage shares keyed by monomer ID.
// Shares are normalised to fractions, crosslinkingPct is 0–100, and a
// copolymer gets a random distribution. Molecular weight and polydispersity
// are sampled from [50000, 200000) and [1.5, 2.5).
func Build(monomers []reference.Monomer, shares map[string]float64, arch Architecture, crosslinkingPct float64, rng Rand) Composition {
	if rng == nil {
		rng = defaultRand()
	}
	var total float64
	for _, m := range monomers {
		total += shares[m.ID]
	}

	units := make([]Unit, 0, len(monomers))
	for _, m := range monomers {
		u := Unit{MonomerID: m.ID, MonomerName: m.Name}
		if total > 0 {
			u.MoleFraction = shares[m.ID] / total
		}
		if len(monomers) > 1 {
			u.Distribution = "random"
		}
		units = append(units, u)
	}
	return Composition{
		Units:           units,
		Architecture:    arch,
		Crosslinking:    crosslinkingPct / 100,
		MolecularWeight: 50000 + rng.Float64()*150000,
		Polydispersity:  1.5 + rng.Float64(),
	}
}

// BalanceEqually gives every monomer the same percentage share.
func BalanceEqually(monomers []reference.Monomer) map[string]float64 {
	out := make(map[string]float64, len(monomers))
	for _, m := range monomers {
		out[m.ID] = 100 / float64(len(monomers))
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Prediction
// ─────────────────────────────────────────────────────────────────────────────

// Prediction is the heuristic's output.
type Prediction struct {
	material.Properties
	Thermal material.Thermal `json:"thermal"`
}

// Predict estimates properties for comp from the attributes of monomers.
// Units naming a monomer absent from monomers contribute nothing. Fluorine,
// aromatic and carboxyl presence is judged over the whole monomer list.
func Predict(monomers []reference.Monomer, comp Composition, rng Rand) Prediction {
	if rng == nil {
		rng = defaultRand()
	}
	byID := make(map[string]reference.Monomer, len(monomers))
	for _, m := range monomers {
		byID[m.ID] = m
	}

	var totalFraction float64
	for _, u := range comp.Units {
		totalFraction += u.MoleFraction
	}

	var tg, reactivity, molWeight float64
	if totalFraction > 0 {
		for _, u := range comp.Units {
			m, ok := byID[u.MonomerID]
			if !ok {
				continue
			}
			f := u.MoleFraction / totalFraction
			tg += m.Properties.GlassTransitionTemp * f
			reactivity += m.Reactivity * f
			molWeight += m.MolecularWeight * f
		}
	}

	mod := comp.Architecture.Modifier()
	bonus := comp.Crosslinking * 0.5

	tensile := 20 + reactivity*80 + bonus*30
	elasticity := math.Max(0.5, 10-tg/20-bonus*2)
	hardness := 30 + tg/3 + bonus*20
	density := 0.9 + molWeight/500 + bonus*0.2

	var fluorine, aromatic, carboxyl bool
	for _, m := range monomers {
		if m.Composition["F"] > 0 {
			fluorine = true
		}
		if m.HasGroup(reference.GroupAromatic) {
			aromatic = true
		}
		if m.HasGroup(reference.GroupCarboxyl) {
			carboxyl = true
		}
	}

	conductivity, dielectric := 1e-14, 2.8
	switch {
	case fluorine:
		conductivity, dielectric = 1e-16, 2.1
	case aromatic:
		conductivity, dielectric = 1e-12, 3.5
	}

	corrosion := 7.0
	switch {
	case fluorine:
		corrosion = 9.5
	case carboxyl:
		corrosion = 5.0
	}

	stability := 7.0 + bonus*2
	oxidation := 6.0 + bonus
	thermalConductivity := 0.1 + bonus*0.05
	decomposition := 200 + tg + bonus*50
	if aromatic {
		stability += 1.5
		thermalConductivity += 0.15
		decomposition += 100
	}
	if fluorine {
		oxidation += 3.0
	}

	var melting *float64
	if comp.Architecture != Network {
		melting = material.Float(tg + 100)
	}

	f := material.Float
	return Prediction{
		Properties: material.Properties{
			Mechanical: material.Mechanical{
				TensileStrength: f(tensile * mod.Strength),
				YieldStrength:   f(tensile * 0.7 * mod.Strength),
				Elasticity:      f(elasticity * mod.Elasticity),
				Hardness:        f(hardness * mod.Hardness),
				Density:         f(density),
				Toughness:       f(tensile * elasticity * 0.1 * mod.Toughness),
			},
			Electrical: material.Electrical{
				Conductivity:       f(conductivity),
				Resistivity:        f(1 / conductivity),
				DielectricConstant: f(dielectric),
				BandGap:            f(5.0),
			},
			Chemical: material.Chemical{
				CorrosionResistance: f(math.Min(10, corrosion)),
				Reactivity:          f(10 - reactivity*10),
				Stability:           f(math.Min(10, stability)),
				OxidationResistance: f(math.Min(10, oxidation)),
			},
			Confidence: f(0.75 + rng.Float64()*0.15),
		},
		Thermal: material.Thermal{
			GlassTransitionTemp: f(tg),
			MeltingTemp:         melting,
			DecompositionTemp:   f(decomposition),
			ThermalConductivity: f(thermalConductivity),
			HeatCapacity:        f(1.2 + molWeight/1000),
		},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Elemental composition
// ─────────────────────────────────────────────────────────────────────────────

// Weighted pairs a monomer with its share of the polymer.
type Weighted struct {
	Monomer  reference.Monomer
	Fraction float64
}

// ElementalComposition folds monomer compositions into one element
// composition normalised to 100. A zero total yields an empty composition.
func ElementalComposition(units []Weighted) composition.Composition {
	out := composition.Composition{}
	for _, w := range units {
		for el, pct := range w.Monomer.Composition {
			out[el] += pct / 100 * w.Fraction
		}
	}
	if out.Total() <= 0 {
		return composition.Composition{}
	}
	return composition.Normalize(out)
}

// Resolve pairs each unit of comp with its monomer, skipping unknown IDs.
func Resolve(monomers []reference.Monomer, comp Composition) []Weighted {
	byID := make(map[string]reference.Monomer, len(monomers))
	for _, m := range monomers {
		byID[m.ID] = m
	}
	out := make([]Weighted, 0, len(comp.Units))
	for _, u := range comp.Units {
		if m, ok := byID[u.MonomerID]; ok {
			out = append(out, Weighted{Monomer: m, Fraction: u.MoleFraction})
		}
	}
	return out
}

func defaultRand() Rand {
	return rand.New(rand.NewSource(rand.Int63()))
}
