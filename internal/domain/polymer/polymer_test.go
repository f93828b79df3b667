package polymer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/pkg/errors"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func plainMonomer(id string) reference.Monomer {
	return reference.Monomer{
		ID:              id,
		Name:            id,
		MolecularWeight: 100,
		Reactivity:      0.8,
		Composition:     map[string]float64{"C": 85.7, "H": 14.3},
		Properties: reference.MonomerProperties{
			PolymerizationTypes: []reference.PolymerizationType{reference.Radical},
			GlassTransitionTemp: 100,
			Toxicity:            reference.ToxicityLow,
		},
	}
}

func single(id string, arch Architecture, crosslinking float64) Composition {
	return Composition{Units: []Unit{{MonomerID: id, MoleFraction: 1}}, Architecture: arch, Crosslinking: crosslinking}
}

func v(p *float64) float64 { return material.Value(p) }

func TestPredict_LinearSingleMonomer(t *testing.T) {
	m := plainMonomer("m1")
	got := Predict([]reference.Monomer{m}, single("m1", Linear, 0), fixedRand(0))

	mech := got.Mechanical
	assert.InDelta(t, 84.0, v(mech.TensileStrength), 1e-9)
	assert.InDelta(t, 58.8, v(mech.YieldStrength), 1e-9)
	assert.InDelta(t, 6.0, v(mech.Elasticity), 1e-9)
	assert.InDelta(t, 57.0, v(mech.Hardness), 1e-9)
	assert.InDelta(t, 1.1, v(mech.Density), 1e-9)
	assert.InDelta(t, 84*5*0.1*1.1, v(mech.Toughness), 1e-9, "toughness uses the unmodified elasticity")

	assert.InDelta(t, 1e-14, v(got.Electrical.Conductivity), 1e-30)
	assert.InDelta(t, 1e14, v(got.Electrical.Resistivity), 1)
	assert.Equal(t, 2.8, v(got.Electrical.DielectricConstant))
	assert.Equal(t, 5.0, v(got.Electrical.BandGap))

	assert.Equal(t, 7.0, v(got.Chemical.CorrosionResistance))
	assert.InDelta(t, 2.0, v(got.Chemical.Reactivity), 1e-9)
	assert.Equal(t, 7.0, v(got.Chemical.Stability))
	assert.Equal(t, 6.0, v(got.Chemical.OxidationResistance))

	assert.Equal(t, 100.0, v(got.Thermal.GlassTransitionTemp))
	assert.Equal(t, 200.0, v(got.Thermal.MeltingTemp))
	assert.Equal(t, 300.0, v(got.Thermal.DecompositionTemp))
	assert.InDelta(t, 0.1, v(got.Thermal.ThermalConductivity), 1e-9)
	assert.InDelta(t, 1.3, v(got.Thermal.HeatCapacity), 1e-9)

	assert.Equal(t, 0.75, v(got.Confidence))
}

func TestPredict_ConfidenceRange(t *testing.T) {
	m := plainMonomer("m1")
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		c := v(Predict([]reference.Monomer{m}, single("m1", Star, 0.3), rng).Confidence)
		assert.GreaterOrEqual(t, c, 0.75)
		assert.Less(t, c, 0.90)
	}

	c := v(Predict([]reference.Monomer{m}, single("m1", Linear, 0), nil).Confidence)
	assert.GreaterOrEqual(t, c, 0.75)
	assert.Less(t, c, 0.90)
}

func TestPredict_NetworkHasNoMeltingPoint(t *testing.T) {
	m := plainMonomer("m1")
	got := Predict([]reference.Monomer{m}, single("m1", Network, 1), fixedRand(0.5))

	assert.Nil(t, got.Thermal.MeltingTemp)
	// bonus 0.5: tensile 20+64+15 = 99, elasticity max(0.5, 10-5-1) = 4
	assert.InDelta(t, 99*1.3, v(got.Mechanical.TensileStrength), 1e-9)
	assert.InDelta(t, 4*0.6, v(got.Mechanical.Elasticity), 1e-9)
	assert.InDelta(t, 99*4*0.1*1.2, v(got.Mechanical.Toughness), 1e-9)
	assert.InDelta(t, 8.0, v(got.Chemical.Stability), 1e-9)
	assert.InDelta(t, 325.0, v(got.Thermal.DecompositionTemp), 1e-9)
}

func TestPredict_ElasticityFloor(t *testing.T) {
	m := plainMonomer("hot")
	m.Properties.GlassTransitionTemp = 400
	got := Predict([]reference.Monomer{m}, single("hot", Architecture("helical"), 0), fixedRand(0))

	assert.Equal(t, 0.5, v(got.Mechanical.Elasticity), "unknown architecture uses unit modifiers")
}

func TestPredict_BranchConstants(t *testing.T) {
	catalog := reference.Monomers()
	ptfe, _ := catalog.Get("tetrafluoroethylene")
	styrene, _ := catalog.Get("styrene")
	acid, _ := catalog.Get("acrylic-acid")

	fl := Predict([]reference.Monomer{ptfe, styrene}, single(ptfe.ID, Linear, 0), fixedRand(0))
	assert.Equal(t, 1e-16, v(fl.Electrical.Conductivity))
	assert.Equal(t, 2.1, v(fl.Electrical.DielectricConstant))
	assert.Equal(t, 9.5, v(fl.Chemical.CorrosionResistance))
	assert.Equal(t, 9.0, v(fl.Chemical.OxidationResistance))
	assert.Equal(t, 8.5, v(fl.Chemical.Stability), "aromatic styrene is in the monomer set")

	ar := Predict([]reference.Monomer{styrene}, single(styrene.ID, Linear, 0), fixedRand(0))
	assert.Equal(t, 1e-12, v(ar.Electrical.Conductivity))
	assert.Equal(t, 3.5, v(ar.Electrical.DielectricConstant))
	assert.InDelta(t, 0.25, v(ar.Thermal.ThermalConductivity), 1e-9)

	cx := Predict([]reference.Monomer{acid}, single(acid.ID, Linear, 0), fixedRand(0))
	assert.Equal(t, 5.0, v(cx.Chemical.CorrosionResistance))
}

func TestPredict_UnknownAndZeroFractions(t *testing.T) {
	m := plainMonomer("m1")

	unknown := Predict([]reference.Monomer{m}, Composition{
		Units:        []Unit{{MonomerID: "m1", MoleFraction: 1}, {MonomerID: "ghost", MoleFraction: 1}},
		Architecture: Linear,
	}, fixedRand(0))
	assert.InDelta(t, 50.0, v(unknown.Thermal.GlassTransitionTemp), 1e-9, "ghost keeps its share of the denominator")

	zero := Predict([]reference.Monomer{m}, Composition{Units: []Unit{{MonomerID: "m1"}}, Architecture: Linear}, fixedRand(0))
	for _, p := range []*float64{zero.Mechanical.TensileStrength, zero.Mechanical.Hardness, zero.Thermal.HeatCapacity} {
		assert.False(t, math.IsNaN(v(p)))
	}
	assert.Equal(t, 20.0, v(zero.Mechanical.TensileStrength))
}

func TestPredict_FractionsRenormalised(t *testing.T) {
	a := plainMonomer("a")
	b := plainMonomer("b")
	b.Properties.GlassTransitionTemp = 0
	comp := Composition{Units: []Unit{{MonomerID: "a", MoleFraction: 30}, {MonomerID: "b", MoleFraction: 10}}, Architecture: Linear}

	got := Predict([]reference.Monomer{a, b}, comp, fixedRand(0))
	assert.InDelta(t, 75.0, v(got.Thermal.GlassTransitionTemp), 1e-9)
}

func TestParseArchitecture(t *testing.T) {
	a, err := ParseArchitecture(" Dendritic")
	require.NoError(t, err)
	assert.Equal(t, Dendritic, a)

	_, err = ParseArchitecture("ladder")
	assert.True(t, errors.IsCode(err, errors.ErrCodeArchitectureInvalid))
}

func TestComposition_Validate(t *testing.T) {
	assert.NoError(t, single("x", Linear, 0.5).Validate())
	assert.True(t, errors.IsCode(Composition{}.Validate(), errors.ErrCodePolymerInvalid))
	assert.True(t, errors.IsCode(single("x", Linear, 1.5).Validate(), errors.ErrCodePolymerInvalid))
	bad := Composition{Units: []Unit{{MonomerID: "x", MoleFraction: -1}}}
	assert.True(t, errors.IsCode(bad.Validate(), errors.ErrCodePolymerInvalid))
}

func TestBuild(t *testing.T) {
	a, b := plainMonomer("a"), plainMonomer("b")
	comp := Build([]reference.Monomer{a, b}, map[string]float64{"a": 75, "b": 25}, Comb, 40, fixedRand(0.5))

	require.Len(t, comp.Units, 2)
	assert.InDelta(t, 0.75, comp.Units[0].MoleFraction, 1e-9)
	assert.Equal(t, "random", comp.Units[0].Distribution)
	assert.InDelta(t, 0.4, comp.Crosslinking, 1e-9)
	assert.Equal(t, 125000.0, comp.MolecularWeight)
	assert.Equal(t, 2.0, comp.Polydispersity)

	solo := Build([]reference.Monomer{a}, BalanceEqually([]reference.Monomer{a}), Linear, 0, fixedRand(0))
	assert.Empty(t, solo.Units[0].Distribution)
	assert.Equal(t, 1.0, solo.Units[0].MoleFraction)
}

func TestElementalComposition(t *testing.T) {
	catalog := reference.Monomers()
	ethylene, _ := catalog.Get("ethylene")
	ptfe, _ := catalog.Get("tetrafluoroethylene")

	got := ElementalComposition([]Weighted{{Monomer: ethylene, Fraction: 0.5}, {Monomer: ptfe, Fraction: 0.5}})
	assert.InDelta(t, 100.0, got.Total(), 1e-9)
	assert.Contains(t, got, "F")
	assert.Contains(t, got, "H")

	assert.Empty(t, ElementalComposition(nil))
	assert.Empty(t, ElementalComposition([]Weighted{{Monomer: ethylene, Fraction: 0}}))
}

func TestResolve(t *testing.T) {
	m := plainMonomer("m1")
	ws := Resolve([]reference.Monomer{m}, Composition{Units: []Unit{{MonomerID: "m1", MoleFraction: 0.6}, {MonomerID: "ghost", MoleFraction: 0.4}}})
	require.Len(t, ws, 1)
	assert.Equal(t, 0.6, ws[0].Fraction)
}
