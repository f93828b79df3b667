package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodicTable_Lookup(t *testing.T) {
	table := PeriodicTable()

	fe, ok := table.Lookup("Fe")
	require.True(t, ok)
	assert.Equal(t, "Iron", fe.Name)
	assert.Equal(t, 26, fe.AtomicNumber)
	assert.InDelta(t, 55.85, fe.AtomicMass, 1e-9)
	assert.Equal(t, TransitionMetal, fe.Category)

	_, ok = table.Lookup("fe")
	assert.False(t, ok, "symbols are case-sensitive")
	_, ok = table.Lookup("La")
	assert.False(t, ok, "lanthanides are not part of the compiled table")
}

func TestPeriodicTable_LookupFold(t *testing.T) {
	table := PeriodicTable()

	for _, in := range []string{"fe", "FE", " Fe ", "fE"} {
		e, ok := table.LookupFold(in)
		require.True(t, ok, in)
		assert.Equal(t, "Fe", e.Symbol, in)
	}
	co, ok := table.LookupFold("CO")
	require.True(t, ok)
	assert.Equal(t, "Cobalt", co.Name)

	for _, in := range []string{"", "  ", "xx", "La"} {
		_, ok := table.LookupFold(in)
		assert.False(t, ok, in)
	}
}

func TestPeriodicTable_Coverage(t *testing.T) {
	table := PeriodicTable()
	all := table.All()

	assert.Equal(t, 68, table.Len())
	assert.Equal(t, "H", all[0].Symbol)
	assert.Equal(t, "Bi", all[len(all)-1].Symbol)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].AtomicNumber, all[i].AtomicNumber)
	}
}

func TestPeriodicTable_ByCategory(t *testing.T) {
	table := PeriodicTable()

	noble := table.ByCategory(NobleGas)
	symbols := make([]string, 0, len(noble))
	for _, e := range noble {
		symbols = append(symbols, e.Symbol)
		assert.Zero(t, e.Electronegativity)
	}
	assert.Equal(t, []string{"He", "Ne", "Ar", "Kr", "Xe"}, symbols)

	assert.Len(t, table.ByCategory(Halogen), 4)
	assert.Empty(t, table.ByCategory(Actinide))
}

func TestParseElementCategory(t *testing.T) {
	c, ok := ParseElementCategory("Noble-Gas")
	assert.True(t, ok)
	assert.Equal(t, NobleGas, c)

	_, ok = ParseElementCategory("gas")
	assert.False(t, ok)
	assert.Len(t, ElementCategories, 10)
}

func TestMonomers_Catalog(t *testing.T) {
	catalog := Monomers()
	all := catalog.All()

	assert.Len(t, all, 18)
	assert.Len(t, MonomerCategories, 12)

	styrene, ok := catalog.Get("styrene")
	require.True(t, ok)
	assert.True(t, styrene.HasGroup(GroupAromatic))
	assert.True(t, styrene.Supports(Radical))
	assert.False(t, styrene.Supports(StepGrowth))
	assert.InDelta(t, 100.0, styrene.Properties.GlassTransitionTemp, 1e-9)
	assert.Equal(t, styrene.Reactivity, styrene.Properties.ReactivityIndex)

	for _, m := range all {
		var sum float64
		for _, pct := range m.Composition {
			sum += pct
		}
		assert.InDelta(t, 100.0, sum, 0.2, m.ID)
	}
}

func TestMonomers_ByCategoryAndSearch(t *testing.T) {
	catalog := Monomers()

	dienes := catalog.ByCategory(CategoryDiene)
	require.Len(t, dienes, 2)
	assert.Equal(t, "butadiene", dienes[0].ID)
	assert.Equal(t, "isoprene", dienes[1].ID)

	assert.Len(t, catalog.Search("ACRYL"), 3, "acrylic acid, acrylonitrile and methyl methacrylate")
	assert.NotEmpty(t, catalog.Search("c₂h₄"))
	assert.Empty(t, catalog.Search("kevlar"))
}

func TestMonomers_Compatible(t *testing.T) {
	catalog := Monomers()

	caprolactam, _ := catalog.Get("caprolactam")
	compatible := catalog.Compatible(caprolactam)

	ids := make(map[string]bool)
	for _, m := range compatible {
		ids[m.ID] = true
	}
	assert.False(t, ids["caprolactam"])
	assert.True(t, ids["epichlorohydrin"], "shares ring-opening")
	assert.True(t, ids["terephthalic-acid"], "shares step-growth")
	assert.False(t, ids["ethylene"])
}

func TestMonomers_Resolve(t *testing.T) {
	found, missing := Monomers().Resolve([]string{"styrene", "nylon", "styrene", "butadiene"})

	require.Len(t, found, 2)
	assert.Equal(t, "styrene", found[0].ID)
	assert.Equal(t, []string{"nylon"}, missing)
}
