package polymer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/domain/reference"
)

func monomers(t *testing.T, ids ...string) []reference.Monomer {
	t.Helper()
	found, missing := reference.Monomers().Resolve(ids)
	require.Empty(t, missing)
	return found
}

func TestSuggestMethod(t *testing.T) {
	tests := []struct {
		ids  []string
		want Method
	}{
		{[]string{"styrene"}, FreeRadical},
		{[]string{"caprolactam"}, RingOpeningPoly},
		{[]string{"terephthalic-acid"}, StepGrowthPoly},
		{[]string{"caprolactam", "styrene"}, FreeRadical},
		{nil, FreeRadical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuggestMethod(monomers(t, tt.ids...)), "%v", tt.ids)
	}

	ionicOnly := plainMonomer("x")
	ionicOnly.Properties.PolymerizationTypes = []reference.PolymerizationType{reference.Ionic}
	assert.Equal(t, Anionic, SuggestMethod([]reference.Monomer{ionicOnly}))
}

func TestCheckCompatibility_Empty(t *testing.T) {
	got := CheckCompatibility(nil)
	assert.False(t, got.Compatible)
	assert.Equal(t, []string{IssueNoMonomers}, got.Issues)
}

func TestCheckCompatibility_SharedMechanism(t *testing.T) {
	got := CheckCompatibility(monomers(t, "styrene", "butadiene"))
	assert.True(t, got.Compatible)
	assert.Empty(t, got.Issues)
	assert.NotNil(t, got.Issues)
}

func TestCheckCompatibility_NoCommonMechanism(t *testing.T) {
	got := CheckCompatibility(monomers(t, "styrene", "terephthalic-acid"))
	assert.False(t, got.Compatible)
	assert.Equal(t, []string{IssueNoCommonRoute}, got.Issues)
}

func TestCheckCompatibility_ToxicIsOnlyAWarning(t *testing.T) {
	got := CheckCompatibility(monomers(t, "styrene", "acrylonitrile"))
	assert.True(t, got.Compatible)
	require.Len(t, got.Issues, 1)
	assert.Equal(t, "Warning: Contains highly toxic monomer(s): Acrylonitrile", got.Issues[0])
	assert.True(t, IsWarning(got.Issues[0]))
}

func TestCheckCompatibility_TooMany(t *testing.T) {
	got := CheckCompatibility(monomers(t, "ethylene", "propylene", "styrene", "butadiene", "isoprene", "vinyl-acetate"))
	assert.False(t, got.Compatible)
	assert.Equal(t, []string{IssueTooMany}, got.Issues)
}
