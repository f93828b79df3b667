package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/application/simulation"
	"github.com/turtacn/MatForge/internal/testutil"
	"github.com/turtacn/MatForge/pkg/errors"
)

func simulationRouter(t *testing.T) (*gin.Engine, *testutil.FakeOracle) {
	t.Helper()
	gateway, fake := testutil.NewFakeGateway()
	svc := simulation.NewService(simulation.Config{Oracle: gateway, Rand: testutil.FixedRand(0.5)})
	r := gin.New()
	NewSimulationHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, fake
}

func TestSimulation_Normalize(t *testing.T) {
	r, _ := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/compositions/normalize", map[string]any{
		"composition": map[string]float64{"Cu": 30, "Zn": 20},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"composition":{"Cu":60,"Zn":40}}`, w.Body.String())
}

func TestSimulation_Validate(t *testing.T) {
	r, _ := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/compositions/validate", map[string]any{
		"composition": map[string]float64{"Fe": 70, "Cr": 20, "Ni": 10},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ValidationResponse](t, w)
	assert.True(t, resp.Valid)
	assert.Equal(t, 100.0, resp.Total)
	assert.Empty(t, resp.Reason)

	w = doJSON(r, http.MethodPost, "/api/v1/compositions/validate", map[string]any{
		"composition": map[string]float64{"Fe": 70, "Cr": 20},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody[ValidationResponse](t, w)
	assert.False(t, resp.Valid)
	assert.Equal(t, 90.0, resp.Total)
	assert.NotEmpty(t, resp.Reason)
}

func TestSimulation_Analyze(t *testing.T) {
	r, fake := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/compositions/analyze", map[string]any{
		"composition": map[string]float64{"Li": 50, "Cl": 50},
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[simulation.Analysis](t, w)
	assert.True(t, resp.Valid)
	assert.Positive(t, resp.Density)
	assert.Equal(t, "Inert (Ar/N2)", resp.Processing.Atmosphere)
	assert.Zero(t, fake.Calls())
}

func TestSimulation_Elements(t *testing.T) {
	r, fake := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/simulations/elements", map[string]any{
		"composition": map[string]float64{"Fe": 70, "Cr": 20, "Ni": 10},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody[map[string]any](t, w)
	props := body["properties"].(map[string]any)
	mech := props["mechanical"].(map[string]any)
	assert.Equal(t, 520.0, mech["tensileStrength"])
	assert.Contains(t, body, "estimatedDensity")
	assert.Contains(t, body, "processing")
	assert.Equal(t, 1, fake.Calls())
}

func TestSimulation_ElementsRejectsInvalidBeforeOracle(t *testing.T) {
	r, fake := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/simulations/elements", map[string]any{
		"composition": map[string]float64{"Fe": 70},
	})
	assertErrorCode(t, w, http.StatusUnprocessableEntity, errors.ErrCodeCompositionInvalid)

	w = doJSON(r, http.MethodPost, "/api/v1/simulations/elements", map[string]any{"composition": map[string]float64{}})
	assertErrorCode(t, w, http.StatusBadRequest, errors.ErrCodeCompositionEmpty)
	assert.Zero(t, fake.Calls())
}

func TestSimulation_ElementsOracleFailure(t *testing.T) {
	r, fake := simulationRouter(t)
	fake.Err = errors.New(errors.ErrCodeOracleNotConfigured, "openai backend has no API key")

	w := doJSON(r, http.MethodPost, "/api/v1/simulations/elements", map[string]any{
		"composition": map[string]float64{"Si": 100},
	})
	assertErrorCode(t, w, http.StatusServiceUnavailable, errors.ErrCodeOracleNotConfigured)
}

func TestSimulation_ElementsOracleMiddleware(t *testing.T) {
	gateway, _ := testutil.NewFakeGateway()
	svc := simulation.NewService(simulation.Config{Oracle: gateway})
	r := gin.New()
	blocked := func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) }
	NewSimulationHandler(svc).RegisterRoutes(r.Group("/api/v1"), blocked)

	w := doJSON(r, http.MethodPost, "/api/v1/simulations/elements", map[string]any{"composition": map[string]float64{"Si": 100}})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/compositions/normalize", map[string]any{"composition": map[string]float64{"Si": 1}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSimulation_Polymer(t *testing.T) {
	r, fake := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/simulations/polymer", map[string]any{
		"monomers": []map[string]any{
			{"monomerId": "styrene", "moleFraction": 0.5},
			{"monomerId": "butadiene", "moleFraction": 0.5},
		},
		"architecture": "branched",
		"crosslinking": 0.1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decodeBody[simulation.PolymerResult](t, w)
	assert.NotEmpty(t, res.ElementalComposition)
	assert.InDelta(t, 100, res.ElementalComposition.Total(), 1e-6)
	assert.NotEmpty(t, res.Method)
	assert.Zero(t, fake.Calls())
}

func TestSimulation_PolymerRejects(t *testing.T) {
	r, _ := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/simulations/polymer", map[string]any{"monomers": []any{}})
	assertErrorCode(t, w, http.StatusUnprocessableEntity, errors.ErrCodePolymerInvalid)

	w = doJSON(r, http.MethodPost, "/api/v1/simulations/polymer", map[string]any{
		"monomers":     []map[string]any{{"monomerId": "styrene", "moleFraction": 1}},
		"architecture": "spiral",
	})
	assertErrorCode(t, w, http.StatusBadRequest, errors.ErrCodeArchitectureInvalid)
}

func TestSimulation_Compatibility(t *testing.T) {
	r, _ := simulationRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/polymers/compatibility", CompatibilityRequest{Monomers: []string{"caprolactam", "nope"}})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[CompatibilityResponse](t, w)
	assert.True(t, resp.Compatible)
	assert.Equal(t, []string{"nope"}, resp.UnknownMonomers)
	assert.NotEmpty(t, resp.Method)

	w = doJSON(r, http.MethodPost, "/api/v1/polymers/compatibility", CompatibilityRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeBody[CompatibilityResponse](t, w)
	assert.False(t, resp.Compatible)
	assert.Contains(t, resp.Issues, "At least one monomer is required")
}
