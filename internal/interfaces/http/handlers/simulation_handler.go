package handlers

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/internal/application/simulation"
	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/polymer"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Simulator is the simulation application service.
type Simulator interface {
	Analyze(c composition.Composition) simulation.Analysis
	SimulateElements(ctx context.Context, req simulation.ElementsRequest) (*simulation.ElementsResult, error)
	SimulatePolymer(ctx context.Context, comp polymer.Composition) (*simulation.PolymerResult, error)
	CheckMonomers(ids []string) (polymer.CompatibilityReport, polymer.Method, []string)
}

// SimulationHandler serves the composition, simulation and polymer routes.
type SimulationHandler struct {
	sim Simulator
}

// NewSimulationHandler creates a SimulationHandler.
func NewSimulationHandler(sim Simulator) *SimulationHandler {
	return &SimulationHandler{sim: sim}
}

// RegisterRoutes mounts the routes on an /api/v1 group. The oracle-backed
// elements simulation goes through oracleMW.
func (h *SimulationHandler) RegisterRoutes(r gin.IRouter, oracleMW ...gin.HandlerFunc) {
	comps := r.Group("/compositions")
	comps.POST("/normalize", h.Normalize)
	comps.POST("/validate", h.Validate)
	comps.POST("/analyze", h.Analyze)

	sims := r.Group("/simulations")
	sims.POST("/elements", chain(oracleMW, h.SimulateElements)...)
	sims.POST("/polymer", h.SimulatePolymer)

	r.POST("/polymers/compatibility", h.Compatibility)
}

// CompositionRequest wraps a composition in a request body.
type CompositionRequest struct {
	Composition composition.Composition `json:"composition"`
}

// ValidationResponse reports whether a composition sums to 100%.
type ValidationResponse struct {
	Valid  bool    `json:"valid"`
	Total  float64 `json:"total"`
	Reason string  `json:"reason,omitempty"`
}

// CompatibilityRequest names the monomers to check.
type CompatibilityRequest struct {
	Monomers []string `json:"monomers"`
}

// CompatibilityResponse is the monomer check and the suggested method.
type CompatibilityResponse struct {
	polymer.CompatibilityReport
	Method          polymer.Method `json:"polymerizationMethod"`
	UnknownMonomers []string       `json:"unknownMonomers,omitempty"`
}

// Normalize handles POST /compositions/normalize.
func (h *SimulationHandler) Normalize(c *gin.Context) {
	var req CompositionRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, CompositionRequest{Composition: composition.Normalize(req.Composition)})
}

// Validate handles POST /compositions/validate. An invalid composition is a
// normal answer, not an error.
func (h *SimulationHandler) Validate(c *gin.Context) {
	var req CompositionRequest
	if !bindJSON(c, &req) {
		return
	}
	resp := ValidationResponse{Valid: true, Total: req.Composition.Total()}
	if err := composition.Validate(req.Composition); err != nil {
		resp.Valid = false
		resp.Reason = err.Error()
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			resp.Reason = appErr.Message
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Analyze handles POST /compositions/analyze.
func (h *SimulationHandler) Analyze(c *gin.Context) {
	var req CompositionRequest
	if !bindJSON(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.sim.Analyze(req.Composition))
}

// SimulateElements handles POST /simulations/elements.
func (h *SimulationHandler) SimulateElements(c *gin.Context) {
	var req simulation.ElementsRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.sim.SimulateElements(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SimulatePolymer handles POST /simulations/polymer.
func (h *SimulationHandler) SimulatePolymer(c *gin.Context) {
	var req polymer.Composition
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.sim.SimulatePolymer(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Compatibility handles POST /polymers/compatibility.
func (h *SimulationHandler) Compatibility(c *gin.Context) {
	var req CompatibilityRequest
	if !bindJSON(c, &req) {
		return
	}
	report, method, missing := h.sim.CheckMonomers(req.Monomers)
	c.JSON(http.StatusOK, CompatibilityResponse{
		CompatibilityReport: report,
		Method:              method,
		UnknownMonomers:     missing,
	})
}
