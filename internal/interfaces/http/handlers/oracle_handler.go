package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/intelligence/oracle"
)

// Oracle is the subset of the oracle gateway served over HTTP.
type Oracle interface {
	Optimize(ctx context.Context, target material.Properties, objectives oracle.Objectives, constraints oracle.Constraints) ([]oracle.OptimizationResult, error)
	Recommend(ctx context.Context, target *material.Properties, current composition.Composition) ([]oracle.Recommendation, error)
	SuggestForTarget(ctx context.Context, target oracle.PropertyTarget) ([]oracle.Recommendation, error)
	AnalyzeIssues(ctx context.Context, c composition.Composition, props material.Properties) (*oracle.IssueAnalysis, error)
}

// OracleHandler serves the optimisation and recommendation routes. Every
// request makes exactly one oracle call.
type OracleHandler struct {
	oracle Oracle
}

// NewOracleHandler creates an OracleHandler.
func NewOracleHandler(o Oracle) *OracleHandler {
	return &OracleHandler{oracle: o}
}

// RegisterRoutes mounts the routes on an /api/v1 group behind mw.
func (h *OracleHandler) RegisterRoutes(r gin.IRouter, mw ...gin.HandlerFunc) {
	r.POST("/optimizations", chain(mw, h.Optimize)...)

	recs := r.Group("/recommendations")
	recs.POST("", chain(mw, h.Recommend)...)
	recs.POST("/target", chain(mw, h.SuggestForTarget)...)
	recs.POST("/issues", chain(mw, h.AnalyzeIssues)...)
}

// OptimizeRequest is the body of POST /optimizations. Objectives default to
// equal weights.
type OptimizeRequest struct {
	Target      material.Properties `json:"target"`
	Objectives  *oracle.Objectives  `json:"objectives,omitempty"`
	Constraints oracle.Constraints  `json:"constraints"`
}

// RecommendRequest is the body of POST /recommendations. Both fields are
// optional; an empty body asks for starting points.
type RecommendRequest struct {
	Target  *material.Properties    `json:"target,omitempty"`
	Current composition.Composition `json:"current,omitempty"`
}

// IssuesRequest is the body of POST /recommendations/issues.
type IssuesRequest struct {
	Composition composition.Composition `json:"composition"`
	Properties  material.Properties     `json:"properties"`
}

// Optimize handles POST /optimizations.
func (h *OracleHandler) Optimize(c *gin.Context) {
	var req OptimizeRequest
	if !bindJSON(c, &req) {
		return
	}
	objectives := oracle.DefaultObjectives()
	if req.Objectives != nil {
		objectives = *req.Objectives
	}
	results, err := h.oracle.Optimize(c.Request.Context(), req.Target, objectives, req.Constraints)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Recommend handles POST /recommendations.
func (h *OracleHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	recs, err := h.oracle.Recommend(c.Request.Context(), req.Target, req.Current)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// SuggestForTarget handles POST /recommendations/target.
func (h *OracleHandler) SuggestForTarget(c *gin.Context) {
	var req oracle.PropertyTarget
	if !bindJSON(c, &req) {
		return
	}
	recs, err := h.oracle.SuggestForTarget(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// AnalyzeIssues handles POST /recommendations/issues.
func (h *OracleHandler) AnalyzeIssues(c *gin.Context) {
	var req IssuesRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.oracle.AnalyzeIssues(c.Request.Context(), req.Composition, req.Properties)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
