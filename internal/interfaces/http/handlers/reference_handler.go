package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/pkg/errors"
)

// ReferenceHandler serves the compiled-in element, monomer and material
// tables. Every route is read-only.
type ReferenceHandler struct {
	elements *reference.ElementTable
	monomers *reference.MonomerCatalog
	catalog  *material.Catalog
}

// NewReferenceHandler creates a ReferenceHandler over the given tables.
func NewReferenceHandler(elements *reference.ElementTable, monomers *reference.MonomerCatalog, catalog *material.Catalog) *ReferenceHandler {
	return &ReferenceHandler{elements: elements, monomers: monomers, catalog: catalog}
}

// RegisterRoutes mounts the /reference routes.
func (h *ReferenceHandler) RegisterRoutes(r gin.IRouter) {
	ref := r.Group("/reference")
	ref.GET("/elements", h.ListElements)
	ref.GET("/elements/:symbol", h.GetElement)
	ref.GET("/monomers", h.ListMonomers)
	ref.GET("/monomers/:id", h.GetMonomer)
	ref.GET("/monomers/:id/compatible", h.CompatibleMonomers)
	ref.GET("/materials", h.ListMaterials)
	ref.GET("/materials/:id", h.GetMaterial)
}

// ListElements handles GET /reference/elements[?category=].
func (h *ReferenceHandler) ListElements(c *gin.Context) {
	elements := h.elements.All()
	if q := c.Query("category"); q != "" {
		cat, ok := reference.ParseElementCategory(q)
		if !ok {
			respondError(c, errors.New(errors.ErrCodeCategoryInvalid, "unknown element category").WithDetail(q))
			return
		}
		elements = h.elements.ByCategory(cat)
	}
	c.JSON(http.StatusOK, gin.H{"elements": nonNil(elements)})
}

// GetElement handles GET /reference/elements/:symbol. The symbol is matched
// in canonical case, so "fe" finds Fe.
func (h *ReferenceHandler) GetElement(c *gin.Context) {
	e, ok := h.elements.LookupFold(c.Param("symbol"))
	if !ok {
		respondError(c, errors.New(errors.ErrCodeElementNotFound, "element not found").WithDetail(c.Param("symbol")))
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListMonomers handles GET /reference/monomers[?q=&category=]. Both filters
// apply when both are given.
func (h *ReferenceHandler) ListMonomers(c *gin.Context) {
	monomers := h.monomers.All()
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		monomers = h.monomers.Search(q)
	}
	if raw := c.Query("category"); raw != "" {
		cat, ok := reference.ParseMonomerCategory(raw)
		if !ok {
			respondError(c, errors.New(errors.ErrCodeCategoryInvalid, "unknown monomer category").WithDetail(raw))
			return
		}
		filtered := monomers[:0:0]
		for _, m := range monomers {
			if m.Category == cat {
				filtered = append(filtered, m)
			}
		}
		monomers = filtered
	}
	c.JSON(http.StatusOK, gin.H{"monomers": nonNil(monomers)})
}

// GetMonomer handles GET /reference/monomers/:id.
func (h *ReferenceHandler) GetMonomer(c *gin.Context) {
	m, ok := h.monomer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m)
}

// CompatibleMonomers handles GET /reference/monomers/:id/compatible.
func (h *ReferenceHandler) CompatibleMonomers(c *gin.Context) {
	m, ok := h.monomer(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"monomer": m.ID, "compatible": nonNil(h.monomers.Compatible(m))})
}

func (h *ReferenceHandler) monomer(c *gin.Context) (reference.Monomer, bool) {
	id := c.Param("id")
	m, ok := h.monomers.Get(id)
	if !ok {
		respondError(c, errors.New(errors.ErrCodeMonomerNotFound, "monomer not found").WithDetail(id))
	}
	return m, ok
}

// ListMaterials handles GET /reference/materials[?q=&category=].
func (h *ReferenceHandler) ListMaterials(c *gin.Context) {
	items := h.catalog.All()
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		items = h.catalog.Search(q)
	}
	if raw := c.Query("category"); raw != "" {
		cat := material.Category(strings.ToLower(raw))
		if !cat.IsValid() {
			respondError(c, errors.New(errors.ErrCodeCategoryInvalid, "unknown material category").WithDetail(raw))
			return
		}
		filtered := items[:0:0]
		for _, m := range items {
			if m.Category == cat {
				filtered = append(filtered, m)
			}
		}
		items = filtered
	}
	c.JSON(http.StatusOK, gin.H{"materials": nonNil(items)})
}

// GetMaterial handles GET /reference/materials/:id.
func (h *ReferenceHandler) GetMaterial(c *gin.Context) {
	id := c.Param("id")
	m, ok := h.catalog.Get(id)
	if !ok {
		respondError(c, errors.New(errors.ErrCodeCatalogEntryNotFound, "catalog material not found").WithDetail(id))
		return
	}
	c.JSON(http.StatusOK, m)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
