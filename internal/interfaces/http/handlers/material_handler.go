package handlers

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MatForge/internal/application/materials"
	"github.com/turtacn/MatForge/internal/domain/material"
)

// Library is the saved-materials application service.
type Library interface {
	Save(ctx context.Context, d material.Draft) (*material.Material, error)
	Get(ctx context.Context, id string) (*material.Material, error)
	List(ctx context.Context, opts material.ListOptions) (*materials.Page, error)
	Search(ctx context.Context, query string, limit int) ([]*material.Material, error)
	Export(ctx context.Context, id string) (*materials.Download, error)
	Upload(ctx context.Context, id string) (*materials.Upload, error)
	LoadPreferences(ctx context.Context, user string) (material.Preferences, error)
	SavePreferences(ctx context.Context, user string, p material.Preferences) (material.Preferences, error)
}

// MaterialHandler serves the saved-materials and preference routes.
type MaterialHandler struct {
	lib Library
}

// NewMaterialHandler creates a MaterialHandler.
func NewMaterialHandler(lib Library) *MaterialHandler {
	return &MaterialHandler{lib: lib}
}

// RegisterRoutes mounts /materials and /preferences.
func (h *MaterialHandler) RegisterRoutes(r gin.IRouter) {
	mats := r.Group("/materials")
	mats.POST("", h.Create)
	mats.GET("", h.List)
	mats.GET("/search", h.Search)
	mats.GET("/:id", h.Get)
	mats.GET("/:id/export", h.Download)
	mats.POST("/:id/export", h.Upload)

	prefs := r.Group("/preferences")
	prefs.GET("/:user", h.GetPreferences)
	prefs.PUT("/:user", h.PutPreferences)
}

// Create handles POST /materials.
func (h *MaterialHandler) Create(c *gin.Context) {
	var d material.Draft
	if !bindJSON(c, &d) {
		return
	}
	m, err := h.lib.Save(c.Request.Context(), d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+m.ID)
	c.JSON(http.StatusCreated, m)
}

// List handles GET /materials?limit=&offset=&element=.
func (h *MaterialHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit", material.DefaultPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	page, err := h.lib.List(c.Request.Context(), material.ListOptions{Limit: limit, Offset: offset, Element: c.Query("element")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Search handles GET /materials/search?q=&limit=.
func (h *MaterialHandler) Search(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	items, err := h.lib.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nonNil(items)})
}

// Get handles GET /materials/:id.
func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.lib.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Download handles GET /materials/:id/export as a file attachment.
func (h *MaterialHandler) Download(c *gin.Context) {
	d, err := h.lib.Export(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": d.FileName}))
	c.Data(http.StatusOK, "application/json", d.Body)
}

// Upload handles POST /materials/:id/export.
func (h *MaterialHandler) Upload(c *gin.Context) {
	u, err := h.lib.Upload(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PreferencesPatch is the body of PUT /preferences/:user. Omitted fields keep
// their stored value.
type PreferencesPatch struct {
	Language    *string `json:"language"`
	ShowLanding *bool   `json:"showLanding"`
}

// GetPreferences handles GET /preferences/:user.
func (h *MaterialHandler) GetPreferences(c *gin.Context) {
	p, err := h.lib.LoadPreferences(c.Request.Context(), c.Param("user"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PutPreferences handles PUT /preferences/:user.
func (h *MaterialHandler) PutPreferences(c *gin.Context) {
	var patch PreferencesPatch
	if !bindJSON(c, &patch) {
		return
	}
	ctx, user := c.Request.Context(), c.Param("user")
	p, err := h.lib.LoadPreferences(ctx, user)
	if err != nil {
		respondError(c, err)
		return
	}
	if patch.Language != nil {
		p.Language = material.Language(*patch.Language)
	}
	if patch.ShowLanding != nil {
		p.ShowLanding = *patch.ShowLanding
	}
	saved, err := h.lib.SavePreferences(ctx, user, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
