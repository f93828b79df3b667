package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/MatForge/internal/application/materials"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/testutil"
	"github.com/turtacn/MatForge/pkg/errors"
)

type MaterialHandlerTestSuite struct {
	suite.Suite
	repo    *testutil.MemoryMaterialRepo
	index   *testutil.MemorySearchIndex
	exports *testutil.MemoryExportStore
	router  *gin.Engine
}

func (s *MaterialHandlerTestSuite) SetupTest() {
	s.repo = testutil.NewMemoryMaterialRepo()
	s.index = &testutil.MemorySearchIndex{}
	s.exports = testutil.NewMemoryExportStore()
	s.router = s.newRouter(materials.Config{
		Repository:  s.repo,
		Index:       s.index,
		Exports:     s.exports,
		Preferences: testutil.NewMemoryPreferenceStore(),
		Now:         func() time.Time { return time.UnixMilli(1_700_000_000_000) },
	})
}

func (s *MaterialHandlerTestSuite) newRouter(cfg materials.Config) *gin.Engine {
	svc, err := materials.NewService(cfg)
	s.Require().NoError(err)
	r := gin.New()
	NewMaterialHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func (s *MaterialHandlerTestSuite) create(name string) material.Material {
	w := doJSON(s.router, http.MethodPost, "/api/v1/materials", map[string]any{
		"name":        name,
		"category":    "alloy",
		"composition": map[string]float64{"Cu": 70, "Zn": 30},
		"properties":  map[string]any{"mechanical": map[string]any{"tensileStrength": 350}},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[material.Material](s.T(), w)
}

func (s *MaterialHandlerTestSuite) TestCreate() {
	m := s.create("Cartridge brass variant")
	s.NotEmpty(m.ID)
	s.Equal(material.CategoryAlloy, m.Category)

	stored, err := s.repo.FindByID(context.Background(), m.ID)
	s.Require().NoError(err)
	s.Equal("Cartridge brass variant", stored.Name)
	s.Len(s.index.Indexed, 1)
}

func (s *MaterialHandlerTestSuite) TestCreate_Location() {
	w := doJSON(s.router, http.MethodPost, "/api/v1/materials", map[string]any{
		"composition": map[string]float64{"Si": 100},
		"properties":  map[string]any{},
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	m := decodeBody[material.Material](s.T(), w)
	s.Equal("/api/v1/materials/"+m.ID, w.Header().Get("Location"))
	s.Equal("Material 1700000000000", m.Name)
	s.Equal(material.CategoryOther, m.Category)
}

func (s *MaterialHandlerTestSuite) TestCreate_RequiresSimulation() {
	w := doJSON(s.router, http.MethodPost, "/api/v1/materials", map[string]any{
		"composition": map[string]float64{"Si": 100},
	})
	assertErrorCode(s.T(), w, http.StatusBadRequest, errors.ErrCodeMaterialInvalid)
	s.Empty(s.index.Indexed)
}

func (s *MaterialHandlerTestSuite) TestGetAndList() {
	a := s.create("A")
	s.create("B")

	w := doJSON(s.router, http.MethodGet, "/api/v1/materials/"+a.ID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("A", decodeBody[material.Material](s.T(), w).Name)

	w = doJSON(s.router, http.MethodGet, "/api/v1/materials?limit=1", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	page := decodeBody[materials.Page](s.T(), w)
	s.EqualValues(2, page.Total)
	s.Len(page.Items, 1)
	s.Equal(1, page.Limit)

	w = doJSON(s.router, http.MethodGet, "/api/v1/materials?element=cu", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(2, decodeBody[materials.Page](s.T(), w).Total)

	w = doJSON(s.router, http.MethodGet, "/api/v1/materials?element=Fe", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	page = decodeBody[materials.Page](s.T(), w)
	s.Zero(page.Total)
	s.Empty(page.Items)

	w = doJSON(s.router, http.MethodGet, "/api/v1/materials?element=Qq", nil)
	assertErrorCode(s.T(), w, http.StatusNotFound, errors.ErrCodeElementNotFound)

	w = doJSON(s.router, http.MethodGet, "/api/v1/materials?offset=x", nil)
	assertErrorCode(s.T(), w, http.StatusBadRequest, errors.ErrCodeBadRequest)

	w = doJSON(s.router, http.MethodGet, "/api/v1/materials/does-not-exist", nil)
	assertErrorCode(s.T(), w, http.StatusNotFound, errors.ErrCodeMaterialNotFound)
}

func (s *MaterialHandlerTestSuite) TestSearch() {
	s.create("Naval brass")
	s.create("Bronze")

	w := doJSON(s.router, http.MethodGet, "/api/v1/materials/search?q=brass", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	items := decodeBody[map[string][]material.Material](s.T(), w)["items"]
	s.Require().Len(items, 1)
	s.Equal("Naval brass", items[0].Name)
}

func (s *MaterialHandlerTestSuite) TestSearch_Disabled() {
	r := s.newRouter(materials.Config{Repository: s.repo, Preferences: testutil.NewMemoryPreferenceStore()})
	w := doJSON(r, http.MethodGet, "/api/v1/materials/search?q=brass", nil)
	assertErrorCode(s.T(), w, http.StatusServiceUnavailable, errors.ErrCodeServiceUnavailable)
}

func (s *MaterialHandlerTestSuite) TestDownload() {
	m := s.create("Export me")

	w := doJSON(s.router, http.MethodGet, "/api/v1/materials/"+m.ID+"/export", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("application/json", w.Header().Get("Content-Type"))
	s.Contains(w.Header().Get("Content-Disposition"), "attachment")
	s.Contains(w.Header().Get("Content-Disposition"), m.ExportFileName())

	doc := decodeBody[map[string]any](s.T(), w)
	s.Equal("Export me", doc["name"])
	s.Contains(doc, "composition")
	s.Contains(doc, "properties")
	s.NotContains(doc, "id")
}

func (s *MaterialHandlerTestSuite) TestUpload() {
	m := s.create("Upload me")

	w := doJSON(s.router, http.MethodPost, "/api/v1/materials/"+m.ID+"/export", nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	u := decodeBody[materials.Upload](s.T(), w)
	s.Equal("exports/"+m.ID+".json", u.Key)
	s.Contains(u.URL, "signed=1")
	s.Contains(s.exports.Objects, u.Key)

	w = doJSON(s.router, http.MethodPost, "/api/v1/materials/missing/export", nil)
	assertErrorCode(s.T(), w, http.StatusNotFound, errors.ErrCodeMaterialNotFound)
}

func (s *MaterialHandlerTestSuite) TestPreferences() {
	w := doJSON(s.router, http.MethodGet, "/api/v1/preferences/ada", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(material.DefaultPreferences(), decodeBody[material.Preferences](s.T(), w))

	w = doJSON(s.router, http.MethodPut, "/api/v1/preferences/ada", map[string]any{"language": "AR"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	p := decodeBody[material.Preferences](s.T(), w)
	s.Equal(material.LanguageArabic, p.Language)
	s.True(p.RTL)
	s.True(p.ShowLanding)

	w = doJSON(s.router, http.MethodPut, "/api/v1/preferences/ada", map[string]any{"showLanding": false})
	s.Require().Equal(http.StatusOK, w.Code)
	p = decodeBody[material.Preferences](s.T(), w)
	s.Equal(material.LanguageArabic, p.Language)
	s.False(p.ShowLanding)

	w = doJSON(s.router, http.MethodPut, "/api/v1/preferences/ada", map[string]any{"language": "klingon"})
	assertErrorCode(s.T(), w, http.StatusBadRequest, errors.ErrCodePreferenceInvalid)
}

func TestMaterialHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MaterialHandlerTestSuite))
}

func TestMaterialHandler_StoreFailure(t *testing.T) {
	repo := testutil.NewMemoryMaterialRepo()
	repo.Err = errors.Wrap(assert.AnError, errors.ErrCodeDatabaseError, "insert failed")
	svc, err := materials.NewService(materials.Config{Repository: repo, Preferences: testutil.NewMemoryPreferenceStore()})
	require.NoError(t, err)
	r := gin.New()
	NewMaterialHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	w := doJSON(r, http.MethodPost, "/api/v1/materials", map[string]any{
		"composition": map[string]float64{"Si": 100},
		"properties":  map[string]any{},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody[ErrorResponse](t, w)
	assert.Equal(t, string(errors.ErrCodeDatabaseError), resp.Code)
	assert.Equal(t, "database error", resp.Message)
}
