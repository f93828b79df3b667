package material

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/pkg/errors"
)

func sampleProperties() *Properties {
	return &Properties{
		Mechanical: Mechanical{TensileStrength: Float(515), Density: Float(8)},
		Electrical: Electrical{Conductivity: Float(1.4)},
		Chemical:   Chemical{Stability: Float(88)},
		Confidence: Float(0.9),
	}
}

func TestNewMaterial_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	m, err := NewMaterial(Draft{
		Composition: composition.Composition{"Fe": 70, "Cr": 20, "Ni": 10},
		Properties:  sampleProperties(),
	}, now)
	require.NoError(t, err)

	_, err = uuid.Parse(m.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Material 1741064767000", m.Name)
	assert.Equal(t, CategoryOther, m.Category)
	assert.Equal(t, now, m.CreatedAt)
	assert.Equal(t, m.CreatedAt, m.UpdatedAt)
}

func TestNewMaterial_CopiesComposition(t *testing.T) {
	comp := composition.Composition{"Cu": 70, "Zn": 30}
	m, err := NewMaterial(Draft{Name: "Brass", Category: CategoryAlloy, Composition: comp, Properties: sampleProperties()}, time.Now())
	require.NoError(t, err)

	comp["Cu"] = 0
	assert.Equal(t, 70.0, m.Composition["Cu"])
}

func TestNewMaterial_EachSaveGetsNewID(t *testing.T) {
	d := Draft{Name: "X", Composition: composition.Composition{"Si": 100}, Properties: sampleProperties()}
	a, err := NewMaterial(d, time.Now())
	require.NoError(t, err)
	b, err := NewMaterial(d, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewMaterial_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		code  errors.ErrorCode
	}{
		{"no composition", Draft{Properties: sampleProperties()}, errors.ErrCodeCompositionEmpty},
		{"not simulated", Draft{Composition: composition.Composition{"Si": 100}}, errors.ErrCodeMaterialInvalid},
		{"bad category", Draft{Composition: composition.Composition{"Si": 100}, Properties: sampleProperties(), Category: "glass"}, errors.ErrCodeMaterialInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMaterial(tt.draft, time.Now())
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestMaterial_Export(t *testing.T) {
	m, err := NewMaterial(Draft{
		Name:        "Steel",
		Description: "not exported",
		Composition: composition.Composition{"Fe": 100},
		Properties:  sampleProperties(),
	}, time.Now())
	require.NoError(t, err)

	b, err := m.MarshalExport()
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.Len(t, doc, 3)
	assert.Contains(t, doc, "name")
	assert.Contains(t, doc, "composition")
	assert.Contains(t, doc, "properties")
	assert.Contains(t, string(b), "\n  \"name\": \"Steel\"")
	assert.Equal(t, "Steel.json", m.ExportFileName())
}

func TestProperties_OmitsMissingFields(t *testing.T) {
	b, err := json.Marshal(Properties{Mechanical: Mechanical{Hardness: Float(950)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mechanical":{"hardness":950},"electrical":{},"chemical":{}}`, string(b))

	var p Properties
	require.NoError(t, json.Unmarshal([]byte(`{"mechanical":{"density":2.3}}`), &p))
	assert.Nil(t, p.Mechanical.TensileStrength)
	assert.Equal(t, 2.3, Value(p.Mechanical.Density))
	assert.Zero(t, Value(p.Confidence))
}

func TestCatalog(t *testing.T) {
	c := Materials()
	assert.Len(t, c.All(), 10)

	steel, ok := c.Get("steel-304")
	require.True(t, ok)
	assert.Equal(t, "Stainless Steel 304", steel.Name)
	assert.True(t, composition.IsValid(steel.Composition))

	_, ok = c.Get("unobtainium")
	assert.False(t, ok)

	assert.Len(t, c.ByCategory(CategorySemiconductor), 2)
	assert.Len(t, c.ByCategory(CategoryAlloy), 5)
	assert.Len(t, c.Search("aerospace"), 2)

	inconel, _ := c.Get("inconel-718")
	assert.False(t, composition.IsValid(inconel.Composition), "catalog data is kept as published, 99.4%")
	assert.Equal(t, "steel-304", c.IDs()[len(c.IDs())-2])

	for _, m := range c.All() {
		assert.NotEmpty(t, m.Composition, m.ID)
		assert.NotNil(t, m.Properties.Confidence, m.ID)
	}
}

func TestParseLanguage(t *testing.T) {
	l, err := ParseLanguage(" AR ")
	require.NoError(t, err)
	assert.Equal(t, LanguageArabic, l)
	assert.True(t, l.RTL())
	assert.False(t, LanguageSwedish.RTL())

	_, err = ParseLanguage("de")
	assert.True(t, errors.IsCode(err, errors.ErrCodePreferenceInvalid))

	def := DefaultPreferences()
	assert.Equal(t, LanguageEnglish, def.Language)
	assert.True(t, def.ShowLanding)
}

func TestListOptions_Normalize(t *testing.T) {
	tests := []struct {
		in   ListOptions
		want ListOptions
	}{
		{ListOptions{}, ListOptions{Limit: DefaultPageSize}},
		{ListOptions{Limit: -1, Offset: -9}, ListOptions{Limit: DefaultPageSize}},
		{ListOptions{Limit: 10_000, Offset: 3}, ListOptions{Limit: MaxPageSize, Offset: 3}},
		{ListOptions{Limit: 20, Element: "Fe"}, ListOptions{Limit: 20, Element: "Fe"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize())
	}
}
