package material

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Category
// ─────────────────────────────────────────────────────────────────────────────

// Category classifies a material.
type Category string

const (
	CategoryMetal         Category = "metal"
	CategoryPolymer       Category = "polymer"
	CategoryCeramic       Category = "ceramic"
	CategoryComposite     Category = "composite"
	CategorySemiconductor Category = "semiconductor"
	CategoryAlloy         Category = "alloy"
	CategoryOther         Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryMetal, CategoryPolymer, CategoryCeramic, CategoryComposite,
	CategorySemiconductor, CategoryAlloy, CategoryOther,
}

// IsValid reports whether c is one of Categories.
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Domain events
// ─────────────────────────────────────────────────────────────────────────────

// DomainEvent is implemented by every event the material library publishes.
type DomainEvent interface {
	EventType() string
}

// SavedEvent is published after a material has been persisted.
type SavedEvent struct {
	MaterialID string    `json:"materialId"`
	Name       string    `json:"name"`
	Category   Category  `json:"category"`
	SavedAt    time.Time `json:"savedAt"`
}

func (SavedEvent) EventType() string { return "material.saved" }

// EventKey partitions saved events by material.
func (e SavedEvent) EventKey() string { return e.MaterialID }

// ─────────────────────────────────────────────────────────────────────────────
// Material aggregate
// ─────────────────────────────────────────────────────────────────────────────

// Material is a named composition with the properties simulated for it.
// Saved materials are immutable; editing one and saving again produces a new
// record with a new ID.
type Material struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Category    Category                `json:"category"`
	Description string                  `json:"description,omitempty"`
	Composition composition.Composition `json:"composition"`
	Properties  Properties              `json:"properties"`
	Thermal     *Thermal                `json:"thermal,omitempty"`
	Processing  *composition.Processing `json:"processingParams,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"modifiedAt"`
}

// Draft is the user-supplied part of a material before it is saved.
type Draft struct {
	Name        string                  `json:"name"`
	Category    Category                `json:"category"`
	Description string                  `json:"description,omitempty"`
	Composition composition.Composition `json:"composition"`
	Properties  *Properties             `json:"properties"`
	Thermal     *Thermal                `json:"thermal,omitempty"`
	Processing  *composition.Processing `json:"processingParams,omitempty"`
}

// NewMaterial validates d and stamps a fresh ID and timestamps. Properties are
// mandatory: a material must be simulated before it can be saved. A blank
// name becomes "Material <unix-millis>" and a blank category becomes other.
func NewMaterial(d Draft, now time.Time) (*Material, error) {
	if len(d.Composition) == 0 {
		return nil, errors.New(errors.ErrCodeCompositionEmpty, "composition is empty")
	}
	if d.Properties == nil {
		return nil, errors.New(errors.ErrCodeMaterialInvalid, "simulate the material before saving")
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = fmt.Sprintf("Material %d", now.UnixMilli())
	}
	cat := d.Category
	if cat == "" {
		cat = CategoryOther
	}
	if !cat.IsValid() {
		return nil, errors.New(errors.ErrCodeMaterialInvalid, "unknown material category").
			WithDetail(string(cat))
	}

	now = now.UTC()
	return &Material{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    cat,
		Description: d.Description,
		Composition: d.Composition.Clone(),
		Properties:  *d.Properties,
		Thermal:     d.Thermal,
		Processing:  d.Processing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SavedEvent returns the event announcing m was persisted.
func (m *Material) SavedEvent() SavedEvent {
	return SavedEvent{MaterialID: m.ID, Name: m.Name, Category: m.Category, SavedAt: m.CreatedAt}
}

// ─────────────────────────────────────────────────────────────────────────────
// Export
// ─────────────────────────────────────────────────────────────────────────────

// ExportDocument is the unversioned export format.
type ExportDocument struct {
	Name        string                  `json:"name"`
	Composition composition.Composition `json:"composition"`
	Properties  Properties              `json:"properties"`
}

// Export returns the export document for m.
func (m *Material) Export() ExportDocument {
	return ExportDocument{Name: m.Name, Composition: m.Composition, Properties: m.Properties}
}

// MarshalExport renders the export document as indented JSON.
func (m *Material) MarshalExport() ([]byte, error) {
	b, err := json.MarshalIndent(m.Export(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "failed to encode export")
	}
	return b, nil
}

// ExportFileName is the download name of the export, "<name>.json".
func (m *Material) ExportFileName() string {
	return m.Name + ".json"
}
