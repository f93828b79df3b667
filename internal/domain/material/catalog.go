package material

import (
	"sort"
	"strings"
	"time"

	"github.com/turtacn/MatForge/internal/domain/composition"
)

// catalogEpoch stamps every catalog entry so the catalog is deterministic.
var catalogEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Catalog is the read-only set of reference materials.
type Catalog struct {
	items []Material
	byID  map[string]int
}

// NewCatalog indexes items by ID, keeping the given order.
func NewCatalog(items []Material) *Catalog {
	c := &Catalog{items: items, byID: make(map[string]int, len(items))}
	for i, m := range items {
		c.byID[m.ID] = i
	}
	return c
}

// All returns a copy of every entry.
func (c *Catalog) All() []Material {
	out := make([]Material, len(c.items))
	copy(out, c.items)
	return out
}

// Get looks up an entry by ID.
func (c *Catalog) Get(id string) (Material, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Material{}, false
	}
	return c.items[i], true
}

// ByCategory returns the entries in category cat.
func (c *Catalog) ByCategory(cat Category) []Material {
	var out []Material
	for _, m := range c.items {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// Search matches q case-insensitively against name, description and category.
func (c *Catalog) Search(q string) []Material {
	q = strings.ToLower(strings.TrimSpace(q))
	var out []Material
	for _, m := range c.items {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Description), q) ||
			strings.Contains(string(m.Category), q) {
			out = append(out, m)
		}
	}
	return out
}

// IDs returns every entry ID, sorted.
func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.items))
	for id := range c.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func entry(id, name string, cat Category, desc string, comp composition.Composition, mech Mechanical, elec Electrical, chem Chemical, confidence float64) Material {
	return Material{
		ID:          id,
		Name:        name,
		Category:    cat,
		Description: desc,
		Composition: comp,
		Properties: Properties{
			Mechanical: mech,
			Electrical: elec,
			Chemical:   chem,
			Confidence: Float(confidence),
		},
		CreatedAt: catalogEpoch,
		UpdatedAt: catalogEpoch,
	}
}

func chem(corrosion, reactivity, stability, oxidation float64) Chemical {
	return Chemical{
		CorrosionResistance: Float(corrosion),
		Reactivity:          Float(reactivity),
		Stability:           Float(stability),
		OxidationResistance: Float(oxidation),
	}
}

// Materials returns the built-in catalog of ten reference materials.
func Materials() *Catalog {
	f := Float
	return NewCatalog([]Material{
		entry("steel-304", "Stainless Steel 304", CategoryAlloy,
			"Austenitic stainless steel with excellent corrosion resistance",
			composition.Composition{"Fe": 68, "Cr": 19, "Ni": 10, "Mn": 2, "Si": 1},
			Mechanical{TensileStrength: f(515), YieldStrength: f(205), Elasticity: f(193), Hardness: f(70), Density: f(8.0), Toughness: f(85)},
			Electrical{Conductivity: f(1.4), Resistivity: f(0.72)},
			chem(92, 25, 88, 90), 0.95),
		entry("titanium-6al4v", "Ti-6Al-4V", CategoryAlloy,
			"Aerospace-grade titanium alloy with high strength-to-weight ratio",
			composition.Composition{"Ti": 90, "Al": 6, "V": 4},
			Mechanical{TensileStrength: f(950), YieldStrength: f(880), Elasticity: f(113), Hardness: f(36), Density: f(4.43), Toughness: f(75)},
			Electrical{Conductivity: f(0.6), Resistivity: f(1.7)},
			chem(95, 20, 92, 88), 0.96),
		entry("aluminum-7075", "Aluminum 7075", CategoryAlloy,
			"High-strength aluminum alloy used in aerospace structures",
			composition.Composition{"Al": 90, "Zn": 5.6, "Mg": 2.5, "Cu": 1.6},
			Mechanical{TensileStrength: f(572), YieldStrength: f(503), Elasticity: f(71.7), Hardness: f(150), Density: f(2.81), Toughness: f(68)},
			Electrical{Conductivity: f(33), Resistivity: f(0.052)},
			chem(65, 40, 75, 70), 0.94),
		entry("silicon-semiconductor", "Pure Silicon", CategorySemiconductor,
			"Elemental semiconductor for electronics",
			composition.Composition{"Si": 100},
			Mechanical{Hardness: f(950), Density: f(2.33), Elasticity: f(130)},
			Electrical{Conductivity: f(0.0001), Resistivity: f(640), DielectricConstant: f(11.7), BandGap: f(1.12)},
			chem(80, 30, 95, 85), 0.98),
		entry("copper-pure", "Pure Copper", CategoryMetal,
			"Highly conductive metal for electrical applications",
			composition.Composition{"Cu": 100},
			Mechanical{TensileStrength: f(220), YieldStrength: f(70), Elasticity: f(130), Hardness: f(50), Density: f(8.96), Toughness: f(60)},
			Electrical{Conductivity: f(59.6), Resistivity: f(0.0168), DielectricConstant: f(1)},
			chem(70, 45, 80, 65), 0.99),
		entry("carbon-fiber-epoxy", "Carbon Fiber Composite", CategoryComposite,
			"High-performance composite material for lightweight structures",
			composition.Composition{"C": 70, "H": 20, "O": 8, "N": 2},
			Mechanical{TensileStrength: f(600), YieldStrength: f(550), Elasticity: f(150), Hardness: f(65), Density: f(1.55), Toughness: f(55)},
			Electrical{Conductivity: f(0.1), Resistivity: f(10)},
			chem(88, 15, 85, 80), 0.91),
		entry("alumina-ceramic", "Aluminum Oxide (Alumina)", CategoryCeramic,
			"High-temperature ceramic with excellent hardness",
			composition.Composition{"Al": 52.9, "O": 47.1},
			Mechanical{TensileStrength: f(300), Elasticity: f(370), Hardness: f(1500), Density: f(3.95), Toughness: f(30)},
			Electrical{Conductivity: f(0.00001), Resistivity: f(100000), DielectricConstant: f(9.8)},
			chem(98, 10, 98, 99), 0.97),
		entry("inconel-718", "Inconel 718", CategoryAlloy,
			"Superalloy for extreme temperature applications",
			composition.Composition{"Ni": 52.5, "Cr": 19, "Fe": 18.5, "Nb": 5, "Mo": 3, "Ti": 0.9, "Al": 0.5},
			Mechanical{TensileStrength: f(1375), YieldStrength: f(1100), Elasticity: f(200), Hardness: f(40), Density: f(8.19), Toughness: f(90)},
			Electrical{Conductivity: f(1.2), Resistivity: f(1.25)},
			chem(96, 18, 95, 97), 0.93),
		entry("gallium-arsenide", "Gallium Arsenide", CategorySemiconductor,
			"High-speed semiconductor for optoelectronics",
			composition.Composition{"Ga": 48.2, "As": 51.8},
			Mechanical{Hardness: f(750), Density: f(5.32), Elasticity: f(85)},
			Electrical{Conductivity: f(0.0001), Resistivity: f(10000), DielectricConstant: f(12.9), BandGap: f(1.43)},
			chem(75, 35, 85, 70), 0.94),
		entry("brass-cartridge", "Cartridge Brass", CategoryAlloy,
			"Ductile copper-zinc alloy for manufacturing",
			composition.Composition{"Cu": 70, "Zn": 30},
			Mechanical{TensileStrength: f(345), YieldStrength: f(125), Elasticity: f(110), Hardness: f(70), Density: f(8.53), Toughness: f(65)},
			Electrical{Conductivity: f(28), Resistivity: f(0.062)},
			chem(78, 38, 82, 75), 0.95),
	})
}
