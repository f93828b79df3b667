package reference

import (
	"sort"
	"strings"
)

// MonomerCategory groups monomers by the polymer family they build.
type MonomerCategory string

const (
	CategoryVinyl        MonomerCategory = "vinyl"
	CategoryDiene        MonomerCategory = "diene"
	CategoryStyrenic     MonomerCategory = "styrenic"
	CategoryAcrylic      MonomerCategory = "acrylic"
	CategoryMethacrylate MonomerCategory = "methacrylate"
	CategoryEpoxy        MonomerCategory = "epoxy"
	CategoryUrethane     MonomerCategory = "urethane"
	CategoryEster        MonomerCategory = "ester"
	CategoryAmide        MonomerCategory = "amide"
	CategoryEther        MonomerCategory = "ether"
	CategorySiloxane     MonomerCategory = "siloxane"
	CategoryOther        MonomerCategory = "other"
)

// MonomerCategories lists all twelve categories.
var MonomerCategories = []MonomerCategory{
	CategoryVinyl, CategoryDiene, CategoryStyrenic, CategoryAcrylic,
	CategoryMethacrylate, CategoryEpoxy, CategoryUrethane, CategoryEster,
	CategoryAmide, CategoryEther, CategorySiloxane, CategoryOther,
}

// ParseMonomerCategory returns the category named s (case-insensitive).
func ParseMonomerCategory(s string) (MonomerCategory, bool) {
	for _, c := range MonomerCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// FunctionalGroup tags a reactive group present in a monomer.
type FunctionalGroup string

const (
	GroupVinyl      FunctionalGroup = "vinyl"
	GroupAromatic   FunctionalGroup = "aromatic"
	GroupEster      FunctionalGroup = "ester"
	GroupCarboxyl   FunctionalGroup = "carboxyl"
	GroupAmide      FunctionalGroup = "amide"
	GroupHydroxyl   FunctionalGroup = "hydroxyl"
	GroupEpoxide    FunctionalGroup = "epoxide"
	GroupEther      FunctionalGroup = "ether"
	GroupIsocyanate FunctionalGroup = "isocyanate"
)

// PolymerizationType is a mechanism a monomer supports.
type PolymerizationType string

const (
	Addition     PolymerizationType = "addition"
	Radical      PolymerizationType = "radical"
	Ionic        PolymerizationType = "ionic"
	RingOpening  PolymerizationType = "ring-opening"
	StepGrowth   PolymerizationType = "step-growth"
	Condensation PolymerizationType = "condensation"
)

// Toxicity is a coarse hazard level.
type Toxicity string

const (
	ToxicityLow      Toxicity = "low"
	ToxicityModerate Toxicity = "moderate"
	ToxicityHigh     Toxicity = "high"
)

// MonomerProperties carries the polymerisation attributes of a monomer.
// GlassTransitionTemp is in °C.
type MonomerProperties struct {
	PolymerizationTypes []PolymerizationType `json:"polymerizationType"`
	GlassTransitionTemp float64              `json:"glassTransitionTemp"`
	ReactivityIndex     float64              `json:"reactivityIndex"`
	Toxicity            Toxicity             `json:"toxicity"`
}

// Monomer is an immutable catalog record. Composition is the elemental
// weight percentage of the repeat unit.
type Monomer struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	Structure        string             `json:"structure"`
	SMILES           string             `json:"smiles"`
	FunctionalGroups []FunctionalGroup  `json:"functionalGroups"`
	MolecularWeight  float64            `json:"molecularWeight"`
	Reactivity       float64            `json:"reactivity"`
	Category         MonomerCategory    `json:"category"`
	Composition      map[string]float64 `json:"composition"`
	Properties       MonomerProperties  `json:"properties"`
}

// HasGroup reports whether m carries functional group g.
func (m Monomer) HasGroup(g FunctionalGroup) bool {
	for _, fg := range m.FunctionalGroups {
		if fg == g {
			return true
		}
	}
	return false
}

// Supports reports whether m polymerises by mechanism p.
func (m Monomer) Supports(p PolymerizationType) bool {
	for _, t := range m.Properties.PolymerizationTypes {
		if t == p {
			return true
		}
	}
	return false
}

// MonomerCatalog is an id-indexed, read-only set of monomers.
type MonomerCatalog struct {
	ordered []Monomer
	byID    map[string]Monomer
}

// NewMonomerCatalog indexes monomers by id, preserving input order.
func NewMonomerCatalog(monomers []Monomer) *MonomerCatalog {
	c := &MonomerCatalog{
		ordered: make([]Monomer, len(monomers)),
		byID:    make(map[string]Monomer, len(monomers)),
	}
	copy(c.ordered, monomers)
	for _, m := range c.ordered {
		c.byID[m.ID] = m
	}
	return c
}

// All returns every monomer in catalog order.
func (c *MonomerCatalog) All() []Monomer {
	out := make([]Monomer, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get returns the monomer with the given id.
func (c *MonomerCatalog) Get(id string) (Monomer, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Resolve looks up each id and returns the monomers found plus the ids that
// were not. Duplicates are returned once.
func (c *MonomerCatalog) Resolve(ids []string) ([]Monomer, []string) {
	var found []Monomer
	var missing []string
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if m, ok := c.byID[id]; ok {
			found = append(found, m)
		} else {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return found, missing
}

// ByCategory returns the monomers in category cat.
func (c *MonomerCatalog) ByCategory(cat MonomerCategory) []Monomer {
	var out []Monomer
	for _, m := range c.ordered {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// Search matches query case-insensitively against name, structure and
// category.
func (c *MonomerCatalog) Search(query string) []Monomer {
	q := strings.ToLower(query)
	var out []Monomer
	for _, m := range c.ordered {
		if strings.Contains(strings.ToLower(m.Name), q) ||
			strings.Contains(strings.ToLower(m.Structure), q) ||
			strings.Contains(strings.ToLower(string(m.Category)), q) {
			out = append(out, m)
		}
	}
	return out
}

// Compatible returns the other monomers sharing at least one polymerization
// mechanism with m.
func (c *MonomerCatalog) Compatible(m Monomer) []Monomer {
	var out []Monomer
	for _, other := range c.ordered {
		if other.ID == m.ID {
			continue
		}
		for _, t := range other.Properties.PolymerizationTypes {
			if m.Supports(t) {
				out = append(out, other)
				break
			}
		}
	}
	return out
}

var commonMonomers = NewMonomerCatalog(monomerData)

// Monomers returns the compiled-in monomer catalog.
func Monomers() *MonomerCatalog { return commonMonomers }

var monomerData = []Monomer{
	{
		ID:               "ethylene",
		Name:             "Ethylene",
		Structure:        "C₂H₄",
		SMILES:           "C=C",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  28.05,
		Reactivity:       0.85,
		Category:         CategoryVinyl,
		Composition:      map[string]float64{"C": 85.7, "H": 14.3},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: -125,
			ReactivityIndex:     0.85,
			Toxicity:            ToxicityLow,
		},
	},
	{
		ID:               "propylene",
		Name:             "Propylene",
		Structure:        "C₃H₆",
		SMILES:           "CC=C",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  42.08,
		Reactivity:       0.82,
		Category:         CategoryVinyl,
		Composition:      map[string]float64{"C": 85.7, "H": 14.3},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical, Ionic},
			GlassTransitionTemp: -20,
			ReactivityIndex:     0.82,
			Toxicity:            ToxicityLow,
		},
	},
	{
		ID:               "styrene",
		Name:             "Styrene",
		Structure:        "C₈H₈",
		SMILES:           "C=CC1=CC=CC=C1",
		FunctionalGroups: []FunctionalGroup{GroupVinyl, GroupAromatic},
		MolecularWeight:  104.15,
		Reactivity:       0.78,
		Category:         CategoryStyrenic,
		Composition:      map[string]float64{"C": 92.3, "H": 7.7},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: 100,
			ReactivityIndex:     0.78,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "vinyl-chloride",
		Name:             "Vinyl Chloride",
		Structure:        "C₂H₃Cl",
		SMILES:           "C=CCl",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  62.5,
		Reactivity:       0.75,
		Category:         CategoryVinyl,
		Composition:      map[string]float64{"C": 38.4, "H": 4.8, "Cl": 56.8},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: 81,
			ReactivityIndex:     0.75,
			Toxicity:            ToxicityHigh,
		},
	},
	{
		ID:               "methyl-methacrylate",
		Name:             "Methyl Methacrylate",
		Structure:        "C₅H₈O₂",
		SMILES:           "C=C(C)C(=O)OC",
		FunctionalGroups: []FunctionalGroup{GroupVinyl, GroupEster},
		MolecularWeight:  100.12,
		Reactivity:       0.88,
		Category:         CategoryMethacrylate,
		Composition:      map[string]float64{"C": 59.98, "H": 8.05, "O": 31.97},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: 105,
			ReactivityIndex:     0.88,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "butadiene",
		Name:             "1,3-Butadiene",
		Structure:        "C₄H₆",
		SMILES:           "C=CC=C",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  54.09,
		Reactivity:       0.92,
		Category:         CategoryDiene,
		Composition:      map[string]float64{"C": 88.9, "H": 11.1},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: -102,
			ReactivityIndex:     0.92,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "isoprene",
		Name:             "Isoprene",
		Structure:        "C₅H₈",
		SMILES:           "CC(=C)C=C",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  68.12,
		Reactivity:       0.89,
		Category:         CategoryDiene,
		Composition:      map[string]float64{"C": 88.2, "H": 11.8},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: -70,
			ReactivityIndex:     0.89,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "acrylic-acid",
		Name:             "Acrylic Acid",
		Structure:        "C₃H₄O₂",
		SMILES:           "C=CC(=O)O",
		FunctionalGroups: []FunctionalGroup{GroupVinyl, GroupCarboxyl},
		MolecularWeight:  72.06,
		Reactivity:       0.86,
		Category:         CategoryAcrylic,
		Composition:      map[string]float64{"C": 50.0, "H": 5.6, "O": 44.4},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: 106,
			ReactivityIndex:     0.86,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "acrylonitrile",
		Name:             "Acrylonitrile",
		Structure:        "C₃H₃N",
		SMILES:           "C=CC#N",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  53.06,
		Reactivity:       0.84,
		Category:         CategoryAcrylic,
		Composition:      map[string]float64{"C": 67.9, "H": 5.7, "N": 26.4},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: 97,
			ReactivityIndex:     0.84,
			Toxicity:            ToxicityHigh,
		},
	},
	{
		ID:               "vinyl-acetate",
		Name:             "Vinyl Acetate",
		Structure:        "C₄H₆O₂",
		SMILES:           "C=COC(=O)C",
		FunctionalGroups: []FunctionalGroup{GroupVinyl, GroupEster},
		MolecularWeight:  86.09,
		Reactivity:       0.73,
		Category:         CategoryVinyl,
		Composition:      map[string]float64{"C": 55.8, "H": 7.0, "O": 37.2},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: 28,
			ReactivityIndex:     0.73,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "tetrafluoroethylene",
		Name:             "Tetrafluoroethylene",
		Structure:        "C₂F₄",
		SMILES:           "FC(F)=C(F)F",
		FunctionalGroups: []FunctionalGroup{GroupVinyl},
		MolecularWeight:  100.02,
		Reactivity:       0.95,
		Category:         CategoryVinyl,
		Composition:      map[string]float64{"C": 24.0, "F": 76.0},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{Addition, Radical},
			GlassTransitionTemp: -97,
			ReactivityIndex:     0.95,
			Toxicity:            ToxicityLow,
		},
	},
	{
		ID:               "caprolactam",
		Name:             "ε-Caprolactam",
		Structure:        "C₆H₁₁NO",
		SMILES:           "O=C1CCCCCN1",
		FunctionalGroups: []FunctionalGroup{GroupAmide},
		MolecularWeight:  113.16,
		Reactivity:       0.7,
		Category:         CategoryAmide,
		Composition:      map[string]float64{"C": 63.7, "H": 9.8, "N": 12.4, "O": 14.1},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{RingOpening, StepGrowth},
			GlassTransitionTemp: 60,
			ReactivityIndex:     0.7,
			Toxicity:            ToxicityLow,
		},
	},
	{
		ID:               "ethylene-glycol",
		Name:             "Ethylene Glycol",
		Structure:        "C₂H₆O₂",
		SMILES:           "OCCO",
		FunctionalGroups: []FunctionalGroup{GroupHydroxyl},
		MolecularWeight:  62.07,
		Reactivity:       0.68,
		Category:         CategoryEther,
		Composition:      map[string]float64{"C": 38.7, "H": 9.7, "O": 51.6},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{StepGrowth, Condensation},
			GlassTransitionTemp: -67,
			ReactivityIndex:     0.68,
			Toxicity:            ToxicityHigh,
		},
	},
	{
		ID:               "terephthalic-acid",
		Name:             "Terephthalic Acid",
		Structure:        "C₈H₆O₄",
		SMILES:           "O=C(O)C1=CC=C(C(=O)O)C=C1",
		FunctionalGroups: []FunctionalGroup{GroupCarboxyl, GroupAromatic},
		MolecularWeight:  166.13,
		Reactivity:       0.65,
		Category:         CategoryEster,
		Composition:      map[string]float64{"C": 57.8, "H": 3.6, "O": 38.6},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{StepGrowth, Condensation},
			GlassTransitionTemp: 80,
			ReactivityIndex:     0.65,
			Toxicity:            ToxicityLow,
		},
	},
	{
		ID:               "bisphenol-a",
		Name:             "Bisphenol A",
		Structure:        "C₁₅H₁₆O₂",
		SMILES:           "CC(C)(C1=CC=C(O)C=C1)C2=CC=C(O)C=C2",
		FunctionalGroups: []FunctionalGroup{GroupHydroxyl, GroupAromatic},
		MolecularWeight:  228.29,
		Reactivity:       0.62,
		Category:         CategoryEpoxy,
		Composition:      map[string]float64{"C": 78.9, "H": 7.1, "O": 14.0},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{StepGrowth, Condensation},
			GlassTransitionTemp: 155,
			ReactivityIndex:     0.62,
			Toxicity:            ToxicityModerate,
		},
	},
	{
		ID:               "epichlorohydrin",
		Name:             "Epichlorohydrin",
		Structure:        "C₃H₅ClO",
		SMILES:           "C1CO1CCl",
		FunctionalGroups: []FunctionalGroup{GroupEpoxide},
		MolecularWeight:  92.52,
		Reactivity:       0.87,
		Category:         CategoryEpoxy,
		Composition:      map[string]float64{"C": 38.9, "H": 5.4, "Cl": 38.3, "O": 17.3},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{RingOpening, StepGrowth},
			GlassTransitionTemp: -22,
			ReactivityIndex:     0.87,
			Toxicity:            ToxicityHigh,
		},
	},
	{
		ID:               "dimethylsiloxane",
		Name:             "Dimethylsiloxane",
		Structure:        "C₂H₈OSi₂",
		SMILES:           "C[Si](C)O[Si](C)C",
		FunctionalGroups: []FunctionalGroup{GroupEther},
		MolecularWeight:  148.23,
		Reactivity:       0.71,
		Category:         CategorySiloxane,
		Composition:      map[string]float64{"C": 32.4, "H": 10.9, "O": 21.6, "Si": 35.1},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{RingOpening, Condensation},
			GlassTransitionTemp: -125,
			ReactivityIndex:     0.71,
			Toxicity:            ToxicityLow,
		},
	},
	{
		ID:               "toluene-diisocyanate",
		Name:             "Toluene Diisocyanate",
		Structure:        "C₉H₆N₂O₂",
		SMILES:           "CC1=C(C=C(C=C1)N=C=O)N=C=O",
		FunctionalGroups: []FunctionalGroup{GroupIsocyanate, GroupAromatic},
		MolecularWeight:  174.16,
		Reactivity:       0.93,
		Category:         CategoryUrethane,
		Composition:      map[string]float64{"C": 62.1, "H": 3.5, "N": 16.1, "O": 18.4},
		Properties: MonomerProperties{
			PolymerizationTypes: []PolymerizationType{StepGrowth, Addition},
			GlassTransitionTemp: -60,
			ReactivityIndex:     0.93,
			Toxicity:            ToxicityHigh,
		},
	},
}
