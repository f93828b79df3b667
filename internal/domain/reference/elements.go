// Package reference holds the compiled-in reference datasets used by the
// composition and polymer engines: the periodic table subset and the monomer
// catalog. All data is read-only after package initialisation.
package reference

import (
	"sort"
	"strings"
)

// ElementCategory classifies an element for compatibility rules.
type ElementCategory string

const (
	AlkaliMetal         ElementCategory = "alkali-metal"
	AlkalineEarthMetal  ElementCategory = "alkaline-earth-metal"
	TransitionMetal     ElementCategory = "transition-metal"
	PostTransitionMetal ElementCategory = "post-transition-metal"
	Metalloid           ElementCategory = "metalloid"
	Nonmetal            ElementCategory = "nonmetal"
	Halogen             ElementCategory = "halogen"
	NobleGas            ElementCategory = "noble-gas"
	Lanthanide          ElementCategory = "lanthanide"
	Actinide            ElementCategory = "actinide"
)

// ElementCategories lists every category in display order.
var ElementCategories = []ElementCategory{
	AlkaliMetal, AlkalineEarthMetal, TransitionMetal, PostTransitionMetal,
	Metalloid, Nonmetal, Halogen, NobleGas, Lanthanide, Actinide,
}

// ParseElementCategory returns the category named s (case-insensitive).
func ParseElementCategory(s string) (ElementCategory, bool) {
	for _, c := range ElementCategories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Element is an immutable periodic-table record. Electronegativity is zero
// for elements without a Pauling value (noble gases). Temperatures are K.
type Element struct {
	Symbol            string          `json:"symbol"`
	Name              string          `json:"name"`
	AtomicNumber      int             `json:"atomicNumber"`
	AtomicMass        float64         `json:"atomicMass"`
	Category          ElementCategory `json:"category"`
	Group             int             `json:"group,omitempty"`
	Period            int             `json:"period"`
	Electronegativity float64         `json:"electronegativity,omitempty"`
	MeltingPoint      float64         `json:"meltingPoint,omitempty"`
	BoilingPoint      float64         `json:"boilingPoint,omitempty"`
}

// ElementTable is a symbol-indexed view over a set of elements.
type ElementTable struct {
	ordered  []Element
	bySymbol map[string]Element
}

// NewElementTable indexes elements by symbol, ordered by atomic number.
func NewElementTable(elements []Element) *ElementTable {
	t := &ElementTable{
		ordered:  make([]Element, len(elements)),
		bySymbol: make(map[string]Element, len(elements)),
	}
	copy(t.ordered, elements)
	sort.SliceStable(t.ordered, func(i, j int) bool {
		return t.ordered[i].AtomicNumber < t.ordered[j].AtomicNumber
	})
	for _, e := range t.ordered {
		t.bySymbol[e.Symbol] = e
	}
	return t
}

// Lookup returns the element with the given symbol. Symbols are case-sensitive
// ("Co" is cobalt, "CO" is not an element).
func (t *ElementTable) Lookup(symbol string) (Element, bool) {
	e, ok := t.bySymbol[symbol]
	return e, ok
}

// LookupFold is Lookup for user input: surrounding space is ignored and the
// symbol is matched in any case, so "fe" and " FE" both find iron.
func (t *ElementTable) LookupFold(symbol string) (Element, bool) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Element{}, false
	}
	return t.Lookup(strings.ToUpper(symbol[:1]) + strings.ToLower(symbol[1:]))
}

// All returns every element ordered by atomic number.
func (t *ElementTable) All() []Element {
	out := make([]Element, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// ByCategory returns the elements in category c.
func (t *ElementTable) ByCategory(c ElementCategory) []Element {
	var out []Element
	for _, e := range t.ordered {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the number of elements.
func (t *ElementTable) Len() int { return len(t.ordered) }

var periodicTable = NewElementTable(elementData)

// PeriodicTable returns the compiled-in table (H–Ba, Hf–Bi).
func PeriodicTable() *ElementTable { return periodicTable }

var elementData = []Element{
	{"H", "Hydrogen", 1, 1.008, Nonmetal, 1, 1, 2.20, 14, 20},
	{"He", "Helium", 2, 4.003, NobleGas, 18, 1, 0, 1, 4},
	{"Li", "Lithium", 3, 6.94, AlkaliMetal, 1, 2, 0.98, 454, 1615},
	{"Be", "Beryllium", 4, 9.012, AlkalineEarthMetal, 2, 2, 1.57, 1560, 2742},
	{"B", "Boron", 5, 10.81, Metalloid, 13, 2, 2.04, 2349, 4200},
	{"C", "Carbon", 6, 12.01, Nonmetal, 14, 2, 2.55, 3823, 4098},
	{"N", "Nitrogen", 7, 14.01, Nonmetal, 15, 2, 3.04, 63, 77},
	{"O", "Oxygen", 8, 16.00, Nonmetal, 16, 2, 3.44, 54, 90},
	{"F", "Fluorine", 9, 19.00, Halogen, 17, 2, 3.98, 53, 85},
	{"Ne", "Neon", 10, 20.18, NobleGas, 18, 2, 0, 25, 27},
	{"Na", "Sodium", 11, 22.99, AlkaliMetal, 1, 3, 0.93, 371, 1156},
	{"Mg", "Magnesium", 12, 24.31, AlkalineEarthMetal, 2, 3, 1.31, 923, 1363},
	{"Al", "Aluminum", 13, 26.98, PostTransitionMetal, 13, 3, 1.61, 933, 2792},
	{"Si", "Silicon", 14, 28.09, Metalloid, 14, 3, 1.90, 1687, 3538},
	{"P", "Phosphorus", 15, 30.97, Nonmetal, 15, 3, 2.19, 317, 550},
	{"S", "Sulfur", 16, 32.07, Nonmetal, 16, 3, 2.58, 388, 718},
	{"Cl", "Chlorine", 17, 35.45, Halogen, 17, 3, 3.16, 172, 239},
	{"Ar", "Argon", 18, 39.95, NobleGas, 18, 3, 0, 84, 87},
	{"K", "Potassium", 19, 39.10, AlkaliMetal, 1, 4, 0.82, 336, 1032},
	{"Ca", "Calcium", 20, 40.08, AlkalineEarthMetal, 2, 4, 1.00, 1115, 1757},
	{"Sc", "Scandium", 21, 44.96, TransitionMetal, 3, 4, 1.36, 1814, 3109},
	{"Ti", "Titanium", 22, 47.87, TransitionMetal, 4, 4, 1.54, 1941, 3560},
	{"V", "Vanadium", 23, 50.94, TransitionMetal, 5, 4, 1.63, 2183, 3680},
	{"Cr", "Chromium", 24, 52.00, TransitionMetal, 6, 4, 1.66, 2180, 2944},
	{"Mn", "Manganese", 25, 54.94, TransitionMetal, 7, 4, 1.55, 1519, 2334},
	{"Fe", "Iron", 26, 55.85, TransitionMetal, 8, 4, 1.83, 1811, 3134},
	{"Co", "Cobalt", 27, 58.93, TransitionMetal, 9, 4, 1.88, 1768, 3200},
	{"Ni", "Nickel", 28, 58.69, TransitionMetal, 10, 4, 1.91, 1728, 3186},
	{"Cu", "Copper", 29, 63.55, TransitionMetal, 11, 4, 1.90, 1358, 2835},
	{"Zn", "Zinc", 30, 65.38, TransitionMetal, 12, 4, 1.65, 693, 1180},
	{"Ga", "Gallium", 31, 69.72, PostTransitionMetal, 13, 4, 1.81, 303, 2477},
	{"Ge", "Germanium", 32, 72.63, Metalloid, 14, 4, 2.01, 1211, 3106},
	{"As", "Arsenic", 33, 74.92, Metalloid, 15, 4, 2.18, 1090, 887},
	{"Se", "Selenium", 34, 78.97, Nonmetal, 16, 4, 2.55, 494, 958},
	{"Br", "Bromine", 35, 79.90, Halogen, 17, 4, 2.96, 266, 332},
	{"Kr", "Krypton", 36, 83.80, NobleGas, 18, 4, 0, 116, 120},
	{"Rb", "Rubidium", 37, 85.47, AlkaliMetal, 1, 5, 0.82, 312, 961},
	{"Sr", "Strontium", 38, 87.62, AlkalineEarthMetal, 2, 5, 0.95, 1050, 1655},
	{"Y", "Yttrium", 39, 88.91, TransitionMetal, 3, 5, 1.22, 1799, 3609},
	{"Zr", "Zirconium", 40, 91.22, TransitionMetal, 4, 5, 1.33, 2128, 4682},
	{"Nb", "Niobium", 41, 92.91, TransitionMetal, 5, 5, 1.60, 2750, 5017},
	{"Mo", "Molybdenum", 42, 95.95, TransitionMetal, 6, 5, 2.16, 2896, 4912},
	{"Tc", "Technetium", 43, 98, TransitionMetal, 7, 5, 1.90, 2430, 4538},
	{"Ru", "Ruthenium", 44, 101.07, TransitionMetal, 8, 5, 2.20, 2607, 4423},
	{"Rh", "Rhodium", 45, 102.91, TransitionMetal, 9, 5, 2.28, 2237, 3968},
	{"Pd", "Palladium", 46, 106.42, TransitionMetal, 10, 5, 2.20, 1828, 3236},
	{"Ag", "Silver", 47, 107.87, TransitionMetal, 11, 5, 1.93, 1235, 2435},
	{"Cd", "Cadmium", 48, 112.41, TransitionMetal, 12, 5, 1.69, 594, 1040},
	{"In", "Indium", 49, 114.82, PostTransitionMetal, 13, 5, 1.78, 430, 2345},
	{"Sn", "Tin", 50, 118.71, PostTransitionMetal, 14, 5, 1.96, 505, 2875},
	{"Sb", "Antimony", 51, 121.76, Metalloid, 15, 5, 2.05, 904, 1860},
	{"Te", "Tellurium", 52, 127.60, Metalloid, 16, 5, 2.10, 723, 1261},
	{"I", "Iodine", 53, 126.90, Halogen, 17, 5, 2.66, 387, 457},
	{"Xe", "Xenon", 54, 131.29, NobleGas, 18, 5, 0, 161, 165},
	{"Cs", "Cesium", 55, 132.91, AlkaliMetal, 1, 6, 0.79, 302, 944},
	{"Ba", "Barium", 56, 137.33, AlkalineEarthMetal, 2, 6, 0.89, 1000, 2170},
	{"Hf", "Hafnium", 72, 178.49, TransitionMetal, 4, 6, 1.30, 2506, 4876},
	{"Ta", "Tantalum", 73, 180.95, TransitionMetal, 5, 6, 1.50, 3290, 5731},
	{"W", "Tungsten", 74, 183.84, TransitionMetal, 6, 6, 2.36, 3695, 5828},
	{"Re", "Rhenium", 75, 186.21, TransitionMetal, 7, 6, 1.90, 3459, 5869},
	{"Os", "Osmium", 76, 190.23, TransitionMetal, 8, 6, 2.20, 3306, 5285},
	{"Ir", "Iridium", 77, 192.22, TransitionMetal, 9, 6, 2.20, 2719, 4701},
	{"Pt", "Platinum", 78, 195.08, TransitionMetal, 10, 6, 2.28, 2041, 4098},
	{"Au", "Gold", 79, 196.97, TransitionMetal, 11, 6, 2.54, 1337, 3129},
	{"Hg", "Mercury", 80, 200.59, TransitionMetal, 12, 6, 2.00, 234, 630},
	{"Tl", "Thallium", 81, 204.38, PostTransitionMetal, 13, 6, 1.62, 577, 1746},
	{"Pb", "Lead", 82, 207.2, PostTransitionMetal, 14, 6, 2.33, 601, 2022},
	{"Bi", "Bismuth", 83, 208.98, PostTransitionMetal, 15, 6, 2.02, 544, 1837},
}
