// Package material defines the material aggregate, its property bundles and
// the curated materials catalog. Numeric property fields are pointers because
// prediction responses routinely omit some of them.
package material

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Value dereferences p, returning 0 for nil.
func Value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Mechanical properties. Strengths in MPa, elasticity in GPa, hardness in HV,
// density in g/cm³, toughness in MPa·m½.
type Mechanical struct {
	TensileStrength *float64 `json:"tensileStrength,omitempty"`
	YieldStrength   *float64 `json:"yieldStrength,omitempty"`
	Elasticity      *float64 `json:"elasticity,omitempty"`
	Hardness        *float64 `json:"hardness,omitempty"`
	Density         *float64 `json:"density,omitempty"`
	Toughness       *float64 `json:"toughness,omitempty"`
}

// Electrical properties. Conductivity in MS/m, resistivity in µΩ·m, band gap
// in eV.
type Electrical struct {
	Conductivity       *float64 `json:"conductivity,omitempty"`
	Resistivity        *float64 `json:"resistivity,omitempty"`
	DielectricConstant *float64 `json:"dielectricConstant,omitempty"`
	BandGap            *float64 `json:"bandGap,omitempty"`
}

// Chemical properties, each scored on the scale the producer uses (0–100
// for catalog and oracle data, 0–10 for the polymer heuristic).
type Chemical struct {
	CorrosionResistance *float64 `json:"corrosionResistance,omitempty"`
	Reactivity          *float64 `json:"reactivity,omitempty"`
	Stability           *float64 `json:"stability,omitempty"`
	OxidationResistance *float64 `json:"oxidationResistance,omitempty"`
}

// Sustainability scores (0–100) plus carbon footprint in kg CO2e/kg.
type Sustainability struct {
	OverallScore        *float64 `json:"overallScore,omitempty"`
	Recyclability       *float64 `json:"recyclability,omitempty"`
	CarbonFootprint     *float64 `json:"carbonFootprint,omitempty"`
	Toxicity            *float64 `json:"toxicity,omitempty"`
	Abundance           *float64 `json:"abundance,omitempty"`
	EnvironmentalImpact *float64 `json:"environmentalImpact,omitempty"`
}

// Cost estimates in USD; availability and market stability are 0–100.
type Cost struct {
	EstimatedCost   *float64 `json:"estimatedCost,omitempty"`
	CostPerKg       *float64 `json:"costPerKg,omitempty"`
	ProcessingCost  *float64 `json:"processingCost,omitempty"`
	Availability    *float64 `json:"availability,omitempty"`
	MarketStability *float64 `json:"marketStability,omitempty"`
}

// Properties is the bundle produced by a simulation. It is replaced, never
// mutated, between simulations.
type Properties struct {
	Mechanical     Mechanical      `json:"mechanical"`
	Electrical     Electrical      `json:"electrical"`
	Chemical       Chemical        `json:"chemical"`
	Sustainability *Sustainability `json:"sustainability,omitempty"`
	Cost           *Cost           `json:"cost,omitempty"`
	Confidence     *float64        `json:"confidence,omitempty"`
}

// Thermal properties, produced for polymers only. Temperatures in °C,
// conductivity in W/m·K, heat capacity in J/g·K. MeltingTemp is nil for
// network polymers.
type Thermal struct {
	GlassTransitionTemp *float64 `json:"glassTransitionTemp,omitempty"`
	MeltingTemp         *float64 `json:"meltingTemp,omitempty"`
	DecompositionTemp   *float64 `json:"decompositionTemp,omitempty"`
	ThermalConductivity *float64 `json:"thermalConductivity,omitempty"`
	HeatCapacity        *float64 `json:"heatCapacity,omitempty"`
}

// Conditions are the environment a prediction is made for.
type Conditions struct {
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %
	Pressure    float64 `json:"pressure"`    // atm
}

// DefaultConditions is room temperature, 50% humidity, 1 atm.
func DefaultConditions() Conditions {
	return Conditions{Temperature: 25, Humidity: 50, Pressure: 1}
}
