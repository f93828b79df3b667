package oracle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Template names.
const (
	TemplatePredictProperties = "predict_properties"
	TemplateOptimize          = "optimize"
	TemplateRecommend         = "recommend"
	TemplateSuggestForTarget  = "suggest_for_target"
	TemplateAnalyzeIssues     = "analyze_issues"
)

// PromptManager renders the prompt templates. Templates can be replaced at
// runtime with RegisterTemplate.
type PromptManager struct {
	mu        sync.RWMutex
	templates map[string]*template.Template
	funcs     template.FuncMap
}

// NewPromptManager returns a manager with the built-in templates loaded.
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		templates: make(map[string]*template.Template, len(builtinTemplates)),
		funcs:     funcMap(),
	}
	for name, body := range builtinTemplates {
		if err := pm.RegisterTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

// RegisterTemplate parses body and stores it under name.
func (pm *PromptManager) RegisterTemplate(name, body string) error {
	if name == "" || strings.TrimSpace(body) == "" {
		return errors.New(errors.ErrCodeOraclePromptInvalid, "template name and body are required")
	}
	t, err := template.New(name).Funcs(pm.funcs).Option("missingkey=error").Parse(body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeOraclePromptInvalid, "failed to parse template").WithDetail(name)
	}
	pm.mu.Lock()
	pm.templates[name] = t
	pm.mu.Unlock()
	return nil
}

// Render executes the named template with data.
func (pm *PromptManager) Render(name string, data any) (string, error) {
	pm.mu.RLock()
	t, ok := pm.templates[name]
	pm.mu.RUnlock()
	if !ok {
		return "", errors.New(errors.ErrCodeOraclePromptInvalid, "template not found").WithDetail(name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOraclePromptInvalid, "failed to render template").WithDetail(name)
	}
	return buf.String(), nil
}

// Names lists the registered templates, sorted.
func (pm *PromptManager) Names() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	out := make([]string, 0, len(pm.templates))
	for n := range pm.templates {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"composition": formatComposition,
		"json":        indentJSON,
		"num":         func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	}
}

func formatComposition(c composition.Composition) string {
	if len(c) == 0 {
		return "None (starting from scratch)"
	}
	return composition.Format(c)
}

func indentJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt data: %w", err)
	}
	return string(b), nil
}

var builtinTemplates = map[string]string{
	TemplatePredictProperties: predictPropertiesPrompt,
	TemplateOptimize:          optimizePrompt,
	TemplateRecommend:         recommendPrompt,
	TemplateSuggestForTarget:  suggestForTargetPrompt,
	TemplateAnalyzeIssues:     analyzeIssuesPrompt,
}

const predictPropertiesPrompt = `You are a materials science AI that predicts material properties based on composition and environmental conditions.

Given composition: {{composition .Composition}}
Temperature: {{num .Conditions.Temperature}}°C
Humidity: {{num .Conditions.Humidity}}%
Pressure: {{num .Conditions.Pressure}} atm

Predict the following properties with realistic values based on materials science principles:

Mechanical Properties:
- Tensile Strength (MPa)
- Yield Strength (MPa)
- Young's Modulus/Elasticity (GPa)
- Hardness (HV)
- Density (g/cm³)
- Toughness (score 0-100)

Electrical Properties:
- Electrical Conductivity (MS/m)
- Resistivity (µΩ·m)
- Dielectric Constant (if applicable)
- Band Gap (eV, for semiconductors)

Chemical Properties:
- Corrosion Resistance (score 0-100)
- Reactivity (score 0-100, lower is less reactive)
- Stability (score 0-100)
- Oxidation Resistance (score 0-100)

Sustainability Metrics:
- Overall Sustainability Score (0-100, higher is better)
- Recyclability (0-100, ease of recycling)
- Carbon Footprint (0-100, lower is better - production emissions)
- Toxicity (0-100, lower is better - environmental/health impact)
- Abundance (0-100, availability in earth's crust)
- Environmental Impact (0-100, lower is better - overall ecological footprint)

Cost Metrics:
- Estimated Cost (0-100, relative cost score, lower is cheaper)
- Cost Per Kg (USD/kg, realistic market price)
- Processing Cost (0-100, complexity and energy requirements)
- Availability (0-100, supply chain reliability)
- Market Stability (0-100, price volatility - higher is more stable)

Consider:
- Rare earth elements (La, Ce, Nd, etc.) are expensive and have moderate environmental impact
- Precious metals (Au, Pt, Ag) are very expensive but recyclable
- Common metals (Fe, Al, Cu) are cheap and relatively sustainable
- Reactive metals (Li, Na, K) have higher processing costs
- Heavy metals (Pb, Hg, Cd) have high toxicity scores

Also provide a confidence score (0-1) for the prediction.

Return ONLY a valid JSON object with this structure (no additional text):
{
  "mechanical": {"tensileStrength": number, "yieldStrength": number, "elasticity": number, "hardness": number, "density": number, "toughness": number},
  "electrical": {"conductivity": number, "resistivity": number, "dielectricConstant": number, "bandGap": number},
  "chemical": {"corrosionResistance": number, "reactivity": number, "stability": number, "oxidationResistance": number},
  "sustainability": {"overallScore": number, "recyclability": number, "carbonFootprint": number, "toxicity": number, "abundance": number, "environmentalImpact": number},
  "cost": {"estimatedCost": number, "costPerKg": number, "processingCost": number, "availability": number, "marketStability": number},
  "confidence": number
}`

const optimizePrompt = `You are a materials optimization AI that generates material compositions to meet target properties while balancing multiple objectives.

Target Properties:
{{json .Target}}

Optimization Objectives (weights 0-100):
{{json .Objectives}}

Constraints:
{{json .Constraints}}

Generate 5 different material compositions that could meet these requirements. For each material:
1. Suggest a realistic element composition (must sum to 100%)
2. Predict its properties
3. Calculate how well it meets the objectives
4. Provide a name and category

Consider trade-offs between:
- Cost (rare elements like Pt, Au are expensive; Fe, Al, Cu are cheap)
- Performance (strength, conductivity, etc.)
- Sustainability (recyclability, abundance)
- Availability (common vs rare elements)
- Weight (density)

Return ONLY a valid JSON object with a "results" property containing an array of 5 materials (no additional text):
{
  "results": [
    {
      "material": {
        "id": "string",
        "name": "string",
        "composition": {"symbol": percent},
        "category": "metal|alloy|ceramic|composite|semiconductor",
        "description": "string",
        "properties": {"mechanical": {...}, "electrical": {...}, "chemical": {...}, "confidence": number}
      },
      "score": number (0-100),
      "tradeoffs": {
        "cost": number (0-100),
        "performance": number (0-100),
        "sustainability": number (0-100),
        "availability": number (0-100),
        "weight": number (0-100, higher is lighter)
      }
    }
  ]
}`

const recommendPrompt = `You are a materials science expert providing intelligent recommendations for material composition improvements.

Current Composition: {{composition .Current}}

{{if .Target}}Target/Simulated Properties:
{{json .Target}}{{else}}No properties simulated yet{{end}}

Based on the current composition and target properties, provide 3-5 specific, actionable recommendations for modifying the material composition to achieve better properties.

Each recommendation should:
1. Suggest a concrete composition change (adding/removing/adjusting elements)
2. Explain the scientific rationale (why this change helps)
3. List expected improvements (specific property changes)
4. Note any trade-offs (what might get worse)
5. Categorize the impact as high/medium/low
6. Consider sustainability and cost implications

Consider:
- Alloying effects (solid solution strengthening, precipitation hardening)
- Electronic structure changes (band gap engineering, conductivity)
- Grain refinement and microstructure
- Corrosion resistance mechanisms
- Cost and availability of elements (rare earths, precious metals vs common metals)
- Processing feasibility
- Sustainability factors (recyclability, toxicity, abundance, carbon footprint)
- Environmental impact and toxicity
- Market stability and supply chain reliability

Provide recommendations that balance:
- Performance improvements
- Cost effectiveness (favor abundant, cheap elements like Fe, Al, Cu over rare/precious metals)
- Sustainability (high recyclability, low toxicity, low carbon footprint)
- Practical manufacturability

Return ONLY a valid JSON object with a "recommendations" property containing an array (no additional text):
{
  "recommendations": [
    {
      "name": "Descriptive name for the recommendation",
      "composition": {"symbol": percent, ...},
      "category": "strength enhancement|conductivity|corrosion resistance|cost optimization|weight reduction|thermal stability|sustainability|etc",
      "rationale": "Detailed explanation of why this composition change works",
      "expectedImprovements": ["Specific property improvement 1", "Specific property improvement 2"],
      "tradeoffs": ["Potential downside 1"],
      "impact": "high|medium|low",
      "sustainabilityImpact": "Brief description of how this affects sustainability",
      "costImpact": "Brief description of cost implications"
    }
  ]
}`

const suggestForTargetPrompt = `You are a materials science expert helping users achieve specific property targets.

Target Property: {{.PropertyType}} - {{.PropertyName}}
Target Value: {{num .TargetValue}} {{.Unit}}

Suggest 3 different material compositions that could achieve or exceed this target property value.

For each suggestion:
1. Provide a complete composition (elements with percentages summing to 100%)
2. Explain why this composition achieves the target
3. List the key material science principles at play
4. Note any processing requirements
5. Mention trade-offs
6. Consider sustainability (recyclability, abundance, environmental impact)
7. Consider cost (use common elements when possible, note if expensive elements are necessary)

Return ONLY a valid JSON object with a "recommendations" property containing an array (no additional text):
{
  "recommendations": [
    {
      "name": "Material name",
      "composition": {"symbol": percent, ...},
      "category": "alloy|composite|ceramic|semiconductor|polymer",
      "rationale": "Why this composition achieves the target property",
      "expectedImprovements": ["Key property 1", "Key property 2"],
      "tradeoffs": ["Potential limitation 1"],
      "impact": "high|medium|low",
      "sustainabilityImpact": "Description of sustainability considerations",
      "costImpact": "Description of cost implications"
    }
  ]
}`

const analyzeIssuesPrompt = `You are a materials science expert analyzing material compositions for potential issues and improvements.

Composition: {{composition .Composition}}

Predicted Properties:
{{json .Properties}}

Analyze this material and identify:
1. Any composition issues (incompatible elements, poor ratios, etc.)
2. Specific modifications to improve properties
3. Quick wins for performance enhancements

Return ONLY a valid JSON object (no additional text):
{
  "issues": ["Issue description 1", "Issue description 2"],
  "suggestions": [
    {
      "type": "add|remove|increase|decrease",
      "element": "Element symbol",
      "amount": number (percentage points),
      "reason": "Why this change helps",
      "expectedEffect": "What property improves"
    }
  ]
}`
