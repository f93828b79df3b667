package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/MatForge/internal/application/simulation"
	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/intelligence/oracle"
	"github.com/turtacn/MatForge/pkg/errors"
)

const propertiesArgHelp = `Property bundles are JSON such as '{"mechanical":{"tensileStrength":500}}'
or @FILE naming a file that holds one.`

func newOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle",
		Short: "Ask the language model oracle for predictions and recommendations",
		Long: "Every subcommand makes exactly one oracle call (issues makes two when\n" +
			"--properties is omitted). The backend is chosen by the oracle section of\n" +
			"the configuration.",
	}
	cmd.AddCommand(
		newOraclePredictCmd(),
		newOracleOptimizeCmd(),
		newOracleRecommendCmd(),
		newOracleTargetCmd(),
		newOracleIssuesCmd(),
	)
	return cmd
}

func newOraclePredictCmd() *cobra.Command {
	var cond material.Conditions
	cmd := &cobra.Command{
		Use:   "predict COMPOSITION",
		Short: "Predict the properties of an element composition",
		Long:  "Predict the properties of an element composition.\n\n" + compositionArgHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseComposition(args[0])
			if err != nil {
				return err
			}
			res, err := simulateElements(cmd, c, cond)
			if err != nil {
				return err
			}
			return PrintResult(cmd, elementsView{res})
		},
	}
	addConditionFlags(cmd, &cond)
	return cmd
}

func addConditionFlags(cmd *cobra.Command, cond *material.Conditions) {
	def := material.DefaultConditions()
	cmd.Flags().Float64Var(&cond.Temperature, "temperature", def.Temperature, "temperature in °C")
	cmd.Flags().Float64Var(&cond.Humidity, "humidity", def.Humidity, "relative humidity in %")
	cmd.Flags().Float64Var(&cond.Pressure, "pressure", def.Pressure, "pressure in atm")
}

func simulateElements(cmd *cobra.Command, c composition.Composition, cond material.Conditions) (*simulation.ElementsResult, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	sim, err := cliCtx.Simulator(ctx, true)
	if err != nil {
		return nil, err
	}
	return sim.SimulateElements(ctx, simulation.ElementsRequest{Composition: c, Conditions: &cond})
}

func newOracleOptimizeCmd() *cobra.Command {
	var target, objectives string
	var maxCost, minSustainability float64
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Propose candidate materials for target properties",
		Long:  "Propose candidate materials for target properties.\n\n" + propertiesArgHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var props material.Properties
			if err := decodeJSONArg(target, &props); err != nil {
				return err
			}
			obj := oracle.DefaultObjectives()
			if objectives != "" {
				if err := decodeJSONArg(objectives, &obj); err != nil {
					return err
				}
			}
			var constraints oracle.Constraints
			if cmd.Flags().Changed("max-cost") {
				constraints.MaxCost = material.Float(maxCost)
			}
			if cmd.Flags().Changed("min-sustainability") {
				constraints.MinSustainability = material.Float(minSustainability)
			}

			return withOracle(cmd, func(g *oracle.Gateway, ctx context.Context) error {
				results, err := g.Optimize(ctx, props, obj, constraints)
				if err != nil {
					return err
				}
				return PrintResult(cmd, optimizationList(results))
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "target property bundle (JSON or @FILE)")
	cmd.Flags().StringVar(&objectives, "objectives", "", `objective weights 0-100, e.g. '{"cost":80,"weight":20}'`)
	cmd.Flags().Float64Var(&maxCost, "max-cost", 0, "maximum cost per kg")
	cmd.Flags().Float64Var(&minSustainability, "min-sustainability", 0, "minimum sustainability score")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func newOracleRecommendCmd() *cobra.Command {
	var target, current string
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend composition changes, optionally from a current composition",
		Long:  "Recommend composition changes.\n\n" + compositionArgHelp + "\n" + propertiesArgHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var props *material.Properties
			if target != "" {
				props = &material.Properties{}
				if err := decodeJSONArg(target, props); err != nil {
					return err
				}
			}
			var c composition.Composition
			if current != "" {
				var err error
				if c, err = parseComposition(current); err != nil {
					return err
				}
			}
			return withOracle(cmd, func(g *oracle.Gateway, ctx context.Context) error {
				recs, err := g.Recommend(ctx, props, c)
				if err != nil {
					return err
				}
				return PrintResult(cmd, recommendationList(recs))
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "target or simulated property bundle (JSON or @FILE)")
	cmd.Flags().StringVar(&current, "current", "", "current composition")
	return cmd
}

func newOracleTargetCmd() *cobra.Command {
	var t oracle.PropertyTarget
	var propertyType string
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Suggest compositions reaching a single property value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t.PropertyType = oracle.PropertyType(strings.ToLower(propertyType))
			if err := t.Validate(); err != nil {
				return err
			}
			return withOracle(cmd, func(g *oracle.Gateway, ctx context.Context) error {
				recs, err := g.SuggestForTarget(ctx, t)
				if err != nil {
					return err
				}
				return PrintResult(cmd, recommendationList(recs))
			})
		},
	}
	cmd.Flags().StringVar(&propertyType, "type", "", "property bundle: mechanical, electrical or chemical")
	cmd.Flags().StringVar(&t.PropertyName, "name", "", "property name, e.g. tensileStrength")
	cmd.Flags().Float64Var(&t.TargetValue, "value", 0, "target value")
	cmd.Flags().StringVar(&t.Unit, "unit", "", "unit of the target value, e.g. MPa")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}

func newOracleIssuesCmd() *cobra.Command {
	var properties string
	cmd := &cobra.Command{
		Use:   "issues COMPOSITION",
		Short: "Review a material and suggest single-element fixes",
		Long: "Review a material and suggest single-element fixes. Without --properties\n" +
			"the properties are predicted first.\n\n" + compositionArgHelp + "\n" + propertiesArgHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseComposition(args[0])
			if err != nil {
				return err
			}
			var props material.Properties
			if properties != "" {
				if err := decodeJSONArg(properties, &props); err != nil {
					return err
				}
			} else {
				res, err := simulateElements(cmd, c, material.DefaultConditions())
				if err != nil {
					return err
				}
				props = res.Properties
			}
			return withOracle(cmd, func(g *oracle.Gateway, ctx context.Context) error {
				out, err := g.AnalyzeIssues(ctx, c, props)
				if err != nil {
					return err
				}
				return PrintResult(cmd, issuesView{out})
			})
		},
	}
	cmd.Flags().StringVar(&properties, "properties", "", "simulated property bundle (JSON or @FILE)")
	return cmd
}

// ─────────────────────────────────────────────────────────────────────────────
// helpers
// ─────────────────────────────────────────────────────────────────────────────

func withOracle(cmd *cobra.Command, fn func(*oracle.Gateway, context.Context) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	g, err := cliCtx.Oracle(ctx)
	if err != nil {
		return err
	}
	if g == nil {
		return errors.New(errors.ErrCodeOracleNotConfigured, "no oracle configured")
	}
	return fn(g, ctx)
}

func impactColor(i oracle.Impact) string {
	switch i {
	case oracle.ImpactHigh:
		return color.GreenString(string(i))
	case oracle.ImpactMedium:
		return color.YellowString(string(i))
	default:
		return string(i)
	}
}

type elementsView struct {
	*simulation.ElementsResult
}

func (v elementsView) String() string {
	p := v.Properties
	var b strings.Builder
	fmt.Fprintf(&b, "composition: %s\n", composition.Format(v.Composition))
	fmt.Fprintf(&b, "tensile strength: %s MPa\n", formatOptional(p.Mechanical.TensileStrength))
	fmt.Fprintf(&b, "hardness: %s\n", formatOptional(p.Mechanical.Hardness))
	fmt.Fprintf(&b, "density: %s g/cm³\n", formatOptional(p.Mechanical.Density))
	fmt.Fprintf(&b, "conductivity: %s MS/m\n", formatOptional(p.Electrical.Conductivity))
	fmt.Fprintf(&b, "corrosion resistance: %s\n", formatOptional(p.Chemical.CorrosionResistance))
	fmt.Fprintf(&b, "confidence: %s\n", formatOptional(p.Confidence))
	fmt.Fprintf(&b, "compatibility score: %d/100", v.Analysis.Compatibility.Score)
	return b.String()
}

type optimizationList []oracle.OptimizationResult

func (l optimizationList) String() string {
	if len(l) == 0 {
		return "no candidates"
	}
	var b strings.Builder
	for i, r := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s (score %.0f): %s", i+1, r.Material.Name, r.Score, composition.Format(r.Material.Composition))
	}
	return b.String()
}

func (l optimizationList) TableHeaders() []string {
	return []string{"Name", "Score", "Cost", "Performance", "Sustainability", "Availability", "Weight"}
}

func (l optimizationList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		t := r.Tradeoffs
		rows = append(rows, []string{
			r.Material.Name, fmt.Sprintf("%.0f", r.Score),
			fmt.Sprintf("%.0f", t.Cost), fmt.Sprintf("%.0f", t.Performance), fmt.Sprintf("%.0f", t.Sustainability),
			fmt.Sprintf("%.0f", t.Availability), fmt.Sprintf("%.0f", t.Weight),
		})
	}
	return rows
}

type recommendationList []oracle.Recommendation

func (l recommendationList) String() string {
	if len(l) == 0 {
		return "no recommendations"
	}
	var b strings.Builder
	for i, r := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s [%s]: %s", i+1, r.Name, impactColor(r.Impact), composition.Format(r.Composition))
		if r.Rationale != "" {
			fmt.Fprintf(&b, "\n   %s", r.Rationale)
		}
	}
	return b.String()
}

func (l recommendationList) TableHeaders() []string {
	return []string{"Name", "Impact", "Category", "Composition"}
}

func (l recommendationList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, r := range l {
		rows = append(rows, []string{r.Name, string(r.Impact), r.Category, composition.Format(r.Composition)})
	}
	return rows
}

type issuesView struct {
	*oracle.IssueAnalysis
}

func (v issuesView) String() string {
	var b strings.Builder
	if len(v.Issues) == 0 {
		b.WriteString("no issues found")
	}
	for i, issue := range v.Issues {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s", color.RedString("issue:"), issue)
	}
	for _, s := range v.Suggestions {
		fmt.Fprintf(&b, "\n%s %s %s by %g: %s", color.GreenString("fix:"), s.Type, s.Element, s.Amount, s.Reason)
	}
	return b.String()
}

func (v issuesView) TableHeaders() []string {
	return []string{"Type", "Element", "Amount", "Reason", "Expected effect"}
}

func (v issuesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Suggestions))
	for _, s := range v.Suggestions {
		rows = append(rows, []string{string(s.Type), s.Element, fmt.Sprintf("%g", s.Amount), s.Reason, s.ExpectedEffect})
	}
	return rows
}
