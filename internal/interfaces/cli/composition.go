package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/pkg/errors"
)

const compositionArgHelp = `COMPOSITION is a comma separated list such as "Fe=70,Cr=20,Ni=10".`

func newCompositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "composition",
		Short: "Analyse element compositions locally",
		Long:  "Normalise, validate and score element compositions.\n\n" + compositionArgHelp,
	}
	cmd.AddCommand(
		compositionSubcommand("normalize", "Scale a composition to sum to 100%", func(c composition.Composition) any {
			return compositionView(composition.Normalize(c))
		}),
		compositionSubcommand("validate", "Check that a composition sums to 100% within 0.01", func(c composition.Composition) any {
			v := validationView{Valid: true, Total: c.Total()}
			if err := composition.Validate(c); err != nil {
				v.Valid = false
				v.Reason = errorMessage(err)
			}
			return v
		}),
		compositionSubcommand("density", "Estimate the density proxy of a composition", func(c composition.Composition) any {
			return densityView{Density: composition.EstimateDensity(c, reference.PeriodicTable())}
		}),
		compositionSubcommand("score", "Score element compatibility (0-100) with warnings", func(c composition.Composition) any {
			return compatibilityView(composition.ScoreCompatibility(c, reference.PeriodicTable()))
		}),
		compositionSubcommand("process", "Suggest processing parameters", func(c composition.Composition) any {
			return processingView(composition.ProcessingRecommendation(c, reference.PeriodicTable()))
		}),
	)
	return cmd
}

func compositionSubcommand(use, short string, run func(composition.Composition) any) *cobra.Command {
	return &cobra.Command{
		Use:   use + " COMPOSITION",
		Short: short,
		Long:  short + ".\n\n" + compositionArgHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseComposition(args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, run(c))
		},
	}
}

// parseComposition accepts "Fe=70,Cr=20" or a JSON object.
func parseComposition(s string) (composition.Composition, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		var c composition.Composition
		if err := decodeJSONArg(s, &c); err != nil {
			return nil, err
		}
		if len(c) == 0 {
			return nil, errors.New(errors.ErrCodeCompositionEmpty, "composition is empty")
		}
		return c, nil
	}
	return composition.Parse(s)
}

type compositionView composition.Composition

func (v compositionView) String() string { return composition.Format(composition.Composition(v)) }

func (v compositionView) TableHeaders() []string { return []string{"Element", "Percent"} }

func (v compositionView) TableRows() [][]string {
	c := composition.Composition(v)
	rows := make([][]string, 0, len(c))
	for _, sym := range c.Symbols() {
		rows = append(rows, []string{sym, formatFloat(c[sym])})
	}
	return rows
}

type validationView struct {
	Valid  bool    `json:"valid"`
	Total  float64 `json:"total"`
	Reason string  `json:"reason,omitempty"`
}

func (v validationView) String() string {
	if v.Valid {
		return fmt.Sprintf("valid (total %.2f%%)", v.Total)
	}
	return fmt.Sprintf("invalid (total %.2f%%): %s", v.Total, v.Reason)
}

type densityView struct {
	Density float64 `json:"estimatedDensity"`
}

func (v densityView) String() string { return fmt.Sprintf("%.4f g/cm³", v.Density) }

type compatibilityView composition.Compatibility

func (v compatibilityView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "score: %d/100", v.Score)
	for _, w := range v.Warnings {
		fmt.Fprintf(&b, "\n  warning: %s", w)
	}
	return b.String()
}

type processingView composition.Processing

func (v processingView) String() string {
	return fmt.Sprintf("temperature: %.0f K\npressure: %g atm\ntime: %.0f min\natmosphere: %s",
		v.Temperature, v.Pressure, v.Time, v.Atmosphere)
}

func (v processingView) TableHeaders() []string {
	return []string{"Temperature (K)", "Pressure (atm)", "Time (min)", "Atmosphere"}
}

func (v processingView) TableRows() [][]string {
	return [][]string{{fmt.Sprintf("%.0f", v.Temperature), fmt.Sprintf("%g", v.Pressure), fmt.Sprintf("%.0f", v.Time), v.Atmosphere}}
}
