package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MatForge/internal/application/simulation"
	"github.com/turtacn/MatForge/internal/domain/polymer"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

const monomerArgHelp = `MONOMER is a catalog ID with an optional percentage, e.g. "styrene=70".
Without percentages every monomer gets an equal share.`

type polymerOptions struct {
	architecture string
	crosslinking float64
}

func newPolymerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "polymer",
		Short: "Design polymers from catalog monomers",
	}
	opts := &polymerOptions{}

	predict := &cobra.Command{
		Use:   "predict MONOMER...",
		Short: "Predict polymer properties with the local heuristic",
		Long:  "Predict polymer properties with the local heuristic.\n\n" + monomerArgHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPolymerPredict(cmd, args, opts)
		},
	}
	predict.Flags().StringVar(&opts.architecture, "architecture", string(polymer.Linear),
		"chain architecture (linear, branched, star, comb, dendritic, network)")
	predict.Flags().Float64Var(&opts.crosslinking, "crosslinking", 0, "crosslinking percentage (0-100)")

	elements := &cobra.Command{
		Use:   "elements MONOMER...",
		Short: "Fold monomer compositions into one element composition",
		Long:  "Fold monomer compositions into one element composition.\n\n" + monomerArgHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, known, err := buildPolymer(cmd, args, string(polymer.Linear), 0)
			if err != nil {
				return err
			}
			return PrintResult(cmd, compositionView(polymer.ElementalComposition(polymer.Resolve(known, comp))))
		},
	}

	method := &cobra.Command{
		Use:   "method MONOMER_ID...",
		Short: "Suggest a polymerization method",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			known, err := resolveMonomers(cmd, args)
			if err != nil {
				return err
			}
			return PrintResult(cmd, methodView{Method: polymer.SuggestMethod(known)})
		},
	}

	check := &cobra.Command{
		Use:   "check MONOMER_ID...",
		Short: "Check monomer compatibility",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			sim, err := cliCtx.Simulator(cmd.Context(), false)
			if err != nil {
				return err
			}
			report, m, missing := sim.CheckMonomers(args)
			return PrintResult(cmd, checkView{CompatibilityReport: report, Method: m, UnknownMonomers: missing})
		},
	}

	cmd.AddCommand(predict, elements, method, check)
	return cmd
}

func runPolymerPredict(cmd *cobra.Command, args []string, opts *polymerOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	comp, _, err := buildPolymer(cmd, args, opts.architecture, opts.crosslinking)
	if err != nil {
		return err
	}
	sim, err := cliCtx.Simulator(cmd.Context(), false)
	if err != nil {
		return err
	}
	ctx, cancel := commandContext(cmd, cliCtx)
	defer cancel()

	res, err := sim.SimulatePolymer(ctx, comp)
	if err != nil {
		return err
	}
	return PrintResult(cmd, polymerView{res})
}

// parseMonomerArgs splits "id=share" arguments. Shares are nil when none
// was given.
func parseMonomerArgs(args []string) ([]string, map[string]float64, error) {
	ids := make([]string, 0, len(args))
	var shares map[string]float64
	for _, arg := range args {
		id, raw, hasShare := strings.Cut(arg, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, nil, errors.InvalidParam("empty monomer ID").WithDetail(arg)
		}
		ids = append(ids, id)
		if !hasShare {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 64)
		if err != nil || v < 0 {
			return nil, nil, errors.InvalidParam("monomer share must be a non-negative number").WithDetail(arg)
		}
		if shares == nil {
			shares = map[string]float64{}
		}
		shares[id] += v
	}
	return ids, shares, nil
}

// resolveMonomers looks up ids in the catalog. Unknown IDs are logged and
// skipped; none known at all is an error.
func resolveMonomers(cmd *cobra.Command, ids []string) ([]reference.Monomer, error) {
	known, missing := reference.Monomers().Resolve(ids)
	if len(missing) > 0 {
		if cliCtx, err := GetCLIContext(cmd); err == nil {
			cliCtx.Logger.Warn("unknown monomers ignored", logging.Strings("ids", missing))
		}
	}
	if len(known) == 0 {
		return nil, errors.New(errors.ErrCodePolymerInvalid, "no known monomers").WithDetail(strings.Join(ids, ","))
	}
	return known, nil
}

func buildPolymer(cmd *cobra.Command, args []string, arch string, crosslinkingPct float64) (polymer.Composition, []reference.Monomer, error) {
	a, err := polymer.ParseArchitecture(arch)
	if err != nil {
		return polymer.Composition{}, nil, err
	}
	if crosslinkingPct < 0 || crosslinkingPct > 100 {
		return polymer.Composition{}, nil, errors.New(errors.ErrCodePolymerInvalid, "crosslinking must be between 0 and 100")
	}
	ids, shares, err := parseMonomerArgs(args)
	if err != nil {
		return polymer.Composition{}, nil, err
	}
	known, err := resolveMonomers(cmd, ids)
	if err != nil {
		return polymer.Composition{}, nil, err
	}
	if shares == nil {
		shares = polymer.BalanceEqually(known)
	}

	var rng polymer.Rand
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		rng = cliCtx.rng
	}
	return polymer.Build(known, shares, a, crosslinkingPct, rng), known, nil
}

type methodView struct {
	Method polymer.Method `json:"polymerizationMethod"`
}

func (v methodView) String() string { return string(v.Method) }

type checkView struct {
	polymer.CompatibilityReport
	Method          polymer.Method `json:"polymerizationMethod"`
	UnknownMonomers []string       `json:"unknownMonomers,omitempty"`
}

func (v checkView) String() string {
	var b strings.Builder
	status := "compatible"
	if !v.Compatible {
		status = "incompatible"
	}
	fmt.Fprintf(&b, "%s (method: %s)", status, v.Method)
	for _, issue := range v.Issues {
		fmt.Fprintf(&b, "\n  - %s", issue)
	}
	if len(v.UnknownMonomers) > 0 {
		fmt.Fprintf(&b, "\n  unknown: %s", strings.Join(v.UnknownMonomers, ", "))
	}
	return b.String()
}

type polymerView struct {
	*simulation.PolymerResult
}

func (v polymerView) String() string {
	var b strings.Builder
	for _, u := range v.Composition.Units {
		fmt.Fprintf(&b, "%s: %.1f%%\n", u.MonomerName, u.MoleFraction*100)
	}
	fmt.Fprintf(&b, "architecture: %s\n", v.Composition.Architecture)
	fmt.Fprintf(&b, "method: %s\n", v.Method)
	fmt.Fprintf(&b, "tensile strength: %s MPa\n", formatOptional(v.Properties.Mechanical.TensileStrength))
	fmt.Fprintf(&b, "elasticity: %s\n", formatOptional(v.Properties.Mechanical.Elasticity))
	fmt.Fprintf(&b, "glass transition: %s °C\n", formatOptional(v.Thermal.GlassTransitionTemp))
	fmt.Fprintf(&b, "confidence: %s", formatOptional(v.Properties.Confidence))
	for _, issue := range v.Compatibility.Issues {
		fmt.Fprintf(&b, "\n  - %s", issue)
	}
	return b.String()
}

func (v polymerView) TableHeaders() []string {
	return []string{"Monomer", "Mole %", "Distribution"}
}

func (v polymerView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Composition.Units))
	for _, u := range v.Composition.Units {
		rows = append(rows, []string{u.MonomerID, formatFloat(u.MoleFraction * 100), u.Distribution})
	}
	return rows
}
