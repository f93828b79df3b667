// Package cli implements the matforge command line: local composition and
// polymer computations, reference data lookups and oracle calls.
package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/MatForge/internal/application/simulation"
	"github.com/turtacn/MatForge/internal/config"
	"github.com/turtacn/MatForge/internal/domain/polymer"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/intelligence/oracle"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// RootOptions holds the global flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// OracleFactory builds the oracle gateway from the loaded configuration.
type OracleFactory func(ctx context.Context, cfg config.OracleConfig, logger logging.Logger) (*oracle.Gateway, error)

// Dependencies are the injectable collaborators of the command tree. Zero
// values select the production implementations.
type Dependencies struct {
	NewOracle OracleFactory
	Rand      polymer.Rand
}

// CLIContext carries initialised dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration

	newOracle OracleFactory
	rng       polymer.Rand
}

// Oracle builds the gateway on first use. Commands that never call the
// oracle never need an API key.
func (c *CLIContext) Oracle(ctx context.Context) (*oracle.Gateway, error) {
	return c.newOracle(ctx, c.Config.Oracle, c.Logger)
}

// Simulator returns a simulation service, with the oracle attached when
// withOracle is set.
func (c *CLIContext) Simulator(ctx context.Context, withOracle bool) (*simulation.Service, error) {
	cfg := simulation.Config{Rand: c.rng, Logger: c.Logger}
	if withOracle {
		g, err := c.Oracle(ctx)
		if err != nil {
			return nil, err
		}
		cfg.Oracle = g
	}
	return simulation.NewService(cfg), nil
}

// NewRootCommand creates the root command with its global flags and every
// subcommand.
func NewRootCommand(deps Dependencies) *cobra.Command {
	if deps.NewOracle == nil {
		deps.NewOracle = DefaultOracleFactory
	}
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "matforge",
		Short: "MatForge CLI: composition analysis, polymer design and property prediction",
		Long: "MatForge computes composition metrics and polymer properties locally and\n" +
			"asks a language model oracle for material properties, optimisations and\n" +
			"recommendations.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return persistentPreRun(cmd, opts, deps)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./matforge.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "global operation timeout")

	cmd.AddCommand(
		newCompositionCmd(),
		newPolymerCmd(),
		newReferenceCmd(),
		newOracleCmd(),
		newExportCmd(),
		newVersionCmd(),
	)
	return cmd
}

// DefaultOracleFactory builds the configured backend and wraps it in a
// gateway.
func DefaultOracleFactory(ctx context.Context, cfg config.OracleConfig, logger logging.Logger) (*oracle.Gateway, error) {
	svc, err := oracle.NewService(ctx, oracle.Config{
		Backend:      oracle.BackendType(cfg.Backend),
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		FastModel:    cfg.FastModel,
		QualityModel: cfg.QualityModel,
		MaxTokens:    cfg.MaxTokens,
		Timeout:      cfg.Timeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return oracle.NewGateway(svc, oracle.GatewayConfig{
		Backend:      oracle.BackendType(cfg.Backend),
		FastModel:    cfg.FastModel,
		QualityModel: cfg.QualityModel,
		Timeout:      cfg.Timeout,
	}, logger, nil)
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, deps Dependencies) error {
	switch opts.OutputFormat {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.InvalidParam("output must be text, json or table").WithDetail(opts.OutputFormat)
	}
	color.NoColor = color.NoColor || opts.NoColor

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}
	logger, err := initLogger(opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: opts.OutputFormat,
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
		newOracle:    deps.NewOracle,
		rng:          deps.Rand,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initConfig loads, in order: --config, ./matforge.yaml,
// ~/.matforge/config.yaml, /etc/matforge/config.yaml, then MATFORGE_*
// variables over defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./matforge.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(home, ".matforge", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/matforge/config.yaml")

	for _, p := range searchPaths {
		if _, err := os.Stat(p); err == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger logs to stderr so stdout carries only command output.
func initLogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts the CLIContext installed by the root command.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// commandContext bounds the command's context by --timeout.
func commandContext(cmd *cobra.Command, cliCtx *CLIContext) (context.Context, context.CancelFunc) {
	if cliCtx.Timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), cliCtx.Timeout)
}

// Execute runs the command line with production dependencies.
func Execute() error {
	rootCmd := NewRootCommand(Dependencies{})
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// PrintResult writes data in the format chosen by --output. Text output
// uses fmt.Stringer when data implements it and falls back to JSON.
func PrintResult(cmd *cobra.Command, data any) error {
	format := OutputJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	w := cmd.OutOrStdout()
	switch format {
	case OutputTable:
		if tp, ok := data.(tableProvider); ok {
			FormatTable(w, tp.TableHeaders(), tp.TableRows())
			return nil
		}
	case OutputText:
		if s, ok := data.(fmt.Stringer); ok {
			_, err := fmt.Fprintln(w, s.String())
			return err
		}
	}
	return printJSON(w, data)
}

func printJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintError writes err to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// errorMessage is the message of an AppError without its code and cause.
func errorMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// FormatTable renders headers and rows with tablewriter.
func FormatTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatOptional(p *float64) string {
	if p == nil {
		return "-"
	}
	return formatFloat(*p)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return PrintResult(cmd, versionInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate})
		},
	}
}

type versionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	BuildDate string `json:"buildDate"`
}

func (v versionInfo) String() string {
	return fmt.Sprintf("matforge %s (commit: %s, built: %s)", v.Version, v.GitCommit, v.BuildDate)
}

// decodeJSONArg decodes a flag or argument holding a JSON document, or
// "@path" naming a file that holds one.
func decodeJSONArg(arg string, dst any) error {
	raw := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read JSON file").WithDetail(path)
		}
		raw = b
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.Wrap(err, errors.ErrCodeBadRequest, "invalid JSON argument")
	}
	return nil
}
