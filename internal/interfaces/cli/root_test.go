package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/config"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/intelligence/oracle"
	"github.com/turtacn/MatForge/internal/testutil"
	"github.com/turtacn/MatForge/pkg/errors"
)

// harness runs the command tree against a fake oracle and a temporary
// config file.
type harness struct {
	t       *testing.T
	fake    *testutil.FakeOracle
	gateway *oracle.Gateway
	config  string
	builds  int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	g, fake := testutil.NewFakeGateway()
	path := filepath.Join(t.TempDir(), "matforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\noracle:\n  backend: anthropic\n"), 0o600))
	return &harness{t: t, fake: fake, gateway: g, config: path}
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		NewOracle: func(_ context.Context, cfg config.OracleConfig, _ logging.Logger) (*oracle.Gateway, error) {
			h.builds++
			assert.Equal(h.t, "anthropic", cfg.Backend)
			return h.gateway, nil
		},
		Rand: testutil.FixedRand(0.5),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := NewRootCommand(h.deps())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", h.config, "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (h *harness) runJSON(dst any, args ...string) {
	h.t.Helper()
	out, err := h.run(append([]string{"-o", "json"}, args...)...)
	require.NoError(h.t, err)
	require.NoError(h.t, json.Unmarshal([]byte(out), dst), out)
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand(Dependencies{})
	assert.Equal(t, "matforge", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := map[string]*cobra.Command{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = sub
	}
	for _, want := range []string{"composition", "polymer", "reference", "oracle", "export", "version"} {
		assert.Contains(t, names, want)
	}

	subs := func(parent string) []string {
		var out []string
		for _, c := range names[parent].Commands() {
			out = append(out, c.Name())
		}
		return out
	}
	assert.ElementsMatch(t, []string{"normalize", "validate", "density", "score", "process"}, subs("composition"))
	assert.ElementsMatch(t, []string{"predict", "elements", "method", "check"}, subs("polymer"))
	assert.ElementsMatch(t, []string{"elements", "monomers", "materials"}, subs("reference"))
	assert.ElementsMatch(t, []string{"predict", "optimize", "recommend", "target", "issues"}, subs("oracle"))
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	pf := NewRootCommand(Dependencies{}).PersistentFlags()

	for name, def := range map[string]string{
		"config":    "",
		"log-level": "warn",
		"output":    "text",
		"verbose":   "false",
		"no-color":  "false",
		"timeout":   "1m0s",
	} {
		f := pf.Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, def, f.DefValue, name)
	}
	assert.Equal(t, "v", pf.Lookup("verbose").Shorthand)
	assert.Equal(t, "o", pf.Lookup("output").Shorthand)
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("-o", "yaml", "version")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	cmd := NewRootCommand(Dependencies{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml"), "version"})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestRoot_UnknownSubcommand(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("frobnicate")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	orig := Version
	Version = "1.2.3"
	defer func() { Version = orig }()

	h := newHarness(t)
	out, err := h.run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "matforge 1.2.3")

	var v versionInfo
	h.runJSON(&v, "version")
	assert.Equal(t, "1.2.3", v.Version)
	assert.Equal(t, GitCommit, v.GitCommit)
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(&cobra.Command{})
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestPrintResult_Formats(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	// Without a CLIContext the output is JSON.
	require.NoError(t, PrintResult(cmd, map[string]int{"a": 1}))
	assert.JSONEq(t, `{"a":1}`, buf.String())

	buf.Reset()
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{OutputFormat: OutputText}))
	require.NoError(t, PrintResult(cmd, validationView{Valid: true, Total: 100}))
	assert.Equal(t, "valid (total 100.00%)\n", buf.String())

	// Text falls back to JSON for values without a String method.
	buf.Reset()
	require.NoError(t, PrintResult(cmd, map[string]bool{"ok": true}))
	assert.JSONEq(t, `{"ok":true}`, buf.String())

	buf.Reset()
	cmd.SetContext(context.WithValue(context.Background(), cliContextKey{}, &CLIContext{OutputFormat: OutputTable}))
	require.NoError(t, PrintResult(cmd, compositionView{"Fe": 70, "Cr": 30}))
	assert.Contains(t, buf.String(), "Element")
	assert.Contains(t, buf.String(), "70.00")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&buf)

	PrintError(cmd, nil)
	assert.Empty(t, buf.String())

	PrintError(cmd, errors.New(errors.ErrCodeMonomerNotFound, "monomer not found"))
	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "[POLY_002] monomer not found")
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(&buf, []string{"Symbol", "Name"}, [][]string{{"Fe", "Iron"}, {"Cr", "Chromium"}})
	out := buf.String()
	assert.Contains(t, out, "Symbol")
	assert.Contains(t, out, "Chromium")
}

func TestDecodeJSONArg(t *testing.T) {
	var v map[string]float64
	require.NoError(t, decodeJSONArg(`{"a":1}`, &v))
	assert.Equal(t, 1.0, v["a"])

	path := filepath.Join(t.TempDir(), "p.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":2}`), 0o600))
	v = nil
	require.NoError(t, decodeJSONArg("@"+path, &v))
	assert.Equal(t, 2.0, v["b"])

	assert.True(t, errors.IsCode(decodeJSONArg("{nope", &v), errors.ErrCodeBadRequest))
	assert.True(t, errors.IsCode(decodeJSONArg("@/does/not/exist.json", &v), errors.ErrCodeBadRequest))
}
