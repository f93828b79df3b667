package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

type exportOptions struct {
	name       string
	category   string
	properties string
	out        string
}

func newExportCmd() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export COMPOSITION",
		Short: "Write the export document of a simulated material",
		Long: "Write {name, composition, properties} as JSON. Properties come from\n" +
			"--properties or, when omitted, from an oracle prediction. The document\n" +
			"goes to stdout unless --out names a file or a directory; a directory\n" +
			"receives <name>.json.\n\n" + compositionArgHelp + "\n" + propertiesArgHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "material name (default: Material <unix-millis>)")
	cmd.Flags().StringVar(&opts.category, "category", "", "material category")
	cmd.Flags().StringVar(&opts.properties, "properties", "", "simulated property bundle (JSON or @FILE)")
	cmd.Flags().StringVar(&opts.out, "out", "", "output file or directory")
	return cmd
}

func runExport(cmd *cobra.Command, arg string, opts *exportOptions) error {
	c, err := parseComposition(arg)
	if err != nil {
		return err
	}

	var props material.Properties
	if opts.properties != "" {
		if err := decodeJSONArg(opts.properties, &props); err != nil {
			return err
		}
	} else {
		res, err := simulateElements(cmd, c, material.DefaultConditions())
		if err != nil {
			return err
		}
		props = res.Properties
	}

	m, err := material.NewMaterial(material.Draft{
		Name:        opts.name,
		Category:    material.Category(opts.category),
		Composition: c,
		Properties:  &props,
	}, time.Now())
	if err != nil {
		return err
	}
	body, err := m.MarshalExport()
	if err != nil {
		return err
	}

	if opts.out == "" {
		_, err := cmd.OutOrStdout().Write(append(body, '\n'))
		return err
	}
	path := opts.out
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, m.ExportFileName())
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return errors.Wrap(err, errors.ErrCodeExportFailed, "failed to write export").WithDetail(path)
	}
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		cliCtx.Logger.Info("export written", logging.String("path", path), logging.String("material", m.Name))
	}
	return nil
}
