package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/domain/reference"
	"github.com/turtacn/MatForge/pkg/errors"
)

func newReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Browse the built-in elements, monomers and material catalog",
	}
	cmd.AddCommand(newReferenceElementsCmd(), newReferenceMonomersCmd(), newReferenceMaterialsCmd())
	return cmd
}

func newReferenceElementsCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "elements [SYMBOL]",
		Short: "List elements, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := reference.PeriodicTable()
			if len(args) == 1 {
				e, ok := table.LookupFold(args[0])
				if !ok {
					return errors.New(errors.ErrCodeElementNotFound, "element not found").WithDetail(args[0])
				}
				return PrintResult(cmd, elementList{e})
			}
			if category == "" {
				return PrintResult(cmd, elementList(table.All()))
			}
			cat, ok := reference.ParseElementCategory(category)
			if !ok {
				return errors.New(errors.ErrCodeCategoryInvalid, "unknown element category").WithDetail(category)
			}
			return PrintResult(cmd, elementList(table.ByCategory(cat)))
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "filter by category (e.g. transition-metal)")
	return cmd
}

func newReferenceMonomersCmd() *cobra.Command {
	var query, category string
	cmd := &cobra.Command{
		Use:   "monomers [ID]",
		Short: "List or search monomers, or show one with its compatible partners",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := reference.Monomers()
			if len(args) == 1 {
				m, ok := catalog.Get(args[0])
				if !ok {
					return errors.New(errors.ErrCodeMonomerNotFound, "monomer not found").WithDetail(args[0])
				}
				return PrintResult(cmd, monomerDetail{Monomer: m, Compatible: monomerIDs(catalog.Compatible(m))})
			}

			monomers := catalog.All()
			if q := strings.TrimSpace(query); q != "" {
				monomers = catalog.Search(q)
			}
			if category != "" {
				cat, ok := reference.ParseMonomerCategory(category)
				if !ok {
					return errors.New(errors.ErrCodeCategoryInvalid, "unknown monomer category").WithDetail(category)
				}
				filtered := monomers[:0:0]
				for _, m := range monomers {
					if m.Category == cat {
						filtered = append(filtered, m)
					}
				}
				monomers = filtered
			}
			return PrintResult(cmd, monomerList(monomers))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "match name, ID or functional group")
	cmd.Flags().StringVar(&category, "category", "", "filter by category (e.g. styrenic)")
	return cmd
}

func newReferenceMaterialsCmd() *cobra.Command {
	var query, category string
	cmd := &cobra.Command{
		Use:   "materials [ID]",
		Short: "List or search the material catalog, or show one entry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := material.Materials()
			if len(args) == 1 {
				m, ok := catalog.Get(args[0])
				if !ok {
					return errors.New(errors.ErrCodeCatalogEntryNotFound, "catalog material not found").WithDetail(args[0])
				}
				return PrintResult(cmd, materialList{m})
			}

			items := catalog.All()
			if q := strings.TrimSpace(query); q != "" {
				items = catalog.Search(q)
			}
			if category != "" {
				cat := material.Category(strings.ToLower(category))
				if !cat.IsValid() {
					return errors.New(errors.ErrCodeCategoryInvalid, "unknown material category").WithDetail(category)
				}
				filtered := items[:0:0]
				for _, m := range items {
					if m.Category == cat {
						filtered = append(filtered, m)
					}
				}
				items = filtered
			}
			return PrintResult(cmd, materialList(items))
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "match name, description or category")
	cmd.Flags().StringVar(&category, "category", "", "filter by category (e.g. semiconductor)")
	return cmd
}

func monomerIDs(ms []reference.Monomer) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

type elementList []reference.Element

func (l elementList) String() string {
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-3s %-12s Z=%-3d mass=%.3f %s", e.Symbol, e.Name, e.AtomicNumber, e.AtomicMass, e.Category)
	}
	return b.String()
}

func (l elementList) TableHeaders() []string {
	return []string{"Symbol", "Name", "Z", "Mass", "Category", "Melting (K)"}
}

func (l elementList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{
			e.Symbol, e.Name, strconv.Itoa(e.AtomicNumber), fmt.Sprintf("%.3f", e.AtomicMass),
			string(e.Category), fmt.Sprintf("%.0f", e.MeltingPoint),
		})
	}
	return rows
}

type monomerList []reference.Monomer

func (l monomerList) String() string {
	var b strings.Builder
	for i, m := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-24s %-28s %s", m.ID, m.Name, m.Category)
	}
	return b.String()
}

func (l monomerList) TableHeaders() []string {
	return []string{"ID", "Name", "Category", "MW (g/mol)", "Tg (°C)"}
}

func (l monomerList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, m := range l {
		rows = append(rows, []string{
			m.ID, m.Name, string(m.Category), formatFloat(m.MolecularWeight),
			fmt.Sprintf("%.0f", m.Properties.GlassTransitionTemp),
		})
	}
	return rows
}

type monomerDetail struct {
	reference.Monomer
	Compatible []string `json:"compatible"`
}

func (d monomerDetail) String() string {
	return fmt.Sprintf("%s (%s)\ncategory: %s\nstructure: %s\ncomposition: %s\ncompatible: %s",
		d.Name, d.ID, d.Category, d.Structure,
		composition.Format(d.Composition), strings.Join(d.Compatible, ", "))
}

type materialList []material.Material

func (l materialList) String() string {
	var b strings.Builder
	for i, m := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-24s %-28s %-14s %s", m.ID, m.Name, m.Category, composition.Format(m.Composition))
	}
	return b.String()
}

func (l materialList) TableHeaders() []string {
	return []string{"ID", "Name", "Category", "Tensile (MPa)", "Density (g/cm³)"}
}

func (l materialList) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, m := range l {
		rows = append(rows, []string{
			m.ID, m.Name, string(m.Category),
			formatOptional(m.Properties.Mechanical.TensileStrength),
			formatOptional(m.Properties.Mechanical.Density),
		})
	}
	return rows
}
