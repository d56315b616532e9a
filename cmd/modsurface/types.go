// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/modsurface/pkg/modinfo"
)

type (
	typesFlags struct {
		source bool
		format string
	}

	// typeListing is the serialized form of `modsurface types`.
	typeListing struct {
		Module string    `json:"module" toml:"module"`
		Path   string    `json:"path" toml:"path"`
		Types  []typeRow `json:"types" toml:"types"`
	}

	typeRow struct {
		Name   string `json:"name" toml:"name"`
		File   string `json:"file" toml:"file"`
		Source string `json:"source,omitempty" toml:"source,omitempty"`
	}
)

func newTypesCommand(app *App) *cobra.Command {
	var flags typesFlags
	cmd := &cobra.Command{
		Use:   "types <module>",
		Short: "List the CUE type declarations a module exports",
		Long: `List the #Definitions declared by a module and its nested modules.
Declarations of the module itself win over nested declarations of the same
name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := app.formatFlag(flags.format)
			if err != nil {
				return app.fail(err)
			}
			m, err := app.loader.Resolve(cmd.Context(), args[0])
			if err != nil {
				return app.fail(err)
			}
			listing, err := buildTypeListing(m, flags.source)
			if err != nil {
				return app.fail(err)
			}
			if err := writeListing(cmd.OutOrStdout(), format, listing); err != nil {
				return app.fail(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.source, "source", false, "include the declaration source")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: text, json or toml (default from config)")
	return cmd
}

func buildTypeListing(m *modinfo.Module, withSource bool) (*typeListing, error) {
	decls, err := modinfo.ResolveExportedTypeDeclarations(m)
	if err != nil {
		return nil, err
	}
	listing := &typeListing{Module: m.Name(), Path: m.Path(), Types: []typeRow{}}
	for _, d := range decls.Values() {
		row := typeRow{Name: d.Name, File: d.Filename}
		if withSource {
			row.Source = d.Source()
		}
		listing.Types = append(listing.Types, row)
	}
	return listing, nil
}

func (l *typeListing) renderText(w io.Writer) {
	fmt.Fprintln(w, TitleStyle.Render(l.Module)+" "+VerboseStyle.Render(l.Path))
	if len(l.Types) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  no type declarations"))
		return
	}
	for _, row := range l.Types {
		fmt.Fprintln(w, nameColumnStyle.Render(row.Name)+VerboseStyle.Render(filepath.Base(row.File)))
		if row.Source != "" {
			for line := range strings.Lines(row.Source) {
				fmt.Fprint(w, "      "+VerboseStyle.Render(strings.TrimRight(line, "\n"))+"\n")
			}
		}
	}
}
