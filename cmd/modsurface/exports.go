// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/modsurface/internal/config"
	"github.com/invowk/modsurface/internal/loader"
	"github.com/invowk/modsurface/internal/watch"
	"github.com/invowk/modsurface/pkg/modinfo"
)

type (
	exportsFlags struct {
		category string
		nested   bool
		format   string
		watch    bool
	}

	// exportListing is the serialized form of `modsurface exports`.
	exportListing struct {
		Module  string      `json:"module" toml:"module"`
		Path    string      `json:"path" toml:"path"`
		Exports []exportRow `json:"exports" toml:"exports"`
	}

	exportRow struct {
		Name       string `json:"name" toml:"name"`
		Category   string `json:"category" toml:"category"`
		Type       string `json:"type,omitempty" toml:"type,omitempty"`
		Module     string `json:"module,omitempty" toml:"module,omitempty"`
		Definition string `json:"definition,omitempty" toml:"definition,omitempty"`
		Value      string `json:"value,omitempty" toml:"value,omitempty"`
		Stub       bool   `json:"stub,omitempty" toml:"stub,omitempty"`
	}
)

func newExportsCommand(app *App) *cobra.Command {
	var flags exportsFlags
	cmd := &cobra.Command{
		Use:   "exports <module>",
		Short: "List the symbols a module exports",
		Long: `List the functions, cmdlets, aliases, workflows and variables a module
exports. <module> is a module file path or a module name looked up in the
search paths.

Declared export lists in a manifest take precedence over a bound scope,
which takes precedence over names found by analysis.

A module with nested modules is listed as one merged view: nested modules
contribute in declaration order, the module itself last, and a later entry
replaces an earlier command of the same name. Use --nested to list each
module on its own instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExports(cmd, app, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.category, "category", "c", "", "only list one category (functions, cmdlets, aliases, workflows, variables)")
	cmd.Flags().BoolVar(&flags.nested, "nested", false, "list the module and each nested module separately instead of merged")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "output format: text, json or toml (default from config)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "print the exports again whenever a module file changes")
	return cmd
}

func runExports(cmd *cobra.Command, app *App, flags exportsFlags, ref string) error {
	format, err := app.formatFlag(flags.format)
	if err != nil {
		return app.fail(err)
	}
	categories := modinfo.Categories()
	if flags.category != "" {
		c, err := modinfo.ParseCategory(flags.category)
		if err != nil {
			return app.fail(err)
		}
		categories = []modinfo.Category{c}
	}

	m, err := app.loader.Resolve(cmd.Context(), ref)
	if err != nil {
		return app.fail(err)
	}
	if err := printExports(cmd.OutOrStdout(), m, flags.nested, categories, format); err != nil {
		return app.fail(err)
	}
	if !flags.watch {
		return nil
	}

	var w *watch.Watcher
	w, err = watch.New(watch.Config{
		Dirs:   watch.ModuleDirs(m),
		Logger: app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			app.logger.Info("module files changed", "files", changed)
			reloaded, err := app.loader.Load(ctx, m.Path(), loader.LoadOptions{Force: true})
			if err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.cfg.UI.Verbose))
				return nil
			}
			// A reload may nest modules from directories not watched yet.
			if err := w.Add(watch.ModuleDirs(reloaded)...); err != nil {
				app.logger.Warn("cannot watch new module directories", "err", err)
			}
			return printExports(cmd.OutOrStdout(), reloaded, flags.nested, categories, format)
		},
	})
	if err != nil {
		return app.fail(err)
	}
	fmt.Fprintln(app.stderr, SubtitleStyle.Render("Watching for module changes (Ctrl+C to stop)"))
	if err := w.Run(cmd.Context()); err != nil {
		return app.fail(err)
	}
	return nil
}

// printExports writes the merged listing of m, or with nested set one
// listing per module of its nested closure.
func printExports(w io.Writer, m *modinfo.Module, nested bool, categories []modinfo.Category, format config.OutputFormat) error {
	if !nested {
		listing, err := buildMergedListing(m, categories)
		if err != nil {
			return err
		}
		return writeListing(w, format, listing)
	}
	for _, mod := range nestedClosure(m) {
		listing, err := buildExportListing(mod, categories)
		if err != nil {
			return err
		}
		if err := writeListing(w, format, listing); err != nil {
			return err
		}
	}
	return nil
}

// nestedClosure returns m followed by its nested modules, depth first. Each
// module appears once even when nested by several manifests.
func nestedClosure(m *modinfo.Module) []*modinfo.Module {
	var (
		out     []*modinfo.Module
		visited = map[*modinfo.Module]bool{}
		walk    func(*modinfo.Module)
	)
	walk = func(mod *modinfo.Module) {
		if visited[mod] {
			return
		}
		visited[mod] = true
		out = append(out, mod)
		for _, n := range mod.NestedModules() {
			walk(n)
		}
	}
	walk(m)
	return out
}

func buildExportListing(m *modinfo.Module, categories []modinfo.Category) (*exportListing, error) {
	listing := &exportListing{Module: m.Name(), Path: m.Path(), Exports: []exportRow{}}
	for _, c := range categories {
		exports, err := modinfo.ResolveExports(m, c)
		if err != nil {
			return nil, err
		}
		for _, sym := range exports.Values() {
			listing.Exports = append(listing.Exports, newExportRow(c, sym))
		}
	}
	return listing, nil
}

// buildMergedListing lists m together with its nested modules. Commands come
// from the layered command view, so an alias shadows a function of the same
// name. Modules without nested modules keep their per-category listing.
func buildMergedListing(m *modinfo.Module, categories []modinfo.Category) (*exportListing, error) {
	if len(m.NestedModules()) == 0 {
		return buildExportListing(m, categories)
	}
	commands, err := modinfo.ResolveAggregatedCommands(m)
	if err != nil {
		return nil, err
	}
	listing := &exportListing{Module: m.Name(), Path: m.Path(), Exports: []exportRow{}}
	for _, c := range categories {
		if c == modinfo.CategoryVariables {
			for _, v := range m.AggregatedVariables().Values() {
				listing.Exports = append(listing.Exports, newExportRow(c, v))
			}
			continue
		}
		for _, cmd := range commands.Values() {
			if cmd.Type.Category() == c {
				listing.Exports = append(listing.Exports, newExportRow(c, cmd))
			}
		}
	}
	return listing, nil
}

func newExportRow(c modinfo.Category, sym modinfo.Symbol) exportRow {
	row := exportRow{Name: sym.SymbolName(), Category: c.String()}
	if owner := sym.OwningModule(); owner != nil {
		row.Module = owner.Name()
	}
	switch s := sym.(type) {
	case *modinfo.CommandInfo:
		row.Type = s.Type.String()
		row.Definition = s.Definition
		row.Stub = s.Stub
	case *modinfo.Variable:
		if s.Value != nil {
			row.Value = fmt.Sprint(s.Value)
		}
		row.Stub = s.Stub
	}
	return row
}

func (l *exportListing) renderText(w io.Writer) {
	fmt.Fprintln(w, TitleStyle.Render(l.Module)+" "+VerboseStyle.Render(l.Path))
	if len(l.Exports) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  no exports"))
		return
	}
	current := ""
	for _, row := range l.Exports {
		if row.Category != current {
			current = row.Category
			fmt.Fprintln(w, SubtitleStyle.Render("  "+current+":"))
		}
		line := nameColumnStyle.Render(row.Name)
		switch {
		case row.Definition != "" && row.Type == modinfo.CommandTypeAlias.String():
			line += VerboseStyle.Render("-> " + row.Definition)
		case row.Value != "":
			line += VerboseStyle.Render("= " + row.Value)
		}
		if row.Module != "" && row.Module != l.Module {
			line += " " + VerboseStyle.Render("("+row.Module+")")
		}
		if row.Stub {
			line += " " + stubTagStyle.Render("stub")
		}
		fmt.Fprintln(w, line)
	}
}
