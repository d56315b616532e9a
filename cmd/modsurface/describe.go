// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/invowk/modsurface/pkg/modinfo"
)

func newDescribeCommand(app *App) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "describe <module>",
		Short: "Render a summary of a module",
		Long: `Render the metadata, nested and required modules, export counts and type
declarations of a module as a formatted document. With --evaluate, the
properties, methods and pending cmdlets of the module's bound scope are
listed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.loader.Resolve(cmd.Context(), args[0])
			if err != nil {
				return app.fail(err)
			}
			md, err := describeMarkdown(m, app.host)
			if err != nil {
				return app.fail(err)
			}
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			out, err := glamour.Render(md, app.glamourStyle())
			if err != nil {
				return app.fail(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of rendering it")
	return cmd
}

// describeMarkdown builds the markdown summary of m. Scope-bound modules are
// inspected through host.
func describeMarkdown(m *modinfo.Module, host modinfo.ScopeHost) (string, error) {
	// Read the scope before the export counts migrate its cmdlets.
	scope, err := scopeMarkdown(m, host)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Name())
	if m.Description() != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Description())
	}

	b.WriteString("| Property | Value |\n|---|---|\n")
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "| %s | `%s` |\n", k, v)
		}
	}
	row("Path", m.Path())
	row("Kind", m.Kind().String())
	row("Version", m.Version().String())
	if m.GUID() != uuid.Nil {
		row("GUID", m.GUID().String())
	}
	row("Author", m.Author())
	row("Prefix", m.Prefix())
	row("Access mode", m.AccessMode().String())
	row("Root module", m.RootModule())
	b.WriteString("\n")

	b.WriteString("## Exports\n\n| Category | Count |\n|---|---|\n")
	for _, c := range modinfo.Categories() {
		exports, err := modinfo.ResolveExports(m, c)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "| %s | %d |\n", c, exports.Len())
	}
	commands, err := modinfo.ResolveCommands(m)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "| commands (merged) | %d |\n", commands.Len())
	b.WriteString("\n")

	if nested := m.NestedModules(); len(nested) > 0 {
		b.WriteString("## Nested modules\n\n")
		for _, n := range nested {
			fmt.Fprintf(&b, "- **%s** `%s`\n", n.Name(), n.Path())
		}
		b.WriteString("\n")
	}

	if specs := m.RequiredModuleSpecs(); len(specs) > 0 {
		b.WriteString("## Required modules\n\n")
		for _, s := range specs {
			line := "- **" + s.Name + "**"
			if s.Version != "" {
				line += " >= " + s.Version.String()
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(scope)

	decls, err := modinfo.ResolveExportedTypeDeclarations(m)
	if err != nil {
		return "", err
	}
	if decls.Len() > 0 {
		b.WriteString("## Type declarations\n\n")
		for _, name := range decls.Names() {
			fmt.Fprintf(&b, "- `%s`\n", name)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// scopeMarkdown describes the bound object of m with its scope current on
// host. It returns "" for modules without a bound scope.
func scopeMarkdown(m *modinfo.Module, host modinfo.ScopeHost) (string, error) {
	if m.Scope() == nil {
		return "", nil
	}
	var b strings.Builder
	err := m.Invoke(host, func(scope modinfo.ExecutionScope) error {
		obj, err := m.BoundObject()
		if err != nil {
			return err
		}
		b.WriteString("## Bound scope\n\n")
		if obj.Properties.Len() > 0 {
			b.WriteString("**Properties**\n\n")
			for name, v := range obj.Properties.All() {
				if v.Value != nil {
					fmt.Fprintf(&b, "- `%s` = `%v`\n", name, v.Value)
				} else {
					fmt.Fprintf(&b, "- `%s`\n", name)
				}
			}
			b.WriteString("\n")
		}
		if obj.Methods.Len() > 0 {
			b.WriteString("**Methods**\n\n")
			for _, name := range obj.Methods.Names() {
				fmt.Fprintf(&b, "- `%s()`\n", name)
			}
			b.WriteString("\n")
		}
		if pending := scope.OwnExportedCmdlets(); len(pending) > 0 {
			b.WriteString("**Pending cmdlets**\n\n")
			for _, c := range pending {
				fmt.Fprintf(&b, "- `%s`\n", c.Name)
			}
			b.WriteString("\n")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
