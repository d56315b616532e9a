// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/invowk/modsurface/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "modsurface",
		Short: "Inspect the export surface of script modules",
		Long: TitleStyle.Render("modsurface") + SubtitleStyle.Render(" - inspect the export surface of script modules") + `

modsurface loads module manifests (.mod.cue), CUE script modules (.cue) and
shell script modules (.sh) and resolves what they export: functions,
cmdlets, aliases, workflows, variables and CUE type declarations.

` + SubtitleStyle.Render("Examples:") + `
  modsurface exports ./net/Net.mod.cue        List every export of a manifest
  modsurface exports Net --category aliases   Resolve a module by name
  modsurface exports tools.sh --evaluate      Run the module in a sandbox first
  modsurface types Net --format json          List exported type declarations
  modsurface describe Net                     Render a module summary`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.flags.configPath})
			if err != nil {
				return app.fail(err)
			}
			app.setup(cfg, cmd.Flags().Changed)
			return nil
		},
	}

	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&app.flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/modsurface/config.cue)")
	flags.BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	flags.BoolVar(&app.flags.evaluate, "evaluate", false, "evaluate script modules instead of scanning them")
	flags.StringSliceVarP(&app.flags.searchPaths, "search-path", "p", nil, "directories searched for modules loaded by name")

	root.AddCommand(
		newExportsCommand(app),
		newTypesCommand(app),
		newDescribeCommand(app),
		newConfigCommand(app),
		newIssuesCommand(app),
	)
	return root
}

// Execute runs the CLI and exits the process on failure.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
