// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/modsurface/internal/config"
)

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modsurface configuration",
		Long: `Show, create and locate the modsurface configuration file.

Settings are read from config.cue in the config directory (or the file given
with --config) and can be overridden with MODSURFACE_* environment variables
and the global flags.`,
	}
	cmd.AddCommand(
		newConfigShowCommand(app),
		newConfigInitCommand(app),
		newConfigPathCommand(app),
	)
	return cmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if app.cfg.Source != "" {
				fmt.Fprintf(out, "// source: %s\n", app.cfg.Source)
			}
			fmt.Fprint(out, config.GenerateCUE(app.cfg))
			return nil
		},
	}
}

func newConfigInitCommand(app *App) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig(dir)
			if err != nil {
				return app.fail(err)
			}
			app.logger.Debug("config file ready", "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), SubtitleStyle.Render("Config file: ")+path)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to write config.cue into (default is the config directory)")
	return cmd
}

func newConfigPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return app.fail(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	}
}
