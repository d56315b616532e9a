// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/invowk/modsurface/internal/issue"
)

func newIssuesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "issues [id]",
		Short: "List troubleshooting guides or show one",
		Long: `Without arguments, list the troubleshooting guides linked from error
messages. With an id, render that guide.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, i := range issue.Values() {
					fmt.Fprintf(out, "%s  %s\n", SymbolStyle.Render(fmt.Sprintf("%3d", i.Id())), i.Title())
				}
				return nil
			}

			n, err := strconv.Atoi(args[0])
			if err != nil {
				return app.fail(fmt.Errorf("invalid issue id %q: %w", args[0], err))
			}
			guide := issue.Get(issue.Id(n))
			if guide == nil {
				return app.fail(fmt.Errorf("no issue with id %d", n))
			}
			rendered, err := guide.Render(app.glamourStyle())
			if err != nil {
				return app.fail(err)
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}
