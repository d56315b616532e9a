// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the modsurface CLI commands.
//
// Every command receives an *App, the composition root holding the config
// provider and output streams. The root command's pre-run loads the
// configuration, merges global flags over it and builds the logger and the
// module loader shared by the subcommands.
package cmd
