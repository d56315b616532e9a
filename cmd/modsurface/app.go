// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/invowk/modsurface/internal/config"
	"github.com/invowk/modsurface/internal/issue"
	"github.com/invowk/modsurface/internal/loader"
	"github.com/invowk/modsurface/pkg/modcache"
	"github.com/invowk/modsurface/pkg/session"
)

type (
	// App wires CLI services and per-invocation state. Config, the logger,
	// the loader and the scope host are ready once the root command's pre-run
	// has completed.
	App struct {
		Config config.Provider
		stdout io.Writer
		stderr io.Writer

		flags  globalFlags
		cfg    *config.Config
		logger *log.Logger
		loader *loader.Loader
		host   *session.Host
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Stdout io.Writer
		Stderr io.Writer
	}

	globalFlags struct {
		configPath  string
		verbose     bool
		evaluate    bool
		searchPaths []string
	}

	// ExitError carries a process exit code out of a RunE handler whose
	// error has already been shown to the user.
	ExitError struct {
		Code int
		Err  error
	}
)

// NewApp builds an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// setup applies cfg and the global flags that were set explicitly, then
// builds the logger and the loader.
func (a *App) setup(cfg *config.Config, changed func(name string) bool) {
	if changed("verbose") {
		cfg.UI.Verbose = a.flags.verbose
	}
	if changed("evaluate") {
		cfg.Evaluate = a.flags.evaluate
	}
	if changed("search-path") {
		cfg.SearchPaths = cfg.SearchPaths[:0]
		for _, p := range a.flags.searchPaths {
			cfg.SearchPaths = append(cfg.SearchPaths, config.SearchPath(p))
		}
	}
	a.cfg = cfg

	a.logger = log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	if cfg.UI.Verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	searchPaths := make([]string, len(cfg.SearchPaths))
	for i, p := range cfg.SearchPaths {
		searchPaths[i] = string(p)
	}
	a.host = session.NewHost(nil)
	a.loader = loader.New(
		loader.WithPathCache(modcache.New()),
		loader.WithLogger(a.logger),
		loader.WithSearchPaths(searchPaths...),
		loader.WithEvaluate(cfg.Evaluate),
		loader.WithParallelLoads(cfg.ParallelLoads),
	)
	a.logger.Debug("configuration applied",
		"search_paths", searchPaths, "evaluate", cfg.Evaluate, "parallel_loads", cfg.ParallelLoads)
}

// fail shows err on stderr and returns an ExitError. In verbose mode the
// error chain and any linked remediation guide are shown as well.
func (a *App) fail(err error) error {
	verbose := a.cfg != nil && a.cfg.UI.Verbose
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if verbose && errors.As(err, &ae) && ae.Issue != 0 {
		if guide := issue.Get(ae.Issue); guide != nil {
			if out, renderErr := guide.Render(a.glamourStyle()); renderErr == nil {
				fmt.Fprint(a.stderr, out)
			}
		}
	}
	return &ExitError{Code: 1, Err: err}
}

func (a *App) glamourStyle() string {
	if a.cfg == nil {
		return issue.StyleAuto
	}
	return string(a.cfg.UI.ColorScheme)
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
