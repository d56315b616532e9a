// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/invowk/modsurface/internal/issue"
	"github.com/invowk/modsurface/pkg/modcache"
	"github.com/invowk/modsurface/pkg/modinfo"
	"github.com/invowk/modsurface/pkg/modsource"
	"github.com/invowk/modsurface/pkg/session"
)

// DefaultParallelLoads is used when no positive limit is configured.
const DefaultParallelLoads = 4

type (
	// Loader loads module files into descriptors. It is safe for concurrent use.
	Loader struct {
		pathCache   *modcache.PathCache
		parser      *modsource.Parser
		logger      *log.Logger
		searchPaths []string
		evaluate    bool
		parallel    int
	}

	// Option configures a Loader.
	Option func(*Loader)

	// LoadOptions tunes a single explicit load.
	LoadOptions struct {
		// Force replaces an existing path cache entry for the module name.
		Force bool
	}
)

// New creates a Loader. Without options it analyses sources (no evaluation),
// searches the current directory and owns a fresh path cache and parser.
func New(opts ...Option) *Loader {
	l := &Loader{
		pathCache:   modcache.New(),
		parser:      modsource.NewParser(),
		logger:      log.New(io.Discard),
		searchPaths: []string{"."},
		parallel:    DefaultParallelLoads,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithPathCache shares a module path cache between loaders.
func WithPathCache(c *modcache.PathCache) Option {
	return func(l *Loader) {
		if c != nil {
			l.pathCache = c
		}
	}
}

// WithParser shares a source parser (and its parse cache).
func WithParser(p *modsource.Parser) Option {
	return func(l *Loader) {
		if p != nil {
			l.parser = p
		}
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSearchPaths sets the directories searched by LoadByName, in order.
func WithSearchPaths(paths ...string) Option {
	return func(l *Loader) { l.searchPaths = slices.Clone(paths) }
}

// WithEvaluate selects evaluate mode: script modules run and bind a scope.
func WithEvaluate(evaluate bool) Option {
	return func(l *Loader) { l.evaluate = evaluate }
}

// WithParallelLoads bounds concurrent nested-module loads per manifest.
func WithParallelLoads(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.parallel = n
		}
	}
}

// PathCache returns the loader's module path cache.
func (l *Loader) PathCache() *modcache.PathCache { return l.pathCache }

// Load loads the module file at path and records it in the path cache under
// its module name. An existing cache entry is kept unless opts.Force is set.
func (l *Loader) Load(ctx context.Context, path string, opts LoadOptions) (*modinfo.Module, error) {
	m, err := l.load(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if l.pathCache.Add(m.Name(), m.Path(), opts.Force) {
		l.logger.Debug("cached module path", "name", m.Name(), "path", m.Path())
	}
	return m, nil
}

// LoadByName locates a module by name, through the path cache first and then
// the search paths, and loads it.
func (l *Loader) LoadByName(ctx context.Context, name string) (*modinfo.Module, error) {
	return l.loadByName(ctx, name, nil)
}

// Resolve loads ref as a path when it names a file and by name otherwise.
func (l *Loader) Resolve(ctx context.Context, ref string) (*modinfo.Module, error) {
	if strings.ContainsRune(ref, filepath.Separator) || strings.ContainsRune(ref, '/') || modinfo.ModuleExt(ref) != "" {
		return l.Load(ctx, ref, LoadOptions{})
	}
	return l.LoadByName(ctx, ref)
}

func (l *Loader) loadByName(ctx context.Context, name string, chain []string) (*modinfo.Module, error) {
	if cached := l.pathCache.Lookup(name); cached != "" {
		if fileExists(cached) {
			l.logger.Debug("module path cache hit", "name", name, "path", cached)
			return l.load(ctx, cached, chain)
		}
		l.logger.Debug("removing stale module path", "name", name, "path", cached)
		l.pathCache.Remove(name)
	}

	path, ok := l.find(name)
	if !ok {
		return nil, issue.NewErrorContext().
			WithOperation("find module").
			WithResource(name).
			WithSuggestion("Pass the module file path instead of its name").
			WithSuggestion("Add the module directory with --search-path").
			WithIssue(issue.ModuleNotFoundId).
			Wrap(fmt.Errorf("%w in %s", ErrModuleNotFound, strings.Join(l.searchPaths, ", "))).
			BuildError()
	}

	m, err := l.load(ctx, path, chain)
	if err != nil {
		return nil, err
	}
	l.pathCache.Add(name, m.Path(), false)
	return m, nil
}

// find probes each search path for name.mod.cue, name.cue, name.sh and
// name/name.mod.cue, in that order.
func (l *Loader) find(name string) (string, bool) {
	candidates := []string{
		name + modinfo.ManifestExt,
		name + modinfo.ScriptExt,
		name + modinfo.ShellExt,
		filepath.Join(name, name+modinfo.ManifestExt),
	}
	for _, dir := range l.searchPaths {
		for _, c := range candidates {
			path := filepath.Join(dir, c)
			if fileExists(path) {
				l.logger.Debug("found module", "name", name, "path", path)
				return path, true
			}
		}
	}
	return "", false
}

// load dispatches on the file kind. chain holds the manifests currently being
// loaded above this one.
func (l *Loader) load(ctx context.Context, path string, chain []string) (*modinfo.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve module path %s: %w", path, err)
	}
	for i, p := range chain {
		if modinfo.NamesEqual(p, abs) {
			return nil, issue.NewErrorContext().
				WithOperation("load nested modules").
				WithResource(chain[0]).
				WithSuggestion("Remove one of the nested_modules entries that form the cycle").
				WithIssue(issue.NestedModuleCycleId).
				Wrap(&CycleError{Chain: append(slices.Clone(chain[i:]), abs)}).
				BuildError()
		}
	}

	ext := modinfo.ModuleExt(abs)
	l.logger.Debug("loading module", "path", abs, "evaluate", l.evaluate)
	switch ext {
	case modinfo.ManifestExt:
		return l.loadManifest(ctx, abs, append(slices.Clone(chain), abs))
	case modinfo.ScriptExt, modinfo.ShellExt:
		return l.loadScript(ctx, abs)
	default:
		return nil, fmt.Errorf("%s: %w (want %s, %s or %s)", abs, ErrUnsupportedModule,
			modinfo.ManifestExt, modinfo.ScriptExt, modinfo.ShellExt)
	}
}

func (l *Loader) loadScript(ctx context.Context, path string) (*modinfo.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load module").
			WithResource(path).
			WithIssue(issue.ModuleNotFoundId).
			Wrap(err).
			BuildError()
	}
	m := modinfo.New(path, modinfo.WithKind(modinfo.KindScript), modinfo.WithParser(l.parser))
	if err := l.bindSource(ctx, m, path, src); err != nil {
		return nil, err
	}
	return m, nil
}

// bindSource attaches the exports of the script at path to m. In analysis
// mode the script is scanned and the names recorded as detected exports; in
// evaluate mode it runs and its scope is bound to m.
func (l *Loader) bindSource(ctx context.Context, m *modinfo.Module, path string, src []byte) error {
	var (
		detected *modsource.Detected
		state    *session.State
		err      error
	)
	switch ext := modinfo.ModuleExt(path); {
	case ext == modinfo.ShellExt && l.evaluate:
		state, err = session.EvaluateShell(ctx, m, src)
	case ext == modinfo.ShellExt:
		detected, err = modsource.ScanShell(path, src)
	case ext == modinfo.ScriptExt && l.evaluate:
		state, err = session.Evaluate(m, src)
	case ext == modinfo.ScriptExt:
		var tree *modsource.SyntaxTree
		if tree, err = l.parser.ParseFile(path); err == nil {
			detected = modsource.ScanTree(tree)
		}
	default:
		err = fmt.Errorf("%s: %w", path, ErrUnsupportedModule)
	}
	if err != nil {
		return sourceError(path, err)
	}

	if state != nil {
		m.SetScope(state)
		return nil
	}
	recordDetected(m, detected)
	return nil
}

func sourceError(path string, err error) error {
	ec := issue.NewErrorContext().
		WithOperation("load module source").
		WithResource(path).
		Wrap(err)
	if errors.Is(err, session.ErrSandboxViolation) {
		return ec.WithIssue(issue.SandboxViolationId).
			WithSuggestion("Load the module without --evaluate").
			BuildError()
	}
	return ec.WithIssue(issue.ModuleSourceInvalidId).BuildError()
}

// recordDetected stores scanned names in m's catalogs. Functions and
// workflows take the module prefix.
func recordDetected(m *modinfo.Module, d *modsource.Detected) {
	for _, name := range d.Functions {
		m.Catalog(modinfo.CategoryFunctions).AddDetected(modinfo.AddPrefixToCommandName(name, m.Prefix()))
	}
	for _, name := range d.Workflows {
		m.Catalog(modinfo.CategoryWorkflows).AddDetected(modinfo.AddPrefixToCommandName(name, m.Prefix()))
	}
	for _, a := range d.Aliases {
		m.Catalog(modinfo.CategoryAliases).AddDetectedAlias(a.Name, a.Target)
	}
	for _, name := range d.Variables {
		m.Catalog(modinfo.CategoryVariables).AddDetected(name)
	}
}

// versionAtLeast compares dotted numeric versions; missing components count as zero.
func versionAtLeast(have, want modinfo.ModuleVersion) bool {
	h, w := versionParts(have), versionParts(want)
	for i := range max(len(h), len(w)) {
		var hv, wv int
		if i < len(h) {
			hv = h[i]
		}
		if i < len(w) {
			wv = w[i]
		}
		if hv != wv {
			return hv > wv
		}
	}
	return true
}

func versionParts(v modinfo.ModuleVersion) []int {
	var parts []int
	for _, s := range strings.Split(string(v), ".") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return parts
		}
		parts = append(parts, n)
	}
	return parts
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
