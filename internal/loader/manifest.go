// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/invowk/modsurface/internal/cueutil"
	"github.com/invowk/modsurface/internal/issue"
	"github.com/invowk/modsurface/pkg/modinfo"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

type (
	// manifest mirrors #Manifest. Export lists are pointers so that an
	// absent field stays distinguishable from an empty one.
	manifest struct {
		Name        string `json:"name"`
		Version     string `json:"version"`
		GUID        string `json:"guid"`
		Description string `json:"description"`
		Author      string `json:"author"`
		Prefix      string `json:"prefix"`
		AccessMode  string `json:"access_mode"`

		RootModule         string       `json:"root_module"`
		NestedModules      []string     `json:"nested_modules"`
		RequiredModules    []moduleSpec `json:"required_modules"`
		RequiredAssemblies []string     `json:"required_assemblies"`
		ModuleList         []moduleSpec `json:"module_list"`
		Files              []string     `json:"files"`
		Scripts            []string     `json:"scripts"`

		FunctionsToExport *[]string `json:"functions_to_export"`
		CmdletsToExport   *[]string `json:"cmdlets_to_export"`
		AliasesToExport   *[]string `json:"aliases_to_export"`
		WorkflowsToExport *[]string `json:"workflows_to_export"`
		VariablesToExport *[]string `json:"variables_to_export"`
	}

	moduleSpec struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		GUID    string `json:"guid"`
	}
)

// declared pairs each category with its manifest export list.
func (mf *manifest) declared() map[modinfo.Category]*[]string {
	return map[modinfo.Category]*[]string{
		modinfo.CategoryFunctions: mf.FunctionsToExport,
		modinfo.CategoryCmdlets:   mf.CmdletsToExport,
		modinfo.CategoryAliases:   mf.AliasesToExport,
		modinfo.CategoryWorkflows: mf.WorkflowsToExport,
		modinfo.CategoryVariables: mf.VariablesToExport,
	}
}

func (s moduleSpec) specification() (modinfo.ModuleSpecification, error) {
	spec := modinfo.ModuleSpecification{Name: s.Name, Version: modinfo.ModuleVersion(s.Version)}
	if s.GUID != "" {
		id, err := uuid.Parse(s.GUID)
		if err != nil {
			return spec, fmt.Errorf("module %s: %w", s.Name, err)
		}
		spec.GUID = id
	}
	return spec, nil
}

func decodeManifest(path string, data []byte) (*manifest, error) {
	decoded, err := cueutil.Decode[manifest](manifestSchema, "#Manifest", data, cueutil.WithFilename(path))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("decode manifest").
			WithResource(path).
			WithSuggestion("Run with --verbose to see an example manifest").
			WithIssue(issue.ManifestInvalidId).
			Wrap(err).
			BuildError()
	}
	return decoded.Value, nil
}

func (l *Loader) loadManifest(ctx context.Context, path string, chain []string) (*modinfo.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.WrapWithContext(err, "read manifest", path)
	}
	mf, err := decodeManifest(path, data)
	if err != nil {
		return nil, err
	}

	opts := []modinfo.Option{
		modinfo.WithKind(modinfo.KindManifest),
		modinfo.WithParser(l.parser),
		modinfo.WithRootModule(mf.RootModule),
		modinfo.WithPrefix(mf.Prefix),
		modinfo.WithDescription(mf.Description),
		modinfo.WithAuthor(mf.Author),
	}
	if mf.Name != "" {
		opts = append(opts, modinfo.WithName(mf.Name))
	}
	if mf.Version != "" {
		opts = append(opts, modinfo.WithVersion(modinfo.ModuleVersion(mf.Version)))
	}
	if mf.GUID != "" {
		id, err := uuid.Parse(mf.GUID)
		if err != nil {
			return nil, issue.WrapWithContext(err, "decode manifest", path)
		}
		opts = append(opts, modinfo.WithGUID(id))
	}
	m := modinfo.New(path, opts...)

	for _, f := range mf.Files {
		m.AddFile(f)
	}
	for _, s := range mf.Scripts {
		m.AddScript(s)
	}
	for _, a := range mf.RequiredAssemblies {
		m.AddRequiredAssembly(a)
	}
	for _, entry := range mf.ModuleList {
		spec, err := entry.specification()
		if err != nil {
			return nil, issue.WrapWithContext(err, "decode manifest", path)
		}
		m.AddModuleListEntry(spec)
	}
	for c, names := range mf.declared() {
		if names != nil {
			m.Catalog(c).Declare(*names...)
		}
	}

	if mf.RootModule != "" {
		if err := l.loadRootModule(ctx, m); err != nil {
			return nil, err
		}
	}

	nested, err := l.loadNested(ctx, m, mf.NestedModules, chain)
	if err != nil {
		return nil, err
	}
	for _, n := range nested {
		m.AddNestedModule(n)
	}

	for _, entry := range mf.RequiredModules {
		spec, err := entry.specification()
		if err != nil {
			return nil, issue.WrapWithContext(err, "decode manifest", path)
		}
		required, err := l.loadRequired(ctx, spec, chain)
		if err != nil {
			return nil, err
		}
		m.AddRequiredModuleSpec(spec)
		m.AddRequiredModule(required)
	}

	// Access mode last: a Constant manifest is complete once loaded.
	if mf.AccessMode != "" {
		mode, err := modinfo.ParseAccessMode(mf.AccessMode)
		if err == nil {
			err = m.SetAccessMode(mode)
		}
		if err != nil {
			return nil, issue.WrapWithContext(err, "decode manifest", path)
		}
	}
	return m, nil
}

// loadRootModule exports the root module's symbols through the manifest: as
// detected names in analysis mode, or as the manifest's bound scope when
// evaluating.
func (l *Loader) loadRootModule(ctx context.Context, m *modinfo.Module) error {
	rootPath := filepath.Join(m.ModuleBase(), m.RootModule())
	src, err := os.ReadFile(rootPath)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("load root module").
			WithResource(rootPath).
			WithSuggestion("Check the root_module path; it is relative to the manifest").
			WithIssue(issue.ModuleNotFoundId).
			Wrap(err).
			BuildError()
	}
	return l.bindSource(ctx, m, rootPath, src)
}

// loadNested loads nested module paths concurrently, bounded by the
// parallel-loads limit. The result keeps the manifest order.
func (l *Loader) loadNested(ctx context.Context, m *modinfo.Module, paths []string, chain []string) ([]*modinfo.Module, error) {
	out := make([]*modinfo.Module, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallel)
	for i, rel := range paths {
		path := rel
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.ModuleBase(), rel)
		}
		g.Go(func() error {
			nested, err := l.load(gctx, path, chain)
			if err != nil {
				return err
			}
			out[i] = nested
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// loadRequired resolves a required module by name and checks it against the
// specification's version floor and GUID.
func (l *Loader) loadRequired(ctx context.Context, spec modinfo.ModuleSpecification, chain []string) (*modinfo.Module, error) {
	required, err := l.loadByName(ctx, spec.Name, chain)
	if err != nil {
		return nil, err
	}
	if spec.Version != "" && !versionAtLeast(required.Version(), spec.Version) {
		return nil, &RequirementError{Spec: spec, Found: required.Version()}
	}
	if spec.GUID != uuid.Nil && required.GUID() != spec.GUID {
		return nil, &RequirementError{Spec: spec, Found: required.Version(), GUIDMismatch: true}
	}
	return required, nil
}
