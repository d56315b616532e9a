// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

const (
	// ManifestExt is the file extension of module manifests.
	ManifestExt = ".mod.cue"
	// ScriptExt is the file extension of CUE script modules.
	ScriptExt = ".cue"
	// ShellExt is the file extension of shell script modules.
	ShellExt = ".sh"

	// DefaultVersion is the version of a module that declares none.
	DefaultVersion ModuleVersion = "0.0"

	// DynamicModulePrefix prefixes the synthetic name of modules created from a scope.
	DynamicModulePrefix = "__DynamicModule_"
)

const (
	// KindScript is a module defined by a script source.
	KindScript ModuleKind = iota
	// KindCompiled is a module whose commands are registered programmatically.
	KindCompiled
	// KindManifest is a module described by a manifest aggregating other modules.
	KindManifest
	// KindCim is a module generated from a CIM class description.
	KindCim
	// KindWorkflow is a module defined by a workflow source.
	KindWorkflow
)

const (
	// AccessReadWrite allows the module to be removed and replaced.
	AccessReadWrite AccessMode = iota
	// AccessReadOnly allows removal only when forced.
	AccessReadOnly
	// AccessConstant is terminal; the mode can never change again.
	AccessConstant
)

var (
	// ErrConstantModule is the sentinel error wrapped by ConstantModuleError.
	ErrConstantModule = errors.New("module is constant")
	// ErrInvalidAccessMode is returned when an AccessMode value is not recognized.
	ErrInvalidAccessMode = errors.New("invalid access mode")
	// ErrInvalidModuleVersion is returned when a ModuleVersion is not dotted numeric.
	ErrInvalidModuleVersion = errors.New("invalid module version")
	// ErrNilModule is returned when a nil *Module is passed to a package function.
	ErrNilModule = errors.New("module is nil")

	moduleVersionPattern = regexp.MustCompile(`^\d+(\.\d+){1,3}$`)
)

type (
	// ModuleKind is the closed set of module flavors.
	ModuleKind int

	// AccessMode controls whether a module can be removed or replaced.
	AccessMode int

	// ModuleVersion is a dotted numeric version with two to four components ("1.0", "2.3.1.0").
	ModuleVersion string

	// ConstantModuleError is returned when changing the access mode of a constant module.
	ConstantModuleError struct {
		Module string
	}

	// ModuleSpecification identifies a module by name and optionally by version and GUID.
	ModuleSpecification struct {
		Name    string        `json:"name"`
		Version ModuleVersion `json:"version,omitempty"`
		GUID    uuid.UUID     `json:"guid,omitzero"`
	}

	// Module describes one loaded module and the raw material its exports are
	// resolved from.
	Module struct {
		name        string
		path        string
		version     ModuleVersion
		guid        uuid.UUID
		kind        ModuleKind
		accessMode  AccessMode
		rootModule  string
		prefix      string
		description string
		author      string

		files               []string
		scripts             []string
		requiredAssemblies  []string
		nestedModules       []*Module
		requiredModules     []*Module
		requiredModuleSpecs []ModuleSpecification
		moduleList          []ModuleSpecification

		catalogs [categoryCount]*SymbolCatalog

		scope     ExecutionScope
		parser    SourceParser
		typeDecls typeDeclCache
	}

	// Option configures a Module at construction.
	Option func(*Module)
)

// New creates a module descriptor for path. The name defaults to the base name
// of path with any recognized module extension removed.
func New(path string, opts ...Option) *Module {
	m := &Module{
		path:    path,
		name:    NameFromPath(path),
		version: DefaultVersion,
		kind:    KindScript,
	}
	for i := range m.catalogs {
		m.catalogs[i] = &SymbolCatalog{}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewDynamicModule wraps an execution scope as a module with a synthetic identity.
func NewDynamicModule(scope ExecutionScope, opts ...Option) *Module {
	id := uuid.NewString()
	m := New(id, opts...)
	m.name = DynamicModulePrefix + id
	m.kind = KindScript
	m.scope = scope
	return m
}

// NameFromPath derives a module name from a file path.
func NameFromPath(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	for _, ext := range []string{ManifestExt, ScriptExt, ShellExt} {
		if name, ok := strings.CutSuffix(base, ext); ok && name != "" {
			return name
		}
	}
	return base
}

// ModuleExt returns the module extension of path, matched case-insensitively,
// or "" when it has none. A manifest reports ManifestExt, never ScriptExt.
func ModuleExt(path string) string {
	lower := strings.ToLower(path)
	for _, ext := range []string{ManifestExt, ScriptExt, ShellExt} {
		if strings.HasSuffix(lower, ext) {
			return ext
		}
	}
	return ""
}

// WithName overrides the derived module name.
func WithName(name string) Option {
	return func(m *Module) { m.name = name }
}

// WithKind sets the module kind.
func WithKind(kind ModuleKind) Option {
	return func(m *Module) { m.kind = kind }
}

// WithVersion sets the module version.
func WithVersion(v ModuleVersion) Option {
	return func(m *Module) { m.version = v }
}

// WithGUID sets the module GUID.
func WithGUID(id uuid.UUID) Option {
	return func(m *Module) { m.guid = id }
}

// WithScope binds an execution scope to the module.
func WithScope(scope ExecutionScope) Option {
	return func(m *Module) { m.scope = scope }
}

// WithParser sets the parser used to extract type declarations.
func WithParser(p SourceParser) Option {
	return func(m *Module) { m.parser = p }
}

// WithRootModule sets the root module path, relative to the module base.
func WithRootModule(rel string) Option {
	return func(m *Module) { m.rootModule = rel }
}

// WithPrefix sets the prefix applied to exported command names.
func WithPrefix(prefix string) Option {
	return func(m *Module) { m.prefix = prefix }
}

// WithDescription sets the module description.
func WithDescription(desc string) Option {
	return func(m *Module) { m.description = desc }
}

// WithAuthor sets the module author.
func WithAuthor(author string) Option {
	return func(m *Module) { m.author = author }
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Path returns the module path (possibly synthetic).
func (m *Module) Path() string { return m.path }

// ModuleBase returns the directory containing the module path.
func (m *Module) ModuleBase() string {
	if m.path == "" {
		return ""
	}
	return filepath.Dir(m.path)
}

// Version returns the module version.
func (m *Module) Version() ModuleVersion { return m.version }

// GUID returns the module GUID (uuid.Nil when unset).
func (m *Module) GUID() uuid.UUID { return m.guid }

// Kind returns the module kind.
func (m *Module) Kind() ModuleKind { return m.kind }

// AccessMode returns the module access mode.
func (m *Module) AccessMode() AccessMode { return m.accessMode }

// RootModule returns the root module path relative to the module base.
func (m *Module) RootModule() string { return m.rootModule }

// Prefix returns the command name prefix.
func (m *Module) Prefix() string { return m.prefix }

// Description returns the module description.
func (m *Module) Description() string { return m.description }

// Author returns the module author.
func (m *Module) Author() string { return m.author }

// Scope returns the bound execution scope, or nil for binary modules.
func (m *Module) Scope() ExecutionScope { return m.scope }

// SetScope binds (or with nil, unbinds) the execution scope.
func (m *Module) SetScope(scope ExecutionScope) { m.scope = scope }

// SetDescription sets the module description.
func (m *Module) SetDescription(desc string) { m.description = desc }

// SetAccessMode changes the access mode. A constant module rejects every change.
func (m *Module) SetAccessMode(mode AccessMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	if m.accessMode == AccessConstant {
		return &ConstantModuleError{Module: m.name}
	}
	m.accessMode = mode
	return nil
}

// Catalog returns the raw export sources of a category.
// It panics if c is not a valid Category.
func (m *Module) Catalog(c Category) *SymbolCatalog {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return m.catalogs[c]
}

// AddCompiledCmdlet registers a compiled command with the module.
func (m *Module) AddCompiledCmdlet(cmd *CommandInfo) {
	m.catalogs[CategoryCmdlets].AddCompiled(cmd)
}

// AddCompiledAlias registers a compiled alias with the module.
func (m *Module) AddCompiledAlias(alias *CommandInfo) {
	m.catalogs[CategoryAliases].AddCompiled(alias)
}

// FileList returns the files packaged with the module.
func (m *Module) FileList() []string { return slices.Clone(m.files) }

// AddFile appends a file to the module file list.
func (m *Module) AddFile(path string) { m.files = append(m.files, path) }

// Scripts returns the scripts run when the module is imported.
func (m *Module) Scripts() []string { return slices.Clone(m.scripts) }

// AddScript appends a script to the module script list.
func (m *Module) AddScript(path string) { m.scripts = append(m.scripts, path) }

// RequiredAssemblies returns the binaries the module depends on.
func (m *Module) RequiredAssemblies() []string { return slices.Clone(m.requiredAssemblies) }

// AddRequiredAssembly appends a required binary.
func (m *Module) AddRequiredAssembly(path string) {
	m.requiredAssemblies = append(m.requiredAssemblies, path)
}

// NestedModules returns the nested modules in declaration order.
func (m *Module) NestedModules() []*Module { return slices.Clone(m.nestedModules) }

// AddNestedModule appends a nested module unless a module with the same path is present.
func (m *Module) AddNestedModule(nested *Module) {
	m.nestedModules = addModuleToList(nested, m.nestedModules)
}

// RequiredModules returns the loaded required modules.
func (m *Module) RequiredModules() []*Module { return slices.Clone(m.requiredModules) }

// AddRequiredModule appends a required module unless a module with the same path is present.
func (m *Module) AddRequiredModule(required *Module) {
	m.requiredModules = addModuleToList(required, m.requiredModules)
}

// RequiredModuleSpecs returns the required module specifications.
func (m *Module) RequiredModuleSpecs() []ModuleSpecification {
	return slices.Clone(m.requiredModuleSpecs)
}

// AddRequiredModuleSpec appends a required module specification.
func (m *Module) AddRequiredModuleSpec(spec ModuleSpecification) {
	m.requiredModuleSpecs = append(m.requiredModuleSpecs, spec)
}

// ModuleList returns the modules packaged with this module.
func (m *Module) ModuleList() []ModuleSpecification { return slices.Clone(m.moduleList) }

// AddModuleListEntry appends a packaged module specification.
func (m *Module) AddModuleListEntry(spec ModuleSpecification) {
	m.moduleList = append(m.moduleList, spec)
}

// addModuleToList appends module unless an entry with an equal
// (case-insensitive) path is already present.
func addModuleToList(module *Module, list []*Module) []*Module {
	for _, existing := range list {
		if strings.EqualFold(existing.path, module.path) {
			return list
		}
	}
	return append(list, module)
}

// String returns the kind name.
func (k ModuleKind) String() string {
	switch k {
	case KindScript:
		return "Script"
	case KindCompiled:
		return "Compiled"
	case KindManifest:
		return "Manifest"
	case KindCim:
		return "Cim"
	case KindWorkflow:
		return "Workflow"
	default:
		return fmt.Sprintf("ModuleKind(%d)", int(k))
	}
}

// String returns the access mode name.
func (a AccessMode) String() string {
	switch a {
	case AccessReadWrite:
		return "ReadWrite"
	case AccessReadOnly:
		return "ReadOnly"
	case AccessConstant:
		return "Constant"
	default:
		return fmt.Sprintf("AccessMode(%d)", int(a))
	}
}

// ParseAccessMode converts an access mode name (case-insensitive) to an AccessMode.
func ParseAccessMode(s string) (AccessMode, error) {
	for _, mode := range []AccessMode{AccessReadWrite, AccessReadOnly, AccessConstant} {
		if strings.EqualFold(mode.String(), s) {
			return mode, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAccessMode, s)
}

// Validate returns nil if the AccessMode is one of the defined values.
func (a AccessMode) Validate() error {
	if a < AccessReadWrite || a > AccessConstant {
		return fmt.Errorf("%w: %d", ErrInvalidAccessMode, int(a))
	}
	return nil
}

// Error implements the error interface.
func (e *ConstantModuleError) Error() string {
	return fmt.Sprintf("module %q is constant and its access mode cannot be changed", e.Module)
}

// Unwrap returns ErrConstantModule so callers can use errors.Is for programmatic detection.
func (e *ConstantModuleError) Unwrap() error { return ErrConstantModule }

// String returns the string representation of the ModuleVersion.
func (v ModuleVersion) String() string { return string(v) }

// Validate returns nil if the version is empty or dotted numeric with two to four components.
func (v ModuleVersion) Validate() error {
	if v == "" || moduleVersionPattern.MatchString(string(v)) {
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidModuleVersion, string(v))
}
