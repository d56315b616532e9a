// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"os"
	"path/filepath"

	"github.com/invowk/modsurface/pkg/modsource"
)

const (
	// TypeDeclsUnresolved means the module's own source has not been read yet.
	TypeDeclsUnresolved TypeDeclState = iota
	// TypeDeclsResolvedEmpty means resolution ran and found no declarations
	// (or the source could not be read or parsed).
	TypeDeclsResolvedEmpty
	// TypeDeclsResolved means the cache holds declarations.
	TypeDeclsResolved
)

// DefaultParser is used by modules constructed without WithParser.
var DefaultParser SourceParser = modsource.NewParser()

type (
	// TypeDeclState is the resolution state of a module's type declaration cache.
	TypeDeclState int

	// SourceParser parses a module source file into a syntax tree.
	SourceParser interface {
		ParseFile(path string) (*modsource.SyntaxTree, error)
	}

	// typeDeclCache memoizes the type declarations of the module's own source.
	// The map is never mutated after it is stored, so clones may share it.
	typeDeclCache struct {
		state TypeDeclState
		decls *SymbolMap[*modsource.TypeDeclaration]
	}
)

// String returns the state name.
func (s TypeDeclState) String() string {
	switch s {
	case TypeDeclsUnresolved:
		return "unresolved"
	case TypeDeclsResolvedEmpty:
		return "resolved-empty"
	case TypeDeclsResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// TypeDeclarationState reports whether the module's own declarations were resolved.
func (m *Module) TypeDeclarationState() TypeDeclState { return m.typeDecls.state }

// OwnTypeDeclarations returns the type declarations of the module's own source,
// excluding nested modules. The source is parsed on first call only.
func (m *Module) OwnTypeDeclarations() *SymbolMap[*modsource.TypeDeclaration] {
	if m.typeDecls.state == TypeDeclsUnresolved {
		m.resolveTypeDeclarations()
	}
	return m.typeDecls.decls
}

// SetTypeDeclarations replaces the module's own declarations with decls and
// marks the cache resolved.
func (m *Module) SetTypeDeclarations(decls []*modsource.TypeDeclaration) {
	out := NewSymbolMap[*modsource.TypeDeclaration]()
	for _, d := range decls {
		out.Set(d.Name, d)
	}
	m.typeDecls = typeDeclCache{state: TypeDeclsResolved, decls: out}
}

func (m *Module) resolveTypeDeclarations() {
	decls := NewSymbolMap[*modsource.TypeDeclaration]()
	if path := m.typeSourcePath(); isTypeSource(path) {
		// Parse failures leave the declaration set empty.
		if tree, err := m.sourceParser().ParseFile(path); err == nil {
			for _, d := range modsource.TypeDeclarations(tree) {
				decls.Set(d.Name, d)
			}
		}
	}

	state := TypeDeclsResolved
	if decls.Len() == 0 {
		state = TypeDeclsResolvedEmpty
	}
	m.typeDecls = typeDeclCache{state: state, decls: decls}
}

// typeSourcePath locates the source file whose declarations the module owns.
func (m *Module) typeSourcePath() string {
	if !m.kind.usesRootModule() || m.rootModule == "" {
		return m.path
	}
	if filepath.IsAbs(m.rootModule) {
		return m.rootModule
	}
	return filepath.Join(m.ModuleBase(), m.rootModule)
}

func (m *Module) sourceParser() SourceParser {
	if m.parser != nil {
		return m.parser
	}
	return DefaultParser
}

// usesRootModule reports whether the kind's declarations live in a root module
// rather than in the module path itself.
func (k ModuleKind) usesRootModule() bool {
	switch k {
	case KindManifest:
		return true
	case KindScript, KindCompiled, KindCim, KindWorkflow:
		return false
	default:
		return false
	}
}

// isTypeSource reports whether path is an existing CUE script module source.
func isTypeSource(path string) bool {
	if ModuleExt(path) != ScriptExt {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
