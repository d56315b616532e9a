// SPDX-License-Identifier: MPL-2.0

package modinfo

import "github.com/invowk/modsurface/pkg/modsource"

// ResolveExports returns the exports of module for category c.
func ResolveExports(module *Module, c Category) (*SymbolMap[Symbol], error) {
	if module == nil {
		return nil, ErrNilModule
	}
	return module.Exported(c)
}

// ResolveCommands returns the merged command exports of module.
func ResolveCommands(module *Module) (*SymbolMap[*CommandInfo], error) {
	if module == nil {
		return nil, ErrNilModule
	}
	return module.ExportedCommands(), nil
}

// ResolveAggregatedCommands returns the merged command exports of module and
// its nested modules.
func ResolveAggregatedCommands(module *Module) (*SymbolMap[*CommandInfo], error) {
	if module == nil {
		return nil, ErrNilModule
	}
	return module.AggregatedCommands(), nil
}

// ResolveExportedTypeDeclarations returns the type declarations of module and
// its nested modules.
func ResolveExportedTypeDeclarations(module *Module) (*SymbolMap[*modsource.TypeDeclaration], error) {
	if module == nil {
		return nil, ErrNilModule
	}
	return module.ExportedTypeDeclarations(), nil
}

// CloneModule returns a snapshot of module.
func CloneModule(module *Module) (*Module, error) {
	if module == nil {
		return nil, ErrNilModule
	}
	return module.Clone(), nil
}
