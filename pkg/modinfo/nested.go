// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"

	"github.com/invowk/modsurface/pkg/modsource"
)

// ExportedTypeDeclarations merges the type declarations of every nested module
// (recursively, in declaration order) and then the module's own declarations.
// Each write overwrites an existing entry of the same name, so later nested
// modules beat earlier ones and the module itself beats all of them.
func (m *Module) ExportedTypeDeclarations() *SymbolMap[*modsource.TypeDeclaration] {
	return aggregate(m, nil, (*Module).OwnTypeDeclarations)
}

// AggregatedCommands merges ExportedCommands across nested modules with the
// same ordering and overwrite rules as ExportedTypeDeclarations.
func (m *Module) AggregatedCommands() *SymbolMap[*CommandInfo] {
	return aggregate(m, nil, (*Module).ExportedCommands)
}

// AggregatedVariables merges ExportedVariables across nested modules with the
// same ordering and overwrite rules as ExportedTypeDeclarations.
func (m *Module) AggregatedVariables() *SymbolMap[*Variable] {
	return aggregate(m, nil, (*Module).ExportedVariables)
}

// aggregate walks the nested graph of m. A nested module that is already on
// the walk (m itself, or an ancestor) is skipped and contributes nothing.
func aggregate[V any](m *Module, walk []*Module, own func(*Module) *SymbolMap[V]) *SymbolMap[V] {
	self := own(m)
	walk = append(slices.Clip(walk), m)

	out := NewSymbolMap[V]()
	for _, nested := range m.nestedModules {
		if slices.Contains(walk, nested) {
			log.Debug("skipping cyclic nested module", "module", m.name, "nested", nested.name)
			continue
		}
		out.Merge(aggregate(nested, walk, own))
	}
	out.Merge(self)
	return out
}
