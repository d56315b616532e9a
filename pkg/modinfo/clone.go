// SPDX-License-Identifier: MPL-2.0

package modinfo

import "golang.org/x/exp/slices"

// Clone returns a shallow structural copy of the module.
//
// Scalar fields are copied. The list fields (files, scripts, required
// assemblies, nested modules, required modules, required module
// specifications, module list) and the symbol catalogs are copied into new
// slices whose elements are shared with the original; nested modules are not
// cloned. The execution scope and parser are shared. Resolved type
// declarations are carried over, and nothing is resolved by cloning.
func (m *Module) Clone() *Module {
	clone := *m

	clone.files = slices.Clone(m.files)
	clone.scripts = slices.Clone(m.scripts)
	clone.requiredAssemblies = slices.Clone(m.requiredAssemblies)
	clone.nestedModules = nil
	for _, nested := range m.nestedModules {
		clone.AddNestedModule(nested)
	}
	clone.requiredModules = slices.Clone(m.requiredModules)
	clone.requiredModuleSpecs = slices.Clone(m.requiredModuleSpecs)
	clone.moduleList = slices.Clone(m.moduleList)

	for i, cat := range m.catalogs {
		clone.catalogs[i] = cat.clone()
	}

	return &clone
}
