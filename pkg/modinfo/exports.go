// SPDX-License-Identifier: MPL-2.0

package modinfo

// Exported resolves the exports of any category as Symbols.
//
// Precedence, first matching rule wins:
//
//   - functions, workflows, variables: declared names (stubs) > declared empty
//     (nothing) > bound scope (prefixed, first wins) > compiled (functions only)
//     then detected names (stubs, first wins)
//   - cmdlets: declared > declared empty > compiled (last registration wins) >
//     detected (stubs, first wins)
//   - aliases: declared > declared empty > compiled (last wins) > detected
//     aliases with their targets when unbound, the scope's aliases when bound
func (m *Module) Exported(c Category) (*SymbolMap[Symbol], error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out := NewSymbolMap[Symbol]()
	if c == CategoryVariables {
		for name, v := range m.ExportedVariables().All() {
			out.Set(name, v)
		}
		return out, nil
	}
	for name, cmd := range m.exportedCommands(c).All() {
		out.Set(name, cmd)
	}
	return out, nil
}

// ExportedFunctions returns the exported functions.
func (m *Module) ExportedFunctions() *SymbolMap[*CommandInfo] {
	return m.exportedCommands(CategoryFunctions)
}

// ExportedCmdlets returns the exported compiled commands.
func (m *Module) ExportedCmdlets() *SymbolMap[*CommandInfo] {
	return m.exportedCommands(CategoryCmdlets)
}

// ExportedAliases returns the exported aliases.
func (m *Module) ExportedAliases() *SymbolMap[*CommandInfo] {
	return m.exportedCommands(CategoryAliases)
}

// ExportedWorkflows returns the exported workflows.
func (m *Module) ExportedWorkflows() *SymbolMap[*CommandInfo] {
	return m.exportedCommands(CategoryWorkflows)
}

// ExportedCommands layers cmdlets, functions, workflows and aliases, each
// layer overwriting same-name entries of the previous one: aliases shadow
// workflows, which shadow functions, which shadow cmdlets.
func (m *Module) ExportedCommands() *SymbolMap[*CommandInfo] {
	out := NewSymbolMap[*CommandInfo]()
	for _, c := range []Category{CategoryCmdlets, CategoryFunctions, CategoryWorkflows, CategoryAliases} {
		out.Merge(m.exportedCommands(c))
	}
	return out
}

// ExportedVariables returns the exported variables.
func (m *Module) ExportedVariables() *SymbolMap[*Variable] {
	out := NewSymbolMap[*Variable]()
	cat := m.catalogs[CategoryVariables]

	declared, nonEmpty, empty := cat.declaredState()
	switch {
	case nonEmpty:
		for _, name := range declared {
			out.Set(name, &Variable{Name: name, Module: m, Stub: true})
		}
	case empty:
	case m.scope != nil:
		for _, v := range m.scope.OwnExportedVariables() {
			out.Add(v.Name, v)
		}
	default:
		for _, d := range cat.detected {
			out.Add(d.Name, &Variable{Name: d.Name, Module: m, Stub: true})
		}
	}
	return out
}

// CompiledCmdlets returns the module's registered cmdlets, first migrating any
// cmdlets parked in the bound scope into the module.
func (m *Module) CompiledCmdlets() []*CommandInfo {
	cat := m.catalogs[CategoryCmdlets]
	if m.scope != nil {
		cat.compiled = append(cat.compiled, m.scope.TakeExportedCmdlets()...)
	}
	return cat.Compiled()
}

func (m *Module) exportedCommands(c Category) *SymbolMap[*CommandInfo] {
	switch c {
	case CategoryCmdlets:
		return m.resolveCmdlets()
	case CategoryAliases:
		return m.resolveAliases()
	default:
		return m.resolveScriptCommands(c)
	}
}

// resolveScriptCommands handles functions and workflows.
func (m *Module) resolveScriptCommands(c Category) *SymbolMap[*CommandInfo] {
	out := NewSymbolMap[*CommandInfo]()
	cat := m.catalogs[c]

	declared, nonEmpty, empty := cat.declaredState()
	switch {
	case nonEmpty:
		m.addStubs(out, c, declared)
	case empty:
	case m.scope != nil:
		var own []*CommandInfo
		if c == CategoryWorkflows {
			own = m.scope.OwnExportedWorkflows()
		} else {
			own = m.scope.OwnExportedFunctions()
		}
		for _, cmd := range own {
			name := AddPrefixToCommandName(cmd.Name, m.prefix)
			out.Add(name, cmd.renamed(name))
		}
	default:
		if c == CategoryFunctions {
			for _, cmd := range cat.compiled {
				out.Add(cmd.Name, cmd)
			}
		}
		for _, d := range cat.detected {
			if !out.Has(d.Name) {
				out.Set(d.Name, m.stub(c, d.Name, ""))
			}
		}
	}
	return out
}

func (m *Module) resolveCmdlets() *SymbolMap[*CommandInfo] {
	out := NewSymbolMap[*CommandInfo]()
	cat := m.catalogs[CategoryCmdlets]

	declared, nonEmpty, empty := cat.declaredState()
	if nonEmpty {
		m.addStubs(out, CategoryCmdlets, declared)
		return out
	}
	if empty {
		return out
	}
	if compiled := m.CompiledCmdlets(); len(compiled) > 0 {
		for _, cmd := range compiled {
			out.Set(cmd.Name, cmd)
		}
		return out
	}
	for _, d := range cat.detected {
		if !out.Has(d.Name) {
			out.Set(d.Name, m.stub(CategoryCmdlets, d.Name, ""))
		}
	}
	return out
}

func (m *Module) resolveAliases() *SymbolMap[*CommandInfo] {
	out := NewSymbolMap[*CommandInfo]()
	cat := m.catalogs[CategoryAliases]

	declared, nonEmpty, empty := cat.declaredState()
	switch {
	case nonEmpty:
		m.addStubs(out, CategoryAliases, declared)
	case empty:
	case len(cat.compiled) > 0:
		for _, alias := range cat.compiled {
			out.Set(alias.Name, alias)
		}
	case m.scope == nil:
		for _, d := range cat.detected {
			if !out.Has(d.Name) {
				out.Set(d.Name, m.stub(CategoryAliases, d.Name, d.Target))
			}
		}
	default:
		for _, alias := range m.scope.OwnExportedAliases() {
			out.Add(alias.Name, alias)
		}
	}
	return out
}

// addStubs materializes one placeholder per declared name.
func (m *Module) addStubs(out *SymbolMap[*CommandInfo], c Category, names []string) {
	for _, name := range names {
		out.Set(name, m.stub(c, name, ""))
	}
}

func (m *Module) stub(c Category, name, definition string) *CommandInfo {
	return &CommandInfo{
		Name:       name,
		Type:       c.commandType(),
		Module:     m,
		Definition: definition,
		Stub:       true,
	}
}
