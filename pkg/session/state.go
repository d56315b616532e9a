// SPDX-License-Identifier: MPL-2.0

package session

import (
	"slices"
	"sync"

	"github.com/invowk/modsurface/pkg/modinfo"
)

// State is the execution scope of one evaluated script module. It implements
// modinfo.ExecutionScope and is safe for concurrent use.
type State struct {
	mu        sync.Mutex
	name      string
	functions []*modinfo.CommandInfo
	cmdlets   []*modinfo.CommandInfo
	aliases   []*modinfo.CommandInfo
	workflows []*modinfo.CommandInfo
	variables []*modinfo.Variable
}

var _ modinfo.ExecutionScope = (*State)(nil)

// NewState creates an empty scope labelled name (usually the script path).
func NewState(name string) *State {
	return &State{name: name}
}

// Name returns the scope label.
func (s *State) Name() string { return s.name }

// ExportFunction records an exported function.
func (s *State) ExportFunction(cmd *modinfo.CommandInfo) {
	s.mu.Lock()
	s.functions = append(s.functions, cmd)
	s.mu.Unlock()
}

// ExportCmdlet parks a compiled command until the owning module takes it.
func (s *State) ExportCmdlet(cmd *modinfo.CommandInfo) {
	s.mu.Lock()
	s.cmdlets = append(s.cmdlets, cmd)
	s.mu.Unlock()
}

// ExportAlias records an exported alias.
func (s *State) ExportAlias(alias *modinfo.CommandInfo) {
	s.mu.Lock()
	s.aliases = append(s.aliases, alias)
	s.mu.Unlock()
}

// ExportWorkflow records an exported workflow.
func (s *State) ExportWorkflow(cmd *modinfo.CommandInfo) {
	s.mu.Lock()
	s.workflows = append(s.workflows, cmd)
	s.mu.Unlock()
}

// ExportVariable records an exported variable.
func (s *State) ExportVariable(v *modinfo.Variable) {
	s.mu.Lock()
	s.variables = append(s.variables, v)
	s.mu.Unlock()
}

// OwnExportedFunctions implements modinfo.ExecutionScope.
func (s *State) OwnExportedFunctions() []*modinfo.CommandInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.functions)
}

// OwnExportedCmdlets implements modinfo.ExecutionScope.
func (s *State) OwnExportedCmdlets() []*modinfo.CommandInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cmdlets)
}

// OwnExportedAliases implements modinfo.ExecutionScope.
func (s *State) OwnExportedAliases() []*modinfo.CommandInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.aliases)
}

// OwnExportedWorkflows implements modinfo.ExecutionScope.
func (s *State) OwnExportedWorkflows() []*modinfo.CommandInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.workflows)
}

// OwnExportedVariables implements modinfo.ExecutionScope.
func (s *State) OwnExportedVariables() []*modinfo.Variable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.variables)
}

// TakeExportedCmdlets implements modinfo.ExecutionScope. The parked cmdlets
// are handed over exactly once.
func (s *State) TakeExportedCmdlets() []*modinfo.CommandInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := s.cmdlets
	s.cmdlets = nil
	return taken
}
