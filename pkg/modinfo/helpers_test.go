// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"os"
	"sync"
	"testing"

	"github.com/invowk/modsurface/internal/testutil"
	"github.com/invowk/modsurface/pkg/modsource"
)

type (
	// fakeScope is an in-memory ExecutionScope.
	fakeScope struct {
		functions []*CommandInfo
		cmdlets   []*CommandInfo
		aliases   []*CommandInfo
		workflows []*CommandInfo
		variables []*Variable
		takes     int
	}

	// countingParser records how often each path was parsed.
	countingParser struct {
		mu    sync.Mutex
		calls map[string]int
	}

	// fakeHost tracks the current scope of WithCurrent calls.
	fakeHost struct {
		current ExecutionScope
	}
)

func (s *fakeScope) OwnExportedFunctions() []*CommandInfo { return s.functions }
func (s *fakeScope) OwnExportedCmdlets() []*CommandInfo   { return s.cmdlets }
func (s *fakeScope) OwnExportedAliases() []*CommandInfo   { return s.aliases }
func (s *fakeScope) OwnExportedWorkflows() []*CommandInfo { return s.workflows }
func (s *fakeScope) OwnExportedVariables() []*Variable    { return s.variables }

func (s *fakeScope) TakeExportedCmdlets() []*CommandInfo {
	s.takes++
	taken := s.cmdlets
	s.cmdlets = nil
	return taken
}

func newCountingParser() *countingParser {
	return &countingParser{calls: make(map[string]int)}
}

func (p *countingParser) ParseFile(path string) (*modsource.SyntaxTree, error) {
	p.mu.Lock()
	p.calls[path]++
	p.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return modsource.Parse(path, data)
}

func (p *countingParser) count(path string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[path]
}

func (h *fakeHost) WithCurrent(scope ExecutionScope, fn func() error) error {
	prev := h.current
	h.current = scope
	defer func() { h.current = prev }()
	return fn()
}

func funcCmd(name string) *CommandInfo {
	return &CommandInfo{Name: name, Type: CommandTypeFunction}
}

func cmdlet(name string) *CommandInfo {
	return &CommandInfo{Name: name, Type: CommandTypeCmdlet}
}

func alias(name, target string) *CommandInfo {
	return &CommandInfo{Name: name, Type: CommandTypeAlias, Definition: target}
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	return testutil.WriteFile(t, dir, name, content)
}
