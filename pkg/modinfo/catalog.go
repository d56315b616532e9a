// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"golang.org/x/exp/slices"
)

type (
	// DetectedExport is a name discovered by scanning module sources.
	DetectedExport struct {
		// Name is the exported name (prefix already applied by the scanner's caller).
		Name string
		// Target is the resolved command name for detected aliases; empty otherwise.
		Target string
	}

	// SymbolCatalog holds the raw export sources of one symbol category.
	//
	// Exactly one source drives resolution; see Module.Exported for the
	// precedence. The declared list is tri-state: absent, present but empty
	// ("export nothing"), or present with names.
	SymbolCatalog struct {
		declared    []string
		hasDeclared bool
		detected    []DetectedExport
		compiled    []*CommandInfo
	}
)

// Declare sets the declared export list. Calling it with no names still marks
// the list as present, which hides every export of the category.
func (c *SymbolCatalog) Declare(names ...string) {
	c.declared = slices.Clone(names)
	if c.declared == nil {
		c.declared = []string{}
	}
	c.hasDeclared = true
}

// ClearDeclared returns the declared list to the absent state.
func (c *SymbolCatalog) ClearDeclared() {
	c.declared = nil
	c.hasDeclared = false
}

// Declared returns the declared names and whether a declaration is present.
func (c *SymbolCatalog) Declared() (names []string, present bool) {
	return slices.Clone(c.declared), c.hasDeclared
}

// AddDetected records a detected export name.
func (c *SymbolCatalog) AddDetected(name string) {
	c.detected = append(c.detected, DetectedExport{Name: name})
}

// AddDetectedAlias records a detected alias together with its target command.
func (c *SymbolCatalog) AddDetectedAlias(name, target string) {
	c.detected = append(c.detected, DetectedExport{Name: name, Target: target})
}

// Detected returns the detected exports in insertion order.
func (c *SymbolCatalog) Detected() []DetectedExport {
	return slices.Clone(c.detected)
}

// AddCompiled registers a fully formed command.
func (c *SymbolCatalog) AddCompiled(cmd *CommandInfo) {
	c.compiled = append(c.compiled, cmd)
}

// Compiled returns the registered commands in insertion order.
func (c *SymbolCatalog) Compiled() []*CommandInfo {
	return slices.Clone(c.compiled)
}

// declaredState classifies the declared list.
func (c *SymbolCatalog) declaredState() (names []string, nonEmpty, empty bool) {
	if !c.hasDeclared {
		return nil, false, false
	}
	return c.declared, len(c.declared) > 0, len(c.declared) == 0
}

// clone returns an independent copy of the catalog.
func (c *SymbolCatalog) clone() *SymbolCatalog {
	return &SymbolCatalog{
		declared:    slices.Clone(c.declared),
		hasDeclared: c.hasDeclared,
		detected:    slices.Clone(c.detected),
		compiled:    slices.Clone(c.compiled),
	}
}
