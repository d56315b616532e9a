// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
)

// ErrNoBoundScope is the sentinel error wrapped by NoBoundScopeError.
var ErrNoBoundScope = errors.New("module has no bound execution scope")

type (
	// ExecutionScope is the runtime scope bound to a script-based module.
	// The Own* accessors return the symbols the scope itself exports, in the
	// order they were exported. TakeExportedCmdlets removes and returns the
	// cmdlets parked in the scope; a second call returns nothing.
	ExecutionScope interface {
		OwnExportedFunctions() []*CommandInfo
		OwnExportedCmdlets() []*CommandInfo
		OwnExportedAliases() []*CommandInfo
		OwnExportedWorkflows() []*CommandInfo
		OwnExportedVariables() []*Variable
		TakeExportedCmdlets() []*CommandInfo
	}

	// ScopeHost owns the "current" execution scope of the environment.
	// WithCurrent makes scope current for the duration of fn and restores the
	// previous scope on every exit path.
	ScopeHost interface {
		WithCurrent(scope ExecutionScope, fn func() error) error
	}

	// NoBoundScopeError is returned by operations that need a bound execution
	// scope on a module that has none (a compiled-only module).
	NoBoundScopeError struct {
		Module    string
		Operation string
	}

	// BoundObject is a snapshot of a scope-bound module's exports, shaped as an
	// object: exported variables are its properties and exported functions its
	// methods.
	BoundObject struct {
		Module     *Module
		Properties *SymbolMap[*Variable]
		Methods    *SymbolMap[*CommandInfo]
	}
)

// Error implements the error interface.
func (e *NoBoundScopeError) Error() string {
	return fmt.Sprintf("cannot %s: module %q is a binary module with no execution scope", e.Operation, e.Module)
}

// Unwrap returns ErrNoBoundScope so callers can use errors.Is for programmatic detection.
func (e *NoBoundScopeError) Unwrap() error { return ErrNoBoundScope }

// Invoke runs fn with the module's execution scope made current on host.
func (m *Module) Invoke(host ScopeHost, fn func(scope ExecutionScope) error) error {
	if m.scope == nil {
		return &NoBoundScopeError{Module: m.name, Operation: "invoke in module context"}
	}
	scope := m.scope
	return host.WithCurrent(scope, func() error {
		return fn(scope)
	})
}

// BoundObject builds an object view of the module's exported variables and
// functions.
func (m *Module) BoundObject() (*BoundObject, error) {
	if m.scope == nil {
		return nil, &NoBoundScopeError{Module: m.name, Operation: "build a bound object"}
	}
	return &BoundObject{
		Module:     m,
		Properties: m.ExportedVariables(),
		Methods:    m.ExportedFunctions(),
	}, nil
}
