// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CategoryFunctions covers script functions.
	CategoryFunctions Category = iota
	// CategoryCmdlets covers compiled commands.
	CategoryCmdlets
	// CategoryAliases covers command aliases.
	CategoryAliases
	// CategoryWorkflows covers workflows.
	CategoryWorkflows
	// CategoryVariables covers module variables.
	CategoryVariables

	categoryCount = int(CategoryVariables) + 1
)

const (
	// CommandTypeCmdlet is a compiled command.
	CommandTypeCmdlet CommandType = iota + 1
	// CommandTypeFunction is a script function.
	CommandTypeFunction
	// CommandTypeWorkflow is a workflow.
	CommandTypeWorkflow
	// CommandTypeAlias is an alias for another command.
	CommandTypeAlias
)

// ErrUnknownCategory is returned when a Category value is not recognized.
var ErrUnknownCategory = errors.New("unknown symbol category")

type (
	// Category identifies one of the exportable symbol categories.
	Category int

	// InvalidCategoryError is returned when a Category value is not recognized.
	// It wraps ErrUnknownCategory for errors.Is() compatibility.
	InvalidCategoryError struct {
		Value Category
	}

	// CommandType is the kind of a command symbol.
	CommandType int

	// Symbol is an exported entry of any category.
	Symbol interface {
		SymbolName() string
		OwningModule() *Module
	}

	// CommandInfo describes an exported command: cmdlet, function, workflow or alias.
	CommandInfo struct {
		// Name is the command name as exported (prefix already applied).
		Name string
		// Type is the kind of command.
		Type CommandType
		// Module is the module that owns the command (nil when unbound).
		Module *Module
		// Definition is the function body, the alias target, or the cmdlet's
		// implementing type, depending on Type.
		Definition string
		// Stub is true for placeholders materialized from a declared or detected
		// name; their real definition may not exist.
		Stub bool
	}

	// Variable describes an exported module variable.
	Variable struct {
		// Name is the variable name.
		Name string
		// Value is the current value (nil for stubs).
		Value any
		// Module is the module that owns the variable.
		Module *Module
		// Stub is true for placeholders materialized from a declared or detected name.
		Stub bool
	}
)

// Categories returns every symbol category in resolution order.
func Categories() []Category {
	return []Category{CategoryFunctions, CategoryCmdlets, CategoryAliases, CategoryWorkflows, CategoryVariables}
}

// ParseCategory converts a category name (case-insensitive, singular or plural)
// into a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "function", "functions":
		return CategoryFunctions, nil
	case "cmdlet", "cmdlets":
		return CategoryCmdlets, nil
	case "alias", "aliases":
		return CategoryAliases, nil
	case "workflow", "workflows":
		return CategoryWorkflows, nil
	case "variable", "variables":
		return CategoryVariables, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

// String returns the plural category name.
func (c Category) String() string {
	switch c {
	case CategoryFunctions:
		return "functions"
	case CategoryCmdlets:
		return "cmdlets"
	case CategoryAliases:
		return "aliases"
	case CategoryWorkflows:
		return "workflows"
	case CategoryVariables:
		return "variables"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Validate returns nil if the Category is one of the defined values.
func (c Category) Validate() error {
	if c < CategoryFunctions || int(c) >= categoryCount {
		return &InvalidCategoryError{Value: c}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("unknown symbol category %d", int(e.Value))
}

// Unwrap returns ErrUnknownCategory so callers can use errors.Is for programmatic detection.
func (e *InvalidCategoryError) Unwrap() error { return ErrUnknownCategory }

// commandType maps a command category to the command type it produces.
func (c Category) commandType() CommandType {
	switch c {
	case CategoryCmdlets:
		return CommandTypeCmdlet
	case CategoryAliases:
		return CommandTypeAlias
	case CategoryWorkflows:
		return CommandTypeWorkflow
	default:
		return CommandTypeFunction
	}
}

// Category returns the export category commands of type t are listed under.
func (t CommandType) Category() Category {
	switch t {
	case CommandTypeCmdlet:
		return CategoryCmdlets
	case CommandTypeAlias:
		return CategoryAliases
	case CommandTypeWorkflow:
		return CategoryWorkflows
	default:
		return CategoryFunctions
	}
}

// String returns the command type name.
func (t CommandType) String() string {
	switch t {
	case CommandTypeCmdlet:
		return "cmdlet"
	case CommandTypeFunction:
		return "function"
	case CommandTypeWorkflow:
		return "workflow"
	case CommandTypeAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// SymbolName implements Symbol.
func (c *CommandInfo) SymbolName() string { return c.Name }

// OwningModule implements Symbol.
func (c *CommandInfo) OwningModule() *Module { return c.Module }

// SymbolName implements Symbol.
func (v *Variable) SymbolName() string { return v.Name }

// OwningModule implements Symbol.
func (v *Variable) OwningModule() *Module { return v.Module }

// AddPrefixToCommandName inserts prefix into a command name. For verb-noun
// names ("Get-Item") the prefix goes in front of the noun ("Get-XItem");
// otherwise it is prepended.
func AddPrefixToCommandName(name, prefix string) string {
	if prefix == "" {
		return name
	}
	if verb, noun, ok := strings.Cut(name, "-"); ok {
		return verb + "-" + prefix + noun
	}
	return prefix + name
}

// renamed returns a copy of c carrying a new name.
func (c *CommandInfo) renamed(name string) *CommandInfo {
	if c.Name == name {
		return c
	}
	cp := *c
	cp.Name = name
	return &cp
}
