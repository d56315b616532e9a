// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/literal"
	"cuelang.org/go/cue/token"
)

const (
	// FunctionsField holds the functions of a CUE script module.
	FunctionsField = "functions"
	// WorkflowsField holds the workflows of a CUE script module.
	WorkflowsField = "workflows"
	// AliasesField holds the aliases of a CUE script module (name: target).
	AliasesField = "aliases"
	// VariablesField holds the variables of a CUE script module.
	VariablesField = "variables"
	// CmdletsField holds compiled commands registered by an evaluated CUE
	// script (name: implementing type). Scanning ignores it.
	CmdletsField = "cmdlets"
)

type (
	// DetectedAlias is an alias name with the command it points to.
	DetectedAlias struct {
		Name   string
		Target string
	}

	// Detected lists the export names found in a module source, in source order.
	Detected struct {
		Functions []string
		Workflows []string
		Aliases   []DetectedAlias
		Variables []string
	}
)

// ScanCUE discovers the public exports of a CUE script module without
// evaluating it. Fields whose names start with '_' or '#' are private.
func ScanCUE(filename string, src []byte) (*Detected, error) {
	tree, err := Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return ScanTree(tree), nil
}

// ScanTree discovers the public exports of an already parsed CUE script module.
func ScanTree(tree *SyntaxTree) *Detected {
	det := &Detected{}
	for _, n := range tree.FindAll(isSectionField, false) {
		field := n.(*ast.Field)
		section, _, _ := ast.LabelName(field.Label)
		body, ok := field.Value.(*ast.StructLit)
		if !ok {
			continue
		}
		for _, elt := range body.Elts {
			member, ok := elt.(*ast.Field)
			if !ok {
				continue
			}
			name, _, err := ast.LabelName(member.Label)
			if err != nil || isPrivateName(name) {
				continue
			}
			switch section {
			case FunctionsField:
				det.Functions = append(det.Functions, name)
			case WorkflowsField:
				det.Workflows = append(det.Workflows, name)
			case AliasesField:
				det.Aliases = append(det.Aliases, DetectedAlias{Name: name, Target: stringLiteral(member.Value)})
			case VariablesField:
				det.Variables = append(det.Variables, name)
			}
		}
	}
	return det
}

func isSectionField(n ast.Node) bool {
	field, ok := n.(*ast.Field)
	if !ok {
		return false
	}
	name, _, err := ast.LabelName(field.Label)
	if err != nil {
		return false
	}
	switch name {
	case FunctionsField, WorkflowsField, AliasesField, VariablesField:
		return true
	default:
		return false
	}
}

func isPrivateName(name string) bool {
	return name == "" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, "#")
}

// stringLiteral returns the unquoted value of a string literal expression, or "".
func stringLiteral(expr ast.Expr) string {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return ""
	}
	s, err := literal.Unquote(lit.Value)
	if err != nil {
		return ""
	}
	return s
}
