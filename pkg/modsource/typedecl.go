// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/format"
)

// TypeDeclaration is a named type declared by a module source.
type TypeDeclaration struct {
	// Name is the definition name including the leading '#'.
	Name string
	// Filename is the source the declaration was found in.
	Filename string
	// Field is the declaring syntax node.
	Field *ast.Field
}

// IsTypeDeclaration reports whether n declares an exported definition
// ("#Name: ..."). Hidden definitions ("_#Name") are private to the source.
func IsTypeDeclaration(n ast.Node) bool {
	_, ok := definitionName(n)
	return ok
}

// NewTypeDeclaration wraps a node accepted by IsTypeDeclaration.
func NewTypeDeclaration(n ast.Node, filename string) (*TypeDeclaration, bool) {
	name, ok := definitionName(n)
	if !ok {
		return nil, false
	}
	return &TypeDeclaration{Name: name, Filename: filename, Field: n.(*ast.Field)}, true
}

// TypeDeclarations returns the top-level type declarations of tree in source order.
func TypeDeclarations(tree *SyntaxTree) []*TypeDeclaration {
	nodes := tree.FindAll(IsTypeDeclaration, false)
	decls := make([]*TypeDeclaration, 0, len(nodes))
	for _, n := range nodes {
		if d, ok := NewTypeDeclaration(n, tree.Filename); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Source renders the declaration back to CUE text.
func (d *TypeDeclaration) Source() string {
	out, err := format.Node(d.Field)
	if err != nil {
		return d.Name
	}
	return string(out)
}

func definitionName(n ast.Node) (string, bool) {
	field, ok := n.(*ast.Field)
	if !ok {
		return "", false
	}
	ident, ok := field.Label.(*ast.Ident)
	if !ok || !strings.HasPrefix(ident.Name, "#") {
		return "", false
	}
	return ident.Name, true
}
