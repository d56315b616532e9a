// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"bytes"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/modsurface/internal/cueutil"
)

// ParseShell parses src as a shell script module named filename.
func ParseShell(filename string, src []byte) (*syntax.File, error) {
	if err := cueutil.CheckFileSize(src, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}
	prog, err := syntax.NewParser().Parse(bytes.NewReader(src), filename)
	if err != nil {
		return nil, fmt.Errorf("shell module syntax error: %w", err)
	}
	return prog, nil
}

// ScanShell discovers the public exports of a shell script module without
// running it: top-level functions, "alias name=target" commands and
// variables marked with export. Names starting with '_' are private.
func ScanShell(filename string, src []byte) (*Detected, error) {
	prog, err := ParseShell(filename, src)
	if err != nil {
		return nil, err
	}
	return ScanShellFile(prog), nil
}

// ScanShellFile discovers the public exports of a parsed shell script.
func ScanShellFile(prog *syntax.File) *Detected {
	det := &Detected{}
	for _, stmt := range prog.Stmts {
		switch cmd := stmt.Cmd.(type) {
		case *syntax.FuncDecl:
			if name := cmd.Name.Value; !isPrivateName(name) {
				det.Functions = append(det.Functions, name)
			}
		case *syntax.CallExpr:
			det.Aliases = append(det.Aliases, shellAliases(cmd)...)
		case *syntax.DeclClause:
			if cmd.Variant.Value != "export" {
				continue
			}
			for _, as := range cmd.Args {
				if as.Name == nil || isPrivateName(as.Name.Value) {
					continue
				}
				det.Variables = append(det.Variables, as.Name.Value)
			}
		}
	}
	return det
}

// shellAliases extracts the definitions of an "alias a=b c=d" command.
func shellAliases(call *syntax.CallExpr) []DetectedAlias {
	if len(call.Args) < 2 || call.Args[0].Lit() != "alias" {
		return nil
	}
	var out []DetectedAlias
	for _, arg := range call.Args[1:] {
		name, target, ok := strings.Cut(wordString(arg), "=")
		if !ok || isPrivateName(name) {
			continue
		}
		out = append(out, DetectedAlias{Name: name, Target: target})
	}
	return out
}

// wordString flattens the literal and quoted parts of a word. Expansions are
// dropped because their value is unknown before the script runs.
func wordString(w *syntax.Word) string {
	var sb strings.Builder
	for _, part := range w.Parts {
		writeWordPart(&sb, part)
	}
	return sb.String()
}

func writeWordPart(sb *strings.Builder, part syntax.WordPart) {
	switch p := part.(type) {
	case *syntax.Lit:
		sb.WriteString(p.Value)
	case *syntax.SglQuoted:
		sb.WriteString(p.Value)
	case *syntax.DblQuoted:
		for _, inner := range p.Parts {
			writeWordPart(sb, inner)
		}
	}
}
