// SPDX-License-Identifier: MPL-2.0

// Package modsource reads module sources for the export resolver.
//
// CUE script modules are parsed into a [SyntaxTree] whose top-level
// definitions ("#Name: {...}") are the module's type declarations. The
// [Parser] memoizes trees by path so repeated lookups of the same file do not
// re-parse it.
//
// The scanners discover export names heuristically, without evaluating
// anything:
//   - [ScanCUE] reads the top-level functions, workflows, aliases and
//     variables structs of a CUE script module
//   - [ScanShell] reads top-level function declarations, alias commands and
//     variable assignments of a shell script module
package modsource
