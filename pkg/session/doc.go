// SPDX-License-Identifier: MPL-2.0

// Package session implements the execution scope bound to script modules.
//
// A State records what a script exported while it was evaluated: functions,
// workflows, aliases, variables, and cmdlets parked until the owning module
// claims them. A Host owns the environment's current scope and swaps it for
// the duration of a call.
//
// CUE script modules are "executed" by evaluating them with cuelang.org/go;
// shell modules run in a sandboxed mvdan.cc/sh interpreter that refuses
// external commands and file access.
package session
