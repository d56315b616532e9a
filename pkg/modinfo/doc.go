// SPDX-License-Identifier: MPL-2.0

// Package modinfo computes the exported surface of loaded modules.
//
// A [Module] describes one loaded unit of the scripting environment: a script
// module, a compiled module, or a manifest that aggregates nested modules. The
// package resolves which symbols such a module makes visible to importers and
// how nested modules contribute to that surface.
//
// # Export Resolution
//
// Each symbol category (functions, cmdlets, aliases, workflows, variables) has
// its own [SymbolCatalog] holding three raw sources:
//   - declared: names listed explicitly by a manifest (authoritative when present,
//     and "export nothing" when present but empty)
//   - detected: names discovered by scanning module sources
//   - compiled: fully formed [CommandInfo] values registered programmatically
//
// When no declaration exists the bound [ExecutionScope] of the module (if any)
// supplies the symbols. See [Module.Exported] for the exact precedence of each
// category and [Module.ExportedCommands] for the merged command view.
//
// # Nested Modules
//
// [Module.ExportedTypeDeclarations] and [Module.AggregatedCommands] merge the
// surface of nested modules in declaration order and let the module's own
// entries win ("last one wins").
//
// # Snapshots
//
// [Module.Clone] copies a module and its collection fields without triggering
// any resolution.
//
// A Module is not safe for concurrent use. The process-wide path cache lives in
// package modcache.
package modinfo
