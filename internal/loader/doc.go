// SPDX-License-Identifier: MPL-2.0

// Package loader turns module files into modinfo.Module descriptors.
//
// Three file kinds are recognized by extension: manifests (.mod.cue), CUE
// script modules (.cue) and shell script modules (.sh). In analysis mode
// script sources are scanned for the names they would export; in evaluate
// mode they run (CUE evaluation, or a sandboxed shell interpreter) and the
// resulting session.State is bound as the module's execution scope.
//
// Modules loaded by name are located through the configured search paths and
// remembered in a modcache.PathCache.
package loader
