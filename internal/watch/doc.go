// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when module files change on disk.
//
// Events from fsnotify are filtered to module files and coalesced over a
// debounce window, so an editor's write-then-rename produces one callback
// with the full set of changed paths.
package watch
