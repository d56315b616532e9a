// SPDX-License-Identifier: MPL-2.0

// Package modcache provides the process-wide module name to path cache.
//
// A PathCache is an explicit service: the host process constructs one with New
// and hands it to whatever loads modules. Every operation is individually
// atomic, so the cache can be shared by concurrent loaders without external
// locking. A Lookup followed by an Add is not atomic as a pair; use Add with
// force=false when the first writer must win.
package modcache
