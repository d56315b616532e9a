// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE helpers shared by the manifest loader, the
// configuration layer and the module source scanners.
//
// Decoding follows one flow everywhere:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the user file and unify it with the schema
//  3. Validate, then decode into the Go type
//
// Errors carry the file name and a field path ("functions_to_export[1]") so
// they can be shown to users unchanged.
package cueutil
