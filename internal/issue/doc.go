// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into messages a user can act on.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions; ErrorContext builds one fluently. Issue is a catalog entry of
// Markdown guidance rendered with glamour for the well-known failure classes
// of module loading and resolution.
package issue
