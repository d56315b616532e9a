// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Decoded is the outcome of a successful Decode.
type Decoded[T any] struct {
	// Value is the decoded Go value.
	Value *T
	// Unified is the schema-unified CUE value, for callers that need more than
	// the decoded struct (field presence, attributes).
	Unified cue.Value
}

// Decode validates data against the definition at schemaPath in schema
// ("#Manifest", "#Config") and decodes the result into a T.
func Decode[T any](schema []byte, schemaPath string, data []byte, opts ...Option) (*Decoded[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileBytes(schema)
	if err := schemaValue.Err(); err != nil {
		return nil, fmt.Errorf("internal error: compiling schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema has no %s: %w", schemaPath, err)
	}

	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if err := user.Err(); err != nil {
		return nil, FormatError(err, o.filename)
	}

	unified := root.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Decoded[T]{Value: &out, Unified: unified}, nil
}

// Compile compiles a standalone CUE source without a schema and returns its
// root value. Errors are formatted like Decode errors.
func Compile(filename string, data []byte) (cue.Value, error) {
	if err := CheckFileSize(data, DefaultMaxFileSize, filename); err != nil {
		return cue.Value{}, err
	}
	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return v, nil
}
