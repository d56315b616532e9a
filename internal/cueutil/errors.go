// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// FormatError rewrites a CUE error as "<file>: <field path>: <message>". Multiple
// CUE errors are listed one per line. Non-CUE errors are prefixed with the file.
// The original error stays reachable through errors.Is and errors.As.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}
	var ce errors.Error
	if !stderrors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filename, err)
	}
	all := errors.Errors(ce)

	lines := make([]string, 0, len(all))
	for _, e := range all {
		path := FieldPath(errors.Path(e))
		msg := e.Error()
		if path == "" {
			lines = append(lines, msg)
			continue
		}
		// CUE may already lead the message with the path.
		msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		lines = append(lines, path+": "+msg)
	}
	if len(lines) == 1 {
		return &formattedError{msg: filename + ": " + lines[0], err: err}
	}
	return &formattedError{msg: filename + ": validation failed:\n  " + strings.Join(lines, "\n  "), err: err}
}

// formattedError carries the rewritten message of a CUE error and unwraps to it.
type formattedError struct {
	msg string
	err error
}

func (e *formattedError) Error() string { return e.msg }

func (e *formattedError) Unwrap() error { return e.err }

// FieldPath renders CUE path selectors in index notation:
// ["nested_modules", "1", "path"] becomes "nested_modules[1].path".
func FieldPath(selectors []string) string {
	var sb strings.Builder
	for i, sel := range selectors {
		switch {
		case i > 0 && isIndex(sel):
			sb.WriteString("[" + sel + "]")
		case i > 0:
			sb.WriteString("." + sel)
		default:
			sb.WriteString(sel)
		}
	}
	return sb.String()
}

// CheckFileSize rejects sources larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if size := int64(len(data)); size > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, size, maxSize)
	}
	return nil
}

func isIndex(sel string) bool {
	if sel == "" {
		return false
	}
	for _, r := range sel {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
