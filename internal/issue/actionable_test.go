// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := fs.ErrNotExist
	err := NewErrorContext().
		WithOperation("load module").
		WithResource("./net/Net.mod.cue").
		WithSuggestion("Check the path").
		WithSuggestion("Add a search path").
		WithIssue(ModuleNotFoundId).
		Wrap(cause).
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("the cause should be reachable through errors.Is")
	}
	if ae.Issue != ModuleNotFoundId || len(ae.Suggestions) != 2 {
		t.Errorf("ActionableError = %+v", ae)
	}
	want := "failed to load module: ./net/Net.mod.cue: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	c := NewErrorContext().WithResource("x").Wrap(errors.New("boom"))
	if c.Build() != nil {
		t.Error("Build() without an operation should return nil")
	}
	if err := c.BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want a nil error interface", err)
	}
}

func TestErrorContext_BuildCopiesSuggestions(t *testing.T) {
	t.Parallel()

	c := NewErrorContext().WithOperation("op").WithSuggestion("a")
	first := c.Build()
	c.WithSuggestion("b")

	if len(first.Suggestions) != 1 {
		t.Errorf("earlier Build result changed: %v", first.Suggestions)
	}
	if got := c.Build().Suggestions; len(got) != 2 {
		t.Errorf("Suggestions = %v, want 2 entries", got)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("wrapping nil should stay nil")
	}

	cause := errors.New("boom")
	err := WrapWithContext(cause, "decode manifest", "")
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable")
	}
	if err.Error() != "failed to decode manifest: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("inner")
	ae := &ActionableError{
		Operation:   "load module",
		Resource:    "m.cue",
		Suggestions: []string{"try this"},
		Cause:       errors.Join(inner),
	}

	tests := []struct {
		name     string
		verbose  bool
		contains []string
		excludes []string
	}{
		{"plain", false, []string{"failed to load module: m.cue", "• try this"}, []string{"Error chain:"}},
		{"verbose", true, []string{"• try this", "Error chain:", "1. inner"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := ae.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("Format(%v) missing %q in:\n%s", tt.verbose, s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("Format(%v) should not contain %q", tt.verbose, s)
				}
			}
		})
	}
	if !ae.HasSuggestions() {
		t.Error("HasSuggestions() = false")
	}
}
