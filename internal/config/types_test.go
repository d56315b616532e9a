// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestOutputFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  OutputFormat
		want    bool
		wantErr bool
	}{
		{OutputText, true, false},
		{OutputJSON, true, false},
		{OutputTOML, true, false},
		{"", false, true},
		{"yaml", false, true},
		{"JSON", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.format.IsValid()
			if isValid != tt.want {
				t.Errorf("OutputFormat(%q).IsValid() = %v, want %v", tt.format, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("OutputFormat(%q).IsValid() returned no errors, want error", tt.format)
				}
				if !errors.Is(errs[0], ErrInvalidOutputFormat) {
					t.Errorf("error should wrap ErrInvalidOutputFormat, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("OutputFormat(%q).IsValid() returned unexpected errors: %v", tt.format, errs)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	if f, err := ParseOutputFormat(" JSON "); err != nil || f != OutputJSON {
		t.Errorf("ParseOutputFormat(JSON) = %q, %v", f, err)
	}
	if _, err := ParseOutputFormat("xml"); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Errorf("ParseOutputFormat(xml) error = %v, want ErrInvalidOutputFormat", err)
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, errs := c.IsValid(); !valid {
			t.Errorf("ColorScheme(%q).IsValid() errors = %v", c, errs)
		}
	}
	valid, errs := ColorScheme("neon").IsValid()
	if valid || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("ColorScheme(neon).IsValid() = %v, %v", valid, errs)
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SearchPaths = append(cfg.SearchPaths, "  ")
	cfg.ParallelLoads = MaxParallelLoads + 1
	cfg.UI.ColorScheme = "neon"

	valid, errs := cfg.IsValid()
	if valid || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v; want one aggregated error", valid, errs)
	}
	err := errs[0]
	for _, sentinel := range []error{ErrInvalidConfig} {
		if !errors.Is(err, sentinel) {
			t.Errorf("error should wrap %v", sentinel)
		}
	}
	var cfgErr *InvalidConfigError
	if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 3 {
		t.Fatalf("expected 3 field errors, got %v", err)
	}
	if !errors.Is(cfgErr.FieldErrors[0], ErrInvalidSearchPath) ||
		!errors.Is(cfgErr.FieldErrors[1], ErrInvalidParallelLoads) ||
		!errors.Is(cfgErr.FieldErrors[2], ErrInvalidUIConfig) {
		t.Errorf("unexpected field errors: %v", cfgErr.FieldErrors)
	}
}
