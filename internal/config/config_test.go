// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/modsurface/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if !slices.Equal(cfg.SearchPaths, []SearchPath{"."}) {
		t.Errorf("SearchPaths = %v, want [.]", cfg.SearchPaths)
	}
	if cfg.Evaluate {
		t.Error("analysis mode should be the default")
	}
	if cfg.ParallelLoads != DefaultParallelLoads {
		t.Errorf("ParallelLoads = %d, want %d", cfg.ParallelLoads, DefaultParallelLoads)
	}
	if cfg.OutputFormat != OutputText || cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig() is invalid: %v", errs)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, `
search_paths: ["./modules", "/opt/modules"]
evaluate: true
ui: verbose: true
`)

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if resolved != path {
		t.Errorf("resolved path = %q, want %q", resolved, path)
	}
	if !slices.Equal(cfg.SearchPaths, []SearchPath{"./modules", "/opt/modules"}) {
		t.Errorf("SearchPaths = %v", cfg.SearchPaths)
	}
	if !cfg.Evaluate || !cfg.UI.Verbose {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.ParallelLoads != DefaultParallelLoads || cfg.OutputFormat != OutputText {
		t.Errorf("unset fields should keep their defaults: %+v", cfg)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty", resolved)
	}
	if cfg.ParallelLoads != DefaultParallelLoads || cfg.OutputFormat != OutputText {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown output format", `output_format: "yaml"`, "output_format"},
		{"parallel loads below one", `parallel_loads: 0`, "parallel_loads"},
		{"unknown field", `container_engine: "docker"`, "container_engine"},
		{"empty search path", `search_paths: [""]`, "search_paths"},
		{"syntax error", `evaluate: [`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeConfig(t, t.TempDir(), tt.content)
			_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected an error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error should be an ActionableError, got %T", err)
			}
			if ae.Issue != issue.ConfigLoadFailedId || !ae.HasSuggestions() {
				t.Errorf("ActionableError = %+v", ae)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should mention %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want fs.ErrNotExist", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := loadWithOptions(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `output_format: "json"`)
	t.Setenv("MODSURFACE_OUTPUT_FORMAT", "toml")
	t.Setenv("MODSURFACE_PARALLEL_LOADS", "8")
	t.Setenv("MODSURFACE_UI_VERBOSE", "true")

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("loadWithOptions() error = %v", err)
	}
	if cfg.OutputFormat != OutputTOML || cfg.ParallelLoads != 8 || !cfg.UI.Verbose {
		t.Errorf("environment overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidEnvironmentOverride(t *testing.T) {
	t.Setenv("MODSURFACE_PARALLEL_LOADS", "0")

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "parallel_loads") {
		t.Errorf("error = %v, want an invalid config error naming parallel_loads", err)
	}
}

func TestGenerateCUE_RoundTrips(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.SearchPaths = []SearchPath{"a", "b c"}
	cfg.Evaluate = true
	cfg.OutputFormat = OutputJSON

	path := writeConfig(t, t.TempDir(), GenerateCUE(cfg))
	got, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if !slices.Equal(got.SearchPaths, cfg.SearchPaths) || !got.Evaluate || got.OutputFormat != OutputJSON {
		t.Errorf("loaded = %+v, want %+v", got, cfg)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	path, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if err := os.WriteFile(path, []byte("evaluate: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(dir); err != nil {
		t.Fatalf("second CreateDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "evaluate: true\n" {
		t.Error("an existing config file must not be overwritten")
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	// Not parallel: t.Setenv.
	t.Setenv(ConfigDirEnv, "/tmp/modsurface-test")

	dir, err := ConfigDir()
	if err != nil || dir != "/tmp/modsurface-test" {
		t.Errorf("ConfigDir() = %q, %v", dir, err)
	}
}
