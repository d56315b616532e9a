// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
	"testing"
)

func TestProvider_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `output_format: "json"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutputFormat != OutputJSON {
		t.Errorf("OutputFormat = %s, want json", cfg.OutputFormat)
	}
	if want := filepath.Join(dir, "config.cue"); cfg.Source != want {
		t.Errorf("Source = %q, want %q", cfg.Source, want)
	}
}

func TestProvider_LoadError(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, t.TempDir(), `evaluate: "yes"`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err == nil || cfg != nil {
		t.Errorf("Load() = %v, %v; want nil config and an error", cfg, err)
	}
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	base := DefaultConfig()
	base.Evaluate = true
	p := NewStaticProvider(base)

	first, err := p.Load(context.Background(), LoadOptions{ConfigFilePath: "ignored.cue"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !first.Evaluate || first.Source != "" {
		t.Errorf("Load() = %+v, want the static config", first)
	}
	first.SearchPaths[0] = "changed"

	second, err := p.Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if second.SearchPaths[0] != "." {
		t.Error("callers must not share the provider's search paths")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Load(ctx, LoadOptions{}); err == nil {
		t.Error("Load() with a canceled context should fail")
	}

	if cfg, _ := NewStaticProvider(nil).Load(context.Background(), LoadOptions{}); cfg.OutputFormat != OutputText {
		t.Errorf("nil config should serve defaults, got %+v", cfg)
	}
}
