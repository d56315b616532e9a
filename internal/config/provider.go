// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"slices"
)

type (
	// LoadOptions selects where configuration is read from.
	LoadOptions struct {
		// ConfigFilePath names the config file to read; it must exist.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir when looking for config.cue.
		ConfigDirPath string
	}

	// Provider supplies the configuration for one CLI invocation.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	fileProvider struct{}

	staticProvider struct {
		cfg Config
	}
)

// NewProvider returns a Provider that reads config.cue files and MODSURFACE_*
// environment overrides.
func NewProvider() Provider {
	return &fileProvider{}
}

// NewStaticProvider returns a Provider that always yields a copy of cfg and
// ignores LoadOptions. A nil cfg serves DefaultConfig.
func NewStaticProvider(cfg *Config) Provider {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &staticProvider{cfg: *cfg}
}

// Load reads configuration from the requested source. A missing default
// config file is not an error; DefaultConfig applies.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// Load returns a copy that callers may modify freely.
func (p *staticProvider) Load(ctx context.Context, _ LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := p.cfg
	cfg.SearchPaths = slices.Clone(p.cfg.SearchPaths)
	return &cfg, nil
}
