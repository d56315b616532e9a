// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"

	"github.com/invowk/modsurface/internal/config"
)

// textRenderer is implemented by listings that have a styled text form.
type textRenderer interface {
	renderText(w io.Writer)
}

// formatFlag resolves the --format flag against the configured default.
func (a *App) formatFlag(value string) (config.OutputFormat, error) {
	if value == "" {
		return a.cfg.OutputFormat, nil
	}
	return config.ParseOutputFormat(value)
}

// writeListing prints v in the requested format.
func writeListing(w io.Writer, format config.OutputFormat, v textRenderer) error {
	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.OutputTOML:
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(v)
	case config.OutputText:
		v.renderText(w)
		return nil
	default:
		return fmt.Errorf("%w: %q", config.ErrInvalidOutputFormat, format)
	}
}
