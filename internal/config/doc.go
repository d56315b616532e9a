// SPDX-License-Identifier: MPL-2.0

// Package config loads modsurface settings using Viper with CUE as the file format.
//
// The file is read from config.cue in the platform configuration directory
// ($XDG_CONFIG_HOME/modsurface on Linux, ~/Library/Application Support/modsurface
// on macOS, %APPDATA%\modsurface on Windows), falling back to ./config.cue.
// Contents are validated against the #Config schema (config_schema.cue) before
// they reach Viper; MODSURFACE_* environment variables override file values.
package config
