// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output.
const (
	// ColorPrimary is purple - used for titles and module names.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorError is red - used for errors.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and stub markers.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for symbol names.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - used for definitions and paths.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for module headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for category headings and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle is for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// SymbolStyle is for exported names.
	SymbolStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for definitions, paths and other supplementary details.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// nameColumnStyle pads symbol names into a column.
	nameColumnStyle = SymbolStyle.
			Width(28).
			PaddingLeft(4)

	// stubTagStyle marks placeholder symbols.
	stubTagStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true)
)
