package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/venvsweep/venvsweep/internal/venv"
)

// Palette for scan output.
const (
	colorGreen  = "#50FA7B"
	colorRed    = "#FF5555"
	colorYellow = "#F1FA8C"
	colorCyan   = "#8BE9FD"
	colorGray   = "#6272A4"
)

// Styles bundles the lipgloss styles used to render scan output.
type Styles struct {
	Header       lipgloss.Style
	Path         lipgloss.Style
	Label        lipgloss.Style
	Valid        lipgloss.Style
	Broken       lipgloss.Style
	Incompatible lipgloss.Style
	Warn         lipgloss.Style
	Dim          lipgloss.Style
}

// DefaultStyles returns the colored palette. Lipgloss still downgrades
// these to plain text when stdout is not a terminal.
func DefaultStyles() Styles {
	return Styles{
		Header:       lipgloss.NewStyle().Bold(true),
		Path:         lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan)).Bold(true),
		Label:        lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)),
		Valid:        lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen)),
		Broken:       lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed)).Bold(true),
		Incompatible: lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Warn:         lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow)),
		Dim:          lipgloss.NewStyle().Faint(true),
	}
}

// PlainStyles returns unstyled rendering for --no-color runs.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:       plain,
		Path:         plain,
		Label:        plain,
		Valid:        plain,
		Broken:       plain,
		Incompatible: plain,
		Warn:         plain,
		Dim:          plain,
	}
}

// ForStatus picks the style matching a classification.
func (s Styles) ForStatus(st venv.Status) lipgloss.Style {
	switch st {
	case venv.StatusBroken:
		return s.Broken
	case venv.StatusIncompatible:
		return s.Incompatible
	default:
		return s.Valid
	}
}
