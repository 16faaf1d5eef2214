package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorOrange = lipgloss.Color("#fe8019")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = ColorOrange
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleRedBold    = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SeverityColor returns the accent color of a severity. It never affects
// which values are shown.
func SeverityColor(s classify.Severity) lipgloss.Color {
	switch s {
	case classify.SeverityInfo:
		return ColorBlue
	case classify.SeverityNominal:
		return ColorGreen
	case classify.SeverityWarning:
		return ColorRed
	case classify.SeverityCaution:
		return ColorYellow
	default:
		return ColorDim
	}
}

// SeverityStyle returns the bold foreground style of a severity.
func SeverityStyle(s classify.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeverityColor(s)).Bold(true)
}

func severityGlyph(s classify.Severity) string {
	switch s {
	case classify.SeverityInfo:
		return "●"
	case classify.SeverityNominal:
		return "✔"
	case classify.SeverityWarning:
		return "▲"
	case classify.SeverityCaution:
		return "◆"
	default:
		return "?"
	}
}

// StatusBadge renders a classification such as "▲ SAFETY: UNDER-BLEACH DETECTED".
// Unclassified codes show the raw code.
func StatusBadge(c classify.Classification) string {
	label := c.Label
	if label == "" {
		label = "UNKNOWN STATUS"
	}
	return SeverityStyle(c.Severity).Render(severityGlyph(c.Severity) + " " + label)
}

// DirectionIndicator renders the dose adjustment direction.
func DirectionIndicator(d domain.Direction) string {
	switch d {
	case domain.DirectionIncrease:
		return StyleYellowBold.Render("▲ INCREASE")
	case domain.DirectionDecrease:
		return StyleBlue.Bold(true).Render("▼ DECREASE")
	default:
		return StyleGreen.Render("● HOLD")
	}
}

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
