package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	return renderBox(title, content, ColorDim)
}

// RenderAccentBox is RenderBox with a colored border.
func RenderAccentBox(title string, content string, accent lipgloss.Color) string {
	return renderBox(title, content, accent)
}

func renderBox(title, content string, border lipgloss.Color) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2)

	if title == "" {
		return style.Render(content)
	}
	return style.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// KeyValue renders "label  value" with the label dimmed and padded to width.
func KeyValue(label string, value string, width int) string {
	pad := width - lipgloss.Width(label)
	if pad < 1 {
		pad = 1
	}
	return Dim(label) + strings.Repeat(" ", pad) + value
}

// Number renders v with the given decimals, or domain.Placeholder when v is
// not finite.
func Number(v float64, places int32) string {
	return domain.FormatFinite(v, places)
}

// OptionalNumber renders a nullable value, "--" when absent.
func OptionalNumber(v *float64, places int32) string {
	if v == nil {
		return Dim("--")
	}
	return Number(*v, places)
}

// SignedNumber renders v with an explicit + for positive values.
func SignedNumber(v float64, places int32) string {
	s := Number(v, places)
	if domain.IsFinite(v) && domain.Round(v, places) > 0 {
		return "+" + s
	}
	return s
}

// HumanTimestamp renders t relative to now: "Just now", "5m ago", "3h ago",
// then "Jan 2, 15:04".
func HumanTimestamp(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 0:
		return t.Local().Format("Jan 2, 15:04")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Local().Format("Jan 2, 15:04")
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
