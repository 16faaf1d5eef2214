package formatter

import (
	"strings"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/sensitivity"
)

const sensitivityBarWidth = 24

// FormatSensitivity renders a sensitivity map as a table with inline bars.
// Sweep rows scale both lines to the largest value; the row at the
// submitted kappa is marked.
func FormatSensitivity(m sensitivity.Map) string {
	var b strings.Builder
	b.WriteString(Header("Operational Sensitivity"))
	b.WriteString("\n")

	switch m.Mode {
	case sensitivity.ModeSweep:
		b.WriteString(formatSweep(m))
	case sensitivity.ModeTwoPoint:
		b.WriteString(formatTwoPoint(m))
	default:
		b.WriteString(Dim("No recommendation yet.") + "\n")
	}
	return b.String()
}

func formatTwoPoint(m sensitivity.Map) string {
	top := 0.0
	for _, p := range m.Points {
		top = max(top, p.Dose)
	}
	rows := make([][]string, 0, len(m.Points))
	for _, p := range m.Points {
		style := StyleRed
		if p.Kind == sensitivity.KindTarget {
			style = StyleBlue
		}
		rows = append(rows, []string{
			style.Render(p.Name),
			Number(p.Brightness, 1),
			Number(p.Dose, 2),
			style.Render(bar(p.Dose, top, sensitivityBarWidth)),
		})
	}
	cols := []Column{
		{Title: "POINT"},
		{Title: "BRIGHTNESS %ISO", Align: AlignRight},
		{Title: "DOSE", Align: AlignRight},
		{Title: ""},
	}
	return RenderTable(cols, rows)
}

func formatSweep(m sensitivity.Map) string {
	if len(m.Sweep) == 0 {
		return Dim("No positive kappa in the sweep range.") + "\n"
	}
	top := 0.0
	for _, p := range m.Sweep {
		top = max(top, p.OptimalLine, p.CurrentLine)
	}

	rows := make([][]string, 0, len(m.Sweep))
	for _, p := range m.Sweep {
		marker := ""
		kappa := Number(p.Kappa, 1)
		if m.Highlight != nil && p.Kappa == m.Highlight.Kappa {
			marker = StyleYellowBold.Render("◀ now")
			kappa = StyleYellowBold.Render(kappa)
		}
		rows = append(rows, []string{
			kappa,
			Number(p.OptimalLine, 2),
			Number(p.CurrentLine, 2),
			StyleBlue.Render(bar(p.OptimalLine, top, sensitivityBarWidth/2)) + " " +
				StyleRed.Render(bar(p.CurrentLine, top, sensitivityBarWidth/2)),
			marker,
		})
	}
	cols := []Column{
		{Title: "KAPPA", Align: AlignRight},
		{Title: "OPTIMAL", Align: AlignRight},
		{Title: "CURRENT", Align: AlignRight},
		{Title: ""},
		{Title: ""},
	}
	return RenderTable(cols, rows) + Dim("dose = kappa × K-factor") + "\n"
}

func bar(v, top float64, width int) string {
	if top <= 0 || v <= 0 {
		return strings.Repeat(emptyBlock, width)
	}
	n := min(int(v/top*float64(width)+0.5), width)
	return strings.Repeat(filledBlock, n) + strings.Repeat(emptyBlock, width-n)
}
