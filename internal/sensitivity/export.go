package sensitivity

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyMap is returned when there is nothing to draw.
var ErrEmptyMap = errors.New("sensitivity map has no points")

// ExportOptions sizes the rendered chart.
type ExportOptions struct {
	Title  string
	Width  int
	Height int
}

// DefaultExportOptions returns a chart size that reads well in a report.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Title: "Operational Sensitivity", Width: 900, Height: 520}
}

var (
	colorCurrent   = drawing.ColorFromHex("ef4444")
	colorTarget    = drawing.ColorFromHex("3b82f6")
	colorHighlight = drawing.ColorFromHex("f59e0b")
)

// dotStyle renders points only, no connecting line.
func dotStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    width,
		DotColor:    col,
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// RenderPNG draws m as a PNG image.
func RenderPNG(w io.Writer, m Map, opts ExportOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultExportOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}

	var ch chart.Chart
	switch m.Mode {
	case ModeTwoPoint:
		if len(m.Points) == 0 {
			return ErrEmptyMap
		}
		ch = twoPointChart(m.Points)
	case ModeSweep:
		if len(m.Sweep) == 0 {
			return ErrEmptyMap
		}
		ch = sweepChart(m.Sweep, m.Highlight)
	default:
		return ErrEmptyMap
	}

	ch.Title = opts.Title
	ch.Width = opts.Width
	ch.Height = opts.Height
	ch.Background = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering sensitivity chart: %w", err)
	}
	return nil
}

func twoPointChart(points []OperatingPoint) chart.Chart {
	var xs, ys []float64
	series := make([]chart.Series, 0, len(points))
	for _, p := range points {
		col := colorCurrent
		if p.Kind == KindTarget {
			col = colorTarget
		}
		series = append(series, chart.ContinuousSeries{
			Name:    p.Name,
			XValues: []float64{p.Brightness},
			YValues: []float64{p.Dose},
			Style:   dotStyle(col, 8),
		})
		xs = append(xs, p.Brightness)
		ys = append(ys, p.Dose)
	}
	return chart.Chart{
		XAxis:  chart.XAxis{Name: "Brightness (%ISO)", Range: paddedRange(xs)},
		YAxis:  chart.YAxis{Name: "ClO2 Dose (SP)", Range: paddedRange(ys)},
		Series: series,
	}
}

func sweepChart(points []SweepPoint, highlight *SweepPoint) chart.Chart {
	xs := make([]float64, len(points))
	opt := make([]float64, len(points))
	cur := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Kappa
		opt[i] = p.OptimalLine
		cur[i] = p.CurrentLine
	}
	ys := append(append([]float64{}, opt...), cur...)

	series := []chart.Series{
		chart.ContinuousSeries{Name: "Optimized line", XValues: xs, YValues: opt, Style: lineStyle(colorTarget)},
		chart.ContinuousSeries{Name: "Current line", XValues: xs, YValues: cur, Style: lineStyle(colorCurrent)},
	}
	if highlight != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    "Submitted kappa",
			XValues: []float64{highlight.Kappa, highlight.Kappa},
			YValues: []float64{highlight.OptimalLine, highlight.CurrentLine},
			Style:   dotStyle(colorHighlight, 7),
		})
		xs = append(xs, highlight.Kappa)
		ys = append(ys, highlight.OptimalLine, highlight.CurrentLine)
	}

	return chart.Chart{
		XAxis:  chart.XAxis{Name: "Kappa", Range: paddedRange(xs)},
		YAxis:  chart.YAxis{Name: "ClO2 Dose", Range: paddedRange(ys)},
		Series: series,
	}
}

// paddedRange returns an explicit axis range around vs. go-chart refuses a
// zero-width range, which a single point or a flat line would produce.
func paddedRange(vs []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	pad := (hi - lo) * 0.1
	if pad < 1 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
