package formatter

import (
	"fmt"
	"strings"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderGauge renders value on a 0..full scale as [████░░░░] 68.4.
// The bar is green at or above target, yellow within 5% below it and red
// further down.
func RenderGauge(value, target, full float64, width int) string {
	if width < 2 {
		width = 2
	}
	if !domain.IsFinite(value) {
		return fmt.Sprintf("[%s] %s", Dim(strings.Repeat(emptyBlock, width)), domain.Placeholder)
	}

	frac := 0.0
	if full > 0 {
		frac = min(max(value/full, 0), 1)
	}
	filled := min(int(frac*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case target > 0 && value < target*0.95:
		style = StyleRed
	case target > 0 && value < target:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), Number(value, 1))
}
