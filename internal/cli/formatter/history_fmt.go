package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// FormatHistory renders recent recommendations, newest first.
func FormatHistory(records []*domain.RecommendationRecord, now time.Time) string {
	if len(records) == 0 {
		return Dim("No recommendations recorded yet.") + "\n"
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		c := classify.Classify(rec.Result.ControlStatus)
		rows = append(rows, []string{
			TruncID(rec.ID),
			HumanTimestamp(rec.CreatedAt, now),
			string(rec.Schema),
			Number(rec.Reading.Kappa, 1),
			Number(rec.Result.CurrentDose, 2),
			Number(rec.Result.RecommendedDose, 2),
			SignedNumber(rec.Result.Delta, 2),
			SeverityStyle(c.Severity).Render(rec.Result.ControlStatus),
		})
	}
	cols := []Column{
		{Title: "ID"},
		{Title: "WHEN"},
		{Title: "SCHEMA"},
		{Title: "KAPPA", Align: AlignRight},
		{Title: "CURRENT", Align: AlignRight},
		{Title: "RECOMMENDED", Align: AlignRight},
		{Title: "DELTA", Align: AlignRight},
		{Title: "STATUS"},
	}

	var b strings.Builder
	b.WriteString(RenderTable(cols, rows))
	b.WriteString("\n" + Dim(fmt.Sprintf("%d recommendation(s)", len(records))) + "\n")
	return b.String()
}
