package formatter

import (
	"errors"
	"sort"
	"strings"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/classify"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
)

// FormatHealth renders the service health and info probes. A nil probe
// result is shown with the error it failed with.
func FormatHealth(endpoint string, h *predict.HealthStatus, hErr error, info *predict.ServiceInfo, iErr error) string {
	var b strings.Builder
	b.WriteString(KeyValue("Endpoint", endpoint, 14) + "\n")

	switch {
	case h == nil && hErr == nil:
		b.WriteString(KeyValue("Health", Dim("--"), 14) + "\n")
	case hErr != nil:
		b.WriteString(KeyValue("Health", StyleRed.Render("✖ "+probeError(hErr)), 14) + "\n")
	case h.Healthy():
		b.WriteString(KeyValue("Health", StyleGreen.Render("● "+h.Status), 14) + "\n")
	default:
		b.WriteString(KeyValue("Health", StyleYellow.Render("◆ "+h.Status), 14) + "\n")
	}
	if h != nil {
		models := StyleRed.Render("not loaded")
		if h.ModelsLoaded {
			models = StyleGreen.Render("loaded")
		}
		b.WriteString(KeyValue("Models", models, 14) + "\n")
	}

	if iErr != nil {
		b.WriteString(KeyValue("Service", StyleRed.Render("✖ "+probeError(iErr)), 14) + "\n")
		return RenderBox("Prediction Service", strings.TrimRight(b.String(), "\n"))
	}
	if info == nil {
		return RenderBox("Prediction Service", strings.TrimRight(b.String(), "\n"))
	}
	b.WriteString(KeyValue("Service", info.Message, 14) + "\n")
	b.WriteString(KeyValue("Version", info.Version, 14) + "\n")
	if info.Architecture != "" {
		b.WriteString(KeyValue("Architecture", info.Architecture, 14) + "\n")
	}
	if len(info.Endpoints) > 0 {
		keys := make([]string, 0, len(info.Endpoints))
		for k := range info.Endpoints {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\n")
		for _, k := range keys {
			b.WriteString("  " + StyleBlue.Render(k) + "  " + Dim(info.Endpoints[k]) + "\n")
		}
	}
	return RenderBox("Prediction Service", strings.TrimRight(b.String(), "\n"))
}

func probeError(err error) string {
	var ce *predict.ConnectionError
	if errors.As(err, &ce) && ce.Detail() != "" {
		return ce.Error() + " (" + ce.Detail() + ")"
	}
	return err.Error()
}

// FormatClassification renders what a control status code means.
func FormatClassification(c classify.Classification) string {
	var b strings.Builder
	b.WriteString(StatusBadge(c) + "\n")
	b.WriteString(KeyValue("Code", c.Code, 10) + "\n")
	b.WriteString(KeyValue("Category", c.Category.String(), 10) + "\n")
	b.WriteString(KeyValue("Severity", string(c.Severity), 10) + "\n")
	if !c.Known() {
		b.WriteString(Dim("Unrecognized code; shown as-is.") + "\n")
	}
	return b.String()
}
