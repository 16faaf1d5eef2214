package predict

import (
	"encoding/json"
	"fmt"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
)

// requestV1 is the POST /predict body when pulp flow is entered directly.
type requestV1 struct {
	Kappa           float64 `json:"kappa"`
	Temperature     float64 `json:"temperature"`
	PH              float64 `json:"ph"`
	InletBrightness float64 `json:"inlet_brightness"`
	PulpFlow        float64 `json:"pulp_flow"`
	CurrentDose     float64 `json:"current_dose"`
}

// requestV2 is the POST /predict body when flow is derived server-side from
// production rate and consistency.
type requestV2 struct {
	Kappa           float64 `json:"kappa"`
	Temperature     float64 `json:"temperature"`
	PH              float64 `json:"ph"`
	InletBrightness float64 `json:"inlet_brightness"`
	CurrentDose     float64 `json:"current_dose"`
	ProductionRate  float64 `json:"production_rate"`
	Consistency     float64 `json:"consistency"`
}

// EncodeRequest builds the JSON body for schema. Non-finite values are sent
// as 0 so the body is always valid JSON.
func EncodeRequest(schema domain.SchemaVersion, r domain.ProcessReading) ([]byte, error) {
	switch schema {
	case domain.SchemaV1:
		return json.Marshal(requestV1{
			Kappa:           num(r.Kappa),
			Temperature:     num(r.Temperature),
			PH:              num(r.PH),
			InletBrightness: num(r.InletBrightness),
			PulpFlow:        num(r.PulpFlow),
			CurrentDose:     num(r.CurrentDose),
		})
	case domain.SchemaV2:
		return json.Marshal(requestV2{
			Kappa:           num(r.Kappa),
			Temperature:     num(r.Temperature),
			PH:              num(r.PH),
			InletBrightness: num(r.InletBrightness),
			CurrentDose:     num(r.CurrentDose),
			ProductionRate:  num(r.ProductionRate),
			Consistency:     num(r.Consistency),
		})
	}
	return nil, fmt.Errorf("unsupported schema version %q", schema)
}

func num(v float64) float64 {
	if !domain.IsFinite(v) {
		return 0
	}
	return v
}

// rawResponse covers every field name the service has used. Everything is
// optional at this layer; normalize decides what is required.
type rawResponse struct {
	RecommendedDose          *float64 `json:"recommended_dose"`
	CurrentDose              *float64 `json:"current_dose"`
	DeltaDose                *float64 `json:"delta_dose"`
	Delta                    *float64 `json:"delta"`
	EstimatedOutletCurrent   *float64 `json:"estimated_outlet_current"`
	EstimatedOutlet          *float64 `json:"estimated_outlet"`
	PredictedOutletOptimized *float64 `json:"predicted_outlet_optimized"`
	KOptimal                 *float64 `json:"k_optimal"`
	KCurrent                 *float64 `json:"k_current"`
	ControlStatus            string   `json:"control_status"`
	Reason                   string   `json:"reason"`
	FlowCalculated           *float64 `json:"flow_calculated"`
	RetentionCalculated      *float64 `json:"retention_calculated"`
}

// DecodeResult parses a /predict body into a RecommendationResult.
// submittedDose is used only when the service did not echo current_dose.
func DecodeResult(body []byte, submittedDose float64) (*domain.RecommendationResult, error) {
	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return raw.normalize(submittedDose)
}

func (r rawResponse) normalize(submittedDose float64) (*domain.RecommendationResult, error) {
	if r.RecommendedDose == nil {
		return nil, fmt.Errorf("%w: missing recommended_dose", ErrInvalidResponse)
	}
	recommended := *r.RecommendedDose
	current := domain.FirstSet(submittedDose, r.CurrentDose)

	shape := domain.ShapeSingleEstimate
	if r.PredictedOutletOptimized != nil {
		shape = domain.ShapeDualEstimate
	}

	return &domain.RecommendationResult{
		RecommendedDose:          recommended,
		CurrentDose:              current,
		Delta:                    domain.FirstSet(recommended-current, r.DeltaDose, r.Delta),
		KOptimal:                 domain.FirstSet(0, r.KOptimal),
		KCurrent:                 domain.FirstSet(0, r.KCurrent),
		EstimatedOutletCurrent:   domain.FirstSet(0, r.EstimatedOutletCurrent, r.EstimatedOutlet),
		PredictedOutletOptimized: r.PredictedOutletOptimized,
		ControlStatus:            r.ControlStatus,
		Reason:                   r.Reason,
		FlowCalculated:           r.FlowCalculated,
		RetentionCalculated:      r.RetentionCalculated,
		Shape:                    shape,
	}, nil
}

// HealthStatus is the GET /health body.
type HealthStatus struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
}

// Healthy reports whether the service is up with its models loaded.
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy" && h.ModelsLoaded
}

// ServiceInfo is the GET / body.
type ServiceInfo struct {
	Message      string            `json:"message"`
	Version      string            `json:"version"`
	Architecture string            `json:"architecture"`
	Endpoints    map[string]string `json:"endpoints"`
}
