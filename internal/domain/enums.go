package domain

// SchemaVersion selects the wire shape exchanged with the prediction service.
type SchemaVersion string

const (
	// SchemaV1 sends pulp_flow as entered by the operator.
	SchemaV1 SchemaVersion = "v1"
	// SchemaV2 sends production_rate and consistency; flow is derived.
	SchemaV2 SchemaVersion = "v2"
)

// ValidSchemaVersions is the canonical set of accepted schema strings.
var ValidSchemaVersions = map[string]bool{
	"v1": true, "v2": true,
}

func (s SchemaVersion) Valid() bool {
	return ValidSchemaVersions[string(s)]
}

// ResultShape records which outlet-brightness estimates a response carried.
type ResultShape string

const (
	ShapeSingleEstimate ResultShape = "single"
	ShapeDualEstimate   ResultShape = "dual"
)

// Direction is the sign of a dose adjustment.
type Direction string

const (
	DirectionHold     Direction = "hold"
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)
