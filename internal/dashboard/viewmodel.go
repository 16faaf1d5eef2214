package dashboard

import (
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
)

// FieldValue is one editable input as shown in the form.
type FieldValue struct {
	Field domain.Field
	Label string
	Value float64
}

// ViewModel is a consistent copy of the controller state for rendering.
type ViewModel struct {
	Phase   Phase
	Loading bool
	Schema  domain.SchemaVersion

	Fields  []FieldValue
	Metrics domain.DerivedMetrics

	// Advice is the last successful submission; it survives failures.
	Advice *contract.Advice
	// Error is the operator message of the last failure, empty after a success.
	Error string
}

// HasAdvice reports whether a recommendation is on screen.
func (v ViewModel) HasAdvice() bool {
	return v.Advice != nil
}

// View snapshots the controller.
func (c *Controller) View() ViewModel {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields := domain.FieldsFor(c.schema)
	values := make([]FieldValue, 0, len(fields))
	for _, f := range fields {
		v, _ := c.reading.Get(f)
		values = append(values, FieldValue{Field: f, Label: f.Label(), Value: v})
	}

	vm := ViewModel{
		Phase:   c.phase,
		Loading: c.phase == PhasePending,
		Schema:  c.schema,
		Fields:  values,
		Metrics: c.reading.MetricsFor(c.schema),
		Advice:  c.advice,
	}
	if c.lastErr != nil {
		vm.Error = errorMessage(c.lastErr)
	}
	return vm
}

func errorMessage(err error) string {
	if predict.IsConnectionError(err) {
		return err.Error()
	}
	return predict.UserMessage
}
