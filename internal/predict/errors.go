package predict

import "errors"

var (
	// ErrServiceUnavailable indicates the prediction service could not be reached,
	// including when the circuit breaker is open.
	ErrServiceUnavailable = errors.New("prediction service unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("prediction request timed out")

	// ErrBadStatus indicates the service answered with a non-2xx status.
	ErrBadStatus = errors.New("prediction service returned an error status")

	// ErrInvalidResponse indicates a 2xx body that could not be decoded into
	// a recommendation.
	ErrInvalidResponse = errors.New("invalid prediction response")
)

// UserMessage is the single operator-facing text for every transport failure.
const UserMessage = "Could not connect to the prediction service."

// ConnectionError is the only failure a submission surfaces to the operator.
// Error returns UserMessage regardless of cause; the cause stays reachable
// through errors.Is/As for logging.
type ConnectionError struct {
	Code string
	Err  error
}

func (e *ConnectionError) Error() string {
	return UserMessage
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Detail returns the underlying cause for diagnostics.
func (e *ConnectionError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// IsConnectionError reports whether err is (or wraps) a *ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
