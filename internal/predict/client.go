// Package predict talks to the external dose-prediction service.
//
// One Submit is one POST /predict. There are no retries: a failure is
// reported once as a *ConnectionError and a circuit breaker makes repeated
// failures fail fast. Cancelling the caller's context aborts the request and
// returns context.Canceled unwrapped from any ConnectionError.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/sony/gobreaker/v2"
)

const (
	pathPredict = "/predict"
	pathHealth  = "/health"
	pathInfo    = "/"

	// maxErrorBody bounds how much of a non-2xx body ends up in an error.
	maxErrorBody = 256
)

// Client is the prediction service.
type Client interface {
	// Submit sends one reading and returns the service's recommendation.
	Submit(ctx context.Context, schema domain.SchemaVersion, reading domain.ProcessReading) (*domain.RecommendationResult, error)

	// Health fetches GET /health.
	Health(ctx context.Context) (*HealthStatus, error)

	// Info fetches GET /.
	Info(ctx context.Context) (*ServiceInfo, error)
}

// Config holds client settings.
type Config struct {
	Endpoint        string
	Timeout         time.Duration
	BreakerFailures uint32
}

type httpClient struct {
	cfg      Config
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[[]byte]
	observer Observer
}

// NewHTTPClient creates a Client for the service at cfg.Endpoint.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	failures := cfg.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "predict",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// A superseded request says nothing about service health.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		breaker:  cb,
		observer: observer,
	}
}

func (c *httpClient) Submit(ctx context.Context, schema domain.SchemaVersion, reading domain.ProcessReading) (*domain.RecommendationResult, error) {
	start := time.Now()

	body, err := EncodeRequest(schema, reading)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, http.MethodPost, pathPredict, body)
	})

	var res *domain.RecommendationResult
	if err == nil {
		res, err = DecodeResult(data, reading.CurrentDose)
	}
	err = c.translate(ctx, err)

	c.observer.OnCallComplete(CallEvent{
		Endpoint:  pathPredict,
		Schema:    schema,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (c *httpClient) Health(ctx context.Context) (*HealthStatus, error) {
	var h HealthStatus
	if err := c.getJSON(ctx, pathHealth, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *httpClient) Info(ctx context.Context) (*ServiceInfo, error) {
	var info ServiceInfo
	if err := c.getJSON(ctx, pathInfo, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	start := time.Now()
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.do(ctx, http.MethodGet, path, nil)
	if err == nil {
		if jerr := json.Unmarshal(data, out); jerr != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidResponse, jerr)
		}
	}
	err = c.translate(ctx, err)

	c.observer.OnCallComplete(CallEvent{
		Endpoint:  path,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *httpClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, c.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func (c *httpClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d %s", ErrBadStatus, httpResp.StatusCode, truncate(respBody))
	}
	return respBody, nil
}

// translate maps any failure onto a *ConnectionError, except cancellation by
// the caller which is returned as context.Canceled.
func (c *httpClient) translate(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &ConnectionError{Code: "TIMEOUT", Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("prediction request superseded: %w", context.Canceled)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return &ConnectionError{Code: "CIRCUIT_OPEN", Err: fmt.Errorf("%w: %w", ErrServiceUnavailable, err)}
	case errors.Is(err, ErrBadStatus):
		return &ConnectionError{Code: "BAD_STATUS", Err: err}
	case errors.Is(err, ErrInvalidResponse):
		return &ConnectionError{Code: "INVALID_RESPONSE", Err: err}
	default:
		return &ConnectionError{Code: "UNAVAILABLE", Err: fmt.Errorf("%w: %v", ErrServiceUnavailable, err)}
	}
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var ce *ConnectionError
	if errors.As(err, &ce) {
		return ce.Code
	}
	if errors.Is(err, context.Canceled) {
		return "CANCELED"
	}
	return "UNKNOWN"
}

func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
