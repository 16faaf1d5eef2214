package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v2Response = `{
	"recommended_dose": 23.1,
	"current_dose": 25.0,
	"delta_dose": -1.9,
	"estimated_outlet_current": 71.2,
	"predicted_outlet_optimized": 70.1,
	"k_optimal": 2.72,
	"k_current": 2.94,
	"flow_calculated": 7407.41,
	"retention_calculated": 3.65,
	"control_status": "OPTIMIZED",
	"reason": "Dose reduced to target brightness"
}`

func testConfig(endpoint string) Config {
	return Config{Endpoint: endpoint, Timeout: 2 * time.Second, BreakerFailures: 5}
}

// recordingObserver keeps every event for assertions.
type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() CallEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

func TestSubmit_SuccessV2(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body, 7)
		assert.Equal(t, 8.5, body["kappa"])
		assert.Equal(t, 700.0, body["production_rate"])
		assert.Equal(t, 10.5, body["consistency"])
		assert.NotContains(t, body, "pulp_flow")

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, v2Response)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(testConfig(srv.URL), obs)

	res, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())
	require.NoError(t, err)

	assert.Equal(t, 23.1, res.RecommendedDose)
	assert.Equal(t, 25.0, res.CurrentDose)
	assert.Equal(t, -1.9, res.Delta)
	assert.Equal(t, 71.2, res.EstimatedOutletCurrent)
	require.NotNil(t, res.PredictedOutletOptimized)
	assert.Equal(t, 70.1, *res.PredictedOutletOptimized)
	assert.Equal(t, "OPTIMIZED", res.ControlStatus)
	assert.Equal(t, domain.ShapeDualEstimate, res.Shape)

	ev := obs.last()
	assert.True(t, ev.Success)
	assert.Equal(t, "/predict", ev.Endpoint)
	assert.Equal(t, domain.SchemaV2, ev.Schema)
}

func TestSubmit_SuccessV1(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body, 6)
		assert.Equal(t, 750.0, body["pulp_flow"])
		assert.NotContains(t, body, "production_rate")

		io.WriteString(w, `{"recommended_dose": 26.5, "current_dose": 25, "delta": 1.5,
			"estimated_outlet": 68.4, "k_optimal": 3.1, "k_current": 2.9, "control_status": "OPTIMIZATION_ACTION"}`)
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL), nil)
	res, err := client.Submit(context.Background(), domain.SchemaV1, domain.DefaultReading())
	require.NoError(t, err)

	assert.Equal(t, 1.5, res.Delta)
	assert.Equal(t, 68.4, res.EstimatedOutletCurrent)
	assert.Nil(t, res.PredictedOutletOptimized)
	assert.Equal(t, domain.ShapeSingleEstimate, res.Shape)
}

func TestSubmit_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Models not initialized"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(testConfig(srv.URL), obs)
	res, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())

	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.ErrorIs(t, err, ErrBadStatus)
	assert.Equal(t, UserMessage, err.Error())
	assert.Equal(t, "BAD_STATUS", obs.last().ErrorCode)
	assert.False(t, obs.last().Success)
}

func TestSubmit_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewHTTPClient(testConfig(url), nil)
	_, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, UserMessage, err.Error())
}

func TestSubmit_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewHTTPClient(cfg, nil)

	_, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsConnectionError(err))
}

func TestSubmit_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>gateway</html>`)
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL), nil)
	_, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())

	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.True(t, IsConnectionError(err))
}

func TestSubmit_CanceledByCaller(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewHTTPClient(testConfig(srv.URL), obs)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := client.Submit(ctx, domain.SchemaV2, domain.DefaultReading())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsConnectionError(err))
	assert.Equal(t, "CANCELED", obs.last().ErrorCode)
}

func TestSubmit_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BreakerFailures = 2
	obs := &recordingObserver{}
	client := NewHTTPClient(cfg, obs)

	for i := 0; i < 2; i++ {
		_, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())
		assert.ErrorIs(t, err, ErrBadStatus)
	}

	_, err := client.Submit(context.Background(), domain.SchemaV2, domain.DefaultReading())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, UserMessage, err.Error())
	assert.Equal(t, "CIRCUIT_OPEN", obs.last().ErrorCode)
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the server")
}

func TestSubmit_UnsupportedSchema(t *testing.T) {
	client := NewHTTPClient(testConfig("http://127.0.0.1:1"), nil)
	_, err := client.Submit(context.Background(), domain.SchemaVersion("v9"), domain.DefaultReading())
	require.Error(t, err)
	assert.False(t, IsConnectionError(err))
}

func TestHealthAndInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/health":
			io.WriteString(w, `{"status":"healthy","models_loaded":true}`)
		case "/":
			io.WriteString(w, `{"message":"D0 optimizer","version":"2.0","architecture":"Two-Stage",
				"endpoints":{"POST /predict":"recommendation","GET /health":"health"}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(testConfig(srv.URL+"/"), nil)

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, h.Healthy())

	info, err := client.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.0", info.Version)
	assert.Len(t, info.Endpoints, 2)
}

func TestHealth_ModelsNotLoaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"status":"healthy","models_loaded":false}`)
	}))
	defer srv.Close()

	h, err := NewHTTPClient(testConfig(srv.URL), nil).Health(context.Background())
	require.NoError(t, err)
	assert.False(t, h.Healthy())
}

func TestConnectionError_Detail(t *testing.T) {
	err := &ConnectionError{Code: "UNAVAILABLE", Err: ErrServiceUnavailable}
	assert.Equal(t, UserMessage, err.Error())
	assert.Equal(t, ErrServiceUnavailable.Error(), err.Detail())
	assert.True(t, errors.Is(err, ErrServiceUnavailable))
	assert.Equal(t, "", (&ConnectionError{}).Detail())
}
