// Package dashboard owns the operator-facing state of one advisor session:
// the live reading, the request in flight, the last advice and the last
// error. Every mutation goes through Controller.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/service"
	"github.com/google/uuid"
)

// Phase is the request lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Ticket identifies one submission. Only the most recent ticket may change
// controller state.
type Ticket struct {
	ID      string
	Schema  domain.SchemaVersion
	Reading domain.ProcessReading

	ctx    context.Context
	cancel context.CancelFunc
}

// Context is cancelled when the ticket is superseded or cancelled.
func (t *Ticket) Context() context.Context {
	return t.ctx
}

func (t *Ticket) Request() contract.AdviceRequest {
	return contract.AdviceRequest{RequestID: t.ID, Schema: t.Schema, Reading: t.Reading}
}

// Controller is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	svc     service.AdviceService
	schema  domain.SchemaVersion
	reading domain.ProcessReading

	phase   Phase
	current *Ticket
	advice  *contract.Advice
	lastErr error
}

// New returns an idle controller holding the default reading.
func New(svc service.AdviceService, schema domain.SchemaVersion) *Controller {
	if !schema.Valid() {
		schema = domain.SchemaV2
	}
	return &Controller{
		svc:     svc,
		schema:  schema,
		reading: domain.DefaultReading(),
	}
}

func (c *Controller) Schema() domain.SchemaVersion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schema
}

// SetSchema switches the wire schema for the next submission. Invalid
// values are ignored.
func (c *Controller) SetSchema(s domain.SchemaVersion) {
	if !s.Valid() {
		return
	}
	c.mu.Lock()
	c.schema = s
	c.mu.Unlock()
}

func (c *Controller) Reading() domain.ProcessReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reading
}

// SetReading replaces the whole live reading.
func (c *Controller) SetReading(r domain.ProcessReading) {
	c.mu.Lock()
	c.reading = r
	c.mu.Unlock()
}

// SetField coerces raw into the named field. Malformed input becomes 0.
func (c *Controller) SetField(f domain.Field, raw string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reading.SetField(f, raw)
}

// Metrics derives flow and retention from the live reading.
func (c *Controller) Metrics() domain.DerivedMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reading.MetricsFor(c.schema)
}

// Begin snapshots the live reading into a new pending ticket, cancelling
// any request still in flight.
func (c *Controller) Begin(parent context.Context) *Ticket {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.cancel()
	}
	t := &Ticket{
		ID:      uuid.New().String(),
		Schema:  c.schema,
		Reading: c.reading,
		ctx:     ctx,
		cancel:  cancel,
	}
	c.current = t
	c.phase = PhasePending
	return t
}

// Run performs the submission for t. It does not touch controller state.
func (c *Controller) Run(t *Ticket) (*contract.Advice, error) {
	return c.svc.Recommend(t.ctx, t.Request())
}

// Complete applies the outcome of t and reports whether it was applied.
// Outcomes of superseded tickets are dropped. A failure keeps the previous
// advice on screen.
func (c *Controller) Complete(t *Ticket, advice *contract.Advice, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t == nil || c.current != t {
		return false
	}
	t.cancel()
	c.current = nil

	switch {
	case err == nil && advice != nil:
		c.advice = advice
		c.lastErr = nil
		c.phase = PhaseSucceeded
	case errors.Is(err, context.Canceled):
		c.phase = c.restingPhase()
	default:
		if err == nil {
			err = &predict.ConnectionError{Code: "INVALID_RESPONSE", Err: predict.ErrInvalidResponse}
		}
		c.lastErr = err
		c.phase = PhaseFailed
	}
	return true
}

// Cancel abandons the request in flight, if any.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return
	}
	c.current.cancel()
	c.current = nil
	c.phase = c.restingPhase()
}

func (c *Controller) restingPhase() Phase {
	switch {
	case c.lastErr != nil:
		return PhaseFailed
	case c.advice != nil:
		return PhaseSucceeded
	default:
		return PhaseIdle
	}
}

// Submit runs one full submission synchronously and returns its error.
func (c *Controller) Submit(ctx context.Context) (*contract.Advice, error) {
	t := c.Begin(ctx)
	advice, err := c.Run(t)
	c.Complete(t, advice, err)
	return advice, err
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Loading is true only while a request is pending.
func (c *Controller) Loading() bool {
	return c.Phase() == PhasePending
}

// Advice returns the last successful advice, or nil.
func (c *Controller) Advice() *contract.Advice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advice
}

// Err returns the error of the last failed submission, cleared by the next
// success.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
