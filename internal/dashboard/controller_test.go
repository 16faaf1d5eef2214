package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/contract"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/predict"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/service"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T, fake *testutil.FakePredictor) *Controller {
	t.Helper()
	return New(service.NewAdviceService(service.AdviceDeps{Client: fake}), domain.SchemaV2)
}

func TestController_StartsIdleWithDefaults(t *testing.T) {
	c := newController(t, testutil.NewFakePredictor(testutil.NewTestResult()))

	assert.Equal(t, PhaseIdle, c.Phase())
	assert.False(t, c.Loading())
	assert.Nil(t, c.Advice())
	assert.Equal(t, domain.DefaultReading(), c.Reading())
	assert.InDelta(t, 7407.41, c.Metrics().Flow, 0.01)
}

func TestController_SetFieldCoercesAndRecomputes(t *testing.T) {
	c := newController(t, testutil.NewFakePredictor(testutil.NewTestResult()))

	require.NoError(t, c.SetField(domain.FieldConsistency, "abc"))
	assert.Equal(t, 0.0, c.Reading().Consistency)
	vm := c.View()
	assert.Equal(t, domain.Placeholder, vm.Metrics.FlowDisplay())
	assert.Equal(t, domain.Placeholder, vm.Metrics.RetentionDisplay())

	require.NoError(t, c.SetField(domain.FieldConsistency, "10.5"))
	assert.InDelta(t, 7407.41, c.Metrics().Flow, 0.01)

	assert.ErrorIs(t, c.SetField(domain.Field("bogus"), "1"), domain.ErrUnknownField)
}

func TestController_SubmitSucceeds(t *testing.T) {
	fake := testutil.NewFakePredictor(testutil.NewTestResult(testutil.WithStatus("OPTIMIZED")))
	c := newController(t, fake)

	advice, err := c.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, advice)

	assert.Equal(t, PhaseSucceeded, c.Phase())
	assert.Same(t, advice, c.Advice())
	assert.NoError(t, c.Err())
	assert.Equal(t, "OPTIMIZED", c.View().Advice.Result.ControlStatus)
}

func TestController_SubmitUsesSnapshotAndSchema(t *testing.T) {
	fake := testutil.NewFakePredictor(testutil.NewTestResult())
	c := newController(t, fake)
	c.SetSchema(domain.SchemaV1)
	c.SetSchema("v9")
	require.NoError(t, c.SetField(domain.FieldKappa, "9.1"))

	tk := c.Begin(context.Background())
	require.NoError(t, c.SetField(domain.FieldKappa, "12"))
	advice, err := c.Run(tk)
	require.NoError(t, err)
	assert.True(t, c.Complete(tk, advice, nil))

	assert.Equal(t, 9.1, advice.Reading.Kappa)
	assert.Equal(t, tk.ID, advice.RequestID)
	assert.Equal(t, []domain.SchemaVersion{domain.SchemaV1}, fake.Schemas())
	assert.Equal(t, 12.0, c.Reading().Kappa)
}

func TestController_FailureKeepsPreviousAdvice(t *testing.T) {
	fake := testutil.NewFakePredictor(testutil.NewTestResult())
	c := newController(t, fake)
	first, err := c.Submit(context.Background())
	require.NoError(t, err)

	fake.Set(nil, testutil.ConnectionFailure())
	_, err = c.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, PhaseFailed, c.Phase())
	assert.False(t, c.Loading())
	assert.Same(t, first, c.Advice())
	vm := c.View()
	assert.Equal(t, predict.UserMessage, vm.Error)
	assert.True(t, vm.HasAdvice())

	fake.Set(testutil.NewTestResult(testutil.WithStatus("HOLD_STEADY")), nil)
	second, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Same(t, second, c.Advice())
	assert.Empty(t, c.View().Error)
}

func TestController_NonConnectionErrorShowsGenericMessage(t *testing.T) {
	fake := testutil.NewFakePredictor(testutil.NewTestResult())
	fake.Set(nil, errors.New("boom"))
	c := newController(t, fake)

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, predict.UserMessage, c.View().Error)
	assert.EqualError(t, c.Err(), "boom")
}

func TestController_LoadingWhilePending(t *testing.T) {
	c := newController(t, testutil.NewFakePredictor(testutil.NewTestResult()))

	tk := c.Begin(context.Background())
	assert.True(t, c.Loading())
	assert.True(t, c.View().Loading)

	c.Complete(tk, &contract.Advice{RequestID: tk.ID}, nil)
	assert.False(t, c.Loading())
}

func TestController_SupersedeCancelsInFlight(t *testing.T) {
	block := make(chan struct{})
	fake := testutil.NewFakePredictor(testutil.NewTestResult())
	fake.Block = block
	c := newController(t, fake)

	first := c.Begin(context.Background())
	type outcome struct {
		advice *contract.Advice
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		a, err := c.Run(first)
		done <- outcome{a, err}
	}()

	second := c.Begin(context.Background())
	got := <-done
	assert.ErrorIs(t, got.err, context.Canceled)
	assert.ErrorIs(t, first.Context().Err(), context.Canceled)
	assert.False(t, c.Complete(first, got.advice, got.err))
	assert.True(t, c.Loading())

	close(block)
	advice, err := c.Run(second)
	require.NoError(t, err)
	assert.True(t, c.Complete(second, advice, nil))
	assert.Equal(t, PhaseSucceeded, c.Phase())
	assert.Equal(t, second.ID, c.Advice().RequestID)
}

func TestController_StaleSuccessDropped(t *testing.T) {
	c := newController(t, testutil.NewFakePredictor(testutil.NewTestResult()))

	first := c.Begin(context.Background())
	second := c.Begin(context.Background())

	assert.False(t, c.Complete(first, &contract.Advice{RequestID: first.ID}, nil))
	assert.Nil(t, c.Advice())
	assert.Equal(t, PhasePending, c.Phase())

	assert.True(t, c.Complete(second, &contract.Advice{RequestID: second.ID}, nil))
	assert.Equal(t, second.ID, c.Advice().RequestID)
}

func TestController_CancelReturnsToRestingPhase(t *testing.T) {
	c := newController(t, testutil.NewFakePredictor(testutil.NewTestResult()))

	tk := c.Begin(context.Background())
	c.Cancel()
	assert.Equal(t, PhaseIdle, c.Phase())
	assert.Error(t, tk.Context().Err())
	assert.False(t, c.Complete(tk, nil, context.Canceled))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)
	c.Begin(context.Background())
	c.Cancel()
	assert.Equal(t, PhaseSucceeded, c.Phase())
	assert.NotNil(t, c.Advice())
}

func TestController_ViewFieldsFollowSchema(t *testing.T) {
	c := newController(t, testutil.NewFakePredictor(testutil.NewTestResult()))

	vm := c.View()
	require.Len(t, vm.Fields, 7)
	assert.Equal(t, domain.FieldConsistency, vm.Fields[6].Field)
	assert.Equal(t, "Consistency (%)", vm.Fields[6].Label)

	c.SetSchema(domain.SchemaV1)
	vm = c.View()
	require.Len(t, vm.Fields, 6)
	assert.Equal(t, domain.FieldPulpFlow, vm.Fields[4].Field)
	assert.Equal(t, 750.0, vm.Metrics.Flow)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "pending", PhasePending.String())
	assert.Equal(t, "succeeded", PhaseSucceeded.String())
	assert.Equal(t, "failed", PhaseFailed.String())
}
