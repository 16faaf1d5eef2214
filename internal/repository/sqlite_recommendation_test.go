package repository

import (
	"context"
	"testing"
	"time"

	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/domain"
	"github.com/gcarlo11/Data-Driven-K-Optimization-for-ClO2/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *SQLiteRecommendationRepo {
	t.Helper()
	return NewSQLiteRecommendationRepo(testutil.NewTestDB(t))
}

func TestRecommendationRepo_CreateAndGetByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	result := testutil.NewTestResult(
		testutil.WithStatus("SAFETY_OVERBLEACH"),
		testutil.WithDoses(21.0, 25.0),
		testutil.WithOptimizedOutlet(70.2),
		testutil.WithReason("Outlet above ceiling"),
	)
	flow := 7407.41
	result.FlowCalculated = &flow

	rec := testutil.NewTestRecord(result, testutil.WithSchema(domain.SchemaV1))
	rec.Reading.PulpFlow = 812.5
	require.NoError(t, repo.Create(ctx, rec))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, domain.SchemaV1, got.Schema)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Millisecond)
	assert.Equal(t, rec.Reading, got.Reading)

	assert.Equal(t, 21.0, got.Result.RecommendedDose)
	assert.Equal(t, 25.0, got.Result.CurrentDose)
	assert.Equal(t, -4.0, got.Result.Delta)
	assert.Equal(t, "SAFETY_OVERBLEACH", got.Result.ControlStatus)
	assert.Equal(t, "Outlet above ceiling", got.Result.Reason)
	assert.Equal(t, domain.ShapeDualEstimate, got.Result.Shape)
	require.NotNil(t, got.Result.PredictedOutletOptimized)
	assert.Equal(t, 70.2, *got.Result.PredictedOutletOptimized)
	require.NotNil(t, got.Result.FlowCalculated)
	assert.Equal(t, 7407.41, *got.Result.FlowCalculated)
	assert.Nil(t, got.Result.RetentionCalculated)
}

func TestRecommendationRepo_GetByID_NotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecommendationRepo_ListRecent_NewestFirst(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 4; i++ {
		rec := testutil.NewTestRecord(testutil.NewTestResult(), testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, repo.Create(ctx, rec))
		ids = append(ids, rec.ID)
	}

	list, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[3], list[0].ID)
	assert.Equal(t, ids[2], list[1].ID)
	assert.Equal(t, ids[1], list[2].ID)

	none, err := repo.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecommendationRepo_SameInstantOrdersByInsertion(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	first := testutil.NewTestRecord(testutil.NewTestResult(), testutil.WithCreatedAt(at))
	second := testutil.NewTestRecord(testutil.NewTestResult(), testutil.WithCreatedAt(at))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestRecommendationRepo_PruneKeepLatest(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	var newest string
	for i := 0; i < 5; i++ {
		rec := testutil.NewTestRecord(testutil.NewTestResult(), testutil.WithCreatedAt(base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, repo.Create(ctx, rec))
		newest = rec.ID
	}

	removed, err := repo.PruneKeepLatest(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, newest, list[0].ID)
}

func TestRecommendationRepo_DuplicateIDRejected(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	rec := testutil.NewTestRecord(testutil.NewTestResult())
	require.NoError(t, repo.Create(ctx, rec))
	assert.Error(t, repo.Create(ctx, rec))
}

func TestRecommendationRepo_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	database, path := testutil.NewTestFileDB(t)

	rec := testutil.NewTestRecord(testutil.NewTestResult(testutil.WithStatus("RATE_LIMITED")))
	require.NoError(t, NewSQLiteRecommendationRepo(database).Create(ctx, rec))
	require.NoError(t, database.Close())

	got, err := NewSQLiteRecommendationRepo(testutil.ReopenTestDB(t, path)).GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "RATE_LIMITED", got.Result.ControlStatus)
	assert.Equal(t, rec.Reading, got.Reading)
}
