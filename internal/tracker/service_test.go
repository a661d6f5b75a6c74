package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEstimator struct {
	calls   int
	summary *models.NutritionSummary
	err     error
}

func (f *fakeEstimator) EstimateNutrition(ctx context.Context, foods []string) (*models.NutritionSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func newTestService(t *testing.T, estimator NutritionEstimator) *Service {
	t.Helper()
	db, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	svc := NewService(store.NewTrackerRepository(db), estimator)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)
	}
	return svc
}

const email = "a@b.c"

func TestLoadForTodayInitializesEmptySheet(t *testing.T) {
	svc := newTestService(t, &fakeEstimator{})

	sheet, err := svc.LoadForToday(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", sheet.Date)
	assert.Empty(t, sheet.Tasks)
	assert.Empty(t, sheet.LoggedFoods)
	assert.Nil(t, sheet.CustomNutrition)
}

func TestToggleTaskPersists(t *testing.T) {
	svc := newTestService(t, &fakeEstimator{})
	ctx := context.Background()

	sheet, err := svc.ToggleTask(ctx, email, "meal-0")
	require.NoError(t, err)
	assert.True(t, sheet.Tasks["meal-0"])

	sheet, err = svc.ToggleTask(ctx, email, "meal-0")
	require.NoError(t, err)
	assert.False(t, sheet.Tasks["meal-0"])

	reloaded, err := svc.LoadForToday(ctx, email)
	require.NoError(t, err)
	assert.False(t, reloaded.Tasks["meal-0"])
}

func TestLogFood(t *testing.T) {
	svc := newTestService(t, &fakeEstimator{})
	ctx := context.Background()

	sheet, err := svc.LogFood(ctx, email, "  Greek yogurt  ")
	require.NoError(t, err)
	require.Len(t, sheet.LoggedFoods, 1)
	assert.Equal(t, "Greek yogurt", sheet.LoggedFoods[0].Name)
	assert.Equal(t, "09:15", sheet.LoggedFoods[0].Timestamp)
	assert.NotEmpty(t, sheet.LoggedFoods[0].ID)

	// Blank input is a silent no-op.
	sheet, err = svc.LogFood(ctx, email, "   ")
	require.NoError(t, err)
	assert.Len(t, sheet.LoggedFoods, 1)
}

func TestRemoveFood(t *testing.T) {
	svc := newTestService(t, &fakeEstimator{})
	ctx := context.Background()

	sheet, err := svc.LogFood(ctx, email, "Apple")
	require.NoError(t, err)
	id := sheet.LoggedFoods[0].ID

	sheet, err = svc.RemoveFood(ctx, email, id)
	require.NoError(t, err)
	assert.Empty(t, sheet.LoggedFoods)

	// Removing an unknown id is a no-op.
	sheet, err = svc.RemoveFood(ctx, email, "nope")
	require.NoError(t, err)
	assert.Empty(t, sheet.LoggedFoods)
}

func TestRefreshNutrition(t *testing.T) {
	estimator := &fakeEstimator{summary: &models.NutritionSummary{Calories: 540, Protein: 30}}
	svc := newTestService(t, estimator)
	ctx := context.Background()

	_, err := svc.LogFood(ctx, email, "Apple")
	require.NoError(t, err)

	sheet, err := svc.RefreshNutrition(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, sheet.CustomNutrition)
	assert.Equal(t, float64(540), sheet.CustomNutrition.Calories)
	assert.Equal(t, 1, estimator.calls)
}

func TestRefreshNutritionNoFoodsMakesNoCall(t *testing.T) {
	estimator := &fakeEstimator{}
	svc := newTestService(t, estimator)

	sheet, err := svc.RefreshNutrition(context.Background(), email)
	require.NoError(t, err)
	assert.Nil(t, sheet.CustomNutrition)
	assert.Zero(t, estimator.calls)
}

func TestRefreshNutritionFailureKeepsPrevious(t *testing.T) {
	estimator := &fakeEstimator{summary: &models.NutritionSummary{Calories: 540}}
	svc := newTestService(t, estimator)
	ctx := context.Background()

	_, err := svc.LogFood(ctx, email, "Apple")
	require.NoError(t, err)
	_, err = svc.RefreshNutrition(ctx, email)
	require.NoError(t, err)

	estimator.err = errors.New("quota exceeded")
	sheet, err := svc.RefreshNutrition(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, sheet.CustomNutrition)
	assert.Equal(t, float64(540), sheet.CustomNutrition.Calories)
}

func TestProgress(t *testing.T) {
	plan := &models.WellnessPlan{
		MealPlan:    make([]models.Meal, 5),
		WorkoutPlan: make([]models.Exercise, 4),
		YogaPlan:    make([]models.YogaPose, 4),
	}
	sheet := models.NewDailyTaskSheet("2026-08-30")
	sheet.Tasks["meal-0"] = true
	sheet.Tasks["meal-1"] = true
	sheet.Tasks["workout-0"] = true
	sheet.Tasks["yoga-3"] = true
	sheet.Tasks["meal-2"] = false
	// Aggregate flags are excluded from the count.
	sheet.Tasks["all-complete"] = true

	// 4 of 13 entries done, rounded.
	assert.Equal(t, 31, Progress(sheet, plan))
}

func TestProgressEdgeCases(t *testing.T) {
	sheet := models.NewDailyTaskSheet("2026-08-30")
	sheet.Tasks["meal-0"] = true

	assert.Zero(t, Progress(sheet, nil))
	assert.Zero(t, Progress(sheet, &models.WellnessPlan{}))

	full := &models.WellnessPlan{MealPlan: make([]models.Meal, 1)}
	assert.Equal(t, 100, Progress(sheet, full))
}
