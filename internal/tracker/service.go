// Package tracker maintains the per-calendar-day sheet of completed
// plan tasks and manually logged foods.
package tracker

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/store"
)

// NutritionEstimator is the slice of the AI gateway the tracker needs.
type NutritionEstimator interface {
	EstimateNutrition(ctx context.Context, foods []string) (*models.NutritionSummary, error)
}

// Service loads, mutates and persists daily task sheets. Every
// mutation writes the full sheet back immediately.
type Service struct {
	repo      *store.TrackerRepository
	estimator NutritionEstimator
	now       func() time.Time
}

func NewService(repo *store.TrackerRepository, estimator NutritionEstimator) *Service {
	return &Service{repo: repo, estimator: estimator, now: time.Now}
}

func (s *Service) today() string {
	return s.now().Format("2006-01-02")
}

// LoadForToday returns today's sheet, initializing an empty one when
// none exists yet.
func (s *Service) LoadForToday(ctx context.Context, email string) (*models.DailyTaskSheet, error) {
	date := s.today()
	sheet, found, err := s.repo.Load(ctx, email, date)
	if err != nil {
		return nil, err
	}
	if !found {
		sheet = models.NewDailyTaskSheet(date)
	}
	return sheet, nil
}

// ToggleTask flips the completion flag for a task key; absent keys
// default to false before toggling.
func (s *Service) ToggleTask(ctx context.Context, email, key string) (*models.DailyTaskSheet, error) {
	sheet, err := s.LoadForToday(ctx, email)
	if err != nil {
		return nil, err
	}
	sheet.Tasks[key] = !sheet.Tasks[key]
	if err := s.repo.Save(ctx, email, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// LogFood appends a food item to today's sheet. Blank input is a
// silent no-op.
func (s *Service) LogFood(ctx context.Context, email, name string) (*models.DailyTaskSheet, error) {
	sheet, err := s.LoadForToday(ctx, email)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return sheet, nil
	}
	sheet.LoggedFoods = append(sheet.LoggedFoods, models.LoggedFood{
		ID:        uuid.New().String(),
		Name:      name,
		Timestamp: s.now().Format("15:04"),
	})
	if err := s.repo.Save(ctx, email, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// RemoveFood deletes a logged food by id; absent ids are a no-op.
func (s *Service) RemoveFood(ctx context.Context, email, id string) (*models.DailyTaskSheet, error) {
	sheet, err := s.LoadForToday(ctx, email)
	if err != nil {
		return nil, err
	}
	kept := sheet.LoggedFoods[:0]
	for _, f := range sheet.LoggedFoods {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	sheet.LoggedFoods = kept
	if err := s.repo.Save(ctx, email, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// RefreshNutrition re-estimates totals for today's logged foods. With
// nothing logged it is a no-op; on upstream failure the previous
// estimate is kept.
func (s *Service) RefreshNutrition(ctx context.Context, email string) (*models.DailyTaskSheet, error) {
	sheet, err := s.LoadForToday(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(sheet.LoggedFoods) == 0 {
		return sheet, nil
	}
	names := make([]string, len(sheet.LoggedFoods))
	for i, f := range sheet.LoggedFoods {
		names[i] = f.Name
	}
	summary, err := s.estimator.EstimateNutrition(ctx, names)
	if err != nil {
		slog.Warn("nutrition estimation failed", "error", err)
		return sheet, nil
	}
	sheet.CustomNutrition = summary
	if err := s.repo.Save(ctx, email, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Progress returns the completion percentage for a sheet against the
// active plan: completed tasks (truthy, key not containing "complete")
// over all addressable plan entries, rounded. Zero when the plan has
// no entries.
func Progress(sheet *models.DailyTaskSheet, plan *models.WellnessPlan) int {
	if plan == nil {
		return 0
	}
	total := len(plan.MealPlan) + len(plan.WorkoutPlan) + len(plan.YogaPlan)
	if total == 0 {
		return 0
	}
	completed := 0
	for key, done := range sheet.Tasks {
		if done && !strings.Contains(key, "complete") {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
