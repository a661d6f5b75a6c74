package store

import (
	"context"
	"fmt"

	"github.com/nutriplan/backend/internal/models"
)

// TrackerRepository persists daily task sheets, one record per user
// per calendar day. Sheets are keyed by date and never merged.
type TrackerRepository struct {
	rs RecordStore
}

func NewTrackerRepository(rs RecordStore) *TrackerRepository {
	return &TrackerRepository{rs: rs}
}

func trackerKey(email, date string) string {
	return fmt.Sprintf("wellness_tracker_%s_%s", date, NormalizeEmail(email))
}

// Load returns the sheet for the given date, or found=false.
func (r *TrackerRepository) Load(ctx context.Context, email, date string) (*models.DailyTaskSheet, bool, error) {
	var sheet models.DailyTaskSheet
	found, err := loadJSON(ctx, r.rs, trackerKey(email, date), &sheet)
	if err != nil || !found {
		return nil, false, err
	}
	if sheet.Tasks == nil {
		sheet.Tasks = make(map[string]bool)
	}
	if sheet.LoggedFoods == nil {
		sheet.LoggedFoods = []models.LoggedFood{}
	}
	return &sheet, true, nil
}

// Save persists the whole sheet under its date key.
func (r *TrackerRepository) Save(ctx context.Context, email string, sheet *models.DailyTaskSheet) error {
	return saveJSON(ctx, r.rs, trackerKey(email, sheet.Date), sheet)
}
