package store

import (
	"context"
	"fmt"

	"github.com/nutriplan/backend/internal/models"
)

// MaxSavedPlans caps the archive at the 10 most recent entries;
// the oldest by insertion order is evicted first.
const MaxSavedPlans = 10

// ArchiveRepository persists the saved-protocol archive. The list is
// kept newest-first and scoped per user (see DESIGN.md on the source's
// global archive).
type ArchiveRepository struct {
	rs RecordStore
}

func NewArchiveRepository(rs RecordStore) *ArchiveRepository {
	return &ArchiveRepository{rs: rs}
}

func archiveKey(email string) string {
	return fmt.Sprintf("nutriplan_saved_protocols_%s", NormalizeEmail(email))
}

// List returns the archive newest-first, empty when unset.
func (r *ArchiveRepository) List(ctx context.Context, email string) ([]models.SavedPlan, error) {
	plans := []models.SavedPlan{}
	if _, err := loadJSON(ctx, r.rs, archiveKey(email), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Save prepends a record and trims the list to MaxSavedPlans.
func (r *ArchiveRepository) Save(ctx context.Context, email string, saved models.SavedPlan) error {
	plans, err := r.List(ctx, email)
	if err != nil {
		return err
	}
	plans = append([]models.SavedPlan{saved}, plans...)
	if len(plans) > MaxSavedPlans {
		plans = plans[:MaxSavedPlans]
	}
	return saveJSON(ctx, r.rs, archiveKey(email), plans)
}

// Get returns one archived record by id.
func (r *ArchiveRepository) Get(ctx context.Context, email, id string) (models.SavedPlan, bool, error) {
	plans, err := r.List(ctx, email)
	if err != nil {
		return models.SavedPlan{}, false, err
	}
	for _, p := range plans {
		if p.ID == id {
			return p, true, nil
		}
	}
	return models.SavedPlan{}, false, nil
}

// Delete removes one archived record by id; absent ids are a no-op.
func (r *ArchiveRepository) Delete(ctx context.Context, email, id string) error {
	plans, err := r.List(ctx, email)
	if err != nil {
		return err
	}
	kept := plans[:0]
	for _, p := range plans {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return saveJSON(ctx, r.rs, archiveKey(email), kept)
}
