// Package plans owns the per-user active plan and the saved-protocol
// archive, and drives the enrichment pipeline whenever the active
// plan reference changes.
package plans

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/bus"
	"github.com/nutriplan/backend/internal/enrich"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/store"
)

var (
	ErrNoActivePlan = errors.New("no active plan")
	ErrPlanNotFound = errors.New("saved plan not found")
	ErrBadMealIndex = errors.New("meal index out of range")
)

// PlanSynthesizer is the slice of the AI gateway the manager needs
// beyond image synthesis.
type PlanSynthesizer interface {
	enrich.ImageSynthesizer
	SynthesizePlan(ctx context.Context, profile models.UserProfile) (*models.WellnessPlan, error)
}

// MealEdit is a direct user text edit to one meal entry of the active
// plan. Image backfill and manual edits share the snapshot with
// last-write-wins semantics.
type MealEdit struct {
	Meal             string   `json:"meal"`
	Suggestions      []string `json:"suggestions"`
	PreparationSteps []string `json:"preparationSteps"`
}

// Manager keeps one active plan per user in memory as a working copy;
// nothing is durable until the user archives it explicitly.
type Manager struct {
	gateway PlanSynthesizer
	archive *store.ArchiveRepository
	events  *bus.Bus
	delay   time.Duration

	mu      sync.Mutex
	active  map[string]*models.WellnessPlan
	cancels map[string]context.CancelFunc
	gens    map[string]uint64
}

func NewManager(gateway PlanSynthesizer, archive *store.ArchiveRepository, events *bus.Bus, delay time.Duration) *Manager {
	return &Manager{
		gateway: gateway,
		archive: archive,
		events:  events,
		delay:   delay,
		active:  make(map[string]*models.WellnessPlan),
		cancels: make(map[string]context.CancelFunc),
		gens:    make(map[string]uint64),
	}
}

// Generate synthesizes a new plan, makes it active, and starts
// enrichment in the background.
func (m *Manager) Generate(ctx context.Context, email string, profile models.UserProfile) (*models.WellnessPlan, error) {
	plan, err := m.gateway.SynthesizePlan(ctx, profile)
	if err != nil {
		return nil, err
	}
	m.setActive(email, plan)
	return plan, nil
}

// setActive replaces the user's plan reference with a fresh pipeline.
// Any enrichment run for the previous plan instance is cancelled.
func (m *Manager) setActive(email string, plan *models.WellnessPlan) {
	m.mu.Lock()
	if cancel, ok := m.cancels[email]; ok {
		cancel()
	}
	m.active[email] = plan
	m.gens[email]++
	gen := m.gens[email]

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancels[email] = cancel
	pipeline := enrich.New(m.gateway, m.delay, func(snapshot *models.WellnessPlan) {
		m.mu.Lock()
		// A cancelled run may deliver one last snapshot for a plan
		// that has since been replaced; drop it.
		if m.gens[email] == gen {
			m.active[email] = snapshot
		}
		m.mu.Unlock()
	})
	m.mu.Unlock()

	go pipeline.Run(runCtx, plan)
}

// Active returns the user's current in-memory plan, if any.
func (m *Manager) Active(email string) (*models.WellnessPlan, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.active[email]
	return plan, ok
}

// UpdateMeal applies a direct user text edit to the active plan.
func (m *Manager) UpdateMeal(email string, index int, edit MealEdit) (*models.WellnessPlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.active[email]
	if !ok {
		return nil, ErrNoActivePlan
	}
	if index < 0 || index >= len(plan.MealPlan) {
		return nil, ErrBadMealIndex
	}
	edited := plan.Clone()
	meal := &edited.MealPlan[index]
	if edit.Meal != "" {
		meal.Meal = edit.Meal
	}
	if edit.Suggestions != nil {
		meal.Suggestions = edit.Suggestions
	}
	if edit.PreparationSteps != nil {
		meal.PreparationSteps = edit.PreparationSteps
	}
	m.active[email] = edited
	return edited, nil
}

// Save archives a snapshot of the active plan and publishes the
// storage-updated signal.
func (m *Manager) Save(ctx context.Context, email string) (models.SavedPlan, error) {
	plan, ok := m.Active(email)
	if !ok {
		return models.SavedPlan{}, ErrNoActivePlan
	}
	saved := models.SavedPlan{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Label:     fmt.Sprintf("%.0f Kcal Protocol", plan.DailyCalories),
		Plan:      *plan.Clone(),
	}
	if err := m.archive.Save(ctx, email, saved); err != nil {
		return models.SavedPlan{}, err
	}
	m.events.Publish(bus.Event{Topic: bus.TopicStorageUpdated, Email: email})
	return saved, nil
}

// List returns the user's archive, newest first.
func (m *Manager) List(ctx context.Context, email string) ([]models.SavedPlan, error) {
	return m.archive.List(ctx, email)
}

// Delete removes one archived record and publishes the
// storage-updated signal.
func (m *Manager) Delete(ctx context.Context, email, id string) error {
	if err := m.archive.Delete(ctx, email, id); err != nil {
		return err
	}
	m.events.Publish(bus.Event{Topic: bus.TopicStorageUpdated, Email: email})
	return nil
}

// Recall makes an archived snapshot the active plan and re-triggers
// enrichment for any entries still missing images.
func (m *Manager) Recall(ctx context.Context, email, id string) (*models.WellnessPlan, error) {
	saved, found, err := m.archive.Get(ctx, email, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPlanNotFound
	}
	plan := saved.Plan.Clone()
	m.setActive(email, plan)
	return plan, nil
}

// Clear drops the user's in-memory plan state and stops any running
// enrichment. Called on logout; idempotent.
func (m *Manager) Clear(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.cancels[email]; ok {
		cancel()
		delete(m.cancels, email)
	}
	m.gens[email]++
	delete(m.active, email)
}
