// Package enrich backfills missing images on a plan's meal, workout
// and yoga entries: one entry at a time, a fixed pause between calls,
// at most one attempt per entry.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nutriplan/backend/internal/ai"
	"github.com/nutriplan/backend/internal/models"
)

// ImageSynthesizer is the slice of the AI gateway the pipeline needs.
type ImageSynthesizer interface {
	SynthesizeImage(ctx context.Context, subject ai.ImageSubject, name, contextText string) (string, error)
}

// DefaultDelay is the minimum pause between consecutive image calls,
// a self-imposed rate limit on the upstream service.
const DefaultDelay = 2 * time.Second

type item struct {
	subject     ai.ImageSubject
	index       int
	name        string
	contextText string
	key         string
}

// Pipeline populates every image-less entry of one plan instance
// exactly once. A key that has been attempted, successfully or not, is
// never retried for the lifetime of the pipeline; create a new
// Pipeline for a new plan reference.
type Pipeline struct {
	images   ImageSynthesizer
	delay    time.Duration
	onUpdate func(*models.WellnessPlan)

	mu        sync.Mutex
	running   bool
	processed map[string]struct{}
}

// New creates a pipeline. onUpdate receives each new plan snapshot as
// images land; snapshots are never persisted by the pipeline itself.
func New(images ImageSynthesizer, delay time.Duration, onUpdate func(*models.WellnessPlan)) *Pipeline {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Pipeline{
		images:    images,
		delay:     delay,
		onUpdate:  onUpdate,
		processed: make(map[string]struct{}),
	}
}

// Run drains the plan's eligible entries sequentially. A call while a
// run is already in progress is a no-op. Cancelling ctx stops the run
// between entries and during delay waits.
func (p *Pipeline) Run(ctx context.Context, plan *models.WellnessPlan) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	current := plan
	for {
		queue := p.collect(current)
		if len(queue) == 0 {
			return
		}
		for _, it := range queue {
			if ctx.Err() != nil {
				return
			}
			if p.isProcessed(it.key) {
				continue
			}

			url, err := p.images.SynthesizeImage(ctx, it.subject, it.name, it.contextText)
			if err != nil {
				// Best effort, at most once: the slot stays empty for
				// this plan instance.
				slog.Warn("image synthesis failed", "key", it.key, "error", err)
			} else {
				snapshot := current.Clone()
				applyImage(snapshot, it, url)
				current = snapshot
				if p.onUpdate != nil {
					p.onUpdate(snapshot)
				}
			}
			p.markProcessed(it.key)

			if !sleepCtx(ctx, p.delay) {
				return
			}
		}
	}
}

func (p *Pipeline) isProcessed(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.processed[key]
	return ok
}

func (p *Pipeline) markProcessed(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed[key] = struct{}{}
}

// collect lists eligible entries in array order: meals, workouts,
// poses. An entry is eligible iff it has no image and its key has not
// been attempted yet.
func (p *Pipeline) collect(plan *models.WellnessPlan) []item {
	var queue []item
	for i, m := range plan.MealPlan {
		key := fmt.Sprintf("meal-%d", i)
		if m.ImageURL == "" && !p.isProcessed(key) {
			suggestions := m.Suggestions
			if len(suggestions) > 3 {
				suggestions = suggestions[:3]
			}
			queue = append(queue, item{
				subject:     ai.SubjectMeal,
				index:       i,
				name:        m.Meal,
				contextText: strings.Join(suggestions, ", "),
				key:         key,
			})
		}
	}
	for i, w := range plan.WorkoutPlan {
		key := fmt.Sprintf("workout-%d", i)
		if w.ImageURL == "" && !p.isProcessed(key) {
			queue = append(queue, item{
				subject:     ai.SubjectWorkout,
				index:       i,
				name:        w.Name,
				contextText: strings.Join(w.Instructions, ", "),
				key:         key,
			})
		}
	}
	for i, y := range plan.YogaPlan {
		key := fmt.Sprintf("yoga-%d", i)
		if y.ImageURL == "" && !p.isProcessed(key) {
			queue = append(queue, item{
				subject:     ai.SubjectYoga,
				index:       i,
				name:        y.Name,
				contextText: strings.Join(y.Instructions, ", "),
				key:         key,
			})
		}
	}
	return queue
}

func applyImage(plan *models.WellnessPlan, it item, url string) {
	switch it.subject {
	case ai.SubjectMeal:
		plan.MealPlan[it.index].ImageURL = url
	case ai.SubjectWorkout:
		plan.WorkoutPlan[it.index].ImageURL = url
	case ai.SubjectYoga:
		plan.YogaPlan[it.index].ImageURL = url
	}
}

// sleepCtx waits for d or until ctx is cancelled; it reports whether
// the full delay elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
