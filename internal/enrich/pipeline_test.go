package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nutriplan/backend/internal/ai"
	"github.com/nutriplan/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeImages) SynthesizeImage(ctx context.Context, subject ai.ImageSubject, name, contextText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if err := f.fail[name]; err != nil {
		return "", err
	}
	return "data:image/png;base64," + name, nil
}

func (f *fakeImages) callNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func testPlan() *models.WellnessPlan {
	return &models.WellnessPlan{
		MealPlan: []models.Meal{
			{Meal: "Breakfast", Suggestions: []string{"a", "b", "c", "d"}},
			{Meal: "Lunch", Suggestions: []string{"x"}},
		},
		WorkoutPlan: []models.Exercise{
			{Name: "Squat", Instructions: []string{"down", "up"}},
		},
		YogaPlan: []models.YogaPose{
			{Name: "Child's Pose", Instructions: []string{"kneel"}},
		},
	}
}

func TestRunFillsEveryEntryInOrder(t *testing.T) {
	images := &fakeImages{}
	var snapshots []*models.WellnessPlan
	p := New(images, 0, func(plan *models.WellnessPlan) {
		snapshots = append(snapshots, plan)
	})

	plan := testPlan()
	p.Run(context.Background(), plan)

	assert.Equal(t, []string{"Breakfast", "Lunch", "Squat", "Child's Pose"}, images.callNames())

	// The original plan is never mutated; updates arrive as snapshots.
	assert.Empty(t, plan.MealPlan[0].ImageURL)
	require.Len(t, snapshots, 4)

	final := snapshots[3]
	assert.NotEmpty(t, final.MealPlan[0].ImageURL)
	assert.NotEmpty(t, final.MealPlan[1].ImageURL)
	assert.NotEmpty(t, final.WorkoutPlan[0].ImageURL)
	assert.NotEmpty(t, final.YogaPlan[0].ImageURL)
}

func TestRunSkipsEntriesWithImages(t *testing.T) {
	images := &fakeImages{}
	p := New(images, 0, nil)

	plan := testPlan()
	plan.MealPlan[0].ImageURL = "data:existing"
	plan.WorkoutPlan[0].ImageURL = "data:existing"
	plan.YogaPlan[0].ImageURL = "data:existing"

	p.Run(context.Background(), plan)
	assert.Equal(t, []string{"Lunch"}, images.callNames())
}

func TestRunNoEligibleEntriesMakesNoCalls(t *testing.T) {
	images := &fakeImages{}
	p := New(images, 0, nil)

	plan := testPlan()
	plan.MealPlan[0].ImageURL = "x"
	plan.MealPlan[1].ImageURL = "x"
	plan.WorkoutPlan[0].ImageURL = "x"
	plan.YogaPlan[0].ImageURL = "x"

	p.Run(context.Background(), plan)
	assert.Empty(t, images.callNames())
}

func TestFailedEntryIsNotRetried(t *testing.T) {
	images := &fakeImages{fail: map[string]error{"Lunch": errors.New("quota")}}
	var last *models.WellnessPlan
	p := New(images, 0, func(plan *models.WellnessPlan) { last = plan })

	p.Run(context.Background(), testPlan())

	// One attempt per entry, the failed slot stays empty.
	assert.Equal(t, []string{"Breakfast", "Lunch", "Squat", "Child's Pose"}, images.callNames())
	require.NotNil(t, last)
	assert.NotEmpty(t, last.MealPlan[0].ImageURL)
	assert.Empty(t, last.MealPlan[1].ImageURL)
}

func TestMealContextUsesFirstThreeSuggestions(t *testing.T) {
	var gotContext string
	images := &recordingImages{onCall: func(subject ai.ImageSubject, name, contextText string) {
		if name == "Breakfast" {
			gotContext = contextText
		}
	}}
	p := New(images, 0, nil)
	p.Run(context.Background(), testPlan())
	assert.Equal(t, "a, b, c", gotContext)
}

type recordingImages struct {
	onCall func(subject ai.ImageSubject, name, contextText string)
}

func (r *recordingImages) SynthesizeImage(ctx context.Context, subject ai.ImageSubject, name, contextText string) (string, error) {
	if r.onCall != nil {
		r.onCall(subject, name, contextText)
	}
	return "data:image/png;base64,x", nil
}

func TestCancellationStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	images := &recordingImages{onCall: func(ai.ImageSubject, string, string) {
		count++
		if count == 1 {
			cancel()
		}
	}}

	p := New(images, 0, nil)
	p.Run(ctx, testPlan())

	assert.Equal(t, 1, count)
}

func TestConcurrentRunIsNoOp(t *testing.T) {
	images := &fakeImages{}
	p := New(images, 0, nil)

	p.mu.Lock()
	p.running = true
	p.mu.Unlock()

	p.Run(context.Background(), testPlan())
	assert.Empty(t, images.callNames())
}

func TestFreshPipelineStartsClean(t *testing.T) {
	// The attempt record lives on the pipeline, not the plan: a new
	// pipeline for the same content retries previously failed slots.
	images := &fakeImages{fail: map[string]error{"Squat": errors.New("quota")}}
	p := New(images, 0, nil)
	p.Run(context.Background(), testPlan())
	require.Len(t, images.callNames(), 4)

	p2 := New(images, 0, nil)
	p2.Run(context.Background(), testPlan())
	assert.Len(t, images.callNames(), 8)
}
