package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/apify"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
)

// fakeJobAPI scripts the three remote calls one platform run makes
type fakeJobAPI struct {
	createErr    error
	startErr     error
	dataset      []map[string]interface{}
	datasetCalls int
}

func (a *fakeJobAPI) CreateTask(ctx context.Context, spec apify.TaskSpec) (string, error) {
	if a.createErr != nil {
		return "", a.createErr
	}
	return "task-1", nil
}

func (a *fakeJobAPI) StartRun(ctx context.Context, taskID string) (string, error) {
	if a.startErr != nil {
		return "", a.startErr
	}
	return "run-1", nil
}

func (a *fakeJobAPI) DatasetItems(ctx context.Context, runID string) ([]map[string]interface{}, error) {
	a.datasetCalls++
	return a.dataset, nil
}

func testRunner(api JobAPI) *Runner {
	r := NewRunner(api, config.PollConfig{IntervalSeconds: 5, StableTicks: 2, MaxTicks: 5})
	r.rng = rand.New(rand.NewSource(1))
	r.sleep = func(ctx context.Context, d time.Duration) {}
	return r
}

func TestCollectJobCreationFailureIsFatal(t *testing.T) {
	api := &fakeJobAPI{createErr: fmt.Errorf("unexpected status 401")}
	runner := testRunner(api)

	summary, err := runner.Collect(context.Background(), newFakePlatform(), 25)

	if err == nil {
		t.Fatal("expected job creation failure to surface")
	}
	if api.datasetCalls != 0 {
		t.Errorf("poller must never run after a failed submission, got %d fetches", api.datasetCalls)
	}
	if summary.Added != 0 {
		t.Errorf("expected zero rows written, got %d", summary.Added)
	}
}

func TestCollectRunStartFailureIsFatal(t *testing.T) {
	api := &fakeJobAPI{startErr: fmt.Errorf("unexpected status 500")}
	runner := testRunner(api)

	_, err := runner.Collect(context.Background(), newFakePlatform(), 25)

	if err == nil {
		t.Fatal("expected run start failure to surface")
	}
	if api.datasetCalls != 0 {
		t.Errorf("poller must never run after a failed submission, got %d fetches", api.datasetCalls)
	}
}

func TestCollectEmptyDatasetYieldsZeroSummary(t *testing.T) {
	api := &fakeJobAPI{dataset: nil}
	runner := testRunner(api)
	platform := newFakePlatform()

	summary, err := runner.Collect(context.Background(), platform, 25)

	if err != nil {
		t.Fatalf("empty dataset is not an error: %v", err)
	}
	if summary != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
	if len(platform.seen) != 0 {
		t.Errorf("expected no rows written, got %d", len(platform.seen))
	}
}

func TestCollectEndToEnd(t *testing.T) {
	dataset := make([]map[string]interface{}, 30)
	for i := range dataset {
		dataset[i] = map[string]interface{}{"key": fmt.Sprintf("k%d", i)}
	}
	api := &fakeJobAPI{dataset: dataset}
	runner := testRunner(api)
	platform := newFakePlatform()

	summary, err := runner.Collect(context.Background(), platform, 10)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Fetched != 30 {
		t.Errorf("expected 30 fetched, got %d", summary.Fetched)
	}
	if summary.Added != 10 {
		t.Errorf("expected quota of 10 added, got %d", summary.Added)
	}
	if summary.Added+summary.Skipped+summary.Errored != summary.Processed {
		t.Errorf("accounting broken: %+v", summary)
	}
	if len(platform.seen) != 10 {
		t.Errorf("expected 10 persisted rows, got %d", len(platform.seen))
	}
}
