package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/apify"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/telemetry"
)

// JobAPI is the slice of the remote job API one platform run needs.
// *apify.Client satisfies it; tests swap in fakes.
type JobAPI interface {
	CreateTask(ctx context.Context, spec apify.TaskSpec) (string, error)
	StartRun(ctx context.Context, taskID string) (string, error)
	DatasetItems(ctx context.Context, runID string) ([]map[string]interface{}, error)
}

// Runner drives one platform through submit, poll and sample.
// Platforms are run sequentially by the caller; a Runner is not safe for
// concurrent Collect calls against the same database handle.
type Runner struct {
	api    JobAPI
	poll   config.PollConfig
	rng    *rand.Rand
	sleep  SleepFunc
	logger *zap.Logger
}

// NewRunner creates a runner over the remote job API
func NewRunner(api JobAPI, poll config.PollConfig) *Runner {
	return &Runner{
		api:    api,
		poll:   poll,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  realSleep,
		logger: logging.WithComponent("runner"),
	}
}

// Collect runs the full collection pipeline for one platform and returns the
// batch summary. Task creation and run start failures are fatal to the run
// and are returned before any polling happens; everything after that point
// degrades per record. An empty converged dataset yields a zero summary with
// no error.
func (r *Runner) Collect(ctx context.Context, platform Platform, quota int) (Summary, error) {
	ctx, span := telemetry.StartSpan(ctx, "scraper.collect")
	defer span.End()

	logger := r.logger.With(zap.String("platform", platform.Name()))

	spec := platform.TaskSpec()
	taskID, err := r.api.CreateTask(ctx, spec)
	if err != nil {
		return Summary{}, fmt.Errorf("job creation failed for %s: %w", platform.Name(), err)
	}

	runID, err := r.api.StartRun(ctx, taskID)
	if err != nil {
		return Summary{}, fmt.Errorf("run start failed for %s: %w", platform.Name(), err)
	}

	logger.Info("Remote job running",
		zap.String("task_id", taskID),
		zap.String("run_id", runID))

	poller := NewPoller(r.api, &r.poll, logger)
	poller.sleep = r.sleep

	candidates, state := poller.Collect(ctx, runID)
	if state == StateEmpty {
		logger.Info("No candidates collected, nothing to persist")
		return Summary{}, nil
	}

	sampler := NewSampler(platform, r.rng, logger)
	summary := sampler.Sample(ctx, candidates, quota)

	logger.Info("Collection finished",
		zap.String("state", state.String()),
		zap.Int("fetched", summary.Fetched),
		zap.Int("processed", summary.Processed),
		zap.Int("added", summary.Added),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored))

	return summary, nil
}
