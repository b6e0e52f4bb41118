package scraper

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
)

// State is the convergence poller's terminal or in-progress state
type State int

const (
	// StatePolling means the dataset is still being fetched
	StatePolling State = iota
	// StateStable means the item count stopped growing for the configured
	// number of consecutive ticks
	StateStable
	// StateExhausted means the tick budget ran out before the count settled
	StateExhausted
	// StateEmpty means polling terminated with no items at all
	StateEmpty
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateStable:
		return "stable"
	case StateExhausted:
		return "exhausted"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// DatasetFetcher reads the current accumulated result set of a remote run
type DatasetFetcher interface {
	DatasetItems(ctx context.Context, runID string) ([]map[string]interface{}, error)
}

// SleepFunc suspends between ticks; tests substitute an instant version
type SleepFunc func(ctx context.Context, d time.Duration)

func realSleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Poller repeatedly fetches a run's dataset until the item count is judged
// stable or the tick budget is exhausted. Growth stalling is a stand-in for
// the run's own completion signal: the remote job is never asked whether it
// finished, only whether it stopped producing.
type Poller struct {
	fetcher     DatasetFetcher
	interval    time.Duration
	stableTicks int
	maxTicks    int
	sleep       SleepFunc
	logger      *zap.Logger
}

// NewPoller creates a poller with the configured cadence and budgets
func NewPoller(fetcher DatasetFetcher, cfg *config.PollConfig, logger *zap.Logger) *Poller {
	return &Poller{
		fetcher:     fetcher,
		interval:    time.Duration(cfg.IntervalSeconds) * time.Second,
		stableTicks: cfg.StableTicks,
		maxTicks:    cfg.MaxTicks,
		sleep:       realSleep,
		logger:      logger,
	}
}

// Collect polls the run's dataset to a terminal state and returns the last
// observed candidate set. Fetch errors count as no-growth ticks; only the
// submission calls before polling are fatal to a run. The returned state is
// always one of StateStable, StateExhausted or StateEmpty.
func (p *Poller) Collect(ctx context.Context, runID string) ([]Candidate, State) {
	var best []map[string]interface{}
	stall := 0
	state := StatePolling

	for tick := 1; tick <= p.maxTicks; tick++ {
		items, err := p.fetcher.DatasetItems(ctx, runID)
		switch {
		case err != nil:
			p.logger.Warn("Dataset fetch failed, counting as no-growth tick",
				zap.Int("tick", tick),
				zap.Error(err))
			stall++
		case len(items) > len(best):
			best = items
			stall = 0
		default:
			stall++
		}

		p.logger.Debug("Poll tick",
			zap.Int("tick", tick),
			zap.Int("items", len(best)),
			zap.Int("stall", stall))

		if stall >= p.stableTicks {
			state = StateStable
			break
		}
		if tick == p.maxTicks {
			state = StateExhausted
			break
		}

		p.sleep(ctx, p.interval)
	}

	if len(best) == 0 {
		p.logger.Info("Dataset never produced items", zap.String("run_id", runID))
		return nil, StateEmpty
	}

	p.logger.Info("Dataset converged",
		zap.String("run_id", runID),
		zap.String("state", state.String()),
		zap.Int("items", len(best)))

	candidates := make([]Candidate, 0, len(best))
	for _, item := range best {
		candidates = append(candidates, Candidate(item))
	}
	return candidates, state
}
