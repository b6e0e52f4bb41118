package scraper

import (
	"context"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/apify"
)

// Platform supplies everything platform-specific: the remote job definition,
// the dedup-key strategy, and how one candidate becomes database rows.
// The sampler and runner never branch on which platform they hold.
type Platform interface {
	// Name identifies the platform in logs and cache keys
	Name() string

	// TaskSpec builds the actor task submitted to the remote job API
	TaskSpec() apify.TaskSpec

	// DedupKey extracts the field that decides whether a candidate
	// duplicates an already-persisted row. A missing key is a
	// per-record error.
	DedupKey(c Candidate) (string, error)

	// Seen reports whether the dedup key is already persisted
	Seen(ctx context.Context, key string) (bool, error)

	// Ingest normalizes one candidate into the relational schema.
	// It is only called after Seen reported false for the key.
	Ingest(ctx context.Context, c Candidate) error
}
