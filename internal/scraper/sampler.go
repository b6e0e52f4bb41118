package scraper

import (
	"context"
	"math/rand"

	"go.uber.org/zap"
)

// Summary reports the outcome of one sampling pass.
// Added+Skipped+Errored always equals Processed, which never exceeds Fetched.
type Summary struct {
	Fetched   int
	Processed int
	Added     int
	Skipped   int
	Errored   int
}

// Sampler walks a randomly permuted candidate set and persists new records
// until the quota is met or the candidates run out. Randomizing the order
// means repeated runs against an oversized noisy pool surface different
// subsets instead of the same head slice.
type Sampler struct {
	platform Platform
	rng      *rand.Rand
	logger   *zap.Logger
}

// NewSampler creates a sampler for one platform
func NewSampler(platform Platform, rng *rand.Rand, logger *zap.Logger) *Sampler {
	return &Sampler{
		platform: platform,
		rng:      rng,
		logger:   logger,
	}
}

// Sample selects up to quota new records from the candidate set. Duplicates
// are skipped, a failing record never aborts the batch, and a quota of zero
// is a legal no-op pass. The database lookup and insert for each candidate
// complete before the next candidate is touched, which keeps the
// at-most-one-per-dedup-key invariant without locking.
func (s *Sampler) Sample(ctx context.Context, candidates []Candidate, quota int) Summary {
	summary := Summary{Fetched: len(candidates)}
	if quota <= 0 || len(candidates) == 0 {
		return summary
	}

	shuffled := make([]Candidate, len(candidates))
	copy(shuffled, candidates)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, candidate := range shuffled {
		if summary.Added == quota {
			break
		}
		summary.Processed++

		key, err := s.platform.DedupKey(candidate)
		if err != nil {
			summary.Errored++
			s.logger.Warn("Candidate has no usable dedup key", zap.Error(err))
			continue
		}

		seen, err := s.platform.Seen(ctx, key)
		if err != nil {
			summary.Errored++
			s.logger.Warn("Duplicate lookup failed",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		if seen {
			summary.Skipped++
			continue
		}

		if err := s.platform.Ingest(ctx, candidate); err != nil {
			summary.Errored++
			s.logger.Warn("Failed to ingest candidate",
				zap.String("key", key),
				zap.Error(err))
			continue
		}
		summary.Added++
	}

	return summary
}
