package sentiment

import (
	"context"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/db"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/telemetry"
)

// Analyzer scores every post whose sentiment column is still NULL.
// Scoring runs after collection, so the pipeline itself only ever leaves
// that column NULL.
type Analyzer struct {
	scorer    *Scorer
	reddit    *db.RedditPostRepository
	instagram *db.InstagramPostRepository
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer over both post tables
func NewAnalyzer(repo *db.Repository) *Analyzer {
	return &Analyzer{
		scorer:    NewScorer(),
		reddit:    db.NewRedditPostRepository(repo),
		instagram: db.NewInstagramPostRepository(repo),
		logger:    logging.WithComponent("sentiment"),
	}
}

// Run scores all unscored posts on both platforms. A row that fails to
// update is skipped; it stays NULL and is retried on the next cycle.
func (a *Analyzer) Run(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "sentiment.run")
	defer span.End()

	if err := a.scoreReddit(ctx); err != nil {
		return err
	}
	return a.scoreInstagram(ctx)
}

func (a *Analyzer) scoreReddit(ctx context.Context) error {
	posts, err := a.reddit.ListUnscored(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("Scoring Reddit posts", zap.Int("count", len(posts)))

	scored := 0
	for _, post := range posts {
		score := a.scorer.Score(post.TextContent)
		if err := a.reddit.UpdateSentiment(ctx, post.ID, score); err != nil {
			a.logger.Warn("Failed to store sentiment score",
				zap.Int64("post_id", post.ID),
				zap.Error(err))
			continue
		}
		scored++
	}

	a.logger.Info("Reddit posts scored", zap.Int("scored", scored))
	return nil
}

func (a *Analyzer) scoreInstagram(ctx context.Context) error {
	posts, err := a.instagram.ListUnscored(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("Scoring Instagram posts", zap.Int("count", len(posts)))

	scored := 0
	for _, post := range posts {
		score := a.scorer.Score(post.Caption)
		if err := a.instagram.UpdateSentiment(ctx, post.ID, score); err != nil {
			a.logger.Warn("Failed to store sentiment score",
				zap.Int64("post_id", post.ID),
				zap.Error(err))
			continue
		}
		scored++
	}

	a.logger.Info("Instagram posts scored", zap.Int("scored", scored))
	return nil
}
