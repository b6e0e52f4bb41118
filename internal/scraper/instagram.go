package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/apify"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/cache"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/db"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/models"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
)

const instagramActorID = "apify/instagram-hashtag-scraper"

// InstagramPlatform collects hashtag posts into a single self-contained
// table. The dedup key is the owner's account id, so one run keeps at most
// one post per account. That caps accounts, not content items; it is kept
// as the established behavior pending product clarification.
type InstagramPlatform struct {
	cfg    config.PlatformConfig
	posts  *db.InstagramPostRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewInstagramPlatform creates the Instagram adapter
func NewInstagramPlatform(repo *db.Repository, seen *cache.Cache, cfg config.PlatformConfig) *InstagramPlatform {
	return &InstagramPlatform{
		cfg:    cfg,
		posts:  db.NewInstagramPostRepository(repo),
		cache:  seen,
		logger: logging.WithPlatform("instagram"),
	}
}

// Name identifies the platform
func (p *InstagramPlatform) Name() string {
	return "instagram"
}

// TaskSpec builds the hashtag scrape job
func (p *InstagramPlatform) TaskSpec() apify.TaskSpec {
	return apify.TaskSpec{
		ActorID: instagramActorID,
		Name:    fmt.Sprintf("instagram-hashtag-%d", time.Now().Unix()),
		Input: map[string]interface{}{
			"hashtags":     []string{p.cfg.Term},
			"resultsLimit": p.cfg.APILimit,
		},
	}
}

// DedupKey returns the owner account id
func (p *InstagramPlatform) DedupKey(c Candidate) (string, error) {
	owner := c.String("ownerUsername")
	if owner == "" {
		return "", fmt.Errorf("instagram candidate has no owner account id")
	}
	return owner, nil
}

// Seen checks the dedup-key cache, then the database
func (p *InstagramPlatform) Seen(ctx context.Context, key string) (bool, error) {
	if p.cache.WasSeen(ctx, p.Name(), key) {
		return true, nil
	}
	exists, err := p.posts.ExistsByAccountID(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		p.cache.MarkSeen(ctx, p.Name(), key)
	}
	return exists, nil
}

// Ingest inserts the post directly; no user table is touched
func (p *InstagramPlatform) Ingest(ctx context.Context, c Candidate) error {
	accountID, err := p.DedupKey(c)
	if err != nil {
		return err
	}

	posted, parsed := NormalizeTimestamp(c["timestamp"])
	if !parsed {
		p.logger.Debug("Timestamp fell back to wall clock", zap.String("account_id", accountID))
	}

	post := &models.InstagramPost{
		AccountID:     accountID,
		Username:      c.String("ownerFullName"),
		Caption:       c.String("caption"),
		PostDate:      posted,
		LikesCount:    c.Int64("likesCount"),
		CommentsCount: c.Int64("commentsCount"),
		Hashtag:       p.cfg.Term,
		URL:           c.String("url"),
	}
	if err := p.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post by %s: %w", accountID, err)
	}

	p.cache.MarkSeen(ctx, p.Name(), accountID)

	p.logger.Debug("Ingested post", zap.String("account_id", accountID))

	return nil
}
