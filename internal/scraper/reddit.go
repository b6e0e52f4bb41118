package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/apify"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/cache"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/db"
	"github.com/kevin1015wang/SentimentAnalyzers/internal/models"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/config"
	"github.com/kevin1015wang/SentimentAnalyzers/pkg/logging"
)

const redditActorID = "trudax/reddit-scraper-lite"

// RedditPlatform collects Reddit search results into the two-table schema:
// the posting account is upserted by its natural key first, then the post is
// inserted with a foreign key to the resolved user row. Dedup key is the
// external post id.
type RedditPlatform struct {
	cfg    config.PlatformConfig
	users  *db.UserRepository
	posts  *db.RedditPostRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewRedditPlatform creates the Reddit adapter
func NewRedditPlatform(repo *db.Repository, seen *cache.Cache, cfg config.PlatformConfig) *RedditPlatform {
	return &RedditPlatform{
		cfg:    cfg,
		users:  db.NewUserRepository(repo),
		posts:  db.NewRedditPostRepository(repo),
		cache:  seen,
		logger: logging.WithPlatform("reddit"),
	}
}

// Name identifies the platform
func (p *RedditPlatform) Name() string {
	return "reddit"
}

// TaskSpec builds the Reddit search job. The task name carries the current
// unix time so repeated submissions never collide.
func (p *RedditPlatform) TaskSpec() apify.TaskSpec {
	return apify.TaskSpec{
		ActorID: redditActorID,
		Name:    fmt.Sprintf("reddit-search-%d", time.Now().Unix()),
		Input: map[string]interface{}{
			"searches": []string{p.cfg.Term},
			"maxItems": p.cfg.APILimit,
			"type":     "post",
			"sort":     "relevance",
			"time":     "all",
		},
	}
}

// DedupKey returns the external post id
func (p *RedditPlatform) DedupKey(c Candidate) (string, error) {
	id := c.String("id")
	if id == "" {
		return "", fmt.Errorf("reddit candidate has no post id")
	}
	return id, nil
}

// Seen checks the dedup-key cache, then the database
func (p *RedditPlatform) Seen(ctx context.Context, key string) (bool, error) {
	if p.cache.WasSeen(ctx, p.Name(), key) {
		return true, nil
	}
	exists, err := p.posts.ExistsByPostID(ctx, key)
	if err != nil {
		return false, err
	}
	if exists {
		p.cache.MarkSeen(ctx, p.Name(), key)
	}
	return exists, nil
}

// Ingest upserts the posting account, resolves its row id and inserts the
// post with the foreign key set
func (p *RedditPlatform) Ingest(ctx context.Context, c Candidate) error {
	postID, err := p.DedupKey(c)
	if err != nil {
		return err
	}

	accountID := c.String("userId")
	if accountID == "" {
		return fmt.Errorf("reddit candidate %s has no account id", postID)
	}
	username := c.String("username")

	created, parsed := NormalizeTimestamp(c["createdAt"])
	if !parsed {
		p.logger.Debug("Timestamp fell back to wall clock", zap.String("post_id", postID))
	}

	user := &models.User{
		Username:       username,
		AccountID:      accountID,
		Karma:          0,
		AccountCreated: created,
	}
	if err := p.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", accountID, err)
	}

	stored, err := p.users.GetByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to resolve user %s: %w", accountID, err)
	}
	if stored == nil {
		return fmt.Errorf("user %s not found after upsert", accountID)
	}

	content := strings.TrimSpace(c.String("title") + "\n" + c.String("body"))

	post := &models.RedditPost{
		PostID:      postID,
		UserID:      stored.ID,
		AccountName: username,
		TextContent: content,
		PostDate:    created,
		IsReply:     false,
		Subreddit:   c.String("parsedCommunityName"),
		Upvotes:     c.Int64("upVotes"),
	}
	if err := p.posts.Create(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post %s: %w", postID, err)
	}

	p.cache.MarkSeen(ctx, p.Name(), postID)

	p.logger.Debug("Ingested post",
		zap.String("post_id", postID),
		zap.String("subreddit", post.Subreddit))

	return nil
}
