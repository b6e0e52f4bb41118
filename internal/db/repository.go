package db

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kevin1015wang/SentimentAnalyzers/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides reddit_users database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByAccountID retrieves a user by platform account id
func (r *UserRepository) GetByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Upsert inserts a user unless a row with its account id already exists.
// An existing row is left untouched, so attributes always come from the
// first sighting.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoNothing: true,
		}).
		Create(user).Error
}

// RedditPostRepository provides reddit_posts database operations
type RedditPostRepository struct {
	*Repository
}

// NewRedditPostRepository creates a new reddit post repository
func NewRedditPostRepository(repo *Repository) *RedditPostRepository {
	return &RedditPostRepository{Repository: repo}
}

// ExistsByPostID reports whether a post with the external post id is already stored
func (r *RedditPostRepository) ExistsByPostID(ctx context.Context, postID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.RedditPost{}).
		Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new reddit post
func (r *RedditPostRepository) Create(ctx context.Context, post *models.RedditPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// ListUnscored returns posts whose sentiment column is still NULL
func (r *RedditPostRepository) ListUnscored(ctx context.Context) ([]*models.RedditPost, error) {
	var posts []*models.RedditPost
	if err := r.db.WithContext(ctx).Where("sentiment IS NULL").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateSentiment writes the sentiment score for one post
func (r *RedditPostRepository) UpdateSentiment(ctx context.Context, id int64, score int) error {
	return r.db.WithContext(ctx).Model(&models.RedditPost{}).
		Where("id = ?", id).
		Update("sentiment", sql.NullInt64{Int64: int64(score), Valid: true}).Error
}

// InstagramPostRepository provides instagram_posts database operations
type InstagramPostRepository struct {
	*Repository
}

// NewInstagramPostRepository creates a new instagram post repository
func NewInstagramPostRepository(repo *Repository) *InstagramPostRepository {
	return &InstagramPostRepository{Repository: repo}
}

// ExistsByAccountID reports whether a post by the owner account is already stored
func (r *InstagramPostRepository) ExistsByAccountID(ctx context.Context, accountID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InstagramPost{}).
		Where("account_id = ?", accountID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new instagram post
func (r *InstagramPostRepository) Create(ctx context.Context, post *models.InstagramPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// ListUnscored returns posts whose sentiment column is still NULL
func (r *InstagramPostRepository) ListUnscored(ctx context.Context) ([]*models.InstagramPost, error) {
	var posts []*models.InstagramPost
	if err := r.db.WithContext(ctx).Where("sentiment IS NULL").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdateSentiment writes the sentiment score for one post
func (r *InstagramPostRepository) UpdateSentiment(ctx context.Context, id int64, score int) error {
	return r.db.WithContext(ctx).Model(&models.InstagramPost{}).
		Where("id = ?", id).
		Update("sentiment", sql.NullInt64{Int64: int64(score), Valid: true}).Error
}
