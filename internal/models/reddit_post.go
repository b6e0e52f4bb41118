package models

import (
	"database/sql"
	"time"
)

// RedditPost represents one collected Reddit post.
// PostID is the platform-assigned post identifier and the dedup key for this
// platform; UserID references the owning reddit_users row, which is always
// upserted before the post is inserted. Sentiment stays NULL until the
// scoring pass writes it.
type RedditPost struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID      string        `gorm:"type:varchar(64);not null;uniqueIndex:reddit_posts_ux1;column:post_id"`
	UserID      int64         `gorm:"not null;column:user_id"`
	AccountName string        `gorm:"type:varchar(64);not null;column:account_name"`
	TextContent string        `gorm:"type:text;not null;column:text_content"`
	PostDate    time.Time     `gorm:"not null;column:post_date"`
	IsReply     bool          `gorm:"not null;default:false;column:is_reply"`
	Subreddit   string        `gorm:"type:varchar(128);column:subreddit"`
	Upvotes     int64         `gorm:"not null;default:0;column:upvotes"`
	Sentiment   sql.NullInt64 `gorm:"column:sentiment"`

	// Relationships
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for RedditPost
func (RedditPost) TableName() string {
	return "reddit_posts"
}
