package models

import (
	"database/sql"
	"time"
)

// InstagramPost represents one collected Instagram post. The table is
// self-contained: the owner's account id is stored denormalized and doubles
// as the dedup key, so a run keeps at most one post per account.
type InstagramPost struct {
	ID            int64         `gorm:"primaryKey;autoIncrement;column:id"`
	AccountID     string        `gorm:"type:varchar(64);not null;uniqueIndex:instagram_posts_ux1;column:account_id"`
	Username      string        `gorm:"type:varchar(128);column:username"`
	Caption       string        `gorm:"type:text;not null;column:caption"`
	PostDate      time.Time     `gorm:"not null;column:post_date"`
	LikesCount    int64         `gorm:"not null;default:0;column:likes_count"`
	CommentsCount int64         `gorm:"not null;default:0;column:comments_count"`
	Hashtag       string        `gorm:"type:varchar(128);column:hashtag"`
	URL           string        `gorm:"type:varchar(1024);not null;default:'';column:url"`
	Sentiment     sql.NullInt64 `gorm:"column:sentiment"`
}

// TableName specifies the table name for InstagramPost
func (InstagramPost) TableName() string {
	return "instagram_posts"
}
