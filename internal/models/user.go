package models

import (
	"time"
)

// User represents a Reddit account sighted during collection.
// AccountID is the platform-assigned identifier and acts as the natural key;
// rows are inserted once on first sighting and never updated by the pipeline,
// so Karma and the flag columns keep their defaults until an enrichment step
// writes them.
type User struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username       string    `gorm:"type:varchar(64);not null;column:username"`
	AccountID      string    `gorm:"type:varchar(64);not null;uniqueIndex:reddit_users_ux1;column:account_id"`
	Karma          int64     `gorm:"not null;default:0;column:karma"`
	AccountCreated time.Time `gorm:"not null;column:account_created"`
	IsModerator    bool      `gorm:"not null;default:false;column:is_moderator"`
	IsVerified     bool      `gorm:"not null;default:false;column:is_verified"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "reddit_users"
}
