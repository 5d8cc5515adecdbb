// Package domain contains public channel posts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Post is a public announcement in a club's channel. Readable by everyone;
// written only by the club representative.
type Post struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ChannelID snowflake.ID `gorm:"not null;index" json:"channel_id"`
	Content   string       `gorm:"type:text;not null" json:"content"`
	Created   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (Post) TableName() string { return "posts" }
