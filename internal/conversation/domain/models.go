// Package domain contains member-only channel conversations. Conversations
// form a reply tree through the optional parent reference; a conversation is
// a root when its parent is nil.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Conversation struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	ChannelID snowflake.ID  `gorm:"not null;index" json:"channel_id"`
	AuthorID  snowflake.ID  `gorm:"not null;index" json:"author_id"`
	ParentID  *snowflake.ID `gorm:"index" json:"parent_id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Created   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (Conversation) TableName() string { return "conversations" }
