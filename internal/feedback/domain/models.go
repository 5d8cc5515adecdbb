// Package domain contains club feedback and the one reply a club may post to
// each feedback.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Feedback struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClubID   snowflake.ID `gorm:"not null;index" json:"club_id"`
	AuthorID snowflake.ID `gorm:"not null;index" json:"author_id"`
	Content  string       `gorm:"type:text;not null" json:"content"`
	Created  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (Feedback) TableName() string { return "feedbacks" }

// FeedbackReply is the club's reply to a feedback. At most one per feedback.
type FeedbackReply struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	FeedbackID snowflake.ID `gorm:"not null;uniqueIndex:ux_feedback_replies_feedback" json:"feedback_id"`
	Content    string       `gorm:"type:text;not null" json:"content"`
	Created    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created"`
}

// TableName sets the database table name.
func (FeedbackReply) TableName() string { return "feedback_replies" }
