// Package domain contains the per-club channel and its subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Channel is the communication surface of a club. Every club owns exactly
// one, created in the same transaction as the club.
type Channel struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ClubID      snowflake.ID `gorm:"not null;uniqueIndex:ux_channels_club" json:"club_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
}

// TableName sets the database table name.
func (Channel) TableName() string { return "channels" }

// ChannelSubscription joins a user to a channel. At most one row per
// (user, channel) pair.
type ChannelSubscription struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex:ux_channel_subs,priority:1" json:"user_id"`
	ChannelID snowflake.ID `gorm:"not null;uniqueIndex:ux_channel_subs,priority:2;index" json:"channel_id"`
	Joined    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined"`
}

// TableName sets the database table name.
func (ChannelSubscription) TableName() string { return "channel_subscriptions" }
