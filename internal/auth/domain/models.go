// Package domain contains the user identity model and auth contracts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// User is a platform account. IsSecretary marks the organization-wide
// superuser; it bypasses most club-scoped restrictions.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:ux_users_email" json:"email"`
	PasswordHash string       `gorm:"type:text;not null" json:"-"`
	DisplayName  string       `gorm:"type:text;not null" json:"display_name"`
	IsSecretary  bool         `gorm:"not null;default:false" json:"is_secretary"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Actor is the acting user threaded explicitly through every core call.
type Actor struct {
	ID          snowflake.ID
	IsSecretary bool
}

// ActorOf builds the Actor view of a user.
func ActorOf(u User) Actor {
	return Actor{ID: u.ID, IsSecretary: u.IsSecretary}
}
