// Package domain contains projects undertaken by clubs and their memberships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Project is an undertaking owned by one or more clubs. Closed is nil while
// the project is open.
type Project struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	Started     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"started"`
	Closed      *time.Time   `json:"closed"`
	LeaderID    snowflake.ID `gorm:"not null;index" json:"leader_id"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// ClubProject links an owner club to a project.
type ClubProject struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ClubID    snowflake.ID `gorm:"not null;uniqueIndex:ux_club_projects,priority:1" json:"club_id"`
	ProjectID snowflake.ID `gorm:"not null;uniqueIndex:ux_club_projects,priority:2;index" json:"project_id"`
}

// TableName sets the database table name.
func (ClubProject) TableName() string { return "club_projects" }

// ProjectMembership joins a user to a project.
type ProjectMembership struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	ProjectID snowflake.ID `gorm:"not null;index" json:"project_id"`
	Joined    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined"`
}

// TableName sets the database table name.
func (ProjectMembership) TableName() string { return "project_memberships" }
