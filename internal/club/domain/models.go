// Package domain contains persistence models and contracts for clubs,
// club roles and club memberships.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Privilege is the closed set of membership privileges within a club.
type Privilege string

const (
	PrivilegeRep Privilege = "REP"
	PrivilegeMem Privilege = "MEM"
)

// Valid reports whether p is a known privilege.
func (p Privilege) Valid() bool {
	switch p {
	case PrivilegeRep, PrivilegeMem:
		return true
	default:
		return false
	}
}

// Display returns the human-readable name of the privilege.
func (p Privilege) Display() string {
	switch p {
	case PrivilegeRep:
		return "Representative"
	case PrivilegeMem:
		return "Member"
	default:
		return string(p)
	}
}

// Club represents a club.
type Club struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Slug        string       `gorm:"type:text;not null;uniqueIndex:ux_clubs_slug" json:"slug"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Club) TableName() string { return "clubs" }

// ClubRole is a named role within one club carrying a privilege.
type ClubRole struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ClubID      snowflake.ID `gorm:"not null;index" json:"club_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	Privilege   Privilege    `gorm:"type:text;not null;default:'MEM'" json:"privilege"`
}

// TableName sets the database table name.
func (ClubRole) TableName() string { return "club_roles" }

// ClubMembership joins a user to a club through a role.
type ClubMembership struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID     snowflake.ID `gorm:"not null;index" json:"user_id"`
	ClubRoleID snowflake.ID `gorm:"not null;index" json:"club_role_id"`
	Joined     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined"`
}

// TableName sets the database table name.
func (ClubMembership) TableName() string { return "club_memberships" }

// MembershipEval is the caller-relative membership view of a club.
type MembershipEval struct {
	IsMember bool `json:"is_member"`
	IsRep    bool `json:"is_rep"`
}

// Privilege returns the effective privilege, or nil when not a member.
func (e MembershipEval) EffectivePrivilege() *Privilege {
	switch {
	case e.IsRep:
		p := PrivilegeRep
		return &p
	case e.IsMember:
		p := PrivilegeMem
		return &p
	default:
		return nil
	}
}
