// Package domain contains the club membership request and its lifecycle
// contract. A request is the only path by which a non-member becomes a club
// member, short of secretary-direct assignment.
package domain

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is the closed set of membership request states. PENDING is the only
// non-terminal state.
type Status string

const (
	StatusPending   Status = "PD"
	StatusAccepted  Status = "AC"
	StatusRejected  Status = "RE"
	StatusCancelled Status = "CN"
)

// Display returns the human-readable name of the status.
func (s Status) Display() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// MembershipRequest is a user's request for membership in a club.
type MembershipRequest struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	ClubID    snowflake.ID `gorm:"not null;index" json:"club_id"`
	Initiated time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"initiated"`
	Status    Status       `gorm:"type:text;not null;default:'PD'" json:"status"`
	Closed    *time.Time   `json:"closed"`
}

// TableName sets the database table name.
func (MembershipRequest) TableName() string { return "club_membership_requests" }

// IsPending reports whether the request still accepts transitions.
func (r MembershipRequest) IsPending() bool {
	return r.Status == StatusPending
}

// ActionNotAvailableError is returned when a lifecycle transition is
// attempted on a request that is no longer pending.
type ActionNotAvailableError struct {
	Action string
	Status Status
}

func (e *ActionNotAvailableError) Error() string {
	return fmt.Sprintf("action %q is not available: request is %s", e.Action, e.Status.Display())
}
