package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"gorm.io/gorm"
)

// ListOptions narrows request listings. Non-secretary callers are always
// pre-scoped to their own requests and the requests of clubs they represent.
type ListOptions struct {
	ClubID    snowflake.ID // 0 = unset
	OnlyMine  bool
	Pending   *bool // nil = all
	Ascending bool  // default ordering is most recently initiated first
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, request MembershipRequest) error
	Get(ctx context.Context, id snowflake.ID) (*MembershipRequest, error)
	List(ctx context.Context, userID snowflake.ID, repClubIDs []snowflake.ID, opts ListOptions) ([]MembershipRequest, error)

	// HasPending reports whether the user has a pending request for the club.
	HasPending(ctx context.Context, clubID, userID snowflake.ID) (bool, error)

	// CloseIfPending transitions the request to a terminal status guarded by
	// the pending state. Returns false when the request was already terminal,
	// so concurrent transitions resolve to exactly one winner.
	CloseIfPending(ctx context.Context, id snowflake.ID, status Status, closedAt time.Time) (bool, error)
}

type Service interface {
	// Create opens a PENDING request for the actor. Fails when the actor is
	// already a member or already has a pending request for the club.
	Create(ctx context.Context, actor authdomain.Actor, clubID snowflake.ID) (*MembershipRequest, error)
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*MembershipRequest, error)
	List(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]MembershipRequest, error)

	// Accept transitions PENDING → ACCEPTED and creates the club membership
	// atomically. Club representative only.
	Accept(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*MembershipRequest, error)
	// Reject transitions PENDING → REJECTED. Club representative only.
	Reject(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*MembershipRequest, error)
	// Cancel transitions PENDING → CANCELLED. Requester only.
	Cancel(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*MembershipRequest, error)
}

var (
	ErrAlreadyMember  = errors.New("already_member")
	ErrPendingRequest = errors.New("pending_request_exists")
	ErrInvalidClub    = errors.New("invalid_club")
)
