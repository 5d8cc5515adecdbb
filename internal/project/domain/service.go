package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"gorm.io/gorm"
)

// Evaluator answers membership questions about projects. All methods are
// pure reads.
type Evaluator interface {
	// HasClubMember reports whether the user is a member of any owner club.
	HasClubMember(ctx context.Context, projectID, userID snowflake.ID) (bool, error)
	// HasClubRep reports whether the user represents any owner club.
	HasClubRep(ctx context.Context, projectID, userID snowflake.ID) (bool, error)
	// HasMember reports whether the user is the leader or holds a project
	// membership.
	HasMember(ctx context.Context, projectID, userID snowflake.ID) (bool, error)
	// LeaderID resolves the project's leader.
	LeaderID(ctx context.Context, projectID snowflake.ID) (snowflake.ID, error)
}

// ListOptions narrows project listings. Non-secretary callers are pre-scoped
// to projects of their clubs.
type ListOptions struct {
	ClubID   snowflake.ID // 0 = unset
	OnlyMine bool
}

// ListMembershipsOptions narrows project membership listings. Callers are
// pre-scoped to projects of clubs they belong to.
type ListMembershipsOptions struct {
	ClubID    snowflake.ID // 0 = unset
	ProjectID snowflake.ID // 0 = unset
}

type Repository interface {
	Evaluator

	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, project Project) error
	Get(ctx context.Context, id snowflake.ID) (*Project, error)
	Update(ctx context.Context, project Project) error
	SetClosed(ctx context.Context, id snowflake.ID, closed *time.Time) error
	List(ctx context.Context, userID snowflake.ID, secretary bool, opts ListOptions) ([]Project, error)

	LinkClub(ctx context.Context, link ClubProject) error
	OwnerClubIDs(ctx context.Context, projectID snowflake.ID) ([]snowflake.ID, error)

	CreateMembership(ctx context.Context, membership ProjectMembership) error
	GetMembership(ctx context.Context, id snowflake.ID) (*ProjectMembership, error)
	DeleteMembership(ctx context.Context, id snowflake.ID) error
	ListMemberships(ctx context.Context, userID snowflake.ID, opts ListMembershipsOptions) ([]ProjectMembership, error)
}

type Service interface {
	// Create registers a project owned by the designated club. Representative
	// of that club only; the leader must already be a member of it.
	Create(ctx context.Context, actor authdomain.Actor, req CreateRequest) (*Project, error)
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Project, error)
	Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req UpdateRequest) (*Project, error)
	List(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]Project, error)

	// Close marks the project closed. Safe when already closed.
	Close(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Project, error)
	// Reopen clears the closed timestamp. Safe when already open.
	Reopen(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Project, error)

	// CreateMembership adds a user to a project. Leader or owner-club rep
	// only; the user must be a member of the specified club and of at least
	// one owner club.
	CreateMembership(ctx context.Context, actor authdomain.Actor, req CreateMembershipRequest) (*ProjectMembership, error)
	GetMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*ProjectMembership, error)
	DeleteMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error
	ListMemberships(ctx context.Context, actor authdomain.Actor, opts ListMembershipsOptions) ([]ProjectMembership, error)
}

type CreateRequest struct {
	Name        string
	Description string
	LeaderID    snowflake.ID
	OwnerClubID snowflake.ID
}

type UpdateRequest struct {
	Name        string
	Description string
}

type CreateMembershipRequest struct {
	UserID    snowflake.ID
	ClubID    snowflake.ID
	ProjectID snowflake.ID
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidLeader  = errors.New("invalid_leader")
	ErrInvalidClub    = errors.New("invalid_club")
	ErrInvalidProject = errors.New("invalid_project")
	// ErrLeaderNotClubMember is returned when the designated leader is not a
	// member of the owner club.
	ErrLeaderNotClubMember = errors.New("leader_not_club_member")
	// ErrUserNotClubMember is returned when a project membership names a club
	// the user does not belong to.
	ErrUserNotClubMember = errors.New("user_not_club_member")
	// ErrUserNotOwnerClubMember is returned when the user belongs to none of
	// the project's owner clubs.
	ErrUserNotOwnerClubMember = errors.New("user_not_owner_club_member")
)
