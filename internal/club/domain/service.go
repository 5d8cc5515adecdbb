package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
)

type Service interface {
	// Create creates a club and its channel atomically. Secretary only.
	Create(ctx context.Context, actor authdomain.Actor, req CreateClubRequest) (*Club, error)
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Club, error)
	Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req UpdateClubRequest) (*Club, error)
	Delete(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error
	List(ctx context.Context, actor authdomain.Actor, opts ListClubsOptions) ([]Club, error)

	// Evaluate returns the caller-relative membership view of a club.
	Evaluate(ctx context.Context, userID, clubID snowflake.ID) (MembershipEval, error)

	// AddMember joins the user to the club through the role matching the
	// privilege, creating the role on first use. Used by request acceptance
	// and the secretary-only direct path.
	AddMember(ctx context.Context, clubID, userID snowflake.ID, privilege Privilege) (*ClubMembership, error)

	CreateRole(ctx context.Context, actor authdomain.Actor, req CreateRoleRequest) (*ClubRole, error)
	GetRole(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*ClubRole, error)
	UpdateRole(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req UpdateRoleRequest) (*ClubRole, error)
	DeleteRole(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error
	ListRoles(ctx context.Context, actor authdomain.Actor, opts ListRolesOptions) ([]ClubRole, error)

	// CreateMembership is the secretary-only direct membership path.
	CreateMembership(ctx context.Context, actor authdomain.Actor, req CreateMembershipRequest) (*ClubMembership, error)
	GetMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*ClubMembership, error)
	// UpdateMembership reassigns the membership's role. The user cannot be
	// changed and the new role must belong to the same club.
	UpdateMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req UpdateMembershipRequest) (*ClubMembership, error)
	DeleteMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error
	ListMemberships(ctx context.Context, actor authdomain.Actor, opts ListMembershipsOptions) ([]ClubMembership, error)
}

type CreateClubRequest struct {
	Name        string
	Description string
}

type UpdateClubRequest struct {
	Name        string
	Description string
}

type CreateRoleRequest struct {
	ClubID      snowflake.ID
	Name        string
	Description string
	Privilege   Privilege
}

type UpdateRoleRequest struct {
	Name        string
	Description string
	Privilege   Privilege
}

type CreateMembershipRequest struct {
	UserID     snowflake.ID
	ClubRoleID snowflake.ID
}

type UpdateMembershipRequest struct {
	UserID     snowflake.ID
	ClubRoleID snowflake.ID
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidClub      = errors.New("invalid_club")
	ErrInvalidRole      = errors.New("invalid_role")
	ErrInvalidPrivilege = errors.New("invalid_privilege")
	ErrInvalidUser      = errors.New("invalid_user")
	// ErrRoleClubMismatch is returned when a membership is reassigned to a
	// role of a different club.
	ErrRoleClubMismatch = errors.New("role_not_in_club")
	// ErrImmutableUser is returned when a membership update tries to change
	// the member.
	ErrImmutableUser = errors.New("membership_user_immutable")
)
