package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Evaluator answers membership questions about clubs. All methods are pure
// reads reflecting the latest committed state.
type Evaluator interface {
	// HasMember reports whether the user holds any membership in the club.
	HasMember(ctx context.Context, clubID, userID snowflake.ID) (bool, error)
	// HasRep reports whether the user holds a membership through a
	// representative-privilege role of the club.
	HasRep(ctx context.Context, clubID, userID snowflake.ID) (bool, error)
	// ClubIDOfRole resolves the club a role belongs to.
	ClubIDOfRole(ctx context.Context, roleID snowflake.ID) (snowflake.ID, error)
}

// ListClubsOptions narrows club listings.
type ListClubsOptions struct {
	OnlyMine bool
	Search   string
}

// ListRolesOptions narrows role listings. Roles are always pre-scoped to the
// caller's clubs.
type ListRolesOptions struct {
	ClubID snowflake.ID // 0 = unset
}

// ListMembershipsOptions narrows membership listings.
type ListMembershipsOptions struct {
	ClubID snowflake.ID // 0 = unset
}

type Repository interface {
	Evaluator

	WithTx(tx *gorm.DB) Repository

	CreateClub(ctx context.Context, club Club) error
	GetClub(ctx context.Context, id snowflake.ID) (*Club, error)
	UpdateClub(ctx context.Context, club Club) error
	DeleteClub(ctx context.Context, id snowflake.ID) error
	ListClubs(ctx context.Context, userID snowflake.ID, opts ListClubsOptions) ([]Club, error)

	CreateRole(ctx context.Context, role ClubRole) error
	GetRole(ctx context.Context, id snowflake.ID) (*ClubRole, error)
	UpdateRole(ctx context.Context, role ClubRole) error
	DeleteRole(ctx context.Context, id snowflake.ID) error
	ListRoles(ctx context.Context, userID snowflake.ID, opts ListRolesOptions) ([]ClubRole, error)
	// GetOrCreateRoleByPrivilege returns the club's role for the privilege,
	// creating it named by the privilege's display name on first use.
	GetOrCreateRoleByPrivilege(ctx context.Context, clubID snowflake.ID, privilege Privilege, id snowflake.ID) (*ClubRole, error)

	CreateMembership(ctx context.Context, membership ClubMembership) error
	GetMembership(ctx context.Context, id snowflake.ID) (*ClubMembership, error)
	UpdateMembershipRole(ctx context.Context, id, roleID snowflake.ID) error
	DeleteMembership(ctx context.Context, id snowflake.ID) error
	ListMemberships(ctx context.Context, opts ListMembershipsOptions) ([]ClubMembership, error)

	// MemberClubIDs returns the IDs of clubs the user belongs to.
	MemberClubIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
	// RepresentedClubIDs returns the IDs of clubs the user represents.
	RepresentedClubIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
}
