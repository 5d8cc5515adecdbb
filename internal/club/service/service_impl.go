package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/internal/clock"
	"github.com/openclub/clubhub/internal/club/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	channels channeldomain.Repository
	authz    authorization.Service
	genID    *snowflake.Node
	clk      clock.Clock
}

func NewService(
	db *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	channels channeldomain.Repository,
	authz authorization.Service,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		db:       db,
		log:      log.Named("club.service"),
		repo:     repo,
		channels: channels,
		authz:    authz,
		genID:    genID,
		clk:      clk,
	}
}

// Create registers the club and its channel in one transaction.
func (s *service) Create(ctx context.Context, actor authdomain.Actor, req domain.CreateClubRequest) (*domain.Club, error) {
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, domain.Club{}); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	club := domain.Club{
		ID:          s.genID.Generate(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.clk.Now(),
	}
	channel := channeldomain.Channel{
		ID:     s.genID.Generate(),
		ClubID: club.ID,
		Name:   name + " Channel",
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateClub(ctx, club); err != nil {
			return err
		}
		return s.channels.WithTx(tx).Create(ctx, channel)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("club created",
		zap.Int64("club_id", int64(club.ID)),
		zap.String("slug", club.Slug),
	)
	return &club, nil
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Club, error) {
	club, err := s.repo.GetClub(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *club); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *service) Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req domain.UpdateClubRequest) (*domain.Club, error) {
	club, err := s.repo.GetClub(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *club); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	club.Name = name
	club.Slug = slug.Make(name)
	club.Description = strings.TrimSpace(req.Description)
	if err := s.repo.UpdateClub(ctx, *club); err != nil {
		return nil, err
	}
	return club, nil
}

func (s *service) Delete(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error {
	club, err := s.repo.GetClub(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionDelete, *club); err != nil {
		return err
	}
	return s.repo.DeleteClub(ctx, id)
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListClubsOptions) ([]domain.Club, error) {
	return s.repo.ListClubs(ctx, actor.ID, opts)
}

func (s *service) Evaluate(ctx context.Context, userID, clubID snowflake.ID) (domain.MembershipEval, error) {
	member, err := s.repo.HasMember(ctx, clubID, userID)
	if err != nil {
		return domain.MembershipEval{}, err
	}
	if !member {
		return domain.MembershipEval{}, nil
	}
	rep, err := s.repo.HasRep(ctx, clubID, userID)
	if err != nil {
		return domain.MembershipEval{}, err
	}
	return domain.MembershipEval{IsMember: true, IsRep: rep}, nil
}

// AddMember joins the user through the club's role for the privilege. Not
// authorization-checked; callers gate access before invoking it.
func (s *service) AddMember(ctx context.Context, clubID, userID snowflake.ID, privilege domain.Privilege) (*domain.ClubMembership, error) {
	if !privilege.Valid() {
		return nil, domain.ErrInvalidPrivilege
	}

	var membership domain.ClubMembership
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		role, err := repo.GetOrCreateRoleByPrivilege(ctx, clubID, privilege, s.genID.Generate())
		if err != nil {
			return err
		}

		membership = domain.ClubMembership{
			ID:         s.genID.Generate(),
			UserID:     userID,
			ClubRoleID: role.ID,
			Joined:     s.clk.Now(),
		}
		return repo.CreateMembership(ctx, membership)
	})
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *service) CreateRole(ctx context.Context, actor authdomain.Actor, req domain.CreateRoleRequest) (*domain.ClubRole, error) {
	if req.ClubID == 0 {
		return nil, domain.ErrInvalidClub
	}
	if !req.Privilege.Valid() {
		return nil, domain.ErrInvalidPrivilege
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if _, err := s.repo.GetClub(ctx, req.ClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidClub
		}
		return nil, err
	}

	role := domain.ClubRole{
		ID:          s.genID.Generate(),
		ClubID:      req.ClubID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Privilege:   req.Privilege,
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, role); err != nil {
		return nil, err
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *service) GetRole(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.ClubRole, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *service) UpdateRole(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req domain.UpdateRoleRequest) (*domain.ClubRole, error) {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *role); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if !req.Privilege.Valid() {
		return nil, domain.ErrInvalidPrivilege
	}

	role.Name = name
	role.Description = strings.TrimSpace(req.Description)
	role.Privilege = req.Privilege
	if err := s.repo.UpdateRole(ctx, *role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *service) DeleteRole(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error {
	role, err := s.repo.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionDelete, *role); err != nil {
		return err
	}
	return s.repo.DeleteRole(ctx, id)
}

func (s *service) ListRoles(ctx context.Context, actor authdomain.Actor, opts domain.ListRolesOptions) ([]domain.ClubRole, error) {
	return s.repo.ListRoles(ctx, actor.ID, opts)
}

func (s *service) CreateMembership(ctx context.Context, actor authdomain.Actor, req domain.CreateMembershipRequest) (*domain.ClubMembership, error) {
	if req.UserID == 0 {
		return nil, domain.ErrInvalidUser
	}
	if _, err := s.repo.GetRole(ctx, req.ClubRoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidRole
		}
		return nil, err
	}

	membership := domain.ClubMembership{
		ID:         s.genID.Generate(),
		UserID:     req.UserID,
		ClubRoleID: req.ClubRoleID,
		Joined:     s.clk.Now(),
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, membership); err != nil {
		return nil, err
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *service) GetMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.ClubMembership, error) {
	membership, err := s.repo.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *service) UpdateMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req domain.UpdateMembershipRequest) (*domain.ClubMembership, error) {
	membership, err := s.repo.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *membership); err != nil {
		return nil, err
	}

	if req.UserID != 0 && req.UserID != membership.UserID {
		return nil, domain.ErrImmutableUser
	}

	role, err := s.repo.GetRole(ctx, req.ClubRoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidRole
		}
		return nil, err
	}
	currentClubID, err := s.repo.ClubIDOfRole(ctx, membership.ClubRoleID)
	if err != nil {
		return nil, err
	}
	if role.ClubID != currentClubID {
		return nil, domain.ErrRoleClubMismatch
	}

	if err := s.repo.UpdateMembershipRole(ctx, id, role.ID); err != nil {
		return nil, err
	}
	membership.ClubRoleID = role.ID
	return membership, nil
}

func (s *service) DeleteMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error {
	membership, err := s.repo.GetMembership(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionDelete, *membership); err != nil {
		return err
	}
	return s.repo.DeleteMembership(ctx, id)
}

// ListMemberships requires non-secretary callers to name a club they belong
// to.
func (s *service) ListMemberships(ctx context.Context, actor authdomain.Actor, opts domain.ListMembershipsOptions) ([]domain.ClubMembership, error) {
	if !actor.IsSecretary {
		if opts.ClubID == 0 {
			return nil, domain.ErrInvalidClub
		}
		member, err := s.repo.HasMember(ctx, opts.ClubID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, authorization.ErrForbidden
		}
	}
	return s.repo.ListMemberships(ctx, opts)
}
