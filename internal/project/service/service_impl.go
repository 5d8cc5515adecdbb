package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	"github.com/openclub/clubhub/internal/clock"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	"github.com/openclub/clubhub/internal/project/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	clubs clubdomain.Repository
	authz authorization.Service
	genID *snowflake.Node
	clk   clock.Clock
}

func NewService(
	db *gorm.DB,
	log *zap.Logger,
	repo domain.Repository,
	clubs clubdomain.Repository,
	authz authorization.Service,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		db:    db,
		log:   log.Named("project.service"),
		repo:  repo,
		clubs: clubs,
		authz: authz,
		genID: genID,
		clk:   clk,
	}
}

// Create registers the project and its owner-club link in one transaction.
func (s *service) Create(ctx context.Context, actor authdomain.Actor, req domain.CreateRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.OwnerClubID == 0 {
		return nil, domain.ErrInvalidClub
	}
	if req.LeaderID == 0 {
		return nil, domain.ErrInvalidLeader
	}
	if _, err := s.clubs.GetClub(ctx, req.OwnerClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidClub
		}
		return nil, err
	}

	project := domain.Project{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Started:     s.clk.Now(),
		LeaderID:    req.LeaderID,
	}
	link := domain.ClubProject{
		ID:        s.genID.Generate(),
		ClubID:    req.OwnerClubID,
		ProjectID: project.ID,
	}

	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, link); err != nil {
		return nil, err
	}

	leaderMember, err := s.clubs.HasMember(ctx, req.OwnerClubID, req.LeaderID)
	if err != nil {
		return nil, err
	}
	if !leaderMember {
		return nil, domain.ErrLeaderNotClubMember
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, project); err != nil {
			return err
		}
		return repo.LinkClub(ctx, link)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("project created",
		zap.Int64("project_id", int64(project.ID)),
		zap.Int64("owner_club_id", int64(req.OwnerClubID)),
	)
	return &project, nil
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req domain.UpdateRequest) (*domain.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *project); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	project.Name = name
	project.Description = strings.TrimSpace(req.Description)
	if err := s.repo.Update(ctx, *project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.Project, error) {
	return s.repo.List(ctx, actor.ID, actor.IsSecretary, opts)
}

// Close marks the project closed. Closing a closed project changes nothing.
func (s *service) Close(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *project); err != nil {
		return nil, err
	}
	if project.Closed != nil {
		return project, nil
	}

	now := s.clk.Now()
	if err := s.repo.SetClosed(ctx, id, &now); err != nil {
		return nil, err
	}
	project.Closed = &now
	return project, nil
}

// Reopen clears the closed timestamp. Reopening an open project changes
// nothing.
func (s *service) Reopen(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Project, error) {
	project, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *project); err != nil {
		return nil, err
	}
	if project.Closed == nil {
		return project, nil
	}

	if err := s.repo.SetClosed(ctx, id, nil); err != nil {
		return nil, err
	}
	project.Closed = nil
	return project, nil
}

func (s *service) CreateMembership(ctx context.Context, actor authdomain.Actor, req domain.CreateMembershipRequest) (*domain.ProjectMembership, error) {
	if req.UserID == 0 {
		return nil, domain.ErrUserNotClubMember
	}
	if _, err := s.repo.Get(ctx, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidProject
		}
		return nil, err
	}

	membership := domain.ProjectMembership{
		ID:        s.genID.Generate(),
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Joined:    s.clk.Now(),
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, membership); err != nil {
		return nil, err
	}

	member, err := s.clubs.HasMember(ctx, req.ClubID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrUserNotClubMember
	}

	ownerClubIDs, err := s.repo.OwnerClubIDs(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	inOwnerClub := false
	for _, clubID := range ownerClubIDs {
		ok, err := s.clubs.HasMember(ctx, clubID, req.UserID)
		if err != nil {
			return nil, err
		}
		if ok {
			inOwnerClub = true
			break
		}
	}
	if !inOwnerClub {
		return nil, domain.ErrUserNotOwnerClubMember
	}

	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}
	return &membership, nil
}

func (s *service) GetMembership(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.ProjectMembership, error) {
	membership, err := s.repo.GetMembership(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *membership); err != nil {
		return nil, err
	}
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

func (s *service) ListMemberships(ctx context.Context, actor authdomain.Actor, opts domain.ListMembershipsOptions) ([]domain.ProjectMembership, error) {
	return s.repo.ListMemberships(ctx, actor.ID, opts)
}
