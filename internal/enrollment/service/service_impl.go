package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	"github.com/openclub/clubhub/internal/clock"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	"github.com/openclub/clubhub/internal/enrollment/domain"
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
		log:   log.Named("enrollment.service"),
		repo:  repo,
		clubs: clubs,
		authz: authz,
		genID: genID,
		clk:   clk,
	}
}

func (s *service) Create(ctx context.Context, actor authdomain.Actor, clubID snowflake.ID) (*domain.MembershipRequest, error) {
	if _, err := s.clubs.GetClub(ctx, clubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidClub
		}
		return nil, err
	}

	member, err := s.clubs.HasMember(ctx, clubID, actor.ID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, domain.ErrAlreadyMember
	}

	pending, err := s.repo.HasPending(ctx, clubID, actor.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, domain.ErrPendingRequest
	}

	request := domain.MembershipRequest{
		ID:        s.genID.Generate(),
		UserID:    actor.ID,
		ClubID:    clubID,
		Initiated: s.clk.Now(),
		Status:    domain.StatusPending,
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, request); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.log.Info("membership request opened",
		zap.Int64("request_id", int64(request.ID)),
		zap.Int64("club_id", int64(clubID)),
		zap.Int64("user_id", int64(actor.ID)),
	)
	return &request, nil
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.MembershipRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.MembershipRequest, error) {
	repClubIDs, err := s.clubs.RepresentedClubIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, actor.ID, repClubIDs, opts)
}

// Accept transitions the request to ACCEPTED and joins the requester to the
// club in one transaction. The guarded transition serializes concurrent
// accept/reject/cancel calls: whoever loses sees the request already closed.
func (s *service) Accept(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.MembershipRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rep, err := s.clubs.HasRep(ctx, request.ClubID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !rep {
		return nil, authorization.ErrForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		clubs := s.clubs.WithTx(tx)

		closed, err := repo.CloseIfPending(ctx, id, domain.StatusAccepted, s.clk.Now())
		if err != nil {
			return err
		}
		if !closed {
			return s.actionNotAvailable(ctx, repo, id, "accept")
		}

		role, err := clubs.GetOrCreateRoleByPrivilege(ctx, request.ClubID, clubdomain.PrivilegeMem, s.genID.Generate())
		if err != nil {
			return err
		}
		return clubs.CreateMembership(ctx, clubdomain.ClubMembership{
			ID:         s.genID.Generate(),
			UserID:     request.UserID,
			ClubRoleID: role.ID,
			Joined:     s.clk.Now(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("membership request accepted",
		zap.Int64("request_id", int64(id)),
		zap.Int64("club_id", int64(request.ClubID)),
		zap.Int64("user_id", int64(request.UserID)),
	)
	return s.repo.Get(ctx, id)
}

// Reject transitions the request to REJECTED. Club representative only.
func (s *service) Reject(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.MembershipRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rep, err := s.clubs.HasRep(ctx, request.ClubID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !rep {
		return nil, authorization.ErrForbidden
	}

	return s.transition(ctx, id, domain.StatusRejected, "reject")
}

// Cancel transitions the request to CANCELLED. Requester only.
func (s *service) Cancel(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.MembershipRequest, error) {
	request, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.UserID != actor.ID {
		return nil, authorization.ErrForbidden
	}

	return s.transition(ctx, id, domain.StatusCancelled, "cancel")
}

func (s *service) transition(ctx context.Context, id snowflake.ID, status domain.Status, action string) (*domain.MembershipRequest, error) {
	closed, err := s.repo.CloseIfPending(ctx, id, status, s.clk.Now())
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, s.actionNotAvailable(ctx, s.repo, id, action)
	}
	return s.repo.Get(ctx, id)
}

// actionNotAvailable reloads the request so the error reports the status that
// won the race.
func (s *service) actionNotAvailable(ctx context.Context, repo domain.Repository, id snowflake.ID, action string) error {
	request, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return &domain.ActionNotAvailableError{Action: action, Status: request.Status}
}
