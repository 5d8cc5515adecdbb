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
	"github.com/openclub/clubhub/internal/feedback/domain"
	dbpkg "github.com/openclub/clubhub/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	clubs clubdomain.Repository
	authz authorization.Service
	genID *snowflake.Node
	clk   clock.Clock
}

func NewService(
	log *zap.Logger,
	repo domain.Repository,
	clubs clubdomain.Repository,
	authz authorization.Service,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		log:   log.Named("feedback.service"),
		repo:  repo,
		clubs: clubs,
		authz: authz,
		genID: genID,
		clk:   clk,
	}
}

func (s *service) Create(ctx context.Context, actor authdomain.Actor, req domain.CreateRequest) (*domain.Feedback, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}
	if _, err := s.clubs.GetClub(ctx, req.ClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidClub
		}
		return nil, err
	}

	feedback := domain.Feedback{
		ID:       s.genID.Generate(),
		ClubID:   req.ClubID,
		AuthorID: actor.ID,
		Content:  content,
		Created:  s.clk.Now(),
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, feedback); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Feedback, error) {
	feedback, err := s.repo.GetFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (s *service) Reply(ctx context.Context, actor authdomain.Actor, feedbackID snowflake.ID) (*domain.FeedbackReply, error) {
	feedback, err := s.repo.GetFeedback(ctx, feedbackID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *feedback); err != nil {
		return nil, err
	}
	reply, err := s.repo.ReplyOf(ctx, feedbackID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.Feedback, error) {
	repClubIDs, err := s.clubs.RepresentedClubIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, actor.ID, actor.IsSecretary, repClubIDs, opts)
}

// CreateReply posts the club's single reply. A second reply to the same
// feedback fails.
func (s *service) CreateReply(ctx context.Context, actor authdomain.Actor, req domain.CreateReplyRequest) (*domain.FeedbackReply, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}
	if _, err := s.repo.GetFeedback(ctx, req.FeedbackID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidFeedback
		}
		return nil, err
	}

	reply := domain.FeedbackReply{
		ID:         s.genID.Generate(),
		FeedbackID: req.FeedbackID,
		Content:    content,
		Created:    s.clk.Now(),
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, reply); err != nil {
		return nil, err
	}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return nil, domain.ErrReplyExists
		}
		return nil, err
	}
	return &reply, nil
}

func (s *service) GetReply(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.FeedbackReply, error) {
	reply, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// ListReplies returns the replies of the feedback the caller can read,
// narrowed by the same options as List.
func (s *service) ListReplies(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.FeedbackReply, error) {
	feedbacks, err := s.List(ctx, actor, opts)
	if err != nil {
		return nil, err
	}
	ids := make([]snowflake.ID, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		ids = append(ids, feedback.ID)
	}
	return s.repo.ListReplies(ctx, ids)
}
