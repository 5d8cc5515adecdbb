package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/internal/clock"
	"github.com/openclub/clubhub/internal/conversation/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	log      *zap.Logger
	repo     domain.Repository
	channels channeldomain.Evaluator
	authz    authorization.Service
	genID    *snowflake.Node
	clk      clock.Clock
}

func NewService(
	log *zap.Logger,
	repo domain.Repository,
	channels channeldomain.Evaluator,
	authz authorization.Service,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		log:      log.Named("conversation.service"),
		repo:     repo,
		channels: channels,
		authz:    authz,
		genID:    genID,
		clk:      clk,
	}
}

func (s *service) Create(ctx context.Context, actor authdomain.Actor, req domain.CreateRequest) (*domain.Conversation, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}
	if _, err := s.channels.ClubIDOfChannel(ctx, req.ChannelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidChannel
		}
		return nil, err
	}

	if req.ParentID != nil {
		parent, err := s.repo.Get(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrInvalidParent
			}
			return nil, err
		}
		if parent.ChannelID != req.ChannelID {
			return nil, domain.ErrInvalidParent
		}
	}

	conversation := domain.Conversation{
		ID:        s.genID.Generate(),
		ChannelID: req.ChannelID,
		AuthorID:  actor.ID,
		ParentID:  req.ParentID,
		Content:   content,
		Created:   s.clk.Now(),
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, conversation); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Conversation, error) {
	conversation, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.Conversation, error) {
	return s.repo.List(ctx, actor.ID, opts)
}
