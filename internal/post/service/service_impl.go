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
	"github.com/openclub/clubhub/internal/post/domain"
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
		log:      log.Named("post.service"),
		repo:     repo,
		channels: channels,
		authz:    authz,
		genID:    genID,
		clk:      clk,
	}
}

func (s *service) Create(ctx context.Context, actor authdomain.Actor, req domain.CreateRequest) (*domain.Post, error) {
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

	post := domain.Post{
		ID:        s.genID.Generate(),
		ChannelID: req.ChannelID,
		Content:   content,
		Created:   s.clk.Now(),
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionCreate, post); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req domain.UpdateRequest) (*domain.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *post); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrInvalidContent
	}

	post.Content = content
	if err := s.repo.Update(ctx, *post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *service) Delete(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionDelete, *post); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.Post, error) {
	return s.repo.List(ctx, actor.ID, opts)
}
