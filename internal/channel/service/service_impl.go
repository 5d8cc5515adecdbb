package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/authorization"
	"github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/internal/clock"
	"go.uber.org/zap"
)

type service struct {
	log   *zap.Logger
	repo  domain.Repository
	authz authorization.Service
	genID *snowflake.Node
	clk   clock.Clock
}

func NewService(
	log *zap.Logger,
	repo domain.Repository,
	authz authorization.Service,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &service{
		log:   log.Named("channel.service"),
		repo:  repo,
		authz: authz,
		genID: genID,
		clk:   clk,
	}
}

func (s *service) Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*domain.Channel, error) {
	channel, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *service) Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req domain.UpdateRequest) (*domain.Channel, error) {
	channel, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionUpdate, *channel); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidChannel
	}

	channel.Name = name
	channel.Description = strings.TrimSpace(req.Description)
	if err := s.repo.Update(ctx, *channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *service) List(ctx context.Context, actor authdomain.Actor, opts domain.ListOptions) ([]domain.Channel, error) {
	return s.repo.List(ctx, actor.ID, opts)
}

// Subscribe is idempotent; subscribing twice is the same as once.
func (s *service) Subscribe(ctx context.Context, actor authdomain.Actor, channelID snowflake.ID) (*domain.Channel, error) {
	channel, err := s.repo.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Subscribe(ctx, domain.ChannelSubscription{
		ID:        s.genID.Generate(),
		UserID:    actor.ID,
		ChannelID: channelID,
		Joined:    s.clk.Now(),
	})
	if err != nil {
		return nil, err
	}
	return channel, nil
}

// Unsubscribe is idempotent; unsubscribing while not subscribed is a no-op.
func (s *service) Unsubscribe(ctx context.Context, actor authdomain.Actor, channelID snowflake.ID) (*domain.Channel, error) {
	channel, err := s.repo.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Unsubscribe(ctx, channelID, actor.ID); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *service) Subscribers(ctx context.Context, actor authdomain.Actor, channelID snowflake.ID) ([]authdomain.User, error) {
	channel, err := s.repo.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, authorization.ActionRead, *channel); err != nil {
		return nil, err
	}
	return s.repo.Subscribers(ctx, channelID)
}

func (s *service) Subscribed(ctx context.Context, userID, channelID snowflake.ID) (bool, error) {
	return s.repo.HasSubscriber(ctx, channelID, userID)
}
