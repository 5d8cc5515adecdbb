package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
)

// ListOptions narrows conversation listings. Callers are always pre-scoped to
// channels of clubs they belong to. By default only root conversations are
// returned; setting ParentID restricts to children of that conversation and
// implies replies are included.
type ListOptions struct {
	ParentID  snowflake.ID // 0 = unset
	ChannelID snowflake.ID // 0 = unset
	OnlyMine  bool
	Replies   bool
	Ascending bool
	Search    string
}

type Repository interface {
	Create(ctx context.Context, conversation Conversation) error
	Get(ctx context.Context, id snowflake.ID) (*Conversation, error)
	List(ctx context.Context, userID snowflake.ID, opts ListOptions) ([]Conversation, error)
}

type Service interface {
	// Create posts a conversation authored by the actor. Members of the
	// channel's club only. Conversations are never updated or deleted.
	Create(ctx context.Context, actor authdomain.Actor, req CreateRequest) (*Conversation, error)
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Conversation, error)
	List(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]Conversation, error)
}

type CreateRequest struct {
	ChannelID snowflake.ID
	ParentID  *snowflake.ID
	Content   string
}

var (
	ErrInvalidChannel = errors.New("invalid_channel")
	ErrInvalidContent = errors.New("invalid_content")
	// ErrInvalidParent is returned when the parent conversation does not
	// exist or belongs to a different channel.
	ErrInvalidParent = errors.New("invalid_parent")
)
