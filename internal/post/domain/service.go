package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
)

// ListOptions narrows post listings. When ChannelID is unset the listing
// defaults to channels the caller subscribes to.
type ListOptions struct {
	ChannelID snowflake.ID // 0 = unset
	Ascending bool
	Search    string
}

type Repository interface {
	Create(ctx context.Context, post Post) error
	Get(ctx context.Context, id snowflake.ID) (*Post, error)
	Update(ctx context.Context, post Post) error
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, userID snowflake.ID, opts ListOptions) ([]Post, error)
}

type Service interface {
	Create(ctx context.Context, actor authdomain.Actor, req CreateRequest) (*Post, error)
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Post, error)
	Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req UpdateRequest) (*Post, error)
	Delete(ctx context.Context, actor authdomain.Actor, id snowflake.ID) error
	List(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]Post, error)
}

type CreateRequest struct {
	ChannelID snowflake.ID
	Content   string
}

type UpdateRequest struct {
	Content string
}

var (
	ErrInvalidChannel = errors.New("invalid_channel")
	ErrInvalidContent = errors.New("invalid_content")
)
