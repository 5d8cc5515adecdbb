package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"gorm.io/gorm"
)

// Evaluator answers subscription and ownership questions about channels.
type Evaluator interface {
	HasSubscriber(ctx context.Context, channelID, userID snowflake.ID) (bool, error)
	ClubIDOfChannel(ctx context.Context, channelID snowflake.ID) (snowflake.ID, error)
}

// ListOptions narrows channel listings.
type ListOptions struct {
	ClubID   snowflake.ID // 0 = unset
	OnlyMine bool
	Search   string
}

type Repository interface {
	Evaluator

	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, channel Channel) error
	Get(ctx context.Context, id snowflake.ID) (*Channel, error)
	Update(ctx context.Context, channel Channel) error
	List(ctx context.Context, userID snowflake.ID, opts ListOptions) ([]Channel, error)

	// Subscribe inserts a subscription row unless one already exists.
	Subscribe(ctx context.Context, sub ChannelSubscription) error
	// Unsubscribe removes the subscription. Safe when not subscribed.
	Unsubscribe(ctx context.Context, channelID, userID snowflake.ID) error
	Subscribers(ctx context.Context, channelID snowflake.ID) ([]authdomain.User, error)
	// SubscribedChannelIDs returns the channels the user subscribes to.
	SubscribedChannelIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error)
}

type Service interface {
	Get(ctx context.Context, actor authdomain.Actor, id snowflake.ID) (*Channel, error)
	// Update edits the channel name/description. Club representative only;
	// channels are never created or deleted directly.
	Update(ctx context.Context, actor authdomain.Actor, id snowflake.ID, req UpdateRequest) (*Channel, error)
	List(ctx context.Context, actor authdomain.Actor, opts ListOptions) ([]Channel, error)

	Subscribe(ctx context.Context, actor authdomain.Actor, channelID snowflake.ID) (*Channel, error)
	Unsubscribe(ctx context.Context, actor authdomain.Actor, channelID snowflake.ID) (*Channel, error)
	Subscribers(ctx context.Context, actor authdomain.Actor, channelID snowflake.ID) ([]authdomain.User, error)
	// Subscribed reports whether the user subscribes to the channel; used by
	// the serialization layer.
	Subscribed(ctx context.Context, userID, channelID snowflake.ID) (bool, error)
}

type UpdateRequest struct {
	Name        string
	Description string
}

var ErrInvalidChannel = errors.New("invalid_channel")
