package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/internal/conversation/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, conversation domain.Conversation) error {
	return r.db.WithContext(ctx).Create(&conversation).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Conversation, error) {
	var conversation domain.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// List scopes to channels of clubs the caller belongs to. Roots only unless
// a parent is named or replies are requested.
func (r *repository) List(ctx context.Context, userID snowflake.ID, opts domain.ListOptions) ([]domain.Conversation, error) {
	query := r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("conversations.channel_id IN (?)", r.memberChannelIDsQuery(userID))

	switch {
	case opts.ParentID != 0:
		query = query.Where("conversations.parent_id = ?", opts.ParentID)
	case !opts.Replies:
		query = query.Where("conversations.parent_id IS NULL")
	}

	if opts.ChannelID != 0 {
		query = query.Where("conversations.channel_id = ?", opts.ChannelID)
	}
	if opts.OnlyMine {
		query = query.Where("conversations.author_id = ?", userID)
	}
	if opts.Search != "" {
		query = query.Where("conversations.content LIKE ?", "%"+opts.Search+"%")
	}

	order := "conversations.created DESC"
	if opts.Ascending {
		order = "conversations.created ASC"
	}

	var conversations []domain.Conversation
	if err := query.Order(order).Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

// memberChannelIDsQuery selects the channels of clubs the user belongs to.
func (r *repository) memberChannelIDsQuery(userID snowflake.ID) *gorm.DB {
	return r.db.Model(&channeldomain.Channel{}).
		Select("channels.id").
		Joins("JOIN club_roles ON club_roles.club_id = channels.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_memberships.user_id = ?", userID)
}
