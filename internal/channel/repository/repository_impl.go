package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/openclub/clubhub/internal/auth/domain"
	"github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// NewEvaluator exposes the repository's subscription predicates.
func NewEvaluator(repo domain.Repository) domain.Evaluator {
	return repo
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, channel domain.Channel) error {
	return r.db.WithContext(ctx).Create(&channel).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Channel, error) {
	var channel domain.Channel
	if err := r.db.WithContext(ctx).First(&channel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *repository) Update(ctx context.Context, channel domain.Channel) error {
	return r.db.WithContext(ctx).Model(&domain.Channel{}).
		Where("id = ?", channel.ID).
		Updates(map[string]any{
			"name":        channel.Name,
			"description": channel.Description,
		}).Error
}

func (r *repository) List(ctx context.Context, userID snowflake.ID, opts domain.ListOptions) ([]domain.Channel, error) {
	query := r.db.WithContext(ctx).Model(&domain.Channel{})

	if opts.ClubID != 0 {
		query = query.Where("channels.club_id = ?", opts.ClubID)
	}
	if opts.OnlyMine {
		query = query.Where(
			"channels.id IN (?)",
			r.db.Model(&domain.ChannelSubscription{}).Select("channel_id").Where("user_id = ?", userID),
		)
	}
	if opts.Search != "" {
		query = query.Where("channels.name LIKE ?", "%"+opts.Search+"%")
	}

	var channels []domain.Channel
	if err := query.Find(&channels).Error; err != nil {
		return nil, err
	}
	return channels, nil
}

func (r *repository) Subscribe(ctx context.Context, sub domain.ChannelSubscription) error {
	err := r.db.WithContext(ctx).Create(&sub).Error
	if err != nil && db.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func (r *repository) Unsubscribe(ctx context.Context, channelID, userID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.ChannelSubscription{}, "channel_id = ? AND user_id = ?", channelID, userID).Error
}

func (r *repository) Subscribers(ctx context.Context, channelID snowflake.ID) ([]authdomain.User, error) {
	var users []authdomain.User
	err := r.db.WithContext(ctx).Model(&authdomain.User{}).
		Joins("JOIN channel_subscriptions ON channel_subscriptions.user_id = users.id").
		Where("channel_subscriptions.channel_id = ?", channelID).
		Order("channel_subscriptions.joined ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) SubscribedChannelIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Model(&domain.ChannelSubscription{}).
		Where("user_id = ?", userID).
		Pluck("channel_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) HasSubscriber(ctx context.Context, channelID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ChannelSubscription{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ClubIDOfChannel(ctx context.Context, channelID snowflake.ID) (snowflake.ID, error) {
	var channel domain.Channel
	if err := r.db.WithContext(ctx).Select("club_id").First(&channel, "id = ?", channelID).Error; err != nil {
		return 0, err
	}
	return channel.ClubID, nil
}
