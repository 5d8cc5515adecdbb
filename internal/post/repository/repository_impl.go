package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	channeldomain "github.com/openclub/clubhub/internal/channel/domain"
	"github.com/openclub/clubhub/internal/post/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, post domain.Post) error {
	return r.db.WithContext(ctx).Create(&post).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Post, error) {
	var post domain.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repository) Update(ctx context.Context, post domain.Post) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).
		Where("id = ?", post.ID).
		Update("content", post.Content).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Post{}, "id = ?", id).Error
}

// List defaults to the caller's subscribed channels when no channel is named.
func (r *repository) List(ctx context.Context, userID snowflake.ID, opts domain.ListOptions) ([]domain.Post, error) {
	query := r.db.WithContext(ctx).Model(&domain.Post{})

	if opts.ChannelID != 0 {
		query = query.Where("posts.channel_id = ?", opts.ChannelID)
	} else {
		query = query.Where(
			"posts.channel_id IN (?)",
			r.db.Model(&channeldomain.ChannelSubscription{}).Select("channel_id").Where("user_id = ?", userID),
		)
	}
	if opts.Search != "" {
		query = query.Where("posts.content LIKE ?", "%"+opts.Search+"%")
	}

	order := "posts.created DESC"
	if opts.Ascending {
		order = "posts.created ASC"
	}

	var posts []domain.Post
	if err := query.Order(order).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
