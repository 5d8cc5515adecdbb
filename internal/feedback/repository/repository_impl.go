package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/openclub/clubhub/internal/feedback/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// NewEvaluator exposes the repository's feedback lookups.
func NewEvaluator(repo domain.Repository) domain.Evaluator {
	return repo
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, feedback domain.Feedback) error {
	return r.db.WithContext(ctx).Create(&feedback).Error
}

func (r *repository) GetFeedback(ctx context.Context, id snowflake.ID) (*domain.Feedback, error) {
	var feedback domain.Feedback
	if err := r.db.WithContext(ctx).First(&feedback, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &feedback, nil
}

// List scopes non-secretary callers to feedback they authored plus feedback
// of the clubs in repClubIDs.
func (r *repository) List(ctx context.Context, userID snowflake.ID, secretary bool, repClubIDs []snowflake.ID, opts domain.ListOptions) ([]domain.Feedback, error) {
	query := r.db.WithContext(ctx).Model(&domain.Feedback{})

	if !secretary {
		if len(repClubIDs) > 0 {
			query = query.Where("author_id = ? OR club_id IN ?", userID, repClubIDs)
		} else {
			query = query.Where("author_id = ?", userID)
		}
	}

	if opts.OnlyMine {
		query = query.Where("author_id = ?", userID)
	}
	if opts.ClubID != 0 {
		query = query.Where("club_id = ?", opts.ClubID)
	}
	if opts.Search != "" {
		query = query.Where("content LIKE ?", "%"+opts.Search+"%")
	}

	order := "created DESC"
	if opts.Ascending {
		order = "created ASC"
	}

	var feedbacks []domain.Feedback
	if err := query.Order(order).Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *repository) CreateReply(ctx context.Context, reply domain.FeedbackReply) error {
	return r.db.WithContext(ctx).Create(&reply).Error
}

func (r *repository) GetReply(ctx context.Context, id snowflake.ID) (*domain.FeedbackReply, error) {
	var reply domain.FeedbackReply
	if err := r.db.WithContext(ctx).First(&reply, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *repository) ReplyOf(ctx context.Context, feedbackID snowflake.ID) (*domain.FeedbackReply, error) {
	var reply domain.FeedbackReply
	if err := r.db.WithContext(ctx).First(&reply, "feedback_id = ?", feedbackID).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *repository) ListReplies(ctx context.Context, feedbackIDs []snowflake.ID) ([]domain.FeedbackReply, error) {
	if len(feedbackIDs) == 0 {
		return nil, nil
	}
	var replies []domain.FeedbackReply
	err := r.db.WithContext(ctx).
		Where("feedback_id IN ?", feedbackIDs).
		Order("created DESC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}
	return replies, nil
}
