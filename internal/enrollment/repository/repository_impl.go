package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/openclub/clubhub/internal/enrollment/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, request domain.MembershipRequest) error {
	return r.db.WithContext(ctx).Create(&request).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.MembershipRequest, error) {
	var request domain.MembershipRequest
	if err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// List returns the user's own requests plus the requests of the clubs in
// repClubIDs. Callers resolve repClubIDs beforehand; secretary callers pass
// every club they oversee.
func (r *repository) List(ctx context.Context, userID snowflake.ID, repClubIDs []snowflake.ID, opts domain.ListOptions) ([]domain.MembershipRequest, error) {
	query := r.db.WithContext(ctx).Model(&domain.MembershipRequest{})

	if len(repClubIDs) > 0 {
		query = query.Where("user_id = ? OR club_id IN ?", userID, repClubIDs)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	if opts.OnlyMine {
		query = query.Where("user_id = ?", userID)
	}
	if opts.ClubID != 0 {
		query = query.Where("club_id = ?", opts.ClubID)
	}
	if opts.Pending != nil {
		if *opts.Pending {
			query = query.Where("status = ?", domain.StatusPending)
		} else {
			query = query.Where("status <> ?", domain.StatusPending)
		}
	}

	order := "initiated DESC"
	if opts.Ascending {
		order = "initiated ASC"
	}

	var requests []domain.MembershipRequest
	if err := query.Order(order).Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) HasPending(ctx context.Context, clubID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.MembershipRequest{}).
		Where("club_id = ? AND user_id = ? AND status = ?", clubID, userID, domain.StatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CloseIfPending is a guarded update so concurrent transitions resolve to
// exactly one winner.
func (r *repository) CloseIfPending(ctx context.Context, id snowflake.ID, status domain.Status, closedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.MembershipRequest{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status": status,
			"closed": closedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
