package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	clubdomain "github.com/openclub/clubhub/internal/club/domain"
	"github.com/openclub/clubhub/internal/project/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// NewEvaluator exposes the repository's project membership predicates.
func NewEvaluator(repo domain.Repository) domain.Evaluator {
	return repo
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, project domain.Project) error {
	return r.db.WithContext(ctx).Create(&project).Error
}

func (r *repository) Get(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *repository) Update(ctx context.Context, project domain.Project) error {
	return r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]any{
			"name":        project.Name,
			"description": project.Description,
		}).Error
}

func (r *repository) SetClosed(ctx context.Context, id snowflake.ID, closed *time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ?", id).
		Update("closed", closed).Error
}

// List scopes non-secretary callers to projects of clubs they belong to.
func (r *repository) List(ctx context.Context, userID snowflake.ID, secretary bool, opts domain.ListOptions) ([]domain.Project, error) {
	query := r.db.WithContext(ctx).Model(&domain.Project{})

	if !secretary {
		query = query.Where("projects.id IN (?)", r.memberProjectIDsQuery(userID))
	}
	if opts.ClubID != 0 {
		query = query.Where(
			"projects.id IN (?)",
			r.db.Model(&domain.ClubProject{}).Select("project_id").Where("club_id = ?", opts.ClubID),
		)
	}
	if opts.OnlyMine {
		query = query.Where(
			"projects.leader_id = ? OR projects.id IN (?)",
			userID,
			r.db.Model(&domain.ProjectMembership{}).Select("project_id").Where("user_id = ?", userID),
		)
	}

	var projects []domain.Project
	if err := query.Order("projects.started DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) LinkClub(ctx context.Context, link domain.ClubProject) error {
	return r.db.WithContext(ctx).Create(&link).Error
}

func (r *repository) OwnerClubIDs(ctx context.Context, projectID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Model(&domain.ClubProject{}).
		Where("project_id = ?", projectID).
		Pluck("club_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) CreateMembership(ctx context.Context, membership domain.ProjectMembership) error {
	return r.db.WithContext(ctx).Create(&membership).Error
}

func (r *repository) GetMembership(ctx context.Context, id snowflake.ID) (*domain.ProjectMembership, error) {
	var membership domain.ProjectMembership
	if err := r.db.WithContext(ctx).First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) DeleteMembership(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProjectMembership{}, "id = ?", id).Error
}

func (r *repository) ListMemberships(ctx context.Context, userID snowflake.ID, opts domain.ListMembershipsOptions) ([]domain.ProjectMembership, error) {
	query := r.db.WithContext(ctx).Model(&domain.ProjectMembership{}).
		Where("project_memberships.project_id IN (?)", r.memberProjectIDsQuery(userID))

	if opts.ProjectID != 0 {
		query = query.Where("project_memberships.project_id = ?", opts.ProjectID)
	}
	if opts.ClubID != 0 {
		query = query.Where(
			"project_memberships.project_id IN (?)",
			r.db.Model(&domain.ClubProject{}).Select("project_id").Where("club_id = ?", opts.ClubID),
		)
	}

	var memberships []domain.ProjectMembership
	if err := query.Order("project_memberships.joined DESC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) HasClubMember(ctx context.Context, projectID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ClubProject{}).
		Joins("JOIN club_roles ON club_roles.club_id = club_projects.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_projects.project_id = ? AND club_memberships.user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) HasClubRep(ctx context.Context, projectID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ClubProject{}).
		Joins("JOIN club_roles ON club_roles.club_id = club_projects.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_projects.project_id = ? AND club_memberships.user_id = ? AND club_roles.privilege = ?",
			projectID, userID, clubdomain.PrivilegeRep).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) HasMember(ctx context.Context, projectID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).
		Where("id = ? AND leader_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	err = r.db.WithContext(ctx).Model(&domain.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) LeaderID(ctx context.Context, projectID snowflake.ID) (snowflake.ID, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).Select("leader_id").First(&project, "id = ?", projectID).Error; err != nil {
		return 0, err
	}
	return project.LeaderID, nil
}

// memberProjectIDsQuery selects the projects owned by any club the user
// belongs to.
func (r *repository) memberProjectIDsQuery(userID snowflake.ID) *gorm.DB {
	return r.db.Model(&domain.ClubProject{}).
		Distinct("club_projects.project_id").
		Joins("JOIN club_roles ON club_roles.club_id = club_projects.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_memberships.user_id = ?", userID)
}
