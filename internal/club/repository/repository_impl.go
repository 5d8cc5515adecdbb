package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/openclub/clubhub/internal/club/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

// NewEvaluator exposes the repository's membership predicates.
func NewEvaluator(repo domain.Repository) domain.Evaluator {
	return repo
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateClub(ctx context.Context, club domain.Club) error {
	return r.db.WithContext(ctx).Create(&club).Error
}

func (r *repository) GetClub(ctx context.Context, id snowflake.ID) (*domain.Club, error) {
	var club domain.Club
	if err := r.db.WithContext(ctx).First(&club, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *repository) UpdateClub(ctx context.Context, club domain.Club) error {
	return r.db.WithContext(ctx).Model(&domain.Club{}).
		Where("id = ?", club.ID).
		Updates(map[string]any{
			"name":        club.Name,
			"description": club.Description,
		}).Error
}

func (r *repository) DeleteClub(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Club{}, "id = ?", id).Error
}

func (r *repository) ListClubs(ctx context.Context, userID snowflake.ID, opts domain.ListClubsOptions) ([]domain.Club, error) {
	query := r.db.WithContext(ctx).Model(&domain.Club{})

	if opts.OnlyMine {
		query = query.Where(
			"clubs.id IN (?)",
			r.memberClubIDsQuery(userID),
		)
	}
	if opts.Search != "" {
		query = query.Where("clubs.name LIKE ?", "%"+opts.Search+"%")
	}

	var clubs []domain.Club
	if err := query.Order("clubs.created_at DESC").Find(&clubs).Error; err != nil {
		return nil, err
	}
	return clubs, nil
}

func (r *repository) CreateRole(ctx context.Context, role domain.ClubRole) error {
	return r.db.WithContext(ctx).Create(&role).Error
}

func (r *repository) GetRole(ctx context.Context, id snowflake.ID) (*domain.ClubRole, error) {
	var role domain.ClubRole
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) UpdateRole(ctx context.Context, role domain.ClubRole) error {
	return r.db.WithContext(ctx).Model(&domain.ClubRole{}).
		Where("id = ?", role.ID).
		Updates(map[string]any{
			"name":        role.Name,
			"description": role.Description,
			"privilege":   role.Privilege,
		}).Error
}

func (r *repository) DeleteRole(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.ClubRole{}, "id = ?", id).Error
}

func (r *repository) ListRoles(ctx context.Context, userID snowflake.ID, opts domain.ListRolesOptions) ([]domain.ClubRole, error) {
	query := r.db.WithContext(ctx).Model(&domain.ClubRole{}).
		Where("club_roles.club_id IN (?)", r.memberClubIDsQuery(userID))

	if opts.ClubID != 0 {
		query = query.Where("club_roles.club_id = ?", opts.ClubID)
	}

	var roles []domain.ClubRole
	if err := query.Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *repository) GetOrCreateRoleByPrivilege(ctx context.Context, clubID snowflake.ID, privilege domain.Privilege, id snowflake.ID) (*domain.ClubRole, error) {
	var role domain.ClubRole
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND privilege = ?", clubID, privilege).
		First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = domain.ClubRole{
		ID:        id,
		ClubID:    clubID,
		Name:      privilege.Display(),
		Privilege: privilege,
	}
	if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) CreateMembership(ctx context.Context, membership domain.ClubMembership) error {
	return r.db.WithContext(ctx).Create(&membership).Error
}

func (r *repository) GetMembership(ctx context.Context, id snowflake.ID) (*domain.ClubMembership, error) {
	var membership domain.ClubMembership
	if err := r.db.WithContext(ctx).First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) UpdateMembershipRole(ctx context.Context, id, roleID snowflake.ID) error {
	return r.db.WithContext(ctx).Model(&domain.ClubMembership{}).
		Where("id = ?", id).
		Update("club_role_id", roleID).Error
}

func (r *repository) DeleteMembership(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.ClubMembership{}, "id = ?", id).Error
}

func (r *repository) ListMemberships(ctx context.Context, opts domain.ListMembershipsOptions) ([]domain.ClubMembership, error) {
	query := r.db.WithContext(ctx).Model(&domain.ClubMembership{})

	if opts.ClubID != 0 {
		query = query.Where(
			"club_memberships.club_role_id IN (?)",
			r.db.Model(&domain.ClubRole{}).Select("id").Where("club_id = ?", opts.ClubID),
		)
	}

	var memberships []domain.ClubMembership
	if err := query.Order("club_memberships.joined DESC").Find(&memberships).Error; err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repository) HasMember(ctx context.Context, clubID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ClubMembership{}).
		Joins("JOIN club_roles ON club_roles.id = club_memberships.club_role_id").
		Where("club_roles.club_id = ? AND club_memberships.user_id = ?", clubID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) HasRep(ctx context.Context, clubID, userID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.ClubMembership{}).
		Joins("JOIN club_roles ON club_roles.id = club_memberships.club_role_id").
		Where("club_roles.club_id = ? AND club_roles.privilege = ? AND club_memberships.user_id = ?",
			clubID, domain.PrivilegeRep, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ClubIDOfRole(ctx context.Context, roleID snowflake.ID) (snowflake.ID, error) {
	var role domain.ClubRole
	if err := r.db.WithContext(ctx).Select("club_id").First(&role, "id = ?", roleID).Error; err != nil {
		return 0, err
	}
	return role.ClubID, nil
}

func (r *repository) MemberClubIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Model(&domain.ClubRole{}).
		Distinct("club_roles.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_memberships.user_id = ?", userID).
		Pluck("club_roles.club_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) RepresentedClubIDs(ctx context.Context, userID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Model(&domain.ClubRole{}).
		Distinct("club_roles.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_memberships.user_id = ? AND club_roles.privilege = ?", userID, domain.PrivilegeRep).
		Pluck("club_roles.club_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repository) memberClubIDsQuery(userID snowflake.ID) *gorm.DB {
	return r.db.Model(&domain.ClubRole{}).
		Distinct("club_roles.club_id").
		Joins("JOIN club_memberships ON club_memberships.club_role_id = club_roles.id").
		Where("club_memberships.user_id = ?", userID)
}
