package project

import (
	"context"
	"errors"

	projectdomain "photo-review-go/internal/domain/project"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(projectdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// scoped intersects the projects table with the caller's membership rows.
// Every read goes through this join; there is no unscoped variant.
func (r *PostgresRepository) scoped(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("projects").
		Select("projects.*").
		Joins("join project_members on project_members.project_id = projects.id and project_members.user_id = ?", userID)
}

func (r *PostgresRepository) CreateProject(ctx context.Context, project *projectdomain.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *PostgresRepository) ListProjects(ctx context.Context, userID string, filter projectdomain.ListFilter) ([]projectdomain.Project, int64, error) {
	query := r.scoped(ctx, userID)
	if filter.Status != "" {
		query = query.Where("projects.status = ?", filter.Status)
	}
	if filter.IsActive != nil {
		query = query.Where("projects.is_active = ?", *filter.IsActive)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("projects.created_at asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var projects []projectdomain.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *PostgresRepository) GetProject(ctx context.Context, userID, projectID string) (*projectdomain.Project, error) {
	var project projectdomain.Project
	err := r.scoped(ctx, userID).
		Where("projects.id = ?", projectID).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, projectdomain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *PostgresRepository) UpdateProject(ctx context.Context, project *projectdomain.Project) error {
	return r.db.WithContext(ctx).
		Model(project).
		Select("name", "status", "is_active", "root_path").
		Updates(map[string]interface{}{
			"name":      project.Name,
			"status":    project.Status,
			"is_active": project.IsActive,
			"root_path": project.RootPath,
		}).Error
}

func (r *PostgresRepository) ArchiveProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Model(&projectdomain.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"is_active": false,
			"status":    projectdomain.StatusCompleted,
		}).Error
}

func (r *PostgresRepository) DeleteProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Delete(&projectdomain.Project{}, "id = ?", projectID).Error
}

// LockMembers takes FOR UPDATE locks on the project's membership rows. At
// READ COMMITTED two concurrent demotions of the last two owners would each
// count two owners before either commit; the lock forces the second to wait
// and re-read the first's result.
func (r *PostgresRepository) LockMembers(ctx context.Context, projectID string) error {
	var members []projectdomain.Member
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", projectID).
		Find(&members).Error
}

func (r *PostgresRepository) IsMember(ctx context.Context, userID, projectID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&projectdomain.Member{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) IsOwner(ctx context.Context, userID, projectID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&projectdomain.Member{}).
		Where("project_id = ? AND user_id = ? AND is_owner = true", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, projectID, userID string) (*projectdomain.Member, error) {
	var member projectdomain.Member
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, projectdomain.ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) GetMemberInfo(ctx context.Context, projectID, userID string) (*projectdomain.MemberInfo, error) {
	var info projectdomain.MemberInfo
	err := r.db.WithContext(ctx).
		Table("project_members").
		Select("project_members.project_id, project_members.user_id, project_members.is_owner, project_members.created_at as joined_at, users.name, users.email").
		Joins("join users on users.id = project_members.user_id").
		Where("project_members.project_id = ? AND project_members.user_id = ?", projectID, userID).
		Scan(&info).Error
	if err != nil {
		return nil, err
	}
	if info.UserID == "" {
		return nil, projectdomain.ErrMemberNotFound
	}
	return &info, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, projectID string) ([]projectdomain.MemberInfo, error) {
	var members []projectdomain.MemberInfo
	if err := r.db.WithContext(ctx).
		Table("project_members").
		Select("project_members.project_id, project_members.user_id, project_members.is_owner, project_members.created_at as joined_at, users.name, users.email").
		Joins("join users on users.id = project_members.user_id").
		Where("project_members.project_id = ?", projectID).
		Order("project_members.created_at asc").
		Scan(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *projectdomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMemberOwner(ctx context.Context, projectID, userID string, isOwner bool) error {
	return r.db.WithContext(ctx).
		Model(&projectdomain.Member{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("is_owner", isOwner).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&projectdomain.Member{}, "project_id = ? AND user_id = ?", projectID, userID).Error
}

func (r *PostgresRepository) CountOwners(ctx context.Context, projectID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&projectdomain.Member{}).
		Where("project_id = ? AND is_owner = true", projectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
