package library

import (
	"context"
	"errors"

	librarydomain "photo-review-go/internal/domain/library"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// scoped joins libraries to the caller's membership on the parent project.
func (r *PostgresRepository) scoped(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("library").
		Select("library.*").
		Joins("join project_members on project_members.project_id = library.project_id and project_members.user_id = ?", userID)
}

func (r *PostgresRepository) ListLibraries(ctx context.Context, userID string, filter librarydomain.ListFilter) ([]librarydomain.Library, int64, error) {
	query := r.scoped(ctx, userID)
	if filter.ProjectID != "" {
		query = query.Where("library.project_id = ?", filter.ProjectID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("library.created_at asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var libraries []librarydomain.Library
	if err := query.Find(&libraries).Error; err != nil {
		return nil, 0, err
	}

	return libraries, total, nil
}

func (r *PostgresRepository) GetLibrary(ctx context.Context, userID, libraryID string) (*librarydomain.Library, error) {
	var lib librarydomain.Library
	err := r.scoped(ctx, userID).
		Where("library.id = ?", libraryID).
		First(&lib).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, librarydomain.ErrLibraryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lib, nil
}

func (r *PostgresRepository) CreateLibrary(ctx context.Context, lib *librarydomain.Library) error {
	return r.db.WithContext(ctx).Create(lib).Error
}

func (r *PostgresRepository) UpdateLibrary(ctx context.Context, lib *librarydomain.Library) error {
	// Explicit column list so a cleared description persists as NULL.
	return r.db.WithContext(ctx).
		Model(lib).
		Select("name", "description", "status", "is_active").
		Updates(map[string]interface{}{
			"name":        lib.Name,
			"description": lib.Description,
			"status":      lib.Status,
			"is_active":   lib.IsActive,
		}).Error
}

func (r *PostgresRepository) ArchiveLibrary(ctx context.Context, libraryID string) error {
	return r.db.WithContext(ctx).
		Model(&librarydomain.Library{}).
		Where("id = ?", libraryID).
		Updates(map[string]interface{}{
			"is_active": false,
			"status":    librarydomain.StatusCompleted,
		}).Error
}
