package photo

import (
	"context"
	"errors"

	photodomain "photo-review-go/internal/domain/photo"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// scoped joins photos to the caller's membership on the owning project.
func (r *PostgresRepository) scoped(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("photos").
		Select("photos.*").
		Joins("join project_members on project_members.project_id = photos.project_id and project_members.user_id = ?", userID)
}

func (r *PostgresRepository) ListPhotos(ctx context.Context, userID string, filter photodomain.ListFilter) ([]photodomain.Photo, int64, error) {
	query := r.scoped(ctx, userID)
	if filter.ProjectID != "" {
		query = query.Where("photos.project_id = ?", filter.ProjectID)
	}
	if filter.LibraryID != "" {
		query = query.Where("photos.library_id = ?", filter.LibraryID)
	}
	if filter.Search != "" {
		query = query.Where("photos.filename ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Decision != nil {
		query = query.
			Joins("join photo_reviews on photo_reviews.photo_id = photos.id").
			Where("photo_reviews.user_id = ? AND photo_reviews.decision = ?", userID, *filter.Decision)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("photos.created_at asc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var photos []photodomain.Photo
	if err := query.Find(&photos).Error; err != nil {
		return nil, 0, err
	}

	return photos, total, nil
}

func (r *PostgresRepository) ListLibraryPhotos(ctx context.Context, userID, libraryID string, limit, offset int) ([]photodomain.Photo, int64, error) {
	return r.ListPhotos(ctx, userID, photodomain.ListFilter{
		LibraryID: libraryID,
		Limit:     limit,
		Offset:    offset,
	})
}

func (r *PostgresRepository) GetPhoto(ctx context.Context, userID, photoID string) (*photodomain.Photo, error) {
	var p photodomain.Photo
	err := r.scoped(ctx, userID).
		Where("photos.id = ?", photoID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, photodomain.ErrPhotoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) UpdatePhoto(ctx context.Context, p *photodomain.Photo) error {
	return r.db.WithContext(ctx).
		Model(p).
		Select("thumbnail_path", "metadata").
		Updates(map[string]interface{}{
			"thumbnail_path": p.ThumbnailPath,
			"metadata":       p.Metadata,
		}).Error
}
