package review

import (
	"context"

	reviewdomain "photo-review-go/internal/domain/review"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CanAccessPhoto(ctx context.Context, userID, photoID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("photos").
		Joins("join project_members on project_members.project_id = photos.project_id and project_members.user_id = ?", userID).
		Where("photos.id = ?", photoID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertReview rides the unique (photo_id, user_id) constraint: a concurrent
// insert loses the race and deterministically becomes the merge, in one
// statement.
func (r *PostgresRepository) UpsertReview(ctx context.Context, insert *reviewdomain.PhotoReview, merge reviewdomain.MergeSpec) (*reviewdomain.PhotoReview, error) {
	assignments := map[string]interface{}{
		"seen_at": merge.SeenAt,
	}
	if merge.Seen != nil {
		assignments["seen"] = *merge.Seen
	}
	if merge.SetDecision {
		assignments["decision"] = merge.Decision
		assignments["voted_at"] = merge.VotedAt
	}
	if merge.SetRenamed {
		assignments["renamed_to"] = merge.RenamedTo
	}

	row := *insert
	err := r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "photo_id"}, {Name: "user_id"}},
				DoUpdates: clause.Assignments(assignments),
			},
			clause.Returning{},
		).
		Create(&row).Error
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *PostgresRepository) ListUserReviews(ctx context.Context, userID string, filter reviewdomain.ListFilter) ([]reviewdomain.PhotoReview, int64, error) {
	query := r.db.WithContext(ctx).
		Table("photo_reviews").
		Select("photo_reviews.*").
		Joins("join photos on photos.id = photo_reviews.photo_id").
		Joins("join project_members on project_members.project_id = photos.project_id and project_members.user_id = ?", userID).
		Where("photo_reviews.user_id = ?", userID)
	if filter.ProjectID != "" {
		query = query.Where("photos.project_id = ?", filter.ProjectID)
	}
	if filter.LibraryID != "" {
		query = query.Where("photo_reviews.library_id = ?", filter.LibraryID)
	}
	if filter.Decision != nil {
		query = query.Where("photo_reviews.decision = ?", *filter.Decision)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("photo_reviews.seen_at desc")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var reviews []reviewdomain.PhotoReview
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

func (r *PostgresRepository) ListPhotoReviews(ctx context.Context, photoID string, limit, offset int) ([]reviewdomain.PhotoReview, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&reviewdomain.PhotoReview{}).
		Where("photo_id = ?", photoID)

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("seen_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var reviews []reviewdomain.PhotoReview
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}
