package review

import "context"

type Repository interface {
	// CanAccessPhoto reports whether the photo exists within a project the
	// user is a member of, in a single membership-joined query.
	CanAccessPhoto(ctx context.Context, userID, photoID string) (bool, error)
	// UpsertReview inserts the row or, when the (photo, user) pair already
	// exists, applies the merge spec onto the existing row in one atomic
	// statement keyed on the uniqueness constraint. Returns the post-merge
	// state.
	UpsertReview(ctx context.Context, insert *PhotoReview, merge MergeSpec) (*PhotoReview, error)
	// ListUserReviews is scoped by reviewer and by membership on each
	// underlying photo's project.
	ListUserReviews(ctx context.Context, userID string, filter ListFilter) ([]PhotoReview, int64, error)
	ListPhotoReviews(ctx context.Context, photoID string, limit, offset int) ([]PhotoReview, int64, error)
}
