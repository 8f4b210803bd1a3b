package photo

import "context"

type Repository interface {
	// All reads are scoped through project_members on each photo's project;
	// a photo outside the caller's projects does not resolve.
	ListPhotos(ctx context.Context, userID string, filter ListFilter) ([]Photo, int64, error)
	ListLibraryPhotos(ctx context.Context, userID, libraryID string, limit, offset int) ([]Photo, int64, error)
	GetPhoto(ctx context.Context, userID, photoID string) (*Photo, error)
	UpdatePhoto(ctx context.Context, photo *Photo) error
}
