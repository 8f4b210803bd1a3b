package library

import "context"

type Repository interface {
	// ListLibraries and GetLibrary are scoped through project_members on the
	// parent project of each row.
	ListLibraries(ctx context.Context, userID string, filter ListFilter) ([]Library, int64, error)
	GetLibrary(ctx context.Context, userID, libraryID string) (*Library, error)
	CreateLibrary(ctx context.Context, lib *Library) error
	UpdateLibrary(ctx context.Context, lib *Library) error
	ArchiveLibrary(ctx context.Context, libraryID string) error
}

// AccessChecker is the slice of the project service this domain authorizes
// against. Checks are evaluated fresh on every call.
type AccessChecker interface {
	IsMember(ctx context.Context, userID, projectID string) (bool, error)
	IsOwner(ctx context.Context, userID, projectID string) (bool, error)
}
