package project

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateProject(ctx context.Context, project *Project) error
	// ListProjects and GetProject are membership-scoped: they only return
	// rows the given user is a member of.
	ListProjects(ctx context.Context, userID string, filter ListFilter) ([]Project, int64, error)
	GetProject(ctx context.Context, userID, projectID string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) error
	ArchiveProject(ctx context.Context, projectID string) error
	DeleteProject(ctx context.Context, projectID string) error

	// LockMembers takes row locks on the project's membership rows for the
	// duration of the surrounding transaction, so concurrent governance
	// mutations on one project serialize instead of both passing the
	// owner-count check.
	LockMembers(ctx context.Context, projectID string) error
	IsMember(ctx context.Context, userID, projectID string) (bool, error)
	IsOwner(ctx context.Context, userID, projectID string) (bool, error)
	GetMember(ctx context.Context, projectID, userID string) (*Member, error)
	GetMemberInfo(ctx context.Context, projectID, userID string) (*MemberInfo, error)
	ListMembers(ctx context.Context, projectID string) ([]MemberInfo, error)
	AddMember(ctx context.Context, member *Member) error
	UpdateMemberOwner(ctx context.Context, projectID, userID string, isOwner bool) error
	DeleteMember(ctx context.Context, projectID, userID string) error
	CountOwners(ctx context.Context, projectID string) (int64, error)
}
