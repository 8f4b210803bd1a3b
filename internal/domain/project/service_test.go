package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"photo-review-go/internal/pagination"
)

type memberKey struct {
	projectID string
	userID    string
}

type fakeProjectRepo struct {
	projects map[string]*Project
	members  map[memberKey]*Member

	locked          map[string]bool
	countedUnlocked bool
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{
		projects: make(map[string]*Project),
		members:  make(map[memberKey]*Member),
		locked:   make(map[string]bool),
	}
}

func (r *fakeProjectRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeProjectRepo) LockMembers(ctx context.Context, projectID string) error {
	r.locked[projectID] = true
	return nil
}

func (r *fakeProjectRepo) CreateProject(ctx context.Context, project *Project) error {
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	r.projects[project.ID] = project
	return nil
}

func (r *fakeProjectRepo) ListProjects(ctx context.Context, userID string, filter ListFilter) ([]Project, int64, error) {
	matched := make([]Project, 0)
	for _, proj := range r.projects {
		if _, ok := r.members[memberKey{proj.ID, userID}]; !ok {
			continue
		}
		if filter.Status != "" && proj.Status != filter.Status {
			continue
		}
		if filter.IsActive != nil && proj.IsActive != *filter.IsActive {
			continue
		}
		matched = append(matched, *proj)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []Project{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func (r *fakeProjectRepo) GetProject(ctx context.Context, userID, projectID string) (*Project, error) {
	if _, ok := r.members[memberKey{projectID, userID}]; !ok {
		return nil, ErrProjectNotFound
	}
	proj, ok := r.projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}
	clone := *proj
	return &clone, nil
}

func (r *fakeProjectRepo) UpdateProject(ctx context.Context, project *Project) error {
	if _, ok := r.projects[project.ID]; !ok {
		return ErrProjectNotFound
	}
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *fakeProjectRepo) ArchiveProject(ctx context.Context, projectID string) error {
	proj, ok := r.projects[projectID]
	if !ok {
		return ErrProjectNotFound
	}
	proj.IsActive = false
	proj.Status = StatusCompleted
	return nil
}

func (r *fakeProjectRepo) DeleteProject(ctx context.Context, projectID string) error {
	delete(r.projects, projectID)
	for key := range r.members {
		if key.projectID == projectID {
			delete(r.members, key)
		}
	}
	return nil
}

func (r *fakeProjectRepo) IsMember(ctx context.Context, userID, projectID string) (bool, error) {
	_, ok := r.members[memberKey{projectID, userID}]
	return ok, nil
}

func (r *fakeProjectRepo) IsOwner(ctx context.Context, userID, projectID string) (bool, error) {
	member, ok := r.members[memberKey{projectID, userID}]
	return ok && member.IsOwner, nil
}

func (r *fakeProjectRepo) GetMember(ctx context.Context, projectID, userID string) (*Member, error) {
	member, ok := r.members[memberKey{projectID, userID}]
	if !ok {
		return nil, ErrMemberNotFound
	}
	clone := *member
	return &clone, nil
}

func (r *fakeProjectRepo) GetMemberInfo(ctx context.Context, projectID, userID string) (*MemberInfo, error) {
	member, ok := r.members[memberKey{projectID, userID}]
	if !ok {
		return nil, ErrMemberNotFound
	}
	return &MemberInfo{
		ProjectID: member.ProjectID,
		UserID:    member.UserID,
		IsOwner:   member.IsOwner,
		JoinedAt:  member.JoinedAt,
	}, nil
}

func (r *fakeProjectRepo) ListMembers(ctx context.Context, projectID string) ([]MemberInfo, error) {
	result := make([]MemberInfo, 0)
	for key, member := range r.members {
		if key.projectID != projectID {
			continue
		}
		result = append(result, MemberInfo{
			ProjectID: member.ProjectID,
			UserID:    member.UserID,
			IsOwner:   member.IsOwner,
			JoinedAt:  member.JoinedAt,
		})
	}
	return result, nil
}

func (r *fakeProjectRepo) AddMember(ctx context.Context, member *Member) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	r.members[memberKey{member.ProjectID, member.UserID}] = member
	return nil
}

func (r *fakeProjectRepo) UpdateMemberOwner(ctx context.Context, projectID, userID string, isOwner bool) error {
	member, ok := r.members[memberKey{projectID, userID}]
	if !ok {
		return ErrMemberNotFound
	}
	member.IsOwner = isOwner
	return nil
}

func (r *fakeProjectRepo) DeleteMember(ctx context.Context, projectID, userID string) error {
	delete(r.members, memberKey{projectID, userID})
	return nil
}

func (r *fakeProjectRepo) CountOwners(ctx context.Context, projectID string) (int64, error) {
	if !r.locked[projectID] {
		r.countedUnlocked = true
	}
	var count int64
	for key, member := range r.members {
		if key.projectID == projectID && member.IsOwner {
			count++
		}
	}
	return count, nil
}

func seedProject(repo *fakeProjectRepo, projectID, ownerID string) {
	repo.projects[projectID] = &Project{
		ID:        projectID,
		Name:      "Project",
		Status:    StatusActive,
		IsActive:  true,
		RootPath:  "/photos",
		CreatedBy: ownerID,
	}
	repo.members[memberKey{projectID, ownerID}] = &Member{
		ProjectID: projectID,
		UserID:    ownerID,
		IsOwner:   true,
		JoinedAt:  time.Now().UTC(),
	}
}

func TestCreateProject(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewService(repo)

	proj, err := svc.Create(context.Background(), "user-1", "  Vacation  ", "/photos/vacation")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if proj.Name != "Vacation" {
		t.Fatalf("expected name trimmed, got %q", proj.Name)
	}
	if proj.Status != StatusActive || !proj.IsActive {
		t.Fatalf("expected active defaults, got status=%q active=%v", proj.Status, proj.IsActive)
	}
	member, ok := repo.members[memberKey{proj.ID, "user-1"}]
	if !ok {
		t.Fatalf("expected creator membership")
	}
	if !member.IsOwner {
		t.Fatalf("expected creator to be owner")
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), "user-1", "  ", "/photos"); err == nil {
		t.Fatalf("expected error for blank name")
	}
	if len(repo.projects) != 0 {
		t.Fatalf("expected no project created")
	}
}

func TestListProjectsScopedToMembership(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "user-1")
	svc := NewService(repo)

	items, total, err := svc.List(context.Background(), "user-1", ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected one visible project, got total=%d len=%d", total, len(items))
	}

	items, total, err = svc.List(context.Background(), "user-2", ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected no visible projects for non-member, got total=%d len=%d", total, len(items))
	}
}

func TestListProjectsRejectsUnknownStatus(t *testing.T) {
	repo := newFakeProjectRepo()
	svc := NewService(repo)

	_, _, err := svc.List(context.Background(), "user-1", ListFilter{Status: "archived"}, pagination.Params{})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestGetProjectHiddenFromNonMember(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "user-1")
	svc := NewService(repo)

	if _, err := svc.Get(context.Background(), "user-2", "proj-1"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for non-member, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "user-2", "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound for missing id, got %v", err)
	}
}

func TestUpdateProjectOwnerOnly(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "member"}] = &Member{ProjectID: "proj-1", UserID: "member"}
	svc := NewService(repo)

	name := "Renamed"
	_, err := svc.Update(context.Background(), "member", "proj-1", UpdateInput{Name: &name})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for non-owner member, got %v", err)
	}

	proj, err := svc.Update(context.Background(), "owner", "proj-1", UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if proj.Name != "Renamed" {
		t.Fatalf("expected name updated, got %q", proj.Name)
	}
}

func TestUpdateProjectPartialPatch(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	svc := NewService(repo)

	status := StatusProcessing
	proj, err := svc.Update(context.Background(), "owner", "proj-1", UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if proj.Status != StatusProcessing {
		t.Fatalf("expected status updated, got %q", proj.Status)
	}
	if proj.Name != "Project" {
		t.Fatalf("expected name untouched, got %q", proj.Name)
	}
	if !proj.IsActive {
		t.Fatalf("expected active flag untouched")
	}
}

func TestArchiveProject(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	svc := NewService(repo)

	if err := svc.Archive(context.Background(), "owner", "proj-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	proj := repo.projects["proj-1"]
	if proj.IsActive || proj.Status != StatusCompleted {
		t.Fatalf("expected archived project, got status=%q active=%v", proj.Status, proj.IsActive)
	}
}

func TestDeleteProjectNonMemberSeesNotFound(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	svc := NewService(repo)

	if err := svc.Delete(context.Background(), "stranger", "proj-1"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
	if _, ok := repo.projects["proj-1"]; !ok {
		t.Fatalf("expected project untouched")
	}
}

func TestListMembersOwnerOnly(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "member"}] = &Member{ProjectID: "proj-1", UserID: "member"}
	svc := NewService(repo)

	if _, err := svc.ListMembers(context.Background(), "member", "proj-1"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	members, err := svc.ListMembers(context.Background(), "owner", "proj-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
}

func TestAddMemberIdempotent(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	svc := NewService(repo)

	added, err := svc.AddMember(context.Background(), "owner", "proj-1", "user-2", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if added.IsOwner {
		t.Fatalf("expected plain membership")
	}

	// Re-adding with a different owner flag returns the existing row unchanged.
	again, err := svc.AddMember(context.Background(), "owner", "proj-1", "user-2", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if again.IsOwner {
		t.Fatalf("expected existing membership returned unchanged")
	}
}

func TestRemoveMemberLastOwnerRefused(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "member"}] = &Member{ProjectID: "proj-1", UserID: "member"}
	svc := NewService(repo)

	err := svc.RemoveMember(context.Background(), "owner", "proj-1", "owner")
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
	if _, ok := repo.members[memberKey{"proj-1", "owner"}]; !ok {
		t.Fatalf("expected owner membership intact")
	}
}

func TestRemoveMemberByNonOwnerDenied(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "member"}] = &Member{ProjectID: "proj-1", UserID: "member"}
	svc := NewService(repo)

	err := svc.RemoveMember(context.Background(), "member", "proj-1", "owner")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if _, ok := repo.members[memberKey{"proj-1", "owner"}]; !ok {
		t.Fatalf("expected owner membership intact")
	}
}

func TestRemoveMemberOwnerWithCoOwner(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "co-owner"}] = &Member{ProjectID: "proj-1", UserID: "co-owner", IsOwner: true}
	svc := NewService(repo)

	if err := svc.RemoveMember(context.Background(), "owner", "proj-1", "co-owner"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.members[memberKey{"proj-1", "co-owner"}]; ok {
		t.Fatalf("expected co-owner removed")
	}
}

func TestDemoteLastOwnerRefused(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	svc := NewService(repo)

	_, err := svc.UpdateMember(context.Background(), "owner", "proj-1", "owner", false)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
	if !repo.members[memberKey{"proj-1", "owner"}].IsOwner {
		t.Fatalf("expected owner flag intact")
	}
}

func TestPromoteThenDemote(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "member"}] = &Member{ProjectID: "proj-1", UserID: "member"}
	svc := NewService(repo)

	promoted, err := svc.UpdateMember(context.Background(), "owner", "proj-1", "member", true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !promoted.IsOwner {
		t.Fatalf("expected member promoted")
	}

	// With two owners demoting the original is allowed.
	demoted, err := svc.UpdateMember(context.Background(), "member", "proj-1", "owner", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if demoted.IsOwner {
		t.Fatalf("expected owner demoted")
	}
}

func TestRemoveMemberLocksMembershipRows(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "co-owner"}] = &Member{ProjectID: "proj-1", UserID: "co-owner", IsOwner: true}
	svc := NewService(repo)

	if err := svc.RemoveMember(context.Background(), "owner", "proj-1", "co-owner"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Two concurrent owner removals must not both pass the count, so the
	// membership rows are locked before the owner count runs.
	if !repo.locked["proj-1"] {
		t.Fatalf("expected membership rows locked")
	}
	if repo.countedUnlocked {
		t.Fatalf("expected owner count to run under the membership lock")
	}
}

func TestUpdateMemberLocksMembershipRows(t *testing.T) {
	repo := newFakeProjectRepo()
	seedProject(repo, "proj-1", "owner")
	repo.members[memberKey{"proj-1", "co-owner"}] = &Member{ProjectID: "proj-1", UserID: "co-owner", IsOwner: true}
	svc := NewService(repo)

	if _, err := svc.UpdateMember(context.Background(), "owner", "proj-1", "co-owner", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !repo.locked["proj-1"] {
		t.Fatalf("expected membership rows locked")
	}
	if repo.countedUnlocked {
		t.Fatalf("expected owner count to run under the membership lock")
	}
}
