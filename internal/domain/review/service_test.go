package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"photo-review-go/internal/pagination"
)

type reviewKey struct {
	photoID string
	userID  string
}

type fakePhoto struct {
	projectID string
}

type fakeReviewRepo struct {
	photos  map[string]fakePhoto
	members map[string]map[string]bool // projectID -> userID
	reviews map[reviewKey]*PhotoReview
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		photos:  make(map[string]fakePhoto),
		members: make(map[string]map[string]bool),
		reviews: make(map[reviewKey]*PhotoReview),
	}
}

func (r *fakeReviewRepo) addMember(projectID, userID string) {
	if r.members[projectID] == nil {
		r.members[projectID] = make(map[string]bool)
	}
	r.members[projectID][userID] = true
}

func (r *fakeReviewRepo) CanAccessPhoto(ctx context.Context, userID, photoID string) (bool, error) {
	p, ok := r.photos[photoID]
	if !ok {
		return false, nil
	}
	return r.members[p.projectID][userID], nil
}

func (r *fakeReviewRepo) UpsertReview(ctx context.Context, insert *PhotoReview, merge MergeSpec) (*PhotoReview, error) {
	key := reviewKey{insert.PhotoID, insert.UserID}
	existing, ok := r.reviews[key]
	if !ok {
		clone := *insert
		r.reviews[key] = &clone
		result := clone
		return &result, nil
	}

	existing.SeenAt = merge.SeenAt
	if merge.Seen != nil {
		existing.Seen = *merge.Seen
	}
	if merge.SetDecision {
		existing.Decision = merge.Decision
		existing.VotedAt = merge.VotedAt
	}
	if merge.SetRenamed {
		existing.RenamedTo = merge.RenamedTo
	}
	result := *existing
	return &result, nil
}

func (r *fakeReviewRepo) ListUserReviews(ctx context.Context, userID string, filter ListFilter) ([]PhotoReview, int64, error) {
	matched := make([]PhotoReview, 0)
	for _, rev := range r.reviews {
		if rev.UserID != userID {
			continue
		}
		p, ok := r.photos[rev.PhotoID]
		if !ok || !r.members[p.projectID][userID] {
			continue
		}
		if filter.ProjectID != "" && p.projectID != filter.ProjectID {
			continue
		}
		if filter.LibraryID != "" && rev.LibraryID != filter.LibraryID {
			continue
		}
		if filter.Decision != nil {
			if rev.Decision == nil || *rev.Decision != *filter.Decision {
				continue
			}
		}
		matched = append(matched, *rev)
	}
	return matched, int64(len(matched)), nil
}

func (r *fakeReviewRepo) ListPhotoReviews(ctx context.Context, photoID string, limit, offset int) ([]PhotoReview, int64, error) {
	matched := make([]PhotoReview, 0)
	for _, rev := range r.reviews {
		if rev.PhotoID == photoID {
			matched = append(matched, *rev)
		}
	}
	return matched, int64(len(matched)), nil
}

func newTestService(repo *fakeReviewRepo) *Service {
	svc := NewService(repo)
	return svc
}

func seedReviewable(repo *fakeReviewRepo, photoID, projectID, userID string) {
	repo.photos[photoID] = fakePhoto{projectID: projectID}
	repo.addMember(projectID, userID)
}

func TestUpsertDeniedForNonMember(t *testing.T) {
	repo := newFakeReviewRepo()
	repo.photos["photo-1"] = fakePhoto{projectID: "proj-1"}
	svc := newTestService(repo)

	_, err := svc.Upsert(context.Background(), "stranger", UpsertInput{PhotoID: "photo-1", LibraryID: "lib-1"})
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if len(repo.reviews) != 0 {
		t.Fatalf("expected no review written")
	}
}

func TestUpsertInsertDefaults(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	svc := newTestService(repo)

	rev, err := svc.Upsert(context.Background(), "user-1", UpsertInput{PhotoID: "photo-1", LibraryID: "lib-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !rev.Seen {
		t.Fatalf("expected seen to default true")
	}
	if rev.Decision != nil {
		t.Fatalf("expected undecided by default, got %v", *rev.Decision)
	}
	if rev.VotedAt != nil {
		t.Fatalf("expected voted_at null, got %v", rev.VotedAt)
	}
	if rev.SeenAt.IsZero() {
		t.Fatalf("expected seen_at set")
	}
}

func TestUpsertVotedAtLifecycle(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	svc := newTestService(repo)

	accept := DecisionAccept
	rev, err := svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Decision:  NullInt16{Set: true, Value: &accept},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rev.Decision == nil || *rev.Decision != DecisionAccept {
		t.Fatalf("expected accept decision, got %v", rev.Decision)
	}
	if rev.VotedAt == nil {
		t.Fatalf("expected voted_at set on vote")
	}
	firstVote := *rev.VotedAt

	// Omitting decision leaves the vote alone.
	seen := false
	rev, err = svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Seen:      &seen,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rev.Decision == nil || *rev.Decision != DecisionAccept {
		t.Fatalf("expected decision untouched, got %v", rev.Decision)
	}
	if rev.VotedAt == nil || !rev.VotedAt.Equal(firstVote) {
		t.Fatalf("expected voted_at untouched, got %v", rev.VotedAt)
	}
	if rev.Seen {
		t.Fatalf("expected seen false")
	}

	// An explicit null decision clears the vote.
	rev, err = svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Decision:  NullInt16{Set: true},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rev.Decision != nil {
		t.Fatalf("expected decision cleared, got %v", *rev.Decision)
	}
	if rev.VotedAt != nil {
		t.Fatalf("expected voted_at cleared, got %v", rev.VotedAt)
	}
}

func TestUpsertSingleRowPerPair(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	svc := newTestService(repo)

	for i := 0; i < 5; i++ {
		if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{PhotoID: "photo-1", LibraryID: "lib-1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	}
	if len(repo.reviews) != 1 {
		t.Fatalf("expected one review row, got %d", len(repo.reviews))
	}
}

func TestUpsertIdempotentButRefreshesSeenAt(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	svc := newTestService(repo)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	renamed := "best-shot.jpg"
	reject := DecisionReject
	first, err := svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Decision:  NullInt16{Set: true, Value: &reject},
		RenamedTo: NullString{Set: true, Value: &renamed},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := svc.Upsert(context.Background(), "user-1", UpsertInput{PhotoID: "photo-1", LibraryID: "lib-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Decision == nil || *second.Decision != DecisionReject {
		t.Fatalf("expected decision preserved, got %v", second.Decision)
	}
	if second.RenamedTo == nil || *second.RenamedTo != renamed {
		t.Fatalf("expected rename preserved, got %v", second.RenamedTo)
	}
	if second.LibraryID != "lib-1" {
		t.Fatalf("expected library preserved, got %s", second.LibraryID)
	}
	if !second.SeenAt.After(first.SeenAt) {
		t.Fatalf("expected seen_at refreshed, got %v then %v", first.SeenAt, second.SeenAt)
	}
}

func TestUpsertRejectsUnknownDecision(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	svc := newTestService(repo)

	bad := int16(7)
	_, err := svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Decision:  NullInt16{Set: true, Value: &bad},
	})
	if !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestListForPhotoEmptyPageForNonMember(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	accept := DecisionAccept
	svc := newTestService(repo)
	if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Decision:  NullInt16{Set: true, Value: &accept},
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	items, total, err := svc.ListForPhoto(context.Background(), "stranger", "photo-1", pagination.Params{})
	if err != nil {
		t.Fatalf("expected empty page rather than error, got %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty page for non-member, got total=%d len=%d", total, len(items))
	}

	items, total, err = svc.ListForPhoto(context.Background(), "user-1", "photo-1", pagination.Params{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected member to see one review, got total=%d len=%d", total, len(items))
	}
}

func TestListMineFiltersByDecision(t *testing.T) {
	repo := newFakeReviewRepo()
	seedReviewable(repo, "photo-1", "proj-1", "user-1")
	repo.photos["photo-2"] = fakePhoto{projectID: "proj-1"}
	svc := newTestService(repo)

	accept := DecisionAccept
	if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{
		PhotoID:   "photo-1",
		LibraryID: "lib-1",
		Decision:  NullInt16{Set: true, Value: &accept},
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.Upsert(context.Background(), "user-1", UpsertInput{PhotoID: "photo-2", LibraryID: "lib-1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	items, total, err := svc.ListMine(context.Background(), "user-1", ListFilter{Decision: &accept}, pagination.Params{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].PhotoID != "photo-1" {
		t.Fatalf("expected only the accepted review, got total=%d items=%v", total, items)
	}
}
