package review

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"photo-review-go/internal/pagination"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Upsert records or merges the caller's review of a photo.
//
// Insert defaults: seen true, decision and rename null, voted_at null unless
// a non-null decision was supplied. Merge touches only the supplied fields;
// seen_at refreshes on every successful call, and voted_at tracks decision:
// set when decision becomes non-null, cleared when decision is explicitly
// nulled, untouched when decision is omitted.
func (s *Service) Upsert(ctx context.Context, userID string, input UpsertInput) (*PhotoReview, error) {
	if input.Decision.Set && input.Decision.Value != nil && !validDecision(*input.Decision.Value) {
		return nil, ErrInvalidDecision
	}

	canAccess, err := s.repo.CanAccessPhoto(ctx, userID, input.PhotoID)
	if err != nil {
		return nil, err
	}
	if !canAccess {
		return nil, ErrAccessDenied
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	now := s.now()
	row := PhotoReview{
		ID:        id,
		PhotoID:   input.PhotoID,
		UserID:    userID,
		LibraryID: input.LibraryID,
		Seen:      true,
		SeenAt:    now,
	}
	if input.Seen != nil {
		row.Seen = *input.Seen
	}
	if input.Decision.Set {
		row.Decision = input.Decision.Value
		if input.Decision.Value != nil {
			votedAt := now
			row.VotedAt = &votedAt
		}
	}
	if input.RenamedTo.Set {
		row.RenamedTo = input.RenamedTo.Value
	}

	merge := MergeSpec{
		SeenAt: now,
		Seen:   input.Seen,
	}
	if input.Decision.Set {
		merge.SetDecision = true
		merge.Decision = input.Decision.Value
		if input.Decision.Value != nil {
			votedAt := now
			merge.VotedAt = &votedAt
		}
	}
	if input.RenamedTo.Set {
		merge.SetRenamed = true
		merge.RenamedTo = input.RenamedTo.Value
	}

	return s.repo.UpsertReview(ctx, &row, merge)
}

// ListMine returns the caller's own reviews across their projects.
func (s *Service) ListMine(ctx context.Context, userID string, filter ListFilter, p pagination.Params) ([]PhotoReview, int64, error) {
	filter.Limit, filter.Offset = pagination.Bounds(p)
	return s.repo.ListUserReviews(ctx, userID, filter)
}

// ListForPhoto returns every user's review of one photo. A caller outside
// the photo's project gets an empty page, not an error.
func (s *Service) ListForPhoto(ctx context.Context, userID, photoID string, p pagination.Params) ([]PhotoReview, int64, error) {
	canAccess, err := s.repo.CanAccessPhoto(ctx, userID, photoID)
	if err != nil {
		return nil, 0, err
	}
	if !canAccess {
		return []PhotoReview{}, 0, nil
	}

	limit, offset := pagination.Bounds(p)
	return s.repo.ListPhotoReviews(ctx, photoID, limit, offset)
}

func validDecision(decision int16) bool {
	return decision == DecisionAccept || decision == DecisionReject
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}

	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16]), nil
}
