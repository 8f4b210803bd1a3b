package library

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"photo-review-go/internal/pagination"
)

type Service struct {
	repo   Repository
	access AccessChecker
}

func NewService(repo Repository, access AccessChecker) *Service {
	return &Service{repo: repo, access: access}
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter, p pagination.Params) ([]Library, int64, error) {
	filter.Limit, filter.Offset = pagination.Bounds(p)
	return s.repo.ListLibraries(ctx, userID, filter)
}

// Get resolves a library within the caller's visible scope; a library under a
// project the caller is not a member of reads as nonexistent.
func (s *Service) Get(ctx context.Context, userID, libraryID string) (*Library, error) {
	return s.repo.GetLibrary(ctx, userID, libraryID)
}

// Create requires ownership of the parent project. Members can read every
// library but only owners write them.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Library, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	path := strings.TrimSpace(input.AbsolutePath)
	if path == "" {
		return nil, fmt.Errorf("absolute path is required")
	}

	isOwner, err := s.access.IsOwner(ctx, userID, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrAccessDenied
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	lib := Library{
		ID:           id,
		Name:         name,
		Description:  input.Description,
		AbsolutePath: path,
		ProjectID:    input.ProjectID,
		Status:       StatusActive,
		IsActive:     true,
		CreatedBy:    userID,
	}
	if err := s.repo.CreateLibrary(ctx, &lib); err != nil {
		return nil, err
	}

	return &lib, nil
}

func (s *Service) Update(ctx context.Context, userID, libraryID string, input UpdateInput) (*Library, error) {
	if input.Status != nil && !validStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}

	lib, err := s.repo.GetLibrary(ctx, userID, libraryID)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.access.IsOwner(ctx, userID, lib.ProjectID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrAccessDenied
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, fmt.Errorf("name is required")
		}
		lib.Name = trimmed
	}
	if input.Description.Set {
		lib.Description = input.Description.Value
	}
	if input.Status != nil {
		lib.Status = *input.Status
	}
	if input.IsActive != nil {
		lib.IsActive = *input.IsActive
	}

	if err := s.repo.UpdateLibrary(ctx, lib); err != nil {
		return nil, err
	}

	return lib, nil
}

// Archive marks a library inactive and completed. Owner of the parent
// project only.
func (s *Service) Archive(ctx context.Context, userID, libraryID string) error {
	lib, err := s.repo.GetLibrary(ctx, userID, libraryID)
	if err != nil {
		return err
	}

	isOwner, err := s.access.IsOwner(ctx, userID, lib.ProjectID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrAccessDenied
	}

	return s.repo.ArchiveLibrary(ctx, libraryID)
}

func validStatus(status string) bool {
	switch status {
	case StatusActive, StatusProcessing, StatusCompleted:
		return true
	}
	return false
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
