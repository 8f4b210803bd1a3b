package project

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"photo-review-go/internal/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsMember reports whether the user has a membership row for the project.
// It always hits storage so that concurrent membership changes are observed
// by the next check.
func (s *Service) IsMember(ctx context.Context, userID, projectID string) (bool, error) {
	return s.repo.IsMember(ctx, userID, projectID)
}

// IsOwner reports whether the user has an owner membership row for the project.
func (s *Service) IsOwner(ctx context.Context, userID, projectID string) (bool, error) {
	return s.repo.IsOwner(ctx, userID, projectID)
}

// Create inserts the project and its creator's owner membership as one
// transaction. A project is never visible without its creator as owner.
func (s *Service) Create(ctx context.Context, userID, name, rootPath string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	rootPath = strings.TrimSpace(rootPath)
	if rootPath == "" {
		return nil, fmt.Errorf("root path is required")
	}

	id, err := newUUID()
	if err != nil {
		return nil, err
	}

	proj := Project{
		ID:        id,
		Name:      name,
		Status:    StatusActive,
		IsActive:  true,
		RootPath:  rootPath,
		CreatedBy: userID,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateProject(ctx, &proj); err != nil {
			return err
		}
		member := Member{
			ProjectID: proj.ID,
			UserID:    userID,
			IsOwner:   true,
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}

	return &proj, nil
}

func (s *Service) List(ctx context.Context, userID string, filter ListFilter, p pagination.Params) ([]Project, int64, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	filter.Limit, filter.Offset = pagination.Bounds(p)

	return s.repo.ListProjects(ctx, userID, filter)
}

// Get resolves a project within the caller's visible scope. A project the
// caller is not a member of is indistinguishable from one that does not exist.
func (s *Service) Get(ctx context.Context, userID, projectID string) (*Project, error) {
	return s.repo.GetProject(ctx, userID, projectID)
}

func (s *Service) Update(ctx context.Context, userID, projectID string, input UpdateInput) (*Project, error) {
	if input.Status != nil && !validStatus(*input.Status) {
		return nil, ErrInvalidStatus
	}

	proj, err := s.repo.GetProject(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	isOwner, err := s.repo.IsOwner(ctx, userID, projectID)
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
		proj.Name = trimmed
	}
	if input.Status != nil {
		proj.Status = *input.Status
	}
	if input.IsActive != nil {
		proj.IsActive = *input.IsActive
	}
	if input.RootPath != nil {
		proj.RootPath = *input.RootPath
	}

	if err := s.repo.UpdateProject(ctx, proj); err != nil {
		return nil, err
	}

	return proj, nil
}

// Archive marks a project inactive and completed. Owner only.
func (s *Service) Archive(ctx context.Context, userID, projectID string) error {
	if _, err := s.repo.GetProject(ctx, userID, projectID); err != nil {
		return err
	}

	isOwner, err := s.repo.IsOwner(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrAccessDenied
	}

	return s.repo.ArchiveProject(ctx, projectID)
}

func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.repo.GetProject(ctx, userID, projectID); err != nil {
		return err
	}

	isOwner, err := s.repo.IsOwner(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrAccessDenied
	}

	return s.repo.DeleteProject(ctx, projectID)
}

func (s *Service) ListMembers(ctx context.Context, requesterID, projectID string) ([]MemberInfo, error) {
	isOwner, err := s.repo.IsOwner(ctx, requesterID, projectID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrAccessDenied
	}

	return s.repo.ListMembers(ctx, projectID)
}

// AddMember grants membership. Adding an existing member is a no-op that
// returns the current row unchanged.
func (s *Service) AddMember(ctx context.Context, requesterID, projectID, userID string, isOwner bool) (*MemberInfo, error) {
	requesterIsOwner, err := s.repo.IsOwner(ctx, requesterID, projectID)
	if err != nil {
		return nil, err
	}
	if !requesterIsOwner {
		return nil, ErrAccessDenied
	}

	var result *MemberInfo
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetMember(ctx, projectID, userID)
		if err == nil && existing != nil {
			result, err = tx.GetMemberInfo(ctx, projectID, userID)
			return err
		}
		if err != nil && !errors.Is(err, ErrMemberNotFound) {
			return err
		}

		member := Member{
			ProjectID: projectID,
			UserID:    userID,
			IsOwner:   isOwner,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result, err = tx.GetMemberInfo(ctx, projectID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RemoveMember deletes a membership row. Removing the last owner is refused:
// the membership rows are locked before the count check so two concurrent
// removals cannot both pass it.
func (s *Service) RemoveMember(ctx context.Context, requesterID, projectID, userID string) error {
	requesterIsOwner, err := s.repo.IsOwner(ctx, requesterID, projectID)
	if err != nil {
		return err
	}
	if !requesterIsOwner {
		return ErrAccessDenied
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockMembers(ctx, projectID); err != nil {
			return err
		}

		member, err := tx.GetMember(ctx, projectID, userID)
		if err != nil {
			return err
		}

		if member.IsOwner {
			owners, err := tx.CountOwners(ctx, projectID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}

		return tx.DeleteMember(ctx, projectID, userID)
	})
}

// UpdateMember flips a member's owner flag, refusing to demote the last owner.
func (s *Service) UpdateMember(ctx context.Context, requesterID, projectID, userID string, isOwner bool) (*MemberInfo, error) {
	requesterIsOwner, err := s.repo.IsOwner(ctx, requesterID, projectID)
	if err != nil {
		return nil, err
	}
	if !requesterIsOwner {
		return nil, ErrAccessDenied
	}

	var result *MemberInfo
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockMembers(ctx, projectID); err != nil {
			return err
		}

		member, err := tx.GetMember(ctx, projectID, userID)
		if err != nil {
			return err
		}

		if member.IsOwner && !isOwner {
			owners, err := tx.CountOwners(ctx, projectID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}

		if err := tx.UpdateMemberOwner(ctx, projectID, userID, isOwner); err != nil {
			return err
		}

		result, err = tx.GetMemberInfo(ctx, projectID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
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
