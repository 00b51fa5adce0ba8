package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

// ParticipantService manages who takes part in a project and with which role.
type ParticipantService struct {
	access accessResolver
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(projectRepo repository.ProjectRepository, membershipRepo repository.MembershipRepository) *ParticipantService {
	return &ParticipantService{
		access: accessResolver{projectRepo: projectRepo, membershipRepo: membershipRepo},
	}
}

// List returns the project's participants, owner first.
func (s *ParticipantService) List(ctx context.Context, actorID, projectID uint64) ([]models.Participant, error) {
	project, role, err := s.access.projectWithRole(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewProject(role) {
		return nil, ErrProjectAccessDenied
	}

	participants, err := s.access.membershipRepo.ListParticipants(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

// ChangeRole sets a participant's role. Only the owner may do so.
func (s *ParticipantService) ChangeRole(ctx context.Context, actorID, projectID, targetUserID uint64, newRole models.ProjectRole) error {
	project, err := s.access.project(ctx, projectID)
	if err != nil {
		return err
	}
	if !authz.CanManageParticipants(actorID, project) {
		return ErrNotProjectOwner
	}
	if !newRole.IsAssignable() {
		return ErrInvalidRole
	}

	if err := s.access.membershipRepo.UpdateRole(ctx, project.ID, targetUserID, newRole); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to change role: %w", err)
	}
	return nil
}

// Remove takes a participant out of the project. Tasks they own or are assigned
// within the project pass to the project owner in the same transaction.
func (s *ParticipantService) Remove(ctx context.Context, actorID, projectID, targetUserID uint64) error {
	project, err := s.access.project(ctx, projectID)
	if err != nil {
		return err
	}
	if !authz.CanManageParticipants(actorID, project) {
		return ErrNotProjectOwner
	}

	if err := s.access.membershipRepo.RemoveWithReassignment(ctx, project, targetUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMembershipNotFound
		}
		return fmt.Errorf("failed to remove participant: %w", err)
	}
	return nil
}
