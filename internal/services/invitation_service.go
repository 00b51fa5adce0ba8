package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/logger"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

// InvitationService drives the invitation lifecycle: pending, then accepted or
// rejected exactly once.
type InvitationService struct {
	access         accessResolver
	userRepo       repository.UserRepository
	invitationRepo repository.InvitationRepository
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	projectRepo repository.ProjectRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	invitationRepo repository.InvitationRepository,
) *InvitationService {
	return &InvitationService{
		access:         accessResolver{projectRepo: projectRepo, membershipRepo: membershipRepo},
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
	}
}

// SendInvitationInput describes an invitation to create.
type SendInvitationInput struct {
	ProjectID uint64
	InviterID uint64
	Username  string
	Role      models.ProjectRole
}

// Send invites the named user into the project with the given role.
func (s *InvitationService) Send(ctx context.Context, input SendInvitationInput) (*models.Invitation, error) {
	project, err := s.access.project(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageParticipants(input.InviterID, project) {
		return nil, ErrNotProjectOwner
	}
	if !input.Role.IsAssignable() {
		return nil, ErrInvalidRole
	}

	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	invitee, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if invitee.ID == input.InviterID {
		return nil, ErrSelfInvitation
	}

	invitation := &models.Invitation{
		ProjectID:     project.ID,
		InvitedUserID: invitee.ID,
		InviterID:     input.InviterID,
		Role:          input.Role,
	}
	if err := s.invitationRepo.Create(ctx, invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	logger.GetLogger().Info("invitation sent",
		"invitation_id", invitation.ID,
		"project_id", project.ID,
		"invited_user_id", invitee.ID,
		"role", invitation.Role,
	)
	return invitation, nil
}

// Accept grants the invited user membership with the invitation's role.
// Accepting an already resolved invitation changes nothing.
func (s *InvitationService) Accept(ctx context.Context, actorID, invitationID uint64) (*models.Invitation, error) {
	return s.resolve(ctx, actorID, invitationID, models.InvitationAccepted)
}

// Reject closes the invitation without granting membership. Rejecting an
// already resolved invitation changes nothing.
func (s *InvitationService) Reject(ctx context.Context, actorID, invitationID uint64) (*models.Invitation, error) {
	return s.resolve(ctx, actorID, invitationID, models.InvitationRejected)
}

func (s *InvitationService) resolve(ctx context.Context, actorID, invitationID uint64, status models.InvitationStatus) (*models.Invitation, error) {
	invitation, err := s.invitationRepo.FindByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to find invitation: %w", err)
	}
	if invitation.InvitedUserID != actorID {
		return nil, ErrNotInvitationRecipient
	}
	if invitation.IsResolved() {
		return invitation, nil
	}

	changed, err := s.invitationRepo.Resolve(ctx, invitation, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to resolve invitation: %w", err)
	}
	if !changed {
		// Another request resolved it first; report what is stored.
		return s.invitationRepo.FindByID(ctx, invitationID)
	}

	logger.GetLogger().Info("invitation resolved",
		"invitation_id", invitation.ID,
		"project_id", invitation.ProjectID,
		"status", invitation.Status,
	)
	return invitation, nil
}
