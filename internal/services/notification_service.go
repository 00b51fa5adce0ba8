package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

// NotificationService gathers what is waiting for a user's attention.
type NotificationService struct {
	invitationRepo   repository.InvitationRepository
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(invitationRepo repository.InvitationRepository, notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		invitationRepo:   invitationRepo,
		notificationRepo: notificationRepo,
	}
}

// Inbox is a user's pending invitations and task assignment notifications.
type Inbox struct {
	Invitations   []models.Invitation
	Notifications []models.TaskAssignmentNotification
}

// List returns the user's inbox.
func (s *NotificationService) List(ctx context.Context, userID uint64) (*Inbox, error) {
	invitations, err := s.invitationRepo.ListPendingForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	notifications, err := s.notificationRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return &Inbox{
		Invitations:   invitations,
		Notifications: notifications,
	}, nil
}

// Delete dismisses a notification. Only its recipient may do so.
func (s *NotificationService) Delete(ctx context.Context, actorID, notificationID uint64) error {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to find notification: %w", err)
	}
	if notification.UserID != actorID {
		return ErrNotNotificationRecipient
	}

	if err := s.notificationRepo.Delete(ctx, notification.ID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
