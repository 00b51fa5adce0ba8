package repository

import (
	"context"
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvitationRepository is a GORM implementation of InvitationRepository
type GormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &GormInvitationRepository{db: db}
}

// Create creates a new pending invitation
func (r *GormInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	invitation.Status = models.InvitationPending
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(invitation).Error
}

// FindByID finds an invitation by ID
func (r *GormInvitationRepository) FindByID(ctx context.Context, id uint64) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).First(&invitation, id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListPendingForUser lists pending invitations addressed to the user, newest first
func (r *GormInvitationRepository) ListPendingForUser(ctx context.Context, userID uint64) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.WithContext(ctx).
		Where("invited_user_id = ? AND status = ?", userID, models.InvitationPending).
		Preload("Project").
		Preload("Inviter").
		Order("created_at DESC").
		Find(&invitations).Error
	return invitations, err
}

// Resolve moves a pending invitation to status with the project locked. The
// status change is a compare-and-set on pending, so of several concurrent
// resolutions only one takes effect and at most one membership is written.
func (r *GormInvitationRepository) Resolve(ctx context.Context, invitation *models.Invitation, status models.InvitationStatus) (bool, error) {
	now := time.Now()
	resolved := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, invitation.ProjectID); err != nil {
			return err
		}

		result := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationPending).
			Updates(map[string]interface{}{
				"status":       status,
				"responded_at": now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if status == models.InvitationAccepted {
			if err := upsertMembership(tx, invitation.ProjectID, invitation.InvitedUserID, invitation.Role); err != nil {
				return err
			}
		}

		resolved = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if resolved {
		invitation.Status = status
		invitation.RespondedAt = &now
	}
	return resolved, nil
}
