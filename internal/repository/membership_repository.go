package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMembershipRepository is a GORM implementation of MembershipRepository
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &GormMembershipRepository{db: db}
}

// GetRole returns the user's stored role in the project, or RoleNone
func (r *GormMembershipRepository) GetRole(ctx context.Context, projectID, userID uint64) (models.ProjectRole, error) {
	return storedRole(r.db.WithContext(ctx), projectID, userID)
}

func storedRole(db *gorm.DB, projectID, userID uint64) (models.ProjectRole, error) {
	var membership models.ProjectMembership
	err := db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RoleNone, nil
		}
		return models.RoleNone, err
	}
	return membership.Role, nil
}

// ListParticipants lists the owner followed by every member in join order.
// A stored row for the owner is reported as owner and not duplicated.
func (r *GormMembershipRepository) ListParticipants(ctx context.Context, project *models.Project) ([]models.Participant, error) {
	db := r.db.WithContext(ctx)

	var memberships []models.ProjectMembership
	if err := db.Where("project_id = ?", project.ID).
		Preload("User").
		Order("joined_at ASC").
		Find(&memberships).Error; err != nil {
		return nil, err
	}

	participants := make([]models.Participant, 0, len(memberships)+1)
	ownerListed := false
	for _, m := range memberships {
		if m.User == nil {
			continue
		}
		if m.UserID == project.OwnerID {
			participants = append(participants, models.Participant{User: *m.User, Role: models.RoleOwner})
			ownerListed = true
			continue
		}
		participants = append(participants, models.Participant{User: *m.User, Role: m.Role})
	}

	if !ownerListed {
		var owner models.User
		if err := db.First(&owner, project.OwnerID).Error; err != nil {
			return nil, err
		}
		participants = append([]models.Participant{{User: owner, Role: models.RoleOwner}}, participants...)
	}

	return participants, nil
}

// ListByUser lists all memberships held by the user
func (r *GormMembershipRepository) ListByUser(ctx context.Context, userID uint64) ([]models.ProjectMembership, error) {
	var memberships []models.ProjectMembership
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

// ListProjectIDsForUser lists IDs of projects the user owns or belongs to
func (r *GormMembershipRepository) ListProjectIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	db := r.db.WithContext(ctx)

	var owned []uint64
	if err := db.Model(&models.Project{}).Where("owner_id = ?", userID).Pluck("id", &owned).Error; err != nil {
		return nil, err
	}

	var joined []uint64
	if err := db.Model(&models.ProjectMembership{}).Where("user_id = ?", userID).Pluck("project_id", &joined).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(owned)+len(joined))
	ids := make([]uint64, 0, len(owned)+len(joined))
	for _, id := range append(owned, joined...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// UpsertRole inserts the membership or overwrites its role
func (r *GormMembershipRepository) UpsertRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error {
	return upsertMembership(r.db.WithContext(ctx), projectID, userID, role)
}

func upsertMembership(tx *gorm.DB, projectID, userID uint64, role models.ProjectRole) error {
	membership := models.ProjectMembership{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(&membership).Error
}

// UpdateRole changes an existing membership's role. It returns
// gorm.ErrRecordNotFound when the project or the membership is missing.
func (r *GormMembershipRepository) UpdateRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, projectID); err != nil {
			return err
		}

		result := tx.Model(&models.ProjectMembership{}).
			Where("project_id = ? AND user_id = ?", projectID, userID).
			Update("role", role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Remove deletes the membership; missing rows are not an error
func (r *GormMembershipRepository) Remove(ctx context.Context, projectID, userID uint64) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMembership{}).Error
}

// RemoveWithReassignment moves every project task the user owns or is assigned
// to over to the project owner, then deletes the membership. It returns
// gorm.ErrRecordNotFound when the membership is missing.
func (r *GormMembershipRepository) RemoveWithReassignment(ctx context.Context, project *models.Project, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, project.ID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.ProjectMembership{}).
			Where("project_id = ? AND user_id = ?", project.ID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND owner_id = ?", project.ID, userID).
			Update("owner_id", project.OwnerID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assigned_to_id = ?", project.ID, userID).
			Update("assigned_to_id", project.OwnerID).Error; err != nil {
			return err
		}

		return tx.Where("project_id = ? AND user_id = ?", project.ID, userID).
			Delete(&models.ProjectMembership{}).Error
	})
}
