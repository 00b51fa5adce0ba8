package repository

import (
	"context"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uint64) (*models.TaskAssignmentNotification, error) {
	var notification models.TaskAssignmentNotification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

// ListForUser lists the user's notifications with their tasks, newest first
func (r *GormNotificationRepository) ListForUser(ctx context.Context, userID uint64) ([]models.TaskAssignmentNotification, error) {
	var notifications []models.TaskAssignmentNotification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Task").
		Preload("Task.Project").
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications).Error
	return notifications, err
}

// Delete hard deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.TaskAssignmentNotification{}, id).Error
}
