package repository

import (
	"context"

	"github.com/yukikurage/taskmaster-api/internal/database"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormChatRepository is a GORM implementation of ChatRepository
type GormChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &GormChatRepository{db: db}
}

// Create appends a message to the project chat
func (r *GormChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(message).Error
}

// ListByProject lists a page of the project's messages, oldest first
func (r *GormChatRepository) ListByProject(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.ChatMessage, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("project_id = ?", projectID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ChatMessage
	err := query.
		Preload("User").
		Scopes(database.OldestFirst("chat_messages"), database.Paginate(params)).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
