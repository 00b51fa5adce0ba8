package repository

import (
	"context"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// TitleTaken reports whether a project other than excludeID uses title
func (r *GormProjectRepository) TitleTaken(ctx context.Context, title string, excludeID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("title = ? AND id <> ?", title, excludeID).
		Count(&count).Error
	return count > 0, err
}

// ListForUser lists projects the user owns or belongs to, newest first
func (r *GormProjectRepository) ListForUser(ctx context.Context, userID uint64) ([]models.Project, error) {
	db := r.db.WithContext(ctx)

	memberOf := db.Model(&models.ProjectMembership{}).
		Select("project_id").
		Where("user_id = ?", userID)

	var projects []models.Project
	err := db.Where("owner_id = ? OR id IN (?)", userID, memberOf).
		Preload("Owner").
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// Update updates a project's title and description
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Model(project).
		Select("title", "description", "updated_at").
		Updates(project).Error
}

// Delete deletes a project and all related data in a transaction. Tasks survive
// as personal tasks of their owners.
func (r *GormProjectRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockProject(tx, id); err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMembership{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Invitation{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// lockProject takes a row lock on the project for the rest of tx. It returns
// gorm.ErrRecordNotFound when the project is gone.
func lockProject(tx *gorm.DB, projectID uint64) error {
	var project models.Project
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&project, projectID).Error
}

// lockProjectRow is lockProject returning the locked row.
func lockProjectRow(tx *gorm.DB, projectID uint64) (*models.Project, error) {
	var project models.Project
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&project, projectID).Error; err != nil {
		return nil, err
	}
	return &project, nil
}
