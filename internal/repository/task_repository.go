package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/database"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// TaskScope is what a task write sees while it holds the project lock.
// Project is nil for personal tasks.
type TaskScope struct {
	Project *models.Project
	tx      *gorm.DB
}

// RoleOf returns the user's effective role in the scope's project. Personal
// tasks yield RoleNone.
func (s TaskScope) RoleOf(userID uint64) (models.ProjectRole, error) {
	if s.Project == nil {
		return models.RoleNone, nil
	}
	if s.Project.IsOwnedBy(userID) {
		return models.RoleOwner, nil
	}
	stored, err := storedRole(s.tx, s.Project.ID, userID)
	if err != nil {
		return models.RoleNone, err
	}
	return authz.EffectiveRole(userID, s.Project, stored), nil
}

// Create inserts a task after check approves it. A project task is checked and
// inserted with the project locked; a missing project is gorm.ErrRecordNotFound.
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, check TaskCreateCheck) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := TaskScope{tx: tx}
		if task.ProjectID != nil {
			project, err := lockProjectRow(tx, *task.ProjectID)
			if err != nil {
				return err
			}
			scope.Project = project
		}

		notification, err := check(scope)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}
		return createNotification(tx, task, notification)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks visible through the filter's scope, soonest due first
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	if len(filter.ProjectIDs) == 0 && filter.PersonalFor == nil {
		return []models.Task{}, nil
	}

	db := r.db.WithContext(ctx)

	var scope *gorm.DB
	if len(filter.ProjectIDs) > 0 {
		scope = db.Where("tasks.project_id IN ?", filter.ProjectIDs)
	}
	if filter.PersonalFor != nil {
		personal := db.Where("tasks.project_id IS NULL AND (tasks.owner_id = ? OR tasks.assigned_to_id = ?)",
			*filter.PersonalFor, *filter.PersonalFor)
		if scope == nil {
			scope = personal
		} else {
			scope = scope.Or(personal)
		}
	}

	var tasks []models.Task
	err := db.Model(&models.Task{}).
		Where(scope).
		Scopes(database.TaskAttributes(filter.Status, filter.Priority), database.DueSoonest).
		Preload("Project").
		Preload("AssignedTo").
		Find(&tasks).Error
	return tasks, err
}

// Update applies edit to the current row and writes only the columns it
// reports, plus updated_at.
func (r *GormTaskRepository) Update(ctx context.Context, taskID uint64, edit TaskEdit) (*models.Task, error) {
	var updated *models.Task
	err := r.withLockedTask(ctx, taskID, func(tx *gorm.DB, task *models.Task, scope TaskScope) error {
		change, err := edit(task, scope)
		if err != nil {
			return err
		}

		if len(change.Columns) > 0 {
			columns := append(change.Columns, "updated_at")
			if err := tx.Model(task).Omit(clause.Associations).Select(columns).Updates(task).Error; err != nil {
				return err
			}
		}
		if err := createNotification(tx, task, change.Notification); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the task and its notifications after check approves the
// current row
func (r *GormTaskRepository) Delete(ctx context.Context, taskID uint64, check TaskCheck) error {
	return r.withLockedTask(ctx, taskID, func(tx *gorm.DB, task *models.Task, scope TaskScope) error {
		if err := check(task, scope); err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignmentNotification{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, task.ID).Error
	})
}

// withLockedTask runs fn in a transaction holding the task's project lock (for
// project tasks) and then the task row lock, in that order, matching
// participant removal and project deletion. The task is read again after the
// locks so fn sees every change committed before them.
func (r *GormTaskRepository) withLockedTask(ctx context.Context, taskID uint64, fn func(tx *gorm.DB, task *models.Task, scope TaskScope) error) error {
	// Read outside the transaction: a consistent read inside it would pin a
	// snapshot taken before the lock.
	var current models.Task
	if err := r.db.WithContext(ctx).Select("id", "project_id").First(&current, taskID).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := TaskScope{tx: tx}
		if current.ProjectID != nil {
			project, err := lockProjectRow(tx, *current.ProjectID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// A deleted project has detached its tasks; the re-read below sees that.
			scope.Project = project
		}

		var task models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, taskID).Error; err != nil {
			return err
		}
		if task.ProjectID != nil && (scope.Project == nil || scope.Project.ID != *task.ProjectID) {
			return gorm.ErrRecordNotFound
		}
		if task.ProjectID == nil {
			scope.Project = nil
		}

		return fn(tx, &task, scope)
	})
}

func createNotification(tx *gorm.DB, task *models.Task, notification *models.TaskAssignmentNotification) error {
	if notification == nil {
		return nil
	}
	notification.TaskID = task.ID
	return tx.Omit(clause.Associations).Create(notification).Error
}
