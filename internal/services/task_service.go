package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/constants"
	"github.com/yukikurage/taskmaster-api/internal/logger"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService provides business logic for task operations.
type TaskService struct {
	access   accessResolver
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	projectRepo repository.ProjectRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
) *TaskService {
	return &TaskService{
		access:   accessResolver{projectRepo: projectRepo, membershipRepo: membershipRepo},
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// TaskListFilter narrows task listings.
type TaskListFilter struct {
	Status   *models.TaskStatus
	Priority *models.TaskPriority
}

func (f TaskListFilter) validate() error {
	if f.Status != nil && !f.Status.IsValid() {
		return ErrInvalidStatus
	}
	if f.Priority != nil && !f.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// CreateTaskInput represents parameters to create a task. A nil ProjectID
// creates a personal task.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      *time.Time
	Priority     models.TaskPriority
	Status       models.TaskStatus
	ProjectID    *uint64
	AssignedToID *uint64
}

// UpdateTaskInput holds the fields to change; nil fields are left as they are.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Priority      *models.TaskPriority
	Status        *models.TaskStatus
	AssignedToID  *uint64
	ClearAssignee bool
}

func (in UpdateTaskInput) validate() error {
	if in.Title != nil {
		if _, err := validateTitle(*in.Title); err != nil {
			return err
		}
	}
	if in.DueDate != nil && in.DueDate.IsZero() {
		return ErrDueDateRequired
	}
	if in.Priority != nil && !in.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if in.Status != nil && !in.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTaskTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTaskTitleLength {
		return "", ErrTaskTitleTooLong
	}
	return title, nil
}

// Create creates a task owned by the actor. Assigning a project task notifies
// the assignee.
func (s *TaskService) Create(ctx context.Context, actorID uint64, input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	if input.DueDate == nil || input.DueDate.IsZero() {
		return nil, ErrDueDateRequired
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	if input.AssignedToID != nil && input.ProjectID == nil {
		if err := s.ensureUserExists(ctx, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	owner := actorID
	task := &models.Task{
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		DueDate:      *input.DueDate,
		Priority:     input.Priority,
		Status:       input.Status,
		ProjectID:    input.ProjectID,
		OwnerID:      &owner,
		AssignedToID: input.AssignedToID,
	}
	if input.ProjectID == nil && task.AssignedToID == nil {
		task.AssignedToID = &owner
	}

	var notification *models.TaskAssignmentNotification
	err = s.taskRepo.Create(ctx, task, func(scope repository.TaskScope) (*models.TaskAssignmentNotification, error) {
		role, err := scope.RoleOf(actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve role: %w", err)
		}
		if !authz.CanCreateTask(scope.Project, role) {
			return nil, ErrTaskCreateDenied
		}
		if scope.Project != nil && task.AssignedToID != nil {
			if err := ensureParticipant(scope, *task.AssignedToID); err != nil {
				return nil, err
			}
		}
		notification = assignmentNotification(task)
		return notification, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		if isServiceError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logger.GetLogger().Info("task created", "task_id", task.ID, "actor_id", actorID, "notified", notification != nil)
	return task, nil
}

// Get returns a task the actor may view.
func (s *TaskService) Get(ctx context.Context, actorID, taskID uint64) (*models.Task, error) {
	task, err := s.find(ctx, taskID, "Project", "Owner", "AssignedTo")
	if err != nil {
		return nil, err
	}

	_, role, err := s.access.taskRole(ctx, actorID, task)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewTask(actorID, task, role) {
		return nil, ErrTaskAccessDenied
	}
	return task, nil
}

// List returns tasks of every project the actor takes part in plus their
// personal tasks.
func (s *TaskService) List(ctx context.Context, actorID uint64, filter TaskListFilter) ([]models.Task, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	projectIDs, err := s.access.membershipRepo.ListProjectIDsForUser(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ProjectIDs:  projectIDs,
		PersonalFor: &actorID,
		Status:      filter.Status,
		Priority:    filter.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update edits a task. A project task whose assignee changes notifies the new
// assignee. Permissions and the assignee are checked against the current row
// with the project locked, and only the edited columns are written.
func (s *TaskService) Update(ctx context.Context, actorID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Update(ctx, taskID, func(task *models.Task, scope repository.TaskScope) (repository.TaskChange, error) {
		var change repository.TaskChange

		role, err := scope.RoleOf(actorID)
		if err != nil {
			return change, fmt.Errorf("failed to resolve role: %w", err)
		}
		if !authz.CanEditTask(actorID, task, role) {
			return change, ErrTaskEditDenied
		}

		if input.Title != nil {
			task.Title = strings.TrimSpace(*input.Title)
			change.Columns = append(change.Columns, "title")
		}
		if input.Description != nil {
			task.Description = strings.TrimSpace(*input.Description)
			change.Columns = append(change.Columns, "description")
		}
		if input.DueDate != nil {
			task.DueDate = *input.DueDate
			change.Columns = append(change.Columns, "due_date")
		}
		if input.Priority != nil {
			task.Priority = *input.Priority
			change.Columns = append(change.Columns, "priority")
		}
		if input.Status != nil {
			task.Status = *input.Status
			change.Columns = append(change.Columns, "status")
		}

		switch {
		case input.ClearAssignee:
			if task.IsPersonal() {
				return change, ErrPersonalTaskReassign
			}
			task.AssignedToID = nil
			change.Columns = append(change.Columns, "assigned_to_id")
		case input.AssignedToID != nil && !task.IsAssignedTo(*input.AssignedToID):
			if task.IsPersonal() {
				return change, ErrPersonalTaskReassign
			}
			if err := ensureParticipant(scope, *input.AssignedToID); err != nil {
				return change, err
			}
			assignee := *input.AssignedToID
			task.AssignedToID = &assignee
			change.Columns = append(change.Columns, "assigned_to_id")
			change.Notification = assignmentNotification(task)
		}
		return change, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		if isServiceError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete removes a task and its notifications. It uses the stricter delete gate.
func (s *TaskService) Delete(ctx context.Context, actorID, taskID uint64) error {
	err := s.taskRepo.Delete(ctx, taskID, func(task *models.Task, scope repository.TaskScope) error {
		role, err := scope.RoleOf(actorID)
		if err != nil {
			return fmt.Errorf("failed to resolve role: %w", err)
		}
		if !authz.CanDeleteTask(actorID, task, role) {
			return ErrTaskDeleteDenied
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		if isServiceError(err) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logger.GetLogger().Info("task deleted", "task_id", taskID, "actor_id", actorID)
	return nil
}

func (s *TaskService) find(ctx context.Context, taskID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureUserExists checks the assignee of a personal task.
func (s *TaskService) ensureUserExists(ctx context.Context, userID uint64) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}
	return nil
}

// ensureParticipant checks, under the project lock, that a project task goes
// to the owner or a member.
func ensureParticipant(scope repository.TaskScope, userID uint64) error {
	role, err := scope.RoleOf(userID)
	if err != nil {
		return fmt.Errorf("failed to resolve role: %w", err)
	}
	if !authz.CanViewProject(role) {
		return ErrAssigneeNotParticipant
	}
	return nil
}

func assignmentNotification(task *models.Task) *models.TaskAssignmentNotification {
	if task.IsPersonal() || task.AssignedToID == nil {
		return nil
	}
	return &models.TaskAssignmentNotification{UserID: *task.AssignedToID}
}
