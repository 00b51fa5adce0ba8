package repository

import (
	"context"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by exact username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// SearchByUsername lists users whose username starts with prefix
	SearchByUsername(ctx context.Context, prefix string, limit int) ([]models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// TitleTaken reports whether another project already uses title
	TitleTaken(ctx context.Context, title string, excludeID uint64) (bool, error)

	// ListForUser lists projects the user owns or belongs to
	ListForUser(ctx context.Context, userID uint64) ([]models.Project, error)

	// Update updates a project's title and description
	Update(ctx context.Context, project *models.Project) error

	// Delete removes the project with its memberships, invitations and chat,
	// detaching its tasks
	Delete(ctx context.Context, id uint64) error
}

// MembershipRepository answers who holds which role in a project
type MembershipRepository interface {
	// GetRole returns the stored role, or RoleNone when the user has no row.
	// Project owners have no row.
	GetRole(ctx context.Context, projectID, userID uint64) (models.ProjectRole, error)

	// ListParticipants lists the project's members with the owner first
	ListParticipants(ctx context.Context, project *models.Project) ([]models.Participant, error)

	// ListByUser lists all memberships held by the user
	ListByUser(ctx context.Context, userID uint64) ([]models.ProjectMembership, error)

	// ListProjectIDsForUser lists IDs of projects the user owns or belongs to
	ListProjectIDsForUser(ctx context.Context, userID uint64) ([]uint64, error)

	// UpsertRole inserts the membership or overwrites its role
	UpsertRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error

	// UpdateRole changes an existing membership's role under a project lock
	UpdateRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error

	// Remove deletes the membership; missing rows are not an error
	Remove(ctx context.Context, projectID, userID uint64) error

	// RemoveWithReassignment hands the user's project tasks to the project owner
	// and deletes the membership in one transaction
	RemoveWithReassignment(ctx context.Context, project *models.Project, userID uint64) error
}

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new pending invitation
	Create(ctx context.Context, invitation *models.Invitation) error

	// FindByID finds an invitation by ID
	FindByID(ctx context.Context, id uint64) (*models.Invitation, error)

	// ListPendingForUser lists pending invitations addressed to the user
	ListPendingForUser(ctx context.Context, userID uint64) ([]models.Invitation, error)

	// Resolve moves a pending invitation to status. Accepting also grants the
	// membership. It reports false when the invitation was no longer pending.
	Resolve(ctx context.Context, invitation *models.Invitation, status models.InvitationStatus) (bool, error)
}

// TaskRepository defines the interface for task data access. Writes to a
// project task hold the project row lock, so they serialize with role changes,
// participant removal and project deletion.
type TaskRepository interface {
	// Create inserts task once check approves it under the lock. The
	// notification check returns is created in the same transaction.
	Create(ctx context.Context, task *models.Task, check TaskCreateCheck) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update re-reads the task under the lock and hands it to edit. Only the
	// columns edit reports are written.
	Update(ctx context.Context, taskID uint64, edit TaskEdit) (*models.Task, error)

	// Delete re-reads the task under the lock and removes it with its
	// notifications once check approves
	Delete(ctx context.Context, taskID uint64, check TaskCheck) error
}

// TaskCreateCheck approves a new task and returns its assignment notification,
// if any.
type TaskCreateCheck func(scope TaskScope) (*models.TaskAssignmentNotification, error)

// TaskEdit applies changes to the current task and reports what to write.
type TaskEdit func(task *models.Task, scope TaskScope) (TaskChange, error)

// TaskCheck approves a write to the current task.
type TaskCheck func(task *models.Task, scope TaskScope) error

// TaskChange lists the columns an edit changed and the notification it emits.
type TaskChange struct {
	Columns      []string
	Notification *models.TaskAssignmentNotification
}

// TaskFilter holds filtering options for listing tasks. A task matches when it
// belongs to one of ProjectIDs or is a personal task of PersonalFor.
type TaskFilter struct {
	ProjectIDs  []uint64
	PersonalFor *uint64
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// FindByID finds a notification by ID
	FindByID(ctx context.Context, id uint64) (*models.TaskAssignmentNotification, error)

	// ListForUser lists the user's notifications, newest first
	ListForUser(ctx context.Context, userID uint64) ([]models.TaskAssignmentNotification, error)

	// Delete hard deletes a notification
	Delete(ctx context.Context, id uint64) error
}

// ChatRepository defines the interface for project chat data access
type ChatRepository interface {
	// Create appends a message
	Create(ctx context.Context, message *models.ChatMessage) error

	// ListByProject lists a page of messages, oldest first
	ListByProject(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.ChatMessage, int64, error)
}
