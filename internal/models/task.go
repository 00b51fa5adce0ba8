package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// Task belongs to a project or, when ProjectID is nil, is a personal task of its
// owner.
type Task struct {
	ID           uint64       `gorm:"primarykey" json:"id"`
	Title        string       `gorm:"type:varchar(200);not null" json:"title"`
	Description  string       `gorm:"type:text" json:"description"`
	DueDate      time.Time    `gorm:"not null;index" json:"due_date"`
	Priority     TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	Status       TaskStatus   `gorm:"type:varchar(20);not null;default:'todo';index" json:"status"`
	ProjectID    *uint64      `gorm:"index" json:"project_id"`
	OwnerID      *uint64      `gorm:"index" json:"owner_id"`
	AssignedToID *uint64      `gorm:"index" json:"assigned_to_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Project    *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	Owner      *User    `gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL" json:"owner,omitempty"`
	AssignedTo *User    `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
}

// IsPersonal reports whether the task lives outside any project.
func (t *Task) IsPersonal() bool {
	return t.ProjectID == nil
}

// IsOwnedBy reports whether userID created the task.
func (t *Task) IsOwnedBy(userID uint64) bool {
	return t.OwnerID != nil && *t.OwnerID == userID
}

// IsAssignedTo reports whether userID is the task's assignee.
func (t *Task) IsAssignedTo(userID uint64) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}
