package dto

import (
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ProjectRefDTO is the short form of a project embedded in other responses
type ProjectRefDTO struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID           uint64              `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	DueDate      time.Time           `json:"due_date"`
	Priority     models.TaskPriority `json:"priority"`
	Status       models.TaskStatus   `json:"status"`
	ProjectID    *uint64             `json:"project_id"`
	OwnerID      *uint64             `json:"owner_id"`
	AssignedToID *uint64             `json:"assigned_to_id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Project      *ProjectRefDTO      `json:"project,omitempty"`
	Owner        *UserDTO            `json:"owner,omitempty"`
	AssignedTo   *UserDTO            `json:"assigned_to,omitempty"`
}

// TaskListResponse represents a list of tasks
type TaskListResponse struct {
	Tasks []TaskDTO `json:"tasks"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

func toUserRef(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	u := ToUserDTO(*user)
	return &u
}

func toProjectRef(project *models.Project) *ProjectRefDTO {
	if project == nil {
		return nil
	}
	return &ProjectRefDTO{ID: project.ID, Title: project.Title}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		Priority:     task.Priority,
		Status:       task.Status,
		ProjectID:    task.ProjectID,
		OwnerID:      task.OwnerID,
		AssignedToID: task.AssignedToID,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
		Project:      toProjectRef(task.Project),
		Owner:        toUserRef(task.Owner),
		AssignedTo:   toUserRef(task.AssignedTo),
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}
