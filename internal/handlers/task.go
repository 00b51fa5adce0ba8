package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

// TaskHandler serves task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Date layouts accepted for due_date.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDueDate(value string) (*time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// CreateTask creates a personal task or, with project_id, a project task.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title        string  `json:"title" binding:"required"`
		Description  string  `json:"description"`
		DueDate      string  `json:"due_date" binding:"required"`
		Priority     string  `json:"priority"`
		Status       string  `json:"status"`
		ProjectID    *uint64 `json:"project_id"`
		AssignedToID *uint64 `json:"assigned_to_id"`
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	dueDate, ok := parseDueDate(req.DueDate)
	if !ok {
		apierrors.BadRequest(c, "Invalid due_date")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      dueDate,
		Priority:     models.TaskPriority(req.Priority),
		Status:       models.TaskStatus(req.Status),
		ProjectID:    req.ProjectID,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks lists tasks visible to the caller, optionally filtered by status
// and priority.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID, taskFilterFromQuery(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{Tasks: dto.ToTaskDTOs(tasks)})
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), userID, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title         *string `json:"title"`
		Description   *string `json:"description"`
		DueDate       *string `json:"due_date"`
		Priority      *string `json:"priority"`
		Status        *string `json:"status"`
		AssignedToID  *uint64 `json:"assigned_to_id"`
		ClearAssignee bool    `json:"clear_assignee"`
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssignedToID:  req.AssignedToID,
		ClearAssignee: req.ClearAssignee,
	}
	if req.DueDate != nil {
		dueDate, ok := parseDueDate(*req.DueDate)
		if !ok {
			apierrors.BadRequest(c, "Invalid due_date")
			return
		}
		input.DueDate = dueDate
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		input.Priority = &p
	}
	if req.Status != nil {
		s := models.TaskStatus(*req.Status)
		input.Status = &s
	}

	task, err := h.taskService.Update(c.Request.Context(), userID, taskID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
