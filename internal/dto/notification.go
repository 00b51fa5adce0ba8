package dto

import (
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/services"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

// NotificationDTO represents a task assignment notification
type NotificationDTO struct {
	ID        uint64    `json:"id"`
	TaskID    uint64    `json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
	Task      *TaskDTO  `json:"task,omitempty"`
}

// InboxResponse is the notifications page
type InboxResponse struct {
	Invitations   []InvitationDTO   `json:"invitations"`
	Notifications []NotificationDTO `json:"notifications"`
}

// ChatMessageDTO represents a chat message
type ChatMessageDTO struct {
	ID        uint64    `json:"id"`
	ProjectID uint64    `json:"project_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	User      *UserDTO  `json:"user,omitempty"`
	UserID    uint64    `json:"user_id"`
}

// ChatListResponse is a page of chat messages
type ChatListResponse struct {
	Messages   []ChatMessageDTO         `json:"messages"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToInboxResponse converts a user's inbox
func ToInboxResponse(inbox *services.Inbox) InboxResponse {
	resp := InboxResponse{
		Invitations:   make([]InvitationDTO, 0, len(inbox.Invitations)),
		Notifications: make([]NotificationDTO, 0, len(inbox.Notifications)),
	}
	for _, inv := range inbox.Invitations {
		resp.Invitations = append(resp.Invitations, ToInvitationDTO(inv))
	}
	for _, n := range inbox.Notifications {
		item := NotificationDTO{ID: n.ID, TaskID: n.TaskID, CreatedAt: n.CreatedAt}
		if n.Task != nil {
			task := ToTaskDTO(*n.Task)
			item.Task = &task
		}
		resp.Notifications = append(resp.Notifications, item)
	}
	return resp
}

// ToChatMessageDTO converts a ChatMessage model
func ToChatMessageDTO(message models.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        message.ID,
		ProjectID: message.ProjectID,
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
		User:      toUserRef(message.User),
		UserID:    message.UserID,
	}
}
