package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/constants"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

// ChatService provides the per-project message log.
type ChatService struct {
	access   accessResolver
	chatRepo repository.ChatRepository
}

// NewChatService creates a new ChatService.
func NewChatService(projectRepo repository.ProjectRepository, membershipRepo repository.MembershipRepository, chatRepo repository.ChatRepository) *ChatService {
	return &ChatService{
		access:   accessResolver{projectRepo: projectRepo, membershipRepo: membershipRepo},
		chatRepo: chatRepo,
	}
}

// List returns a page of the project's messages, oldest first, and the total.
func (s *ChatService) List(ctx context.Context, actorID, projectID uint64, params utils.PaginationParams) ([]models.ChatMessage, int64, error) {
	if err := s.authorize(ctx, actorID, projectID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.chatRepo.ListByProject(ctx, projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, total, nil
}

// Post appends a message from the actor.
func (s *ChatService) Post(ctx context.Context, actorID, projectID uint64, text string) (*models.ChatMessage, error) {
	if err := s.authorize(ctx, actorID, projectID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrChatMessageRequired
	}
	if utf8.RuneCountInString(text) > constants.MaxChatMessageLength {
		return nil, ErrChatMessageTooLong
	}

	message := &models.ChatMessage{
		ProjectID: projectID,
		UserID:    actorID,
		Message:   text,
	}
	if err := s.chatRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return message, nil
}

func (s *ChatService) authorize(ctx context.Context, actorID, projectID uint64) error {
	_, role, err := s.access.projectWithRole(ctx, actorID, projectID)
	if err != nil {
		return err
	}
	if !authz.CanAccessChat(role) {
		return ErrProjectAccessDenied
	}
	return nil
}
