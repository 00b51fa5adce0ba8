package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

// NotificationHandler serves the caller's inbox: invitations and task
// assignment notifications.
type NotificationHandler struct {
	invitationService   *services.InvitationService
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(invitationService *services.InvitationService, notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		invitationService:   invitationService,
		notificationService: notificationService,
	}
}

// ListNotifications returns pending invitations and task notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	inbox, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInboxResponse(inbox))
}

// DeleteNotification dismisses one of the caller's notifications.
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	notificationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), userID, notificationID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AcceptInvitation joins the project the invitation is for.
func (h *NotificationHandler) AcceptInvitation(c *gin.Context) {
	h.resolveInvitation(c, models.InvitationAccepted)
}

// RejectInvitation declines an invitation.
func (h *NotificationHandler) RejectInvitation(c *gin.Context) {
	h.resolveInvitation(c, models.InvitationRejected)
}

func (h *NotificationHandler) resolveInvitation(c *gin.Context, status models.InvitationStatus) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	invitationID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var (
		invitation *models.Invitation
		err        error
	)
	if status == models.InvitationAccepted {
		invitation, err = h.invitationService.Accept(c.Request.Context(), userID, invitationID)
	} else {
		invitation, err = h.invitationService.Reject(c.Request.Context(), userID, invitationID)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInvitationDTO(*invitation))
}
