package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

// ParticipantHandler serves project participant and invitation endpoints.
type ParticipantHandler struct {
	participantService *services.ParticipantService
	invitationService  *services.InvitationService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(participantService *services.ParticipantService, invitationService *services.InvitationService) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		invitationService:  invitationService,
	}
}

// ListParticipants lists the project's owner and members.
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	participants, err := h.participantService.List(c.Request.Context(), userID, projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"participants": dto.ToParticipantDTOs(participants)})
}

// ChangeRole sets a participant's role.
func (h *ParticipantHandler) ChangeRole(c *gin.Context) {
	type ChangeRoleRequest struct {
		Role string `json:"role" binding:"required"`
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	role := models.ProjectRole(req.Role)
	if err := h.participantService.ChangeRole(c.Request.Context(), userID, projectID, targetID, role); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": targetID, "role": role})
}

// RemoveParticipant removes a participant and hands their tasks to the owner.
func (h *ParticipantHandler) RemoveParticipant(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.participantService.Remove(c.Request.Context(), userID, projectID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SendInvitation invites a user into the project by username.
func (h *ParticipantHandler) SendInvitation(c *gin.Context) {
	type SendInvitationRequest struct {
		Username string `json:"username" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SendInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	invitation, err := h.invitationService.Send(c.Request.Context(), services.SendInvitationInput{
		ProjectID: projectID,
		InviterID: userID,
		Username:  req.Username,
		Role:      models.ProjectRole(req.Role),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInvitationDTO(*invitation))
}
