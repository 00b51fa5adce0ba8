package dto

import (
	"time"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	OwnerID     uint64             `json:"owner_id"`
	Role        models.ProjectRole `json:"role,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ProjectDetailDTO is a project as seen by one of its participants
type ProjectDetailDTO struct {
	ProjectDTO
	IsOwner bool      `json:"is_owner"`
	Tasks   []TaskDTO `json:"tasks"`
}

// ParticipantDTO represents a project participant
type ParticipantDTO struct {
	User UserDTO            `json:"user"`
	Role models.ProjectRole `json:"role"`
}

// InvitationDTO represents an invitation in API responses
type InvitationDTO struct {
	ID            uint64                  `json:"id"`
	ProjectID     uint64                  `json:"project_id"`
	InvitedUserID uint64                  `json:"invited_user_id"`
	InviterID     uint64                  `json:"inviter_id"`
	Role          models.ProjectRole      `json:"role"`
	Status        models.InvitationStatus `json:"status"`
	RespondedAt   *time.Time              `json:"responded_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	Project       *ProjectRefDTO          `json:"project,omitempty"`
	Inviter       *UserDTO                `json:"inviter,omitempty"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project, role models.ProjectRole) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		Role:        role,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectSummaryDTOs converts the caller's project list
func ToProjectSummaryDTOs(summaries []services.ProjectSummary) []ProjectDTO {
	out := make([]ProjectDTO, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, ToProjectDTO(s.Project, s.Role))
	}
	return out
}

// ToProjectDetailDTO converts a project detail view
func ToProjectDetailDTO(detail *services.ProjectDetail) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(detail.Project, detail.Role),
		IsOwner:    detail.IsOwner,
		Tasks:      ToTaskDTOs(detail.Tasks),
	}
}

// ToParticipantDTOs converts a participant list
func ToParticipantDTOs(participants []models.Participant) []ParticipantDTO {
	out := make([]ParticipantDTO, 0, len(participants))
	for _, p := range participants {
		out = append(out, ParticipantDTO{User: ToUserDTO(p.User), Role: p.Role})
	}
	return out
}

// ToInvitationDTO converts an Invitation model to InvitationDTO
func ToInvitationDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:            invitation.ID,
		ProjectID:     invitation.ProjectID,
		InvitedUserID: invitation.InvitedUserID,
		InviterID:     invitation.InviterID,
		Role:          invitation.Role,
		Status:        invitation.Status,
		RespondedAt:   invitation.RespondedAt,
		CreatedAt:     invitation.CreatedAt,
		Project:       toProjectRef(invitation.Project),
		Inviter:       toUserRef(invitation.Inviter),
	}
}
