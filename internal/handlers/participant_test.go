package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
	"github.com/yukikurage/taskmaster-api/internal/models"
)

func participantURL(projectID, userID uint64) string {
	return projectURL(projectID, "/participants/"+strconv.FormatUint(userID, 10))
}

func invitationURL(invitationID uint64, action string) string {
	return "/api/invitations/" + strconv.FormatUint(invitationID, 10) + "/" + action
}

func (suite *HandlerTestSuite) sendInvitation(projectID uint64, from *models.User, username string, role models.ProjectRole) dto.InvitationDTO {
	w := suite.do(http.MethodPost, projectURL(projectID, "/invitations"), gin.H{"username": username, "role": role}, from)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var invitation dto.InvitationDTO
	suite.decode(w, &invitation)
	return invitation
}

func (suite *HandlerTestSuite) TestListParticipants() {
	owner := suite.createUser("owner")
	viewer := suite.createUser("viewer")
	outsider := suite.createUser("outsider")
	projectID := suite.createProject("Launch", owner)
	suite.addMember(projectID, viewer, models.RoleViewer)

	w := suite.do(http.MethodGet, projectURL(projectID, "/participants"), nil, viewer)
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Participants []dto.ParticipantDTO `json:"participants"`
	}
	suite.decode(w, &resp)
	suite.Require().Len(resp.Participants, 2)
	suite.Equal(owner.ID, resp.Participants[0].User.ID)
	suite.Equal(models.RoleOwner, resp.Participants[0].Role)
	suite.Equal(models.RoleViewer, resp.Participants[1].Role)

	w = suite.do(http.MethodGet, projectURL(projectID, "/participants"), nil, outsider)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestSendInvitation_SelfInvitation() {
	owner := suite.createUser("owner")
	projectID := suite.createProject("Launch", owner)

	w := suite.do(http.MethodPost, projectURL(projectID, "/invitations"), gin.H{"username": "owner", "role": "editor"}, owner)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeSelfInvitation, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestSendInvitation_Errors() {
	owner := suite.createUser("owner")
	editor := suite.createUser("editor")
	suite.createUser("bob")
	projectID := suite.createProject("Launch", owner)
	suite.addMember(projectID, editor, models.RoleEditor)

	w := suite.do(http.MethodPost, projectURL(projectID, "/invitations"), gin.H{"username": "bob", "role": "viewer"}, editor)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, projectURL(projectID, "/invitations"), gin.H{"username": "nobody", "role": "viewer"}, owner)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodPost, projectURL(projectID, "/invitations"), gin.H{"username": "bob", "role": "owner"}, owner)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeInvalidInput, suite.errorCode(w))
}

func (suite *HandlerTestSuite) TestInvitationAcceptFlow() {
	owner := suite.createUser("owner")
	bob := suite.createUser("bob")
	projectID := suite.createProject("Launch", owner)

	invitation := suite.sendInvitation(projectID, owner, "bob", models.RoleEditor)
	suite.Equal(models.InvitationPending, invitation.Status)

	w := suite.do(http.MethodGet, "/api/notifications", nil, bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var inbox dto.InboxResponse
	suite.decode(w, &inbox)
	suite.Require().Len(inbox.Invitations, 1)
	suite.Equal(invitation.ID, inbox.Invitations[0].ID)

	// Only the invited user may respond.
	w = suite.do(http.MethodPost, invitationURL(invitation.ID, "accept"), nil, owner)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, invitationURL(invitation.ID, "accept"), nil, bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var accepted dto.InvitationDTO
	suite.decode(w, &accepted)
	suite.Equal(models.InvitationAccepted, accepted.Status)

	w = suite.do(http.MethodGet, projectURL(projectID, ""), nil, bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	var detail dto.ProjectDetailDTO
	suite.decode(w, &detail)
	suite.Equal(models.RoleEditor, detail.Role)

	// A second answer does not change the outcome.
	w = suite.do(http.MethodPost, invitationURL(invitation.ID, "reject"), nil, bob)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &accepted)
	suite.Equal(models.InvitationAccepted, accepted.Status)
}

func (suite *HandlerTestSuite) TestInvitationReject() {
	owner := suite.createUser("owner")
	bob := suite.createUser("bob")
	projectID := suite.createProject("Launch", owner)
	invitation := suite.sendInvitation(projectID, owner, "bob", models.RoleViewer)

	w := suite.do(http.MethodPost, invitationURL(invitation.ID, "reject"), nil, bob)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, projectURL(projectID, ""), nil, bob)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, invitationURL(9999, "accept"), nil, bob)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestChangeRole() {
	owner := suite.createUser("owner")
	bob := suite.createUser("bob")
	projectID := suite.createProject("Launch", owner)
	suite.addMember(projectID, bob, models.RoleViewer)

	w := suite.do(http.MethodPatch, participantURL(projectID, bob.ID), gin.H{"role": "editor"}, bob)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPatch, participantURL(projectID, bob.ID), gin.H{"role": "admin"}, owner)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPatch, participantURL(projectID, bob.ID), gin.H{"role": "editor"}, owner)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodPatch, participantURL(projectID, 9999), gin.H{"role": "editor"}, owner)
	suite.Equal(http.StatusNotFound, w.Code)

	var membership models.ProjectMembership
	suite.Require().NoError(suite.db.Where("project_id = ? AND user_id = ?", projectID, bob.ID).First(&membership).Error)
	suite.Equal(models.RoleEditor, membership.Role)
}

func (suite *HandlerTestSuite) TestRemoveParticipant_ReassignsTasks() {
	owner := suite.createUser("owner")
	bob := suite.createUser("bob")
	projectID := suite.createProject("Launch", owner)
	suite.addMember(projectID, bob, models.RoleEditor)

	w := suite.do(http.MethodPost, "/api/tasks", gin.H{
		"title":          "Write docs",
		"due_date":       "2030-01-02",
		"project_id":     projectID,
		"assigned_to_id": bob.ID,
	}, bob)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var task dto.TaskDTO
	suite.decode(w, &task)

	w = suite.do(http.MethodDelete, participantURL(projectID, bob.ID), nil, owner)
	suite.Require().Equal(http.StatusNoContent, w.Code)

	var reloaded models.Task
	suite.Require().NoError(suite.db.First(&reloaded, task.ID).Error)
	suite.Require().NotNil(reloaded.OwnerID)
	suite.Require().NotNil(reloaded.AssignedToID)
	suite.Equal(owner.ID, *reloaded.OwnerID)
	suite.Equal(owner.ID, *reloaded.AssignedToID)

	w = suite.do(http.MethodDelete, participantURL(projectID, bob.ID), nil, owner)
	suite.Equal(http.StatusNotFound, w.Code)
}
