package services

import (
	"github.com/yukikurage/taskmaster-api/internal/models"
)

func (suite *ServiceTestSuite) sendInvitation(project *models.Project, inviter *models.User, invitee *models.User, role models.ProjectRole) *models.Invitation {
	invitation, err := suite.invitations.Send(suite.ctx, SendInvitationInput{
		ProjectID: project.ID,
		InviterID: inviter.ID,
		Username:  invitee.Username,
		Role:      role,
	})
	suite.Require().NoError(err)
	return invitation
}

func (suite *ServiceTestSuite) TestSendInvitation_Success() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)

	invitation := suite.sendInvitation(project, alice, bob, models.RoleEditor)

	suite.Equal(models.InvitationPending, invitation.Status)
	suite.Equal(bob.ID, invitation.InvitedUserID)
	suite.Equal(alice.ID, invitation.InviterID)

	inbox, err := suite.notifications.List(suite.ctx, bob.ID)
	suite.Require().NoError(err)
	suite.Require().Len(inbox.Invitations, 1)
	suite.Equal(invitation.ID, inbox.Invitations[0].ID)
	suite.Require().NotNil(inbox.Invitations[0].Project)
	suite.Equal("Apollo", inbox.Invitations[0].Project.Title)
}

func (suite *ServiceTestSuite) TestSendInvitation_SelfInvitation() {
	alice := suite.createUser("alice")
	project := suite.createProject("Apollo", alice)

	_, err := suite.invitations.Send(suite.ctx, SendInvitationInput{
		ProjectID: project.ID,
		InviterID: alice.ID,
		Username:  "alice",
		Role:      models.RoleViewer,
	})
	suite.ErrorIs(err, ErrSelfInvitation)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Invitation{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *ServiceTestSuite) TestSendInvitation_CheckOrder() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)

	_, err := suite.invitations.Send(suite.ctx, SendInvitationInput{ProjectID: 999, InviterID: alice.ID, Username: "bob", Role: models.RoleViewer})
	suite.ErrorIs(err, ErrNotFound)

	// Non-owners are refused before the role or target is looked at.
	_, err = suite.invitations.Send(suite.ctx, SendInvitationInput{ProjectID: project.ID, InviterID: bob.ID, Username: "nobody", Role: "admin"})
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.invitations.Send(suite.ctx, SendInvitationInput{ProjectID: project.ID, InviterID: alice.ID, Username: "nobody", Role: "admin"})
	suite.ErrorIs(err, ErrInvalid)

	_, err = suite.invitations.Send(suite.ctx, SendInvitationInput{ProjectID: project.ID, InviterID: alice.ID, Username: "nobody", Role: models.RoleOwner})
	suite.ErrorIs(err, ErrInvalidRole)

	_, err = suite.invitations.Send(suite.ctx, SendInvitationInput{ProjectID: project.ID, InviterID: alice.ID, Username: "nobody", Role: models.RoleViewer})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestAcceptInvitation_CreatesSingleMembership() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	invitation := suite.sendInvitation(project, alice, bob, models.RoleEditor)

	accepted, err := suite.invitations.Accept(suite.ctx, bob.ID, invitation.ID)
	suite.Require().NoError(err)
	suite.Equal(models.InvitationAccepted, accepted.Status)
	suite.NotNil(accepted.RespondedAt)

	var membership models.ProjectMembership
	suite.Require().NoError(suite.db.Where("project_id = ? AND user_id = ?", project.ID, bob.ID).First(&membership).Error)
	suite.Equal(models.RoleEditor, membership.Role)

	// Second accept is a no-op.
	again, err := suite.invitations.Accept(suite.ctx, bob.ID, invitation.ID)
	suite.Require().NoError(err)
	suite.Equal(models.InvitationAccepted, again.Status)
	suite.Equal(int64(1), suite.membershipCount(project.ID, bob.ID))

	inbox, err := suite.notifications.List(suite.ctx, bob.ID)
	suite.Require().NoError(err)
	suite.Empty(inbox.Invitations)
}

func (suite *ServiceTestSuite) TestAcceptInvitation_ExistingMemberGetsInvitedRole() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleViewer)

	invitation := suite.sendInvitation(project, alice, bob, models.RoleEditor)
	_, err := suite.invitations.Accept(suite.ctx, bob.ID, invitation.ID)
	suite.Require().NoError(err)

	role, err := repositoryRole(suite, project.ID, bob.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleEditor, role)
	suite.Equal(int64(1), suite.membershipCount(project.ID, bob.ID))
}

func (suite *ServiceTestSuite) TestRejectInvitation_NoMembership() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	invitation := suite.sendInvitation(project, alice, bob, models.RoleViewer)

	rejected, err := suite.invitations.Reject(suite.ctx, bob.ID, invitation.ID)
	suite.Require().NoError(err)
	suite.Equal(models.InvitationRejected, rejected.Status)
	suite.Zero(suite.membershipCount(project.ID, bob.ID))

	// A rejected invitation can no longer be accepted.
	after, err := suite.invitations.Accept(suite.ctx, bob.ID, invitation.ID)
	suite.Require().NoError(err)
	suite.Equal(models.InvitationRejected, after.Status)
	suite.Zero(suite.membershipCount(project.ID, bob.ID))
}

func (suite *ServiceTestSuite) TestResolveInvitation_Guards() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	project := suite.createProject("Apollo", alice)
	invitation := suite.sendInvitation(project, alice, bob, models.RoleViewer)

	_, err := suite.invitations.Accept(suite.ctx, bob.ID, 999)
	suite.ErrorIs(err, ErrInvitationNotFound)

	_, err = suite.invitations.Accept(suite.ctx, carol.ID, invitation.ID)
	suite.ErrorIs(err, ErrForbidden)

	_, err = suite.invitations.Reject(suite.ctx, alice.ID, invitation.ID)
	suite.ErrorIs(err, ErrForbidden)

	stored, err := suite.invitations.invitationRepo.FindByID(suite.ctx, invitation.ID)
	suite.Require().NoError(err)
	suite.Equal(models.InvitationPending, stored.Status)
}

func (suite *ServiceTestSuite) TestResolveInvitation_StaleSnapshotIsNoop() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	invitation := suite.sendInvitation(project, alice, bob, models.RoleEditor)

	// A request that loaded the invitation before another one rejected it.
	stale, err := suite.invitations.invitationRepo.FindByID(suite.ctx, invitation.ID)
	suite.Require().NoError(err)

	_, err = suite.invitations.Reject(suite.ctx, bob.ID, invitation.ID)
	suite.Require().NoError(err)

	changed, err := suite.invitations.invitationRepo.Resolve(suite.ctx, stale, models.InvitationAccepted)
	suite.Require().NoError(err)
	suite.False(changed)
	suite.Zero(suite.membershipCount(project.ID, bob.ID))
}

func repositoryRole(suite *ServiceTestSuite, projectID, userID uint64) (models.ProjectRole, error) {
	return suite.participants.access.membershipRepo.GetRole(suite.ctx, projectID, userID)
}
