package services

import (
	"github.com/yukikurage/taskmaster-api/internal/models"
)

func (suite *ServiceTestSuite) TestListParticipants_OwnerFirst() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	dave := suite.createUser("dave")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleEditor)
	suite.addMember(project, carol, models.RoleViewer)

	participants, err := suite.participants.List(suite.ctx, carol.ID, project.ID)
	suite.Require().NoError(err)
	suite.Require().Len(participants, 3)
	suite.Equal(alice.ID, participants[0].User.ID)
	suite.Equal(models.RoleOwner, participants[0].Role)

	roles := map[uint64]models.ProjectRole{}
	for _, p := range participants {
		roles[p.User.ID] = p.Role
	}
	suite.Equal(models.RoleEditor, roles[bob.ID])
	suite.Equal(models.RoleViewer, roles[carol.ID])

	_, err = suite.participants.List(suite.ctx, dave.ID, project.ID)
	suite.ErrorIs(err, ErrForbidden)
}

func (suite *ServiceTestSuite) TestChangeRole_UnlocksTaskCreation() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleViewer)

	input := CreateTaskInput{Title: "Draft plan", DueDate: dueDate(), ProjectID: &project.ID}

	_, err := suite.tasks.Create(suite.ctx, bob.ID, input)
	suite.ErrorIs(err, ErrTaskCreateDenied)

	suite.Require().NoError(suite.participants.ChangeRole(suite.ctx, alice.ID, project.ID, bob.ID, models.RoleEditor))

	task, err := suite.tasks.Create(suite.ctx, bob.ID, input)
	suite.Require().NoError(err)
	suite.Require().NotNil(task.OwnerID)
	suite.Equal(bob.ID, *task.OwnerID)
}

func (suite *ServiceTestSuite) TestChangeRole_Errors() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleEditor)

	suite.ErrorIs(suite.participants.ChangeRole(suite.ctx, alice.ID, 999, bob.ID, models.RoleViewer), ErrProjectNotFound)
	suite.ErrorIs(suite.participants.ChangeRole(suite.ctx, bob.ID, project.ID, bob.ID, models.RoleViewer), ErrNotProjectOwner)
	suite.ErrorIs(suite.participants.ChangeRole(suite.ctx, alice.ID, project.ID, bob.ID, models.RoleOwner), ErrInvalidRole)
	suite.ErrorIs(suite.participants.ChangeRole(suite.ctx, alice.ID, project.ID, carol.ID, models.RoleViewer), ErrMembershipNotFound)
	suite.ErrorIs(suite.participants.ChangeRole(suite.ctx, alice.ID, project.ID, alice.ID, models.RoleViewer), ErrMembershipNotFound)

	role, err := repositoryRole(suite, project.ID, bob.ID)
	suite.Require().NoError(err)
	suite.Equal(models.RoleEditor, role)
}

func (suite *ServiceTestSuite) TestRemoveParticipant_ReassignsTasksToOwner() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	project := suite.createProject("Apollo", alice)
	other := suite.createProject("Gemini", carol)
	suite.addMember(project, bob, models.RoleEditor)
	suite.addMember(project, carol, models.RoleViewer)

	assignedToCarol := suite.createProjectTask("Review", project, alice, carol)
	ownedByBob := suite.createProjectTask("Write docs", project, bob, carol)
	elsewhere := suite.createProjectTask("Own project", other, carol, carol)

	suite.Require().NoError(suite.participants.Remove(suite.ctx, alice.ID, project.ID, carol.ID))

	reloaded := suite.reloadTask(assignedToCarol.ID)
	suite.Equal(alice.ID, *reloaded.AssignedToID)
	suite.Equal(alice.ID, *reloaded.OwnerID)

	reloaded = suite.reloadTask(ownedByBob.ID)
	suite.Equal(alice.ID, *reloaded.AssignedToID)
	suite.Equal(bob.ID, *reloaded.OwnerID)

	// Tasks in other projects are untouched.
	reloaded = suite.reloadTask(elsewhere.ID)
	suite.Equal(carol.ID, *reloaded.AssignedToID)

	var dangling int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).
		Where("project_id = ? AND (owner_id = ? OR assigned_to_id = ?)", project.ID, carol.ID, carol.ID).
		Count(&dangling).Error)
	suite.Zero(dangling)

	suite.Zero(suite.membershipCount(project.ID, carol.ID))

	_, err := suite.tasks.Get(suite.ctx, carol.ID, assignedToCarol.ID)
	suite.ErrorIs(err, ErrTaskAccessDenied)
}

func (suite *ServiceTestSuite) TestRemoveParticipant_Errors() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleEditor)
	task := suite.createProjectTask("Review", project, alice, bob)

	suite.ErrorIs(suite.participants.Remove(suite.ctx, alice.ID, 999, bob.ID), ErrProjectNotFound)
	suite.ErrorIs(suite.participants.Remove(suite.ctx, bob.ID, project.ID, bob.ID), ErrNotProjectOwner)
	suite.ErrorIs(suite.participants.Remove(suite.ctx, alice.ID, project.ID, carol.ID), ErrMembershipNotFound)

	// Nothing was reassigned by the failed attempts.
	suite.Equal(bob.ID, *suite.reloadTask(task.ID).AssignedToID)
	suite.Equal(int64(1), suite.membershipCount(project.ID, bob.ID))
}
