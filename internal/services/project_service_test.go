package services

import (
	"context"
	"strings"

	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
)

func (suite *ServiceTestSuite) TestCreateProject_Validation() {
	alice := suite.createUser("alice")
	suite.createProject("Apollo", alice)

	_, err := suite.projects.Create(suite.ctx, alice.ID, ProjectInput{Title: " "})
	suite.ErrorIs(err, ErrProjectTitleRequired)

	_, err = suite.projects.Create(suite.ctx, alice.ID, ProjectInput{Title: strings.Repeat("p", 201)})
	suite.ErrorIs(err, ErrProjectTitleTooLong)

	_, err = suite.projects.Create(suite.ctx, alice.ID, ProjectInput{Title: "Gemini", Description: strings.Repeat("d", 501)})
	suite.ErrorIs(err, ErrProjectDescriptionTooLong)

	_, err = suite.projects.Create(suite.ctx, alice.ID, ProjectInput{Title: " Apollo "})
	suite.ErrorIs(err, ErrConflict)
}

func (suite *ServiceTestSuite) TestListProjects_OwnedAndJoined() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	owned := suite.createProject("Bob's", bob)
	joined := suite.createProject("Apollo", alice)
	suite.createProject("Private", alice)
	suite.addMember(joined, bob, models.RoleViewer)

	summaries, err := suite.projects.ListForUser(suite.ctx, bob.ID)
	suite.Require().NoError(err)
	suite.Require().Len(summaries, 2)

	roles := map[uint64]models.ProjectRole{}
	for _, s := range summaries {
		roles[s.Project.ID] = s.Role
	}
	suite.Equal(models.RoleOwner, roles[owned.ID])
	suite.Equal(models.RoleViewer, roles[joined.ID])
}

func (suite *ServiceTestSuite) TestGetProject_ViewGateAndTaskFilter() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleViewer)

	todo := suite.createProjectTask("Todo", project, alice, nil)
	doneTask := suite.createProjectTask("Done", project, alice, nil)
	done := models.TaskStatusDone
	_, err := suite.tasks.Update(suite.ctx, alice.ID, doneTask.ID, UpdateTaskInput{Status: &done})
	suite.Require().NoError(err)

	detail, err := suite.projects.Get(suite.ctx, bob.ID, project.ID, TaskListFilter{})
	suite.Require().NoError(err)
	suite.Equal(models.RoleViewer, detail.Role)
	suite.False(detail.IsOwner)
	suite.Len(detail.Tasks, 2)

	todoStatus := models.TaskStatusTodo
	detail, err = suite.projects.Get(suite.ctx, alice.ID, project.ID, TaskListFilter{Status: &todoStatus})
	suite.Require().NoError(err)
	suite.True(detail.IsOwner)
	suite.Equal(models.RoleOwner, detail.Role)
	suite.Equal([]uint64{todo.ID}, taskIDs(detail.Tasks))

	_, err = suite.projects.Get(suite.ctx, carol.ID, project.ID, TaskListFilter{})
	suite.ErrorIs(err, ErrProjectAccessDenied)

	_, err = suite.projects.Get(suite.ctx, carol.ID, 999, TaskListFilter{})
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *ServiceTestSuite) TestUpdateProject_OwnerOnly() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	suite.createProject("Gemini", alice)
	suite.addMember(project, bob, models.RoleEditor)

	_, err := suite.projects.Update(suite.ctx, bob.ID, project.ID, ProjectInput{Title: "Apollo 2"})
	suite.ErrorIs(err, ErrNotProjectOwner)

	_, err = suite.projects.Update(suite.ctx, alice.ID, project.ID, ProjectInput{Title: "Gemini"})
	suite.ErrorIs(err, ErrProjectTitleTaken)

	// Keeping its own title is not a conflict.
	updated, err := suite.projects.Update(suite.ctx, alice.ID, project.ID, ProjectInput{Title: "Apollo", Description: "Moon"})
	suite.Require().NoError(err)
	suite.Equal("Moon", updated.Description)

	var stored models.Project
	suite.Require().NoError(suite.db.First(&stored, project.ID).Error)
	suite.Equal("Moon", stored.Description)
}

func (suite *ServiceTestSuite) TestDeleteProject_DetachesTasks() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleEditor)
	task := suite.createProjectTask("Plan", project, bob, bob)
	suite.sendInvitation(project, alice, suite.createUser("carol"), models.RoleViewer)
	_, err := suite.chat.Post(suite.ctx, bob.ID, project.ID, "hello")
	suite.Require().NoError(err)

	suite.ErrorIs(suite.projects.Delete(suite.ctx, bob.ID, project.ID), ErrNotProjectOwner)
	suite.Require().NoError(suite.projects.Delete(suite.ctx, alice.ID, project.ID))

	reloaded := suite.reloadTask(task.ID)
	suite.Nil(reloaded.ProjectID)
	suite.Equal(bob.ID, *reloaded.OwnerID)

	for _, model := range []interface{}{&models.Project{}, &models.ProjectMembership{}, &models.Invitation{}, &models.ChatMessage{}} {
		var count int64
		suite.Require().NoError(suite.db.Model(model).Count(&count).Error)
		suite.Zero(count)
	}

	suite.ErrorIs(suite.projects.Delete(suite.ctx, alice.ID, project.ID), ErrProjectNotFound)
}

// lateProjectRepo never sees a clash in TitleTaken, as when two requests check
// the same title before either commits.
type lateProjectRepo struct {
	repository.ProjectRepository
}

func (lateProjectRepo) TitleTaken(context.Context, string, uint64) (bool, error) {
	return false, nil
}

func (suite *ServiceTestSuite) TestProjectTitle_UniqueIndexDecidesRace() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	projects := NewProjectService(
		lateProjectRepo{repository.NewProjectRepository(suite.db)},
		repository.NewMembershipRepository(suite.db),
		repository.NewTaskRepository(suite.db),
	)

	_, err := projects.Create(suite.ctx, alice.ID, ProjectInput{Title: "Apollo"})
	suite.Require().NoError(err)

	_, err = projects.Create(suite.ctx, bob.ID, ProjectInput{Title: "Apollo"})
	suite.ErrorIs(err, ErrProjectTitleTaken)

	gemini, err := projects.Create(suite.ctx, bob.ID, ProjectInput{Title: "Gemini"})
	suite.Require().NoError(err)

	_, err = projects.Update(suite.ctx, bob.ID, gemini.ID, ProjectInput{Title: "Apollo"})
	suite.ErrorIs(err, ErrProjectTitleTaken)
	suite.ErrorIs(err, ErrConflict)
}
