package services

import (
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/utils"
)

func (suite *ServiceTestSuite) TestChat_PostAndList() {
	alice := suite.createUser("alice")
	bob := suite.createUser("bob")
	carol := suite.createUser("carol")
	project := suite.createProject("Apollo", alice)
	suite.addMember(project, bob, models.RoleViewer)

	for _, text := range []string{"first", "second", "third"} {
		_, err := suite.chat.Post(suite.ctx, bob.ID, project.ID, text)
		suite.Require().NoError(err)
	}

	messages, total, err := suite.chat.List(suite.ctx, alice.ID, project.ID, utils.PaginationParams{Page: 1, Limit: 2, Offset: 0})
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(messages, 2)
	suite.Equal("first", messages[0].Message)
	suite.Equal("second", messages[1].Message)
	suite.Require().NotNil(messages[0].User)
	suite.Equal("bob", messages[0].User.Username)

	messages, _, err = suite.chat.List(suite.ctx, alice.ID, project.ID, utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	suite.Require().NoError(err)
	suite.Require().Len(messages, 1)
	suite.Equal("third", messages[0].Message)

	_, err = suite.chat.Post(suite.ctx, carol.ID, project.ID, "hi")
	suite.ErrorIs(err, ErrProjectAccessDenied)

	_, _, err = suite.chat.List(suite.ctx, carol.ID, project.ID, utils.PaginationParams{Page: 1, Limit: 20})
	suite.ErrorIs(err, ErrProjectAccessDenied)

	_, err = suite.chat.Post(suite.ctx, bob.ID, project.ID, "   ")
	suite.ErrorIs(err, ErrChatMessageRequired)
}
