package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

// accessResolver loads projects and the actor's effective role in them.
type accessResolver struct {
	projectRepo    repository.ProjectRepository
	membershipRepo repository.MembershipRepository
}

func (a accessResolver) project(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := a.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// role returns the actor's effective role. Owners are resolved without a
// membership lookup.
func (a accessResolver) role(ctx context.Context, actorID uint64, project *models.Project) (models.ProjectRole, error) {
	if project.IsOwnedBy(actorID) {
		return models.RoleOwner, nil
	}
	stored, err := a.membershipRepo.GetRole(ctx, project.ID, actorID)
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to resolve role: %w", err)
	}
	return authz.EffectiveRole(actorID, project, stored), nil
}

func (a accessResolver) projectWithRole(ctx context.Context, actorID, projectID uint64) (*models.Project, models.ProjectRole, error) {
	project, err := a.project(ctx, projectID)
	if err != nil {
		return nil, models.RoleNone, err
	}
	role, err := a.role(ctx, actorID, project)
	if err != nil {
		return nil, models.RoleNone, err
	}
	return project, role, nil
}

// taskRole resolves the actor's role in the task's project; personal tasks
// yield RoleNone.
func (a accessResolver) taskRole(ctx context.Context, actorID uint64, task *models.Task) (*models.Project, models.ProjectRole, error) {
	if task.IsPersonal() {
		return nil, models.RoleNone, nil
	}
	return a.projectWithRole(ctx, actorID, *task.ProjectID)
}
