package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yukikurage/taskmaster-api/internal/authz"
	"github.com/yukikurage/taskmaster-api/internal/constants"
	"github.com/yukikurage/taskmaster-api/internal/models"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"gorm.io/gorm"
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	access   accessResolver
	taskRepo repository.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, membershipRepo repository.MembershipRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		access:   accessResolver{projectRepo: projectRepo, membershipRepo: membershipRepo},
		taskRepo: taskRepo,
	}
}

// ProjectInput holds the editable fields of a project.
type ProjectInput struct {
	Title       string
	Description string
}

func (in *ProjectInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Title == "" {
		return ErrProjectTitleRequired
	}
	if utf8.RuneCountInString(in.Title) > constants.MaxProjectTitleLength {
		return ErrProjectTitleTooLong
	}
	if utf8.RuneCountInString(in.Description) > constants.MaxProjectDescriptionLength {
		return ErrProjectDescriptionTooLong
	}
	return nil
}

// ProjectSummary is a project together with the caller's role in it.
type ProjectSummary struct {
	Project models.Project
	Role    models.ProjectRole
}

// ProjectDetail is what a participant sees when opening a project.
type ProjectDetail struct {
	Project models.Project
	Role    models.ProjectRole
	IsOwner bool
	Tasks   []models.Task
}

// Create creates a project owned by ownerID.
func (s *ProjectService) Create(ctx context.Context, ownerID uint64, input ProjectInput) (*models.Project, error) {
	if err := input.normalize(); err != nil {
		return nil, err
	}

	if err := s.ensureTitleFree(ctx, input.Title, 0); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     ownerID,
	}
	if err := s.access.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectTitleTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// ListForUser returns every project the user owns or participates in.
func (s *ProjectService) ListForUser(ctx context.Context, userID uint64) ([]ProjectSummary, error) {
	projects, err := s.access.projectRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	memberships, err := s.access.membershipRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	stored := make(map[uint64]models.ProjectRole, len(memberships))
	for _, m := range memberships {
		stored[m.ProjectID] = m.Role
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for i := range projects {
		summaries = append(summaries, ProjectSummary{
			Project: projects[i],
			Role:    authz.EffectiveRole(userID, &projects[i], stored[projects[i].ID]),
		})
	}
	return summaries, nil
}

// Get returns the project with the caller's role and its tasks.
func (s *ProjectService) Get(ctx context.Context, actorID, projectID uint64, filter TaskListFilter) (*ProjectDetail, error) {
	if err := filter.validate(); err != nil {
		return nil, err
	}

	project, role, err := s.access.projectWithRole(ctx, actorID, projectID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewProject(role) {
		return nil, ErrProjectAccessDenied
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		ProjectIDs: []uint64{project.ID},
		Status:     filter.Status,
		Priority:   filter.Priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}

	return &ProjectDetail{
		Project: *project,
		Role:    role,
		IsOwner: project.IsOwnedBy(actorID),
		Tasks:   tasks,
	}, nil
}

// Update changes the project's title and description. Only the owner may do so.
func (s *ProjectService) Update(ctx context.Context, actorID, projectID uint64, input ProjectInput) (*models.Project, error) {
	project, err := s.access.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageProject(actorID, project) {
		return nil, ErrNotProjectOwner
	}

	if err := input.normalize(); err != nil {
		return nil, err
	}
	if err := s.ensureTitleFree(ctx, input.Title, project.ID); err != nil {
		return nil, err
	}

	project.Title = input.Title
	project.Description = input.Description
	if err := s.access.projectRepo.Update(ctx, project); err != nil {
		// The unique index settles a race the lookup above cannot.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectTitleTaken
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes the project. Its tasks become personal tasks of their owners.
func (s *ProjectService) Delete(ctx context.Context, actorID, projectID uint64) error {
	project, err := s.access.project(ctx, projectID)
	if err != nil {
		return err
	}
	if !authz.CanManageProject(actorID, project) {
		return ErrNotProjectOwner
	}

	if err := s.access.projectRepo.Delete(ctx, project.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (s *ProjectService) ensureTitleFree(ctx context.Context, title string, excludeID uint64) error {
	taken, err := s.access.projectRepo.TitleTaken(ctx, title, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check project title: %w", err)
	}
	if taken {
		return ErrProjectTitleTaken
	}
	return nil
}
