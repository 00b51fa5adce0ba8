// Package authz decides what an actor may do with projects and tasks.
//
// Every check is a pure function of the actor id, a snapshot of the entity and
// the actor's effective role in the owning project. Callers resolve the role once
// per action with EffectiveRole and then consult as many checks as they need.
package authz

import "github.com/yukikurage/taskmaster-api/internal/models"

// EffectiveRole folds project ownership into the stored membership role.
// A nil project yields RoleNone.
func EffectiveRole(actorID uint64, project *models.Project, memberRole models.ProjectRole) models.ProjectRole {
	if project == nil {
		return models.RoleNone
	}
	if project.IsOwnedBy(actorID) {
		return models.RoleOwner
	}
	if memberRole.IsAssignable() {
		return memberRole
	}
	return models.RoleNone
}

// CanManageProject reports whether the actor may edit or delete the project.
func CanManageProject(actorID uint64, project *models.Project) bool {
	return project != nil && project.IsOwnedBy(actorID)
}

// CanViewProject reports whether the role grants read access to the project.
func CanViewProject(role models.ProjectRole) bool {
	return role.AtLeast(models.RoleViewer)
}

// CanAccessChat reports whether the role may read and post in the project chat.
func CanAccessChat(role models.ProjectRole) bool {
	return CanViewProject(role)
}

// CanCreateTask reports whether a task may be created in project. Personal
// tasks (nil project) are always allowed.
func CanCreateTask(project *models.Project, role models.ProjectRole) bool {
	if project == nil {
		return true
	}
	return role.AtLeast(models.RoleEditor)
}

// CanEditTask is the broad gate used for updates. Any participant of the task's
// project may edit it; personal tasks only by their owner.
func CanEditTask(actorID uint64, task *models.Task, role models.ProjectRole) bool {
	if task.IsPersonal() {
		return task.IsOwnedBy(actorID)
	}
	return role.AtLeast(models.RoleViewer)
}

// CanDeleteTask is the strict gate used for deletion. Project tasks may be
// deleted by their assignee, an editor or the project owner.
func CanDeleteTask(actorID uint64, task *models.Task, role models.ProjectRole) bool {
	if task.IsPersonal() {
		return task.IsOwnedBy(actorID)
	}
	return task.IsAssignedTo(actorID) || role.AtLeast(models.RoleEditor)
}

// CanViewTask reports whether the actor may read the task.
func CanViewTask(actorID uint64, task *models.Task, role models.ProjectRole) bool {
	if task.IsPersonal() {
		return task.IsOwnedBy(actorID) || task.IsAssignedTo(actorID)
	}
	return role.AtLeast(models.RoleViewer)
}

// CanManageParticipants reports whether the actor may invite, re-role or remove
// project participants.
func CanManageParticipants(actorID uint64, project *models.Project) bool {
	return project != nil && project.IsOwnedBy(actorID)
}
