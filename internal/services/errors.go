package services

import "errors"

// Error kinds. Every error a service returns for a rejected action wraps one of
// these, so callers can branch with errors.Is without knowing the specific cause.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrInvalid   = errors.New("invalid input")
	ErrConflict  = errors.New("conflict")
)

// ErrSelfInvitation is a business-rule violation rather than a permission or
// validation failure.
var ErrSelfInvitation = errors.New("you cannot invite yourself")

type serviceError struct {
	kind error
	msg  string
}

func (e *serviceError) Error() string { return e.msg }

func (e *serviceError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &serviceError{kind: kind, msg: msg}
}

// isServiceError reports whether err is a rejection raised by this package
// rather than a storage failure.
func isServiceError(err error) bool {
	var se *serviceError
	return errors.As(err, &se) || errors.Is(err, ErrSelfInvitation)
}

var (
	// Users
	ErrUserNotFound     = newError(ErrNotFound, "user not found")
	ErrUsernameRequired = newError(ErrInvalid, "username is required")
	ErrUsernameTooLong  = newError(ErrInvalid, "username is too long")
	ErrUsernameTaken    = newError(ErrConflict, "username already exists")
	ErrPasswordTooShort = newError(ErrInvalid, "password too short")

	// Projects
	ErrProjectNotFound           = newError(ErrNotFound, "project not found")
	ErrProjectAccessDenied       = newError(ErrForbidden, "you do not have access to this project")
	ErrNotProjectOwner           = newError(ErrForbidden, "only the project owner can do this")
	ErrProjectTitleRequired      = newError(ErrInvalid, "project title is required")
	ErrProjectTitleTooLong       = newError(ErrInvalid, "project title is too long")
	ErrProjectDescriptionTooLong = newError(ErrInvalid, "project description is too long")
	ErrProjectTitleTaken         = newError(ErrConflict, "a project with this title already exists")

	// Participants and invitations
	ErrInvalidRole            = newError(ErrInvalid, "role must be viewer or editor")
	ErrMembershipNotFound     = newError(ErrNotFound, "participant not found")
	ErrInvitationNotFound     = newError(ErrNotFound, "invitation not found")
	ErrNotInvitationRecipient = newError(ErrForbidden, "this invitation is addressed to another user")

	// Tasks
	ErrTaskNotFound           = newError(ErrNotFound, "task not found")
	ErrTaskAccessDenied       = newError(ErrForbidden, "you do not have access to this task")
	ErrTaskCreateDenied       = newError(ErrForbidden, "you cannot create tasks in this project")
	ErrTaskEditDenied         = newError(ErrForbidden, "you cannot edit this task")
	ErrTaskDeleteDenied       = newError(ErrForbidden, "you cannot delete this task")
	ErrTaskTitleRequired      = newError(ErrInvalid, "task title is required")
	ErrTaskTitleTooLong       = newError(ErrInvalid, "task title is too long")
	ErrDueDateRequired        = newError(ErrInvalid, "due date is required")
	ErrInvalidPriority        = newError(ErrInvalid, "priority must be low, medium or high")
	ErrInvalidStatus          = newError(ErrInvalid, "status must be todo, in_progress or done")
	ErrAssigneeNotFound       = newError(ErrInvalid, "assignee does not exist")
	ErrAssigneeNotParticipant = newError(ErrInvalid, "assignee is not a participant of the project")
	ErrPersonalTaskReassign   = newError(ErrInvalid, "personal tasks cannot be reassigned")

	// Notifications
	ErrNotificationNotFound     = newError(ErrNotFound, "notification not found")
	ErrNotNotificationRecipient = newError(ErrForbidden, "this notification belongs to another user")

	// Chat
	ErrChatMessageRequired = newError(ErrInvalid, "message is required")
	ErrChatMessageTooLong  = newError(ErrInvalid, "message is too long")
)
