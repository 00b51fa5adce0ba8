package constants

const (
	// Session
	SessionCookieName   = "task_session"
	ContextKeyUserID    = "user_id"
	ContextKeyRequestID = "request_id"

	// Auth
	MinPasswordLength = 8
	MaxUsernameLength = 150

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Validation
	MaxTaskTitleLength          = 200
	MaxProjectTitleLength       = 200
	MaxProjectDescriptionLength = 500
	MaxChatMessageLength        = 2000
)
