package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
	"github.com/yukikurage/taskmaster-api/internal/logger"
	"github.com/yukikurage/taskmaster-api/internal/middleware"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

// respondServiceError maps a service error to its HTTP response. Anything
// outside the service error kinds is logged and reported as a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSelfInvitation):
		apierrors.SelfInvitation(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInvalid):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	default:
		_ = c.Error(err)
		logger.GetLogger().Error("request failed",
			"request_id", middleware.GetRequestID(c),
			"path", c.FullPath(),
			"error", err,
		)
		apierrors.InternalError(c, "")
	}
}

// currentUser returns the authenticated user's ID or writes a 401.
func currentUser(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// idParam returns a positive integer URL parameter or writes a 400.
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, ok := middleware.GetIDParam(c, name)
	if !ok {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// invalidBody writes a 400 for a request body that failed to bind.
func invalidBody(c *gin.Context, err error) {
	apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
}
