package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/constants"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
)

// RequireAuth rejects requests without a signed-in session and exposes the
// acting user's ID through GetUserID.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := toUserID(sessions.Default(c).Get(constants.ContextKeyUserID))
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// StartSession records userID as the session's actor.
func StartSession(c *gin.Context, userID uint64) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, userID)
	return session.Save()
}

// EndSession forgets the session's actor.
func EndSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	return session.Save()
}

// GetUserID returns the acting user's ID set by RequireAuth.
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// toUserID accepts the integer types a session codec may hand back.
func toUserID(v interface{}) (uint64, bool) {
	switch id := v.(type) {
	case uint64:
		return id, id != 0
	case uint:
		return uint64(id), id != 0
	case int64:
		return uint64(id), id > 0
	case int:
		return uint64(id), id > 0
	default:
		return 0, false
	}
}
