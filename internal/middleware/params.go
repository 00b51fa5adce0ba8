package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/taskmaster-api/internal/errors"
)

// RequireIDParams validates that each named URL parameter is a positive integer
// and stores the parsed value in the context under the same name.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, "Invalid "+name)
				c.Abort()
				return
			}
			c.Set(paramKey(name), id)
		}
		c.Next()
	}
}

// GetIDParam returns a parameter parsed by RequireIDParams. When the middleware
// did not run it falls back to parsing the raw parameter.
func GetIDParam(c *gin.Context, name string) (uint64, bool) {
	if v, exists := c.Get(paramKey(name)); exists {
		if id, ok := v.(uint64); ok {
			return id, true
		}
	}
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func paramKey(name string) string {
	return "param_" + name
}
