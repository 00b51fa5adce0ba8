package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/dto"
	"github.com/yukikurage/taskmaster-api/internal/services"
)

// UserHandler serves user lookup for invitations.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// SearchUsers lists users whose username starts with the username query. With
// exact=true only a user with exactly that username is returned.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	if c.Query("exact") == "true" {
		user, err := h.userService.FindByUsername(c.Request.Context(), c.Query("username"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": []dto.UserDTO{dto.ToUserDTO(*user)}})
		return
	}

	users, err := h.userService.Search(c.Request.Context(), c.Query("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	out := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserDTO(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}
