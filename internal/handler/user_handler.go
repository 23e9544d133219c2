package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/interview-qa/internal/dto"
	"github.com/prohmpiriya/interview-qa/internal/middleware"
	"github.com/prohmpiriya/interview-qa/internal/service"
	"github.com/prohmpiriya/interview-qa/pkg/response"
)

// UserHandler serves the caller's own profile
type UserHandler struct {
	authService service.AuthService
}

func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// Me returns the authenticated user
// GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Unauthorized(c, middleware.MsgNoToken)
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), claims.SubjectID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "User not found")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Success(c, "User retrieved successfully", dto.NewUserResponse(user))
}
