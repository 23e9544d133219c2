package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/interview-qa/internal/dto"
	"github.com/prohmpiriya/interview-qa/internal/middleware"
	"github.com/prohmpiriya/interview-qa/internal/service"
	"github.com/prohmpiriya/interview-qa/pkg/response"
)

// CookieConfig describes the auth cookie
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Register handles user registration
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindRequest(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			response.Conflict(c, "User already exists")
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, "User registered successfully", dto.RegisterResponse{UserID: user.ID})
}

// Login handles user login. The token goes out only as an HttpOnly cookie.
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindRequest(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid email or password")
			return
		}
		response.InternalError(c, err)
		return
	}

	maxAge := int(result.Claims.ExpiresAt.Sub(result.Claims.IssuedAt) / time.Second)
	if maxAge < 1 {
		maxAge = 1
	}
	middleware.SetAuthCookie(c, h.cookie.Name, result.Token, maxAge, h.cookie.Domain, h.cookie.Secure)

	response.Success(c, "Login successful", dto.LoginResponse{
		UserID:    result.User.ID,
		Email:     result.User.Email,
		ExpiresAt: result.Claims.ExpiresAt,
	})
}

// Logout clears the auth cookie. Always succeeds.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.SetAuthCookie(c, h.cookie.Name, "", -1, h.cookie.Domain, h.cookie.Secure)
	response.Success(c, "Logout successful", nil)
}
