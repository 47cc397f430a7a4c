package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
	"github.com/eventhub/eventhub/middleware"
	"github.com/eventhub/eventhub/net/resp"
	"github.com/eventhub/eventhub/service"
)

// UserHandler handles registration, login and identity lookups.
type UserHandler struct {
	authService *service.AuthService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService *service.AuthService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		logger:      log,
	}
}

// Register handles user registration. A successful registration confirms
// only; the client must log in explicitly to obtain a token.
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("All fields are required"))
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), &req); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			resp.Fail(c.Writer, resp.Conflict("User with this email already exists"))
		case errors.Is(err, repository.ErrUsernameExists):
			resp.Fail(c.Writer, resp.Conflict("Username is already taken"))
		default:
			h.logger.Error(c.Request.Context(), "registration failed", "error", err)
			resp.Fail(c.Writer, resp.InternalServer("Server error during registration"))
		}
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, "User registered successfully")
}

// Login handles user login and returns the issued token with the user
// summary.
func (h *UserHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("All fields are required"))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			resp.Fail(c.Writer, resp.UnAuthorized("Invalid Credentials"))
			return
		}
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Server error"))
		return
	}

	resp.Success(c.Writer, result)
}

// Me returns the authenticated user's record, minus the credential.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized(middleware.MsgNoToken))
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			resp.Fail(c.Writer, resp.NotFound("User not found"))
			return
		}
		h.logger.Error(c.Request.Context(), "identity lookup failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Server error"))
		return
	}

	resp.Success(c.Writer, user)
}
