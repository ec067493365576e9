package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sharelist/core/internal/application/services"
	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

// AuthHandler handles signup, login, and caller identity requests
type AuthHandler struct {
	authService *services.AuthService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Signup handles account creation
func (h *AuthHandler) Signup(c echo.Context) error {
	var req ports.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrUsernameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "Username already exists")
		}
		h.logger.Errorw("Signup failed", "error", err, "username", req.Username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during signup").SetInternal(err)
	}

	return c.JSON(http.StatusCreated, response)
}

// Login handles credential verification
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		h.logger.Errorw("Login failed", "error", err, "username", req.Username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during login").SetInternal(err)
	}

	return c.JSON(http.StatusOK, response)
}

// GetCurrentUser returns the caller's identity from their token
func (h *AuthHandler) GetCurrentUser(c echo.Context) error {
	return c.JSON(http.StatusOK, CurrentUserResponse{
		UserID:   userIDFromContext(c),
		Username: usernameFromContext(c),
	})
}

// Logout acknowledges logout. Tokens are stateless; discarding the token is
// the client's job.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// UserHandler serves the user directory
type UserHandler struct {
	userService *services.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers returns every user except the caller, for share and reminder
// pickers
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListOthers(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		h.logger.Errorw("List users failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch users").SetInternal(err)
	}

	return c.JSON(http.StatusOK, users)
}
