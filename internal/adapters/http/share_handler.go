package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sharelist/core/internal/application/services"
	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

// ShareHandler handles folder sharing requests
type ShareHandler struct {
	shareService *services.ShareService
	logger       *logger.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService *services.ShareService, logger *logger.Logger) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		logger:       logger,
	}
}

// CreateShare shares one of the caller's folders with another user
func (h *ShareHandler) CreateShare(c echo.Context) error {
	var req ports.CreateShareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Category and user are required")
	}

	ownerID := userIDFromContext(c)
	share, err := h.shareService.Create(c.Request().Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrDuplicateShare):
			return echo.NewHTTPError(http.StatusConflict, "Already shared with this user")
		case errors.Is(err, entities.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		h.logger.Errorw("Create share failed", "error", err, "owner_id", ownerID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create share").SetInternal(err)
	}

	return c.JSON(http.StatusCreated, ShareResponse{
		Message: "Folder shared successfully",
		Share:   share,
	})
}

// ListShares returns the caller's outgoing shares
func (h *ShareHandler) ListShares(c echo.Context) error {
	shares, err := h.shareService.ListOutgoing(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		h.logger.Errorw("List shares failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch shares").SetInternal(err)
	}

	return c.JSON(http.StatusOK, shares)
}

// DeleteShare revokes one of the caller's outgoing shares
func (h *ShareHandler) DeleteShare(c echo.Context) error {
	shareID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid share ID")
	}

	if err := h.shareService.Revoke(c.Request().Context(), shareID, userIDFromContext(c)); err != nil {
		if errors.Is(err, entities.ErrShareNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Share not found")
		}
		h.logger.Errorw("Delete share failed", "error", err, "share_id", shareID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete share").SetInternal(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Share removed successfully"})
}
