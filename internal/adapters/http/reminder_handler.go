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
	"github.com/sharelist/core/internal/realtime"
)

// ReminderHandler handles reminder requests and nudges the receiver's live
// connections after each send commits.
type ReminderHandler struct {
	reminderService *services.ReminderService
	hub             *realtime.Hub
	logger          *logger.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderService *services.ReminderService, hub *realtime.Hub, logger *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		hub:             hub,
		logger:          logger,
	}
}

// SendReminder creates a reminder for another user
func (h *ReminderHandler) SendReminder(c echo.Context) error {
	var req ports.SendReminderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Receiver and category are required")
	}

	senderID := userIDFromContext(c)
	reminder, err := h.reminderService.Send(c.Request().Context(), senderID, req)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrSelfReminder):
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot send reminder to yourself")
		case errors.Is(err, entities.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Receiver not found")
		}
		h.logger.Errorw("Send reminder failed", "error", err, "sender_id", senderID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send reminder").SetInternal(err)
	}

	h.hub.Publish(realtime.ReminderReceived{
		ReceiverID: reminder.ReceiverID,
		Category:   reminder.Category,
	})

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Reminder sent successfully"})
}

// GetUnreadReminders lists the caller's unread reminders
func (h *ReminderHandler) GetUnreadReminders(c echo.Context) error {
	reminders, err := h.reminderService.ListUnread(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		h.logger.Errorw("Fetch reminders failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch reminders").SetInternal(err)
	}

	return c.JSON(http.StatusOK, reminders)
}

// MarkReminderRead acknowledges one of the caller's reminders
func (h *ReminderHandler) MarkReminderRead(c echo.Context) error {
	reminderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid reminder ID")
	}

	if err := h.reminderService.MarkRead(c.Request().Context(), reminderID, userIDFromContext(c)); err != nil {
		if errors.Is(err, entities.ErrReminderNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Reminder not found")
		}
		h.logger.Errorw("Mark reminder read failed", "error", err, "reminder_id", reminderID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to mark reminder as read").SetInternal(err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Reminder marked as read"})
}
