package http

import (
	"github.com/labstack/echo/v4"

	"github.com/sharelist/core/internal/domain/entities"
)

// MessageResponse is the generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskResponse wraps a mutated task row for the HTTP caller; the same row
// goes out on the realtime channel.
type TaskResponse struct {
	Message string            `json:"message"`
	Task    entities.TaskView `json:"task"`
}

// ShareResponse wraps a created share.
type ShareResponse struct {
	Message string          `json:"message"`
	Share   *entities.Share `json:"share"`
}

// CurrentUserResponse identifies the caller.
type CurrentUserResponse struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

const (
	contextKeyUserID   = "user_id"
	contextKeyUsername = "username"
)

// userIDFromContext extracts the authenticated user id set by the auth
// middleware. Zero means unauthenticated; those requests never reach
// protected handlers.
func userIDFromContext(c echo.Context) int64 {
	id, _ := c.Get(contextKeyUserID).(int64)
	return id
}

func usernameFromContext(c echo.Context) string {
	name, _ := c.Get(contextKeyUsername).(string)
	return name
}
