package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sharelist/core/internal/application/services"
	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/infrastructure/storage"
	"github.com/sharelist/core/internal/ports"
	"github.com/sharelist/core/internal/realtime"
)

// TaskHandler handles task requests and publishes the resulting events.
// Every publish happens after the store write commits, never before.
type TaskHandler struct {
	taskService *services.TaskService
	hub         *realtime.Hub
	uploads     *storage.UploadStore
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, hub *realtime.Hub, uploads *storage.UploadStore, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		hub:         hub,
		uploads:     uploads,
		logger:      logger,
	}
}

// GetTasks returns the caller's full visible-category aggregate
func (h *TaskHandler) GetTasks(c echo.Context) error {
	tasks, err := h.taskService.VisibleCategories(c.Request().Context(), userIDFromContext(c))
	if err != nil {
		h.logger.Errorw("Fetch tasks failed", "error", err, "user_id", userIDFromContext(c))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch tasks").SetInternal(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a task from a JSON or multipart body. Image tasks
// arrive as multipart with the file under the "image" field.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID := userIDFromContext(c)

	req, err := h.bindCreateRequest(c)
	if err != nil {
		return err
	}

	view, err := h.taskService.Create(c.Request().Context(), userID, *req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return echo.NewHTTPError(http.StatusBadRequest, verr.Reason)
		}
		h.logger.Errorw("Create task failed", "error", err, "user_id", userID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create task").SetInternal(err)
	}

	// A task in a brand-new folder needs the owner's live connections on
	// the folder's topic before the event goes out.
	topic := realtime.CategoryTopic(view.OwnerID, view.Category)
	h.hub.SubscribeUser(view.OwnerID, topic)
	h.hub.Publish(realtime.TaskCreated{Task: *view})

	return c.JSON(http.StatusCreated, TaskResponse{
		Message: "Task added successfully",
		Task:    *view,
	})
}

// bindCreateRequest assembles a CreateTaskRequest from either body shape,
// storing the uploaded image first when one is attached.
func (h *TaskHandler) bindCreateRequest(c echo.Context) (*ports.CreateTaskRequest, error) {
	var req ports.CreateTaskRequest

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		req.Text = c.FormValue("task")
		req.Category = c.FormValue("category")
		req.Kind = entities.TaskKind(c.FormValue("taskType"))

		if v := c.FormValue("ownerId"); v != "" {
			ownerID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid owner ID")
			}
			req.FolderOwnerID = &ownerID
		}

		if v := c.FormValue("textContent"); v != "" {
			req.TextBody = &v
		}

		if v := c.FormValue("dueDate"); v != "" {
			dueAt, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid due date")
			}
			req.DueAt = &dueAt
		}

		if file, err := c.FormFile("image"); err == nil {
			src, err := file.Open()
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, "Unreadable image upload")
			}
			defer src.Close()

			ref, err := h.uploads.Save(file.Filename, file.Size, src)
			if err != nil {
				if errors.Is(err, storage.ErrFileTooLarge) || errors.Is(err, storage.ErrUnsupportedType) {
					return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
				}
				h.logger.Errorw("Store upload failed", "error", err)
				return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to store image").SetInternal(err)
			}
			req.ImageRef = &ref
		}

		return &req, nil
	}

	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	return &req, nil
}

// ToggleTask flips a task's completion state
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	view, err := h.taskService.Toggle(c.Request().Context(), taskID, userIDFromContext(c))
	if err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Task not found")
		}
		h.logger.Errorw("Toggle task failed", "error", err, "task_id", taskID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle task").SetInternal(err)
	}

	h.hub.Publish(realtime.TaskToggled{Task: *view})

	return c.JSON(http.StatusOK, TaskResponse{
		Message: "Task toggled successfully",
		Task:    *view,
	})
}

// DeleteTask removes a task by id
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	ownerID, category, err := h.taskService.Delete(c.Request().Context(), taskID)
	if err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Task not found")
		}
		h.logger.Errorw("Delete task failed", "error", err, "task_id", taskID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete task").SetInternal(err)
	}

	h.hub.Publish(realtime.TaskDeleted{OwnerID: ownerID, TaskID: taskID, Category: category})

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

// DeleteFolder removes every task in one of the caller's own folders
func (h *TaskHandler) DeleteFolder(c echo.Context) error {
	category := c.Param("category")
	if category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Category is required")
	}

	userID := userIDFromContext(c)
	if err := h.taskService.DeleteFolder(c.Request().Context(), userID, category); err != nil {
		h.logger.Errorw("Delete folder failed", "error", err, "user_id", userID, "category", category)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error deleting folder").SetInternal(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
