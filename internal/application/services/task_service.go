package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
	"github.com/sharelist/core/internal/realtime"
)

// ValidationError marks malformed task input so the adapter can answer 400
// instead of 500.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// TaskService owns task rows and the visible-category aggregate.
type TaskService struct {
	taskRepo  ports.TaskRepository
	shareRepo ports.ShareRepository
	logger    *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, shareRepo ports.ShareRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		shareRepo: shareRepo,
		logger:    logger,
	}
}

// VisibleCategories computes everything one user can see: their own folders
// grouped by category, then every folder shared in to them. A shared-in
// folder whose name collides with an owned one replaces the owned group in
// the result, matching the behavior existing clients rely on.
func (s *TaskService) VisibleCategories(ctx context.Context, userID int64) (map[string]entities.CategoryGroup, error) {
	ownTasks, err := s.taskRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own tasks: %w", err)
	}

	result := make(map[string]entities.CategoryGroup)

	for _, task := range ownTasks {
		category := task.Category
		if category == "" {
			category = entities.DefaultCategory
		}

		group, ok := result[category]
		if !ok {
			group = entities.CategoryGroup{Tasks: []entities.TaskView{}}
		}
		group.Tasks = append(group.Tasks, task)
		result[category] = group
	}

	shares, err := s.shareRepo.ListForCollaborator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming shares: %w", err)
	}

	for _, share := range shares {
		tasks, err := s.taskRepo.ListByOwnerAndCategory(ctx, share.OwnerID, share.Category)
		if err != nil {
			return nil, fmt.Errorf("list shared tasks: %w", err)
		}

		ownerName := share.OwnerUsername
		result[share.Category] = entities.CategoryGroup{
			Tasks:    tasks,
			Shared:   true,
			SharedBy: &ownerName,
		}
	}

	return result, nil
}

// Create validates and inserts a task, returning the stored row joined with
// usernames for broadcast and response. When FolderOwnerID is set the task
// lands in that owner's folder; the caller's right to write there is checked
// at the API layer.
func (s *TaskService) Create(ctx context.Context, actingUserID int64, req ports.CreateTaskRequest) (*entities.TaskView, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Reason: "task text is required"}
	}

	kind := req.Kind
	if kind == "" {
		kind = entities.TaskKindList
	}
	if !kind.IsValid() {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown task type %q", req.Kind)}
	}

	if kind == entities.TaskKindText && (req.TextBody == nil || strings.TrimSpace(*req.TextBody) == "") {
		return nil, &ValidationError{Reason: "text tasks require text content"}
	}
	if kind == entities.TaskKindImage && (req.ImageRef == nil || *req.ImageRef == "") {
		return nil, &ValidationError{Reason: "image tasks require an image"}
	}

	category := req.Category
	if category == "" {
		category = entities.DefaultCategory
	}

	ownerID := actingUserID
	if req.FolderOwnerID != nil {
		ownerID = *req.FolderOwnerID
	}

	task := &entities.Task{
		OwnerID:  ownerID,
		Text:     req.Text,
		Category: category,
		Kind:     kind,
		DueAt:    req.DueAt,
	}
	if kind == entities.TaskKindText {
		task.TextBody = req.TextBody
	}
	if kind == entities.TaskKindImage {
		task.ImageRef = req.ImageRef
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	view, err := s.taskRepo.GetViewByID(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("load created task: %w", err)
	}

	s.logger.Infow("Task created", "task_id", task.ID, "owner_id", ownerID,
		"category", category, "created_by", actingUserID)

	return view, nil
}

// Toggle flips completion. On the transition to completed the acting user
// and time are stamped; the reverse transition clears both. The task's
// existence is the only check here: folder rights are not verified, which
// matches the behavior existing clients depend on.
func (s *TaskService) Toggle(ctx context.Context, taskID, actingUserID int64) (*entities.TaskView, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Completed {
		task.MarkIncomplete()
	} else {
		task.MarkCompleted(actingUserID, time.Now())
	}

	if err := s.taskRepo.SetCompletion(ctx, task.ID, task.Completed, task.CompletedAt, task.CompletedByID); err != nil {
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}

	view, err := s.taskRepo.GetViewByID(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("load toggled task: %w", err)
	}

	return view, nil
}

// Delete removes a task and returns its owner and category so the caller
// can route the broadcast.
func (s *TaskService) Delete(ctx context.Context, taskID int64) (ownerID int64, category string, err error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return 0, "", err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, entities.ErrTaskNotFound) {
			return 0, "", err
		}
		return 0, "", fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Infow("Task deleted", "task_id", taskID, "owner_id", task.OwnerID, "category", task.Category)

	return task.OwnerID, task.Category, nil
}

// DeleteFolder removes every task in one of the user's own folders.
// Idempotent; deleting an empty or absent folder succeeds.
func (s *TaskService) DeleteFolder(ctx context.Context, ownerID int64, category string) error {
	if err := s.taskRepo.DeleteFolder(ctx, ownerID, category); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	s.logger.Infow("Folder deleted", "owner_id", ownerID, "category", category)
	return nil
}

// TopicsForUser resolves the realtime subscriptions for a fresh connection:
// one category topic per owned folder, one per shared-in folder, and the
// user's private topic for reminder delivery.
func (s *TaskService) TopicsForUser(ctx context.Context, userID int64) ([]realtime.Topic, error) {
	categories, err := s.taskRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned categories: %w", err)
	}

	shares, err := s.shareRepo.ListForCollaborator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming shares: %w", err)
	}

	topics := make([]realtime.Topic, 0, len(categories)+len(shares)+1)
	for _, category := range categories {
		topics = append(topics, realtime.CategoryTopic(userID, category))
	}
	for _, share := range shares {
		topics = append(topics, realtime.CategoryTopic(share.OwnerID, share.Category))
	}
	topics = append(topics, realtime.UserTopic(userID))

	return topics, nil
}
