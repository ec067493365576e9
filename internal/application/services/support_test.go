package services

import (
	"context"
	"sort"
	"time"

	"github.com/sharelist/core/internal/domain/entities"
	"github.com/sharelist/core/internal/infrastructure/logger"
	"github.com/sharelist/core/internal/ports"
)

// fakeStore backs every repository fake with shared in-memory state so a
// test can exercise one service while seeding through another repo.
type fakeStore struct {
	users     map[int64]*entities.User
	tasks     map[int64]*entities.Task
	shares    map[int64]*entities.Share
	reminders map[int64]*entities.Reminder
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*entities.User),
		tasks:     make(map[int64]*entities.Task),
		shares:    make(map[int64]*entities.Share),
		reminders: make(map[int64]*entities.Reminder),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(username string) *entities.User {
	u := &entities.User{ID: s.id(), Username: username, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u
}

func (s *fakeStore) addTask(ownerID int64, text, category string) *entities.Task {
	t := &entities.Task{
		ID: s.id(), OwnerID: ownerID, Text: text, Category: category,
		Kind: entities.TaskKindList, CreatedAt: time.Now(),
	}
	s.tasks[t.ID] = t
	return t
}

func (s *fakeStore) addShare(ownerID int64, category string, collaboratorID int64) *entities.Share {
	sh := &entities.Share{
		ID: s.id(), OwnerID: ownerID, Category: category,
		CollaboratorID: collaboratorID, CreatedAt: time.Now(),
	}
	s.shares[sh.ID] = sh
	return sh
}

func (s *fakeStore) view(t *entities.Task) entities.TaskView {
	v := entities.TaskView{Task: *t}
	if owner, ok := s.users[t.OwnerID]; ok {
		v.Username = owner.Username
	}
	if t.CompletedByID != nil {
		if by, ok := s.users[*t.CompletedByID]; ok {
			name := by.Username
			v.CompletedBy = &name
		}
	}
	return v
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	for _, u := range r.store.users {
		if u.Username == user.Username {
			return entities.ErrUsernameTaken
		}
	}
	user.ID = r.store.id()
	user.CreatedAt = time.Now()
	stored := *user
	r.store.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entities.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, u := range r.store.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *fakeUserRepo) ListOthers(_ context.Context, excludeID int64) ([]*entities.User, error) {
	var out []*entities.User
	for _, u := range r.store.users {
		if u.ID == excludeID {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeTaskRepo struct{ store *fakeStore }

func (r *fakeTaskRepo) Create(_ context.Context, task *entities.Task) error {
	task.ID = r.store.id()
	task.CreatedAt = time.Now()
	stored := *task
	r.store.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id int64) (*entities.Task, error) {
	t, ok := r.store.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTaskRepo) GetViewByID(_ context.Context, id int64) (*entities.TaskView, error) {
	t, ok := r.store.tasks[id]
	if !ok {
		return nil, entities.ErrTaskNotFound
	}
	v := r.store.view(t)
	return &v, nil
}

func (r *fakeTaskRepo) SetCompletion(_ context.Context, id int64, completed bool, completedAt *time.Time, completedByID *int64) error {
	t, ok := r.store.tasks[id]
	if !ok {
		return entities.ErrTaskNotFound
	}
	t.Completed = completed
	t.CompletedAt = completedAt
	t.CompletedByID = completedByID
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.tasks[id]; !ok {
		return entities.ErrTaskNotFound
	}
	delete(r.store.tasks, id)
	return nil
}

func (r *fakeTaskRepo) DeleteFolder(_ context.Context, ownerID int64, category string) error {
	for id, t := range r.store.tasks {
		if t.OwnerID == ownerID && t.Category == category {
			delete(r.store.tasks, id)
		}
	}
	return nil
}

// sortNewestFirst mirrors the repository ordering: created_at descending,
// newest ids winning ties.
func sortNewestFirst(tasks []entities.TaskView) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID > tasks[j].ID
	})
}

func (r *fakeTaskRepo) ListByOwner(_ context.Context, ownerID int64) ([]entities.TaskView, error) {
	var out []entities.TaskView
	for _, t := range r.store.tasks {
		if t.OwnerID == ownerID {
			out = append(out, r.store.view(t))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeTaskRepo) ListByOwnerAndCategory(_ context.Context, ownerID int64, category string) ([]entities.TaskView, error) {
	var out []entities.TaskView
	for _, t := range r.store.tasks {
		if t.OwnerID == ownerID && t.Category == category {
			out = append(out, r.store.view(t))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeTaskRepo) ListCategories(_ context.Context, ownerID int64) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range r.store.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Strings(out)
	return out, nil
}

type fakeShareRepo struct{ store *fakeStore }

func (r *fakeShareRepo) Create(_ context.Context, share *entities.Share) error {
	for _, s := range r.store.shares {
		if s.OwnerID == share.OwnerID && s.Category == share.Category && s.CollaboratorID == share.CollaboratorID {
			return entities.ErrDuplicateShare
		}
	}
	share.ID = r.store.id()
	share.CreatedAt = time.Now()
	stored := *share
	r.store.shares[share.ID] = &stored
	return nil
}

func (r *fakeShareRepo) Exists(_ context.Context, ownerID int64, category string, collaboratorID int64) (bool, error) {
	for _, s := range r.store.shares {
		if s.OwnerID == ownerID && s.Category == category && s.CollaboratorID == collaboratorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeShareRepo) ListForCollaborator(_ context.Context, collaboratorID int64) ([]entities.SharedFolder, error) {
	var out []entities.SharedFolder
	for _, s := range r.store.shares {
		if s.CollaboratorID != collaboratorID {
			continue
		}
		folder := entities.SharedFolder{Share: *s}
		if owner, ok := r.store.users[s.OwnerID]; ok {
			folder.OwnerUsername = owner.Username
		}
		out = append(out, folder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShareRepo) ListForOwner(_ context.Context, ownerID int64) ([]entities.ShareView, error) {
	var out []entities.ShareView
	for _, s := range r.store.shares {
		if s.OwnerID != ownerID {
			continue
		}
		v := entities.ShareView{Share: *s}
		if collaborator, ok := r.store.users[s.CollaboratorID]; ok {
			v.CollaboratorName = collaborator.Username
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShareRepo) DeleteByOwner(_ context.Context, id, ownerID int64) error {
	s, ok := r.store.shares[id]
	if !ok || s.OwnerID != ownerID {
		return entities.ErrShareNotFound
	}
	delete(r.store.shares, id)
	return nil
}

type fakeReminderRepo struct{ store *fakeStore }

func (r *fakeReminderRepo) Create(_ context.Context, reminder *entities.Reminder) error {
	reminder.ID = r.store.id()
	reminder.CreatedAt = time.Now()
	stored := *reminder
	r.store.reminders[reminder.ID] = &stored
	return nil
}

func (r *fakeReminderRepo) ListUnread(_ context.Context, receiverID int64) ([]entities.ReminderView, error) {
	var out []entities.ReminderView
	for _, rm := range r.store.reminders {
		if rm.ReceiverID != receiverID || rm.IsRead {
			continue
		}
		v := entities.ReminderView{Reminder: *rm}
		if sender, ok := r.store.users[rm.SenderID]; ok {
			v.SenderUsername = sender.Username
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeReminderRepo) MarkRead(_ context.Context, id, receiverID int64) error {
	rm, ok := r.store.reminders[id]
	if !ok || rm.ReceiverID != receiverID {
		return entities.ErrReminderNotFound
	}
	rm.IsRead = true
	return nil
}

var (
	_ ports.UserRepository     = (*fakeUserRepo)(nil)
	_ ports.TaskRepository     = (*fakeTaskRepo)(nil)
	_ ports.ShareRepository    = (*fakeShareRepo)(nil)
	_ ports.ReminderRepository = (*fakeReminderRepo)(nil)
)

func testLogger() *logger.Logger {
	return logger.NewNop()
}
