// Package fakes holds in-memory repository implementations for usecase tests.
package fakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
)

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Users is an in-memory UserRepository
type Users struct {
	mu    sync.Mutex
	Items []*entities.User
	Err   error
}

func (r *Users) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Items = append(r.Items, user)
	return nil
}

func (r *Users) FindByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Items {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *Users) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = entities.NormalizeEmail(email)
	for _, u := range r.Items {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *Users) FindFirst(_ context.Context) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first *entities.User
	for _, u := range r.Items {
		if u.IsActive && (first == nil || u.CreatedAt.Before(first.CreatedAt)) {
			first = u
		}
	}
	if first == nil {
		return nil, entities.ErrUserNotFound
	}
	return first, nil
}

func (r *Users) Update(_ context.Context, user *entities.User) error {
	return nil
}

func (r *Users) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.Items {
		if u.ID == userID {
			u.UpdateLastLogin()
			return nil
		}
	}
	return entities.ErrUserNotFound
}

// Sessions is an in-memory SessionRepository
type Sessions struct {
	mu    sync.Mutex
	Items []*entities.Session
}

func (r *Sessions) Create(_ context.Context, session *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, session)
	return nil
}

func (r *Sessions) FindByID(_ context.Context, id uuid.UUID) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, entities.ErrSessionNotFound
}

func (r *Sessions) FindByRefreshToken(_ context.Context, tokenHash string) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Items {
		if s.RefreshToken == tokenHash && s.RevokedAt == nil {
			return s, nil
		}
	}
	return nil, entities.ErrSessionNotFound
}

func (r *Sessions) UpdateLastUsed(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, s := range r.Items {
		if s.ID == sessionID {
			s.LastUsedAt = &now
		}
	}
	return nil
}

func (r *Sessions) Revoke(_ context.Context, sessionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Items {
		if s.ID == sessionID && s.RevokedAt == nil {
			s.Revoke()
		}
	}
	return nil
}

func (r *Sessions) RevokeAllByUserID(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Items {
		if s.UserID == userID && s.RevokedAt == nil {
			s.Revoke()
		}
	}
	return nil
}

func (r *Sessions) DeleteExpired(_ context.Context, before time.Time) error {
	return nil
}

// Tasks is an in-memory TaskRepository
type Tasks struct {
	mu    sync.Mutex
	Items []*entities.Task
	Err   error
}

func (r *Tasks) Create(_ context.Context, task *entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, task)
	return nil
}

func (r *Tasks) FindByID(_ context.Context, userID, id uuid.UUID) (*entities.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.Items {
		if t.ID == id && t.UserID == userID {
			return t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (r *Tasks) List(_ context.Context, userID uuid.UUID, f repositories.TaskFilters) ([]*entities.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*entities.Task
	for _, t := range r.Items {
		if t.UserID != userID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			continue
		}
		if f.MeetingID != nil && (t.MeetingID == nil || *t.MeetingID != *f.MeetingID) {
			continue
		}
		if f.OpenOnly && !t.IsOpen() {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (r *Tasks) Update(_ context.Context, task *entities.Task) error {
	return nil
}

func (r *Tasks) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.Items {
		if t.ID == id && t.UserID == userID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

// Meetings is an in-memory MeetingRepository that stores mirrored tasks in Tasks
type Meetings struct {
	mu    sync.Mutex
	Items []*entities.Meeting
	Tasks *Tasks
	Err   error
}

// NewMeetings returns a meeting store sharing tasks
func NewMeetings(tasks *Tasks) *Meetings {
	return &Meetings{Tasks: tasks}
}

func (r *Meetings) CreateWithTasks(ctx context.Context, meeting *entities.Meeting, tasks []*entities.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Items = append(r.Items, meeting)
	for _, t := range tasks {
		id := meeting.ID
		t.MeetingID = &id
		t.UserID = meeting.UserID
		_ = r.Tasks.Create(ctx, t)
	}
	return nil
}

func (r *Meetings) FindByID(_ context.Context, userID, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Items {
		if m.ID == id && m.UserID == userID {
			return m, nil
		}
	}
	return nil, entities.ErrMeetingNotFound
}

func (r *Meetings) List(_ context.Context, userID uuid.UUID, f repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*entities.Meeting
	for _, m := range r.Items {
		if m.UserID != userID {
			continue
		}
		if f.Since != nil && m.Date.Before(*f.Since) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Limit, f.Offset), int64(len(out)), nil
}

func (r *Meetings) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entities.Meeting
	for _, m := range r.Items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, 0), nil
}

func (r *Meetings) Update(_ context.Context, meeting *entities.Meeting) error {
	return nil
}

func (r *Meetings) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.Items {
		if m.ID == id && m.UserID == userID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			r.Tasks.mu.Lock()
			for _, t := range r.Tasks.Items {
				if t.MeetingID != nil && *t.MeetingID == id {
					t.MeetingID = nil
				}
			}
			r.Tasks.mu.Unlock()
			return nil
		}
	}
	return entities.ErrMeetingNotFound
}

// Documents is an in-memory DocumentRepository
type Documents struct {
	mu    sync.Mutex
	Items []*entities.Document
	Err   error
}

func (r *Documents) Create(_ context.Context, doc *entities.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Items = append(r.Items, doc)
	return nil
}

func (r *Documents) FindByID(_ context.Context, userID, id uuid.UUID) (*entities.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.Items {
		if d.ID == id && d.UserID == userID {
			return d, nil
		}
	}
	return nil, entities.ErrDocumentNotFound
}

func (r *Documents) List(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}
	var out []*entities.Document
	for _, d := range r.Items {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *Documents) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, d := range r.Items {
		if d.ID == id && d.UserID == userID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return nil
		}
	}
	return entities.ErrDocumentNotFound
}

// Notes is an in-memory NoteRepository
type Notes struct {
	mu    sync.Mutex
	Items []*entities.Note
}

func (r *Notes) Create(_ context.Context, note *entities.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, note)
	return nil
}

func (r *Notes) FindByID(_ context.Context, userID, id uuid.UUID) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.Items {
		if n.ID == id && n.UserID == userID {
			return n, nil
		}
	}
	return nil, entities.ErrNoteNotFound
}

func (r *Notes) List(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Note, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Note
	for _, n := range r.Items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return page(out, limit, offset), int64(len(out)), nil
}

func (r *Notes) Update(_ context.Context, note *entities.Note) error {
	return nil
}

func (r *Notes) Delete(_ context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.Items {
		if n.ID == id && n.UserID == userID {
			r.Items = append(r.Items[:i], r.Items[i+1:]...)
			return nil
		}
	}
	return entities.ErrNoteNotFound
}

// Chat is an in-memory ChatRepository
type Chat struct {
	mu    sync.Mutex
	Items []*entities.ChatMessage
	Err   error
}

func (r *Chat) Append(_ context.Context, messages ...*entities.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Items = append(r.Items, messages...)
	return nil
}

func (r *Chat) ListRecent(_ context.Context, userID uuid.UUID, limit int) ([]*entities.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.ChatMessage
	for _, m := range r.Items {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *Chat) Clear(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.Items[:0]
	for _, m := range r.Items {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	r.Items = kept
	return nil
}

var (
	_ repositories.UserRepository     = (*Users)(nil)
	_ repositories.SessionRepository  = (*Sessions)(nil)
	_ repositories.TaskRepository     = (*Tasks)(nil)
	_ repositories.MeetingRepository  = (*Meetings)(nil)
	_ repositories.DocumentRepository = (*Documents)(nil)
	_ repositories.NoteRepository     = (*Notes)(nil)
	_ repositories.ChatRepository     = (*Chat)(nil)
)
