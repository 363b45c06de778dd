package task

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
)

// ContextInvalidator drops cached chat context for a user
type ContextInvalidator interface {
	Invalidate(userID uuid.UUID)
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uuid.UUID
	MeetingID   *uuid.UUID
	Title       string
	Description *string
	Status      entities.TaskStatus
	Priority    entities.TaskPriority
	DueDate     *string
}

// UpdateTaskInput is a partial update; nil fields are left unchanged
type UpdateTaskInput struct {
	UserID      uuid.UUID
	ID          uuid.UUID
	Title       *string
	Description *string
	Status      *entities.TaskStatus
	Priority    *entities.TaskPriority
	DueDate     *string
}

// Service handles task business logic
type Service struct {
	taskRepo    repositories.TaskRepository
	meetingRepo repositories.MeetingRepository
	invalidator ContextInvalidator
	logger      *zap.Logger
}

// NewService creates a new task service. invalidator may be nil.
func NewService(
	taskRepo repositories.TaskRepository,
	meetingRepo repositories.MeetingRepository,
	invalidator ContextInvalidator,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		taskRepo:    taskRepo,
		meetingRepo: meetingRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Create creates a task, defaulting to todo and medium
func (s *Service) Create(ctx context.Context, input CreateTaskInput) (*entities.Task, error) {
	t := entities.NewTask(input.UserID, strings.TrimSpace(input.Title))
	if input.Status != "" {
		t.Status = input.Status
	}
	if input.Priority != "" {
		t.Priority = input.Priority
	}
	t.Description = trimmedOrNil(input.Description)
	t.DueDate = trimmedOrNil(input.DueDate)

	if input.MeetingID != nil {
		if _, err := s.meetingRepo.FindByID(ctx, input.UserID, *input.MeetingID); err != nil {
			return nil, usecaseErrors.FromDomain(err, *input.MeetingID)
		}
		t.MeetingID = input.MeetingID
	}

	if err := t.Validate(); err != nil {
		return nil, usecaseErrors.FromDomain(err, t.ID)
	}

	if err := s.taskRepo.Create(ctx, t); err != nil {
		return nil, appErrors.ErrDBQueryFailed("create task", err)
	}
	s.invalidate(input.UserID)
	return t, nil
}

// Get returns one task
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, id)
	}
	return t, nil
}

// List returns tasks matching filters, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, filters repositories.TaskFilters) ([]*entities.Task, int64, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, 0, appErrors.ErrInvalidArgument(entities.ErrInvalidTaskStatus.Error())
	}
	if filters.Priority != nil && !filters.Priority.IsValid() {
		return nil, 0, appErrors.ErrInvalidArgument(entities.ErrInvalidTaskPriority.Error())
	}

	tasks, total, err := s.taskRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, 0, appErrors.ErrDBQueryFailed("list tasks", err)
	}
	return tasks, total, nil
}

// Update applies a partial update. The source meeting's action items are not touched.
func (s *Service) Update(ctx context.Context, input UpdateTaskInput) (*entities.Task, error) {
	t, err := s.taskRepo.FindByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, input.ID)
	}

	if input.Title != nil {
		t.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		t.Description = trimmedOrNil(input.Description)
	}
	if input.Status != nil {
		t.Status = *input.Status
	}
	if input.Priority != nil {
		t.Priority = *input.Priority
	}
	if input.DueDate != nil {
		t.DueDate = trimmedOrNil(input.DueDate)
	}

	if err := t.Validate(); err != nil {
		return nil, usecaseErrors.FromDomain(err, t.ID)
	}
	t.UpdatedAt = time.Now()

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, appErrors.ErrDBQueryFailed("update task", err)
	}
	s.invalidate(input.UserID)
	return t, nil
}

// Delete removes a task
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, userID, id); err != nil {
		return usecaseErrors.FromDomain(err, id)
	}
	s.invalidate(userID)
	return nil
}

func (s *Service) invalidate(userID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
