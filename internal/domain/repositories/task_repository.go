package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *entities.Task) error

	// FindByID finds a task owned by userID
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Task, error)

	// List returns tasks ordered by created_at desc plus the total count
	List(ctx context.Context, userID uuid.UUID, filters TaskFilters) ([]*entities.Task, int64, error)

	// Update updates a task
	Update(ctx context.Context, task *entities.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// TaskFilters represents filter options for listing tasks
type TaskFilters struct {
	Status    *entities.TaskStatus
	Priority  *entities.TaskPriority
	MeetingID *uuid.UUID
	OpenOnly  bool
	Limit     int
	Offset    int
}
