package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// CreateWithTasks inserts a meeting and its mirrored tasks in one transaction
	CreateWithTasks(ctx context.Context, meeting *entities.Meeting, tasks []*entities.Task) error

	// FindByID finds a meeting owned by userID
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Meeting, error)

	// List returns meetings ordered by date desc plus the total count
	List(ctx context.Context, userID uuid.UUID, filters MeetingFilters) ([]*entities.Meeting, int64, error)

	// ListRecent returns the most recently created meetings
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Meeting, error)

	// Update updates a meeting
	Update(ctx context.Context, meeting *entities.Meeting) error

	// Delete removes a meeting; its tasks stay with meeting_id cleared
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	Since  *time.Time
	Limit  int
	Offset int
}
