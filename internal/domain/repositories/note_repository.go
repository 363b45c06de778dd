package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Note, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Note, int64, error)
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
