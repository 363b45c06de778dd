package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// DocumentRepository defines the interface for document data access
type DocumentRepository interface {
	Create(ctx context.Context, doc *entities.Document) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Document, error)

	// List returns documents ordered by created_at desc plus the total count
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Document, int64, error)

	Delete(ctx context.Context, userID, id uuid.UUID) error
}
