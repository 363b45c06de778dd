package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// ChatRepository defines the interface for chat history access
type ChatRepository interface {
	// Append stores messages in order
	Append(ctx context.Context, messages ...*entities.ChatMessage) error

	// ListRecent returns the latest limit messages, oldest first
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.ChatMessage, error)

	// Clear deletes the user's chat history
	Clear(ctx context.Context, userID uuid.UUID) error
}
