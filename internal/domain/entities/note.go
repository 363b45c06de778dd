package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Note is a free-form note
type Note struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string         `json:"title" gorm:"type:varchar(500);not null"`
	Content   string         `json:"content" gorm:"type:text;not null"`
	Tags      pq.StringArray `json:"tags" gorm:"type:text[]"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewNote creates a note owned by userID
func NewNote(userID uuid.UUID, title, content string, tags []string) *Note {
	now := time.Now()
	return &Note{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Tags:      NormalizeTags(tags),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
