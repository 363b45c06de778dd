package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Document is an uploaded file with optional extracted text
type Document struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Title      string         `json:"title" gorm:"type:varchar(500);not null"`
	Content    *string        `json:"content" gorm:"type:text"`
	FileType   string         `json:"file_type" gorm:"type:varchar(32);not null"`
	FileSize   *int64         `json:"file_size"`
	MimeType   string         `json:"mime_type" gorm:"type:varchar(255)"`
	Tags       pq.StringArray `json:"tags" gorm:"type:text[]"`
	StorageKey *string        `json:"-" gorm:"type:varchar(500)"`
	CreatedAt  time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// NewDocument creates a document owned by userID
func NewDocument(userID uuid.UUID, title, fileType string) *Document {
	return &Document{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		FileType:  fileType,
		CreatedAt: time.Now(),
	}
}
