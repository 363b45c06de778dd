package meeting

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
)

// Service defines the interface for the meeting use case
type Service interface {
	// Process runs a transcript through the model without saving anything
	Process(ctx context.Context, transcript string, date *time.Time) (*ProcessOutput, error)

	// Transcribe turns a recording into text and processes it
	Transcribe(ctx context.Context, audioURL string, date *time.Time) (*ProcessOutput, error)

	// Create saves a meeting and mirrors its action items into tasks
	Create(ctx context.Context, input CreateMeetingInput) (*Detail, error)

	// List returns the user's meetings, newest date first
	List(ctx context.Context, userID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error)

	// Get returns a meeting with its tasks
	Get(ctx context.Context, userID, id uuid.UUID) (*Detail, error)

	// Update edits title, date, summary or key topics
	Update(ctx context.Context, input UpdateMeetingInput) (*entities.Meeting, error)

	// Delete removes a meeting and detaches its tasks
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// ContextInvalidator drops cached chat context for a user
type ContextInvalidator interface {
	Invalidate(userID uuid.UUID)
}

// ProcessOutput is the processed transcript returned to the client for review
type ProcessOutput struct {
	entities.ProcessedMeeting
	Date          time.Time `json:"date"`
	RawTranscript string    `json:"raw_transcript"`
}

// Detail is a meeting with the tasks mirrored from it
type Detail struct {
	Meeting *entities.Meeting
	Tasks   []*entities.Task
}

// CreateMeetingInput represents input for saving a meeting
type CreateMeetingInput struct {
	UserID        uuid.UUID
	Title         string
	Date          time.Time
	RawTranscript string
	Summary       *string
	ActionItems   []entities.ActionItem
	Decisions     []entities.Decision
	KeyTopics     []string
	Source        entities.MeetingSource

	// AssigneeFallback fills the task description for action items with no assignee
	AssigneeFallback string
}

// UpdateMeetingInput carries the fields a client may edit. Nil fields are left unchanged.
type UpdateMeetingInput struct {
	UserID    uuid.UUID
	ID        uuid.UUID
	Title     *string
	Date      *time.Time
	Summary   *string
	KeyTopics *[]string
}

var _ Service = (*MeetingService)(nil)
