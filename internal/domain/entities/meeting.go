package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// MeetingSource records how a meeting entered the system
type MeetingSource string

const (
	MeetingSourceManual        MeetingSource = "manual"
	MeetingSourceGranola       MeetingSource = "granola"
	MeetingSourceTranscription MeetingSource = "transcription"
)

// ActionItem is an action item extracted from a transcript
type ActionItem struct {
	Task     string  `json:"task"`
	Assignee string  `json:"assignee"`
	Due      *string `json:"due"`
}

// Decision is a decision extracted from a transcript
type Decision struct {
	Decision string `json:"decision"`
	Context  string `json:"context"`
}

// Meeting is a processed meeting transcript
type Meeting struct {
	ID            uuid.UUID                       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID                       `json:"user_id" gorm:"type:uuid;not null;index"`
	Title         string                          `json:"title" gorm:"type:varchar(500);not null"`
	Date          time.Time                       `json:"date" gorm:"type:timestamptz;not null;index"`
	RawTranscript string                          `json:"raw_transcript" gorm:"type:text;not null"`
	Summary       *string                         `json:"summary" gorm:"type:text"`
	ActionItems   datatypes.JSONSlice[ActionItem] `json:"action_items" gorm:"type:jsonb"`
	Decisions     datatypes.JSONSlice[Decision]   `json:"decisions" gorm:"type:jsonb"`
	KeyTopics     pq.StringArray                  `json:"key_topics" gorm:"type:text[]"`
	Source        MeetingSource                   `json:"source" gorm:"type:varchar(32);default:'manual';not null"`
	CreatedAt     time.Time                       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time                       `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewMeeting creates a meeting owned by userID
func NewMeeting(userID uuid.UUID, title string, date time.Time, transcript string) *Meeting {
	now := time.Now()
	return &Meeting{
		ID:            uuid.New(),
		UserID:        userID,
		Title:         title,
		Date:          date,
		RawTranscript: transcript,
		Source:        MeetingSourceManual,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MirrorTasks copies each action item into an independent task.
// assigneeFallback is used when an item has no assignee; an empty fallback leaves
// the description unset.
func (m *Meeting) MirrorTasks(assigneeFallback string) []*Task {
	tasks := make([]*Task, 0, len(m.ActionItems))
	for _, item := range m.ActionItems {
		task := NewTask(m.UserID, item.Task)
		meetingID := m.ID
		task.MeetingID = &meetingID

		assignee := strings.TrimSpace(item.Assignee)
		if assignee == "" {
			assignee = assigneeFallback
		}
		if assignee != "" {
			desc := fmt.Sprintf("Assignee: %s", assignee)
			task.Description = &desc
		}
		if item.Due != nil && strings.TrimSpace(*item.Due) != "" {
			due := strings.TrimSpace(*item.Due)
			task.DueDate = &due
		}
		tasks = append(tasks, task)
	}
	return tasks
}

// DecisionCount returns the number of recorded decisions
func (m *Meeting) DecisionCount() int {
	return len(m.Decisions)
}

var meetingDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseMeetingDate parses the date formats accepted from clients and webhooks
func ParseMeetingDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range meetingDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
