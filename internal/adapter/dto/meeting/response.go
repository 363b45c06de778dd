package meeting

import (
	"time"

	"github.com/johnquangdev/atlas/internal/adapter/dto/task"
)

// ActionItemResponse is an action item extracted from a transcript
type ActionItemResponse struct {
	Task     string  `json:"task"`
	Assignee string  `json:"assignee"`
	Due      *string `json:"due"`
}

// DecisionResponse is a decision extracted from a transcript
type DecisionResponse struct {
	Decision string `json:"decision"`
	Context  string `json:"context"`
}

// ProcessedMeetingResponse is the structured transcript returned for review
type ProcessedMeetingResponse struct {
	Title         string               `json:"title"`
	Summary       string               `json:"summary"`
	ActionItems   []ActionItemResponse `json:"action_items"`
	Decisions     []DecisionResponse   `json:"decisions"`
	KeyTopics     []string             `json:"key_topics"`
	Date          time.Time            `json:"date"`
	RawTranscript string               `json:"raw_transcript"`
}

// MeetingResponse represents a saved meeting
type MeetingResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Date          time.Time            `json:"date"`
	RawTranscript string               `json:"raw_transcript"`
	Summary       *string              `json:"summary"`
	ActionItems   []ActionItemResponse `json:"action_items"`
	Decisions     []DecisionResponse   `json:"decisions"`
	KeyTopics     []string             `json:"key_topics"`
	Source        string               `json:"source"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// MeetingDetailResponse is a meeting with its mirrored tasks
type MeetingDetailResponse struct {
	*MeetingResponse
	Tasks []*task.TaskResponse `json:"tasks"`
}
