package meeting

// ProcessMeetingRequest carries a pasted transcript. Transcript is decoded loosely so
// that a non-string value can be reported precisely.
type ProcessMeetingRequest struct {
	Transcript interface{} `json:"transcript" swaggertype:"string"`
	Date       *string     `json:"date,omitempty"`
}

// TranscribeMeetingRequest points at a recording to transcribe
type TranscribeMeetingRequest struct {
	AudioURL string  `json:"audio_url" validate:"required,url"`
	Date     *string `json:"date,omitempty"`
}

// ActionItemRequest is one action item as reviewed by the client
type ActionItemRequest struct {
	Task     string  `json:"task" validate:"required"`
	Assignee string  `json:"assignee"`
	Due      *string `json:"due,omitempty"`
}

// DecisionRequest is one decision as reviewed by the client
type DecisionRequest struct {
	Decision string `json:"decision" validate:"required"`
	Context  string `json:"context"`
}

// CreateMeetingRequest represents the request to save a meeting
type CreateMeetingRequest struct {
	Title         string              `json:"title" validate:"required,max=500"`
	Date          *string             `json:"date,omitempty"`
	RawTranscript string              `json:"raw_transcript"`
	Summary       *string             `json:"summary,omitempty"`
	ActionItems   []ActionItemRequest `json:"action_items,omitempty" validate:"dive"`
	Decisions     []DecisionRequest   `json:"decisions,omitempty" validate:"dive"`
	KeyTopics     []string            `json:"key_topics,omitempty"`
	Source        string              `json:"source,omitempty" validate:"omitempty,oneof=manual transcription"`
}

// UpdateMeetingRequest represents the request to update a meeting
type UpdateMeetingRequest struct {
	Title     *string   `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Date      *string   `json:"date,omitempty"`
	Summary   *string   `json:"summary,omitempty"`
	KeyTopics *[]string `json:"key_topics,omitempty"`
}
