package entities

// ProcessedMeeting is the structured output extracted from a transcript by the LLM
type ProcessedMeeting struct {
	Title       string       `json:"title"`
	Summary     string       `json:"summary"`
	ActionItems []ActionItem `json:"action_items"`
	Decisions   []Decision   `json:"decisions"`
	KeyTopics   []string     `json:"key_topics"`
}
