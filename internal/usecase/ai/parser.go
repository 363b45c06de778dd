package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// Parser turns model output into structured meeting data
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

type rawActionItem struct {
	Task     string  `json:"task"`
	Assignee string  `json:"assignee"`
	Due      *string `json:"due"`
}

type rawProcessed struct {
	Title       string              `json:"title"`
	Summary     string              `json:"summary"`
	ActionItems []rawActionItem     `json:"action_items"`
	Decisions   []entities.Decision `json:"decisions"`
	KeyTopics   []string            `json:"key_topics"`
}

// ParseProcessedMeeting parses the processor's JSON reply
func (p *Parser) ParseProcessedMeeting(content string) (*entities.ProcessedMeeting, error) {
	content = extractJSON(content)
	if content == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var raw rawProcessed
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	out := &entities.ProcessedMeeting{
		Title:       strings.TrimSpace(raw.Title),
		Summary:     strings.TrimSpace(raw.Summary),
		ActionItems: make([]entities.ActionItem, 0, len(raw.ActionItems)),
		Decisions:   make([]entities.Decision, 0, len(raw.Decisions)),
		KeyTopics:   make([]string, 0, len(raw.KeyTopics)),
	}

	for _, item := range raw.ActionItems {
		task := strings.TrimSpace(item.Task)
		if task == "" {
			continue
		}
		action := entities.ActionItem{Task: task, Assignee: strings.TrimSpace(item.Assignee)}
		if item.Due != nil && strings.TrimSpace(*item.Due) != "" {
			due := strings.TrimSpace(*item.Due)
			action.Due = &due
		}
		out.ActionItems = append(out.ActionItems, action)
	}

	for _, d := range raw.Decisions {
		if strings.TrimSpace(d.Decision) == "" {
			continue
		}
		out.Decisions = append(out.Decisions, d)
	}

	for _, topic := range raw.KeyTopics {
		if topic = strings.TrimSpace(topic); topic != "" {
			out.KeyTopics = append(out.KeyTopics, topic)
		}
	}

	return out, nil
}

// extractJSON extracts JSON content from markdown code blocks or surrounding prose
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
		content = strings.TrimSpace(content)
	}

	if strings.HasPrefix(content, "{") {
		return content
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
