package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const processedJSON = `{
  "title": " Weekly sync ",
  "summary": "We agreed on the launch plan.",
  "action_items": [
    {"task": "Ship beta", "assignee": "Ana", "due": "Friday"},
    {"task": "Write notes", "assignee": "", "due": null},
    {"task": "  ", "assignee": "Bo", "due": "  "}
  ],
  "decisions": [{"decision": "Launch in May", "context": "Marketing ready"}, {"decision": "", "context": "noise"}],
  "key_topics": ["launch", " ", "hiring"]
}`

func TestParseProcessedMeeting(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name    string
		content string
	}{
		{name: "plain", content: processedJSON},
		{name: "json fence", content: "```json\n" + processedJSON + "\n```"},
		{name: "bare fence", content: "```\n" + processedJSON + "\n```"},
		{name: "prose around", content: "Here is the result:\n" + processedJSON + "\nLet me know."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseProcessedMeeting(tt.content)
			require.NoError(t, err)

			assert.Equal(t, "Weekly sync", got.Title)
			assert.Equal(t, "We agreed on the launch plan.", got.Summary)
			require.Len(t, got.ActionItems, 2)
			assert.Equal(t, "Ship beta", got.ActionItems[0].Task)
			require.NotNil(t, got.ActionItems[0].Due)
			assert.Equal(t, "Friday", *got.ActionItems[0].Due)
			assert.Nil(t, got.ActionItems[1].Due)
			assert.Empty(t, got.ActionItems[1].Assignee)
			require.Len(t, got.Decisions, 1)
			assert.Equal(t, "Launch in May", got.Decisions[0].Decision)
			assert.Equal(t, []string{"launch", "hiring"}, got.KeyTopics)
		})
	}
}

func TestParseProcessedMeeting_MissingArraysAreEmpty(t *testing.T) {
	got, err := NewParser().ParseProcessedMeeting(`{"title":"t","summary":"s"}`)
	require.NoError(t, err)

	assert.NotNil(t, got.ActionItems)
	assert.NotNil(t, got.Decisions)
	assert.NotNil(t, got.KeyTopics)
	assert.Empty(t, got.ActionItems)
}

func TestParseProcessedMeeting_Invalid(t *testing.T) {
	p := NewParser()

	for _, content := range []string{"", "   ", "not json at all", "{broken", "```json\n{\"title\": \n```"} {
		_, err := p.ParseProcessedMeeting(content)
		assert.Error(t, err, "content %q", content)
	}
}
