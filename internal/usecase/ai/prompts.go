package ai

import (
	"fmt"
	"strings"
	"time"
)

const assistantPromptTemplate = `You are Atlas, %[1]s's AI chief of staff.

Your role:
- Help %[1]s think through problems and decisions about their work
- Reference their meeting notes, tasks, and decisions when relevant
- Be direct, concise, and action-oriented
- Proactively surface connections between meetings, tasks, and ideas
- Push back when something doesn't make sense
- Help prioritize ruthlessly

When given context about meetings or tasks, use that information naturally in conversation. Don't just summarize - synthesize and give opinions.

Current date: %[2]s`

// ProcessorSystemPrompt instructs the model to emit JSON only
const ProcessorSystemPrompt = "You are a meeting notes processor. Extract structured information from meeting transcripts. Always respond with valid JSON only, no markdown."

const processorUserTemplate = `Process this meeting transcript and return a JSON object with these fields:
- title: string (concise meeting title)
- summary: string (2-3 paragraph executive summary focused on decisions and outcomes)
- action_items: array of {task: string, assignee: string, due: string|null}
- decisions: array of {decision: string, context: string}
- key_topics: array of strings

Transcript:
%s`

// AssistantSystemPrompt renders the chat system prompt, appending context when present
func AssistantSystemPrompt(owner string, now time.Time, context string) string {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = "the user"
	}
	prompt := fmt.Sprintf(assistantPromptTemplate, owner, now.Format("Monday, January 2, 2006"))
	if context != "" {
		prompt += "\n\n--- CONTEXT ---\n" + context
	}
	return prompt
}

// ProcessorUserPrompt wraps a transcript for the processor
func ProcessorUserPrompt(transcript string) string {
	return fmt.Sprintf(processorUserTemplate, transcript)
}
