package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
)

const (
	contextMeetingLimit  = 5
	contextTaskLimit     = 10
	contextDocumentLimit = 5
	meetingSummaryChars  = 200
	documentContentChars = 300
	contextDateLayout    = "1/2/2006"
)

// ContextBuilder assembles the assistant context from a user's recent records
type ContextBuilder struct {
	meetingRepo repositories.MeetingRepository
	taskRepo    repositories.TaskRepository
	docRepo     repositories.DocumentRepository
	logger      *zap.Logger
}

// NewContextBuilder creates a new ContextBuilder
func NewContextBuilder(
	meetingRepo repositories.MeetingRepository,
	taskRepo repositories.TaskRepository,
	docRepo repositories.DocumentRepository,
	logger *zap.Logger,
) *ContextBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextBuilder{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
		docRepo:     docRepo,
		logger:      logger,
	}
}

// Build returns the context text and whether every section query succeeded.
// A section whose query fails is logged and left out.
func (b *ContextBuilder) Build(ctx context.Context, userID uuid.UUID) (string, bool) {
	var parts []string
	complete := true

	if meetings, err := b.meetingRepo.ListRecent(ctx, userID, contextMeetingLimit); err != nil {
		b.logger.Warn("chat.context.meetings_failed", zap.String("user_id", userID.String()), zap.Error(err))
		complete = false
	} else if len(meetings) > 0 {
		lines := make([]string, 0, len(meetings))
		for _, m := range meetings {
			lines = append(lines, meetingLine(m))
		}
		parts = append(parts, "RECENT MEETINGS:\n"+strings.Join(lines, "\n"))
	}

	if tasks, _, err := b.taskRepo.List(ctx, userID, repositories.TaskFilters{OpenOnly: true, Limit: contextTaskLimit}); err != nil {
		b.logger.Warn("chat.context.tasks_failed", zap.String("user_id", userID.String()), zap.Error(err))
		complete = false
	} else if len(tasks) > 0 {
		lines := make([]string, 0, len(tasks))
		for _, t := range tasks {
			lines = append(lines, taskLine(t))
		}
		parts = append(parts, "OPEN TASKS:\n"+strings.Join(lines, "\n"))
	}

	if docs, _, err := b.docRepo.List(ctx, userID, contextDocumentLimit, 0); err != nil {
		b.logger.Warn("chat.context.documents_failed", zap.String("user_id", userID.String()), zap.Error(err))
		complete = false
	} else if len(docs) > 0 {
		lines := make([]string, 0, len(docs))
		for _, d := range docs {
			lines = append(lines, documentLine(d))
		}
		parts = append(parts, "DOCUMENTS:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(parts, "\n\n"), complete
}

func meetingLine(m *entities.Meeting) string {
	summary := ""
	if m.Summary != nil {
		summary = truncate(*m.Summary, meetingSummaryChars)
	}
	return fmt.Sprintf("- %s (%s): %s...", m.Title, m.Date.UTC().Format(contextDateLayout), summary)
}

func taskLine(t *entities.Task) string {
	line := fmt.Sprintf("- [%s] %s (%s)", t.Priority, t.Title, t.Status)
	if t.DueDate != nil && *t.DueDate != "" {
		line += " due: " + *t.DueDate
	}
	return line
}

func documentLine(d *entities.Document) string {
	content := ""
	if d.Content != nil {
		content = truncate(*d.Content, documentContentChars)
	}
	return fmt.Sprintf("- %s: %s...", d.Title, content)
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
