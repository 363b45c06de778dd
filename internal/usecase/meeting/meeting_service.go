package meeting

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
)

// MeetingService handles meeting business logic
type MeetingService struct {
	meetingRepo repositories.MeetingRepository
	taskRepo    repositories.TaskRepository
	ai          ai.Service
	invalidator ContextInvalidator
	now         func() time.Time
	logger      *zap.Logger
}

// NewMeetingService creates a new meeting service. invalidator may be nil.
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	taskRepo repositories.TaskRepository,
	aiService ai.Service,
	invalidator ContextInvalidator,
	logger *zap.Logger,
) *MeetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
		ai:          aiService,
		invalidator: invalidator,
		now:         time.Now,
		logger:      logger,
	}
}

// Process runs a transcript through the model
func (s *MeetingService) Process(ctx context.Context, transcript string, date *time.Time) (*ProcessOutput, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, appErrors.ErrInvalidArgument(usecaseErrors.MsgTranscriptEmpty)
	}

	processed, err := s.ai.ProcessTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	out := &ProcessOutput{
		ProcessedMeeting: *processed,
		Date:             s.now().UTC(),
		RawTranscript:    transcript,
	}
	if date != nil {
		out.Date = date.UTC()
	}
	return out, nil
}

// Transcribe turns a recording into text and processes it
func (s *MeetingService) Transcribe(ctx context.Context, audioURL string, date *time.Time) (*ProcessOutput, error) {
	if strings.TrimSpace(audioURL) == "" {
		return nil, appErrors.ErrInvalidArgument(usecaseErrors.MsgAudioURLRequired)
	}

	transcript, err := s.ai.Transcribe(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, appErrors.ErrTranscriptionFailed(nil)
	}

	return s.Process(ctx, transcript, date)
}

// Create saves a meeting and its mirrored tasks in one transaction
func (s *MeetingService) Create(ctx context.Context, input CreateMeetingInput) (*Detail, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, appErrors.ErrInvalidArgument("Title is required")
	}

	date := input.Date
	if date.IsZero() {
		date = s.now()
	}

	m := entities.NewMeeting(input.UserID, title, date.UTC(), input.RawTranscript)
	if input.Source != "" {
		m.Source = input.Source
	}
	if input.Summary != nil && strings.TrimSpace(*input.Summary) != "" {
		summary := strings.TrimSpace(*input.Summary)
		m.Summary = &summary
	}
	m.ActionItems = append([]entities.ActionItem{}, input.ActionItems...)
	m.Decisions = append([]entities.Decision{}, input.Decisions...)
	m.KeyTopics = entities.NormalizeTags(input.KeyTopics)

	tasks := m.MirrorTasks(input.AssigneeFallback)
	if err := s.meetingRepo.CreateWithTasks(ctx, m, tasks); err != nil {
		return nil, appErrors.ErrDBTransactionFailed(err)
	}
	s.invalidate(input.UserID)

	s.logger.Info("meeting.created",
		zap.String("meeting_id", m.ID.String()),
		zap.String("source", string(m.Source)),
		zap.Int("tasks", len(tasks)),
	)
	return &Detail{Meeting: m, Tasks: tasks}, nil
}

// List returns the user's meetings
func (s *MeetingService) List(ctx context.Context, userID uuid.UUID, filters repositories.MeetingFilters) ([]*entities.Meeting, int64, error) {
	meetings, total, err := s.meetingRepo.List(ctx, userID, filters)
	if err != nil {
		return nil, 0, appErrors.ErrDBQueryFailed("list meetings", err)
	}
	return meetings, total, nil
}

// Get returns a meeting with its tasks, newest first
func (s *MeetingService) Get(ctx context.Context, userID, id uuid.UUID) (*Detail, error) {
	m, err := s.meetingRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, id)
	}

	tasks, _, err := s.taskRepo.List(ctx, userID, repositories.TaskFilters{MeetingID: &id})
	if err != nil {
		return nil, appErrors.ErrDBQueryFailed("list meeting tasks", err)
	}

	return &Detail{Meeting: m, Tasks: tasks}, nil
}

// Update edits a meeting. Tasks mirrored from it are left alone.
func (s *MeetingService) Update(ctx context.Context, input UpdateMeetingInput) (*entities.Meeting, error) {
	m, err := s.meetingRepo.FindByID(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, input.ID)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, appErrors.ErrInvalidArgument("Title is required")
		}
		m.Title = title
	}
	if input.Date != nil {
		m.Date = input.Date.UTC()
	}
	if input.Summary != nil {
		if summary := strings.TrimSpace(*input.Summary); summary != "" {
			m.Summary = &summary
		} else {
			m.Summary = nil
		}
	}
	if input.KeyTopics != nil {
		m.KeyTopics = entities.NormalizeTags(*input.KeyTopics)
	}
	m.UpdatedAt = s.now()

	if err := s.meetingRepo.Update(ctx, m); err != nil {
		return nil, appErrors.ErrDBQueryFailed("update meeting", err)
	}
	s.invalidate(input.UserID)
	return m, nil
}

// Delete removes a meeting
func (s *MeetingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.meetingRepo.Delete(ctx, userID, id); err != nil {
		return usecaseErrors.FromDomain(err, id)
	}
	s.invalidate(userID)
	s.logger.Info("meeting.deleted", zap.String("meeting_id", id.String()))
	return nil
}

func (s *MeetingService) invalidate(userID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
}
