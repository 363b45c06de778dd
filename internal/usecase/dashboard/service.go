package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
)

const (
	topOpenTasks    = 5
	topWeekMeetings = 3
	weekWindow      = 7 * 24 * time.Hour
)

// Summary is the home screen overview
type Summary struct {
	OpenTaskCount     int64
	OpenTasks         []*entities.Task
	WeekMeetingCount  int64
	WeekMeetings      []*entities.Meeting
	WeekDecisionCount int
}

// Service assembles the dashboard
type Service struct {
	meetingRepo repositories.MeetingRepository
	taskRepo    repositories.TaskRepository
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates a new dashboard service
func NewService(meetingRepo repositories.MeetingRepository, taskRepo repositories.TaskRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		meetingRepo: meetingRepo,
		taskRepo:    taskRepo,
		now:         time.Now,
		logger:      logger,
	}
}

// Summary returns open task and weekly meeting figures for the user
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	tasks, openCount, err := s.taskRepo.List(ctx, userID, repositories.TaskFilters{
		OpenOnly: true,
		Limit:    topOpenTasks,
	})
	if err != nil {
		return nil, appErrors.ErrDBQueryFailed("list open tasks", err)
	}

	since := s.now().UTC().Add(-weekWindow)
	// all meetings in the window are needed for the decision total
	meetings, weekCount, err := s.meetingRepo.List(ctx, userID, repositories.MeetingFilters{Since: &since})
	if err != nil {
		return nil, appErrors.ErrDBQueryFailed("list week meetings", err)
	}

	decisions := 0
	for _, m := range meetings {
		decisions += m.DecisionCount()
	}
	if len(meetings) > topWeekMeetings {
		meetings = meetings[:topWeekMeetings]
	}

	s.logger.Debug("dashboard.summary",
		zap.String("user_id", userID.String()),
		zap.Int64("open_tasks", openCount),
		zap.Int64("week_meetings", weekCount),
	)

	return &Summary{
		OpenTaskCount:     openCount,
		OpenTasks:         tasks,
		WeekMeetingCount:  weekCount,
		WeekMeetings:      meetings,
		WeekDecisionCount: decisions,
	}, nil
}
