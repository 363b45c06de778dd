package dashboard

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newDashboard() (*Service, *fakes.Meetings, *fakes.Tasks) {
	tasks := &fakes.Tasks{}
	meetings := fakes.NewMeetings(tasks)
	svc := NewService(meetings, tasks, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, meetings, tasks
}

func meetingOn(userID uuid.UUID, title string, date time.Time, decisions int) *entities.Meeting {
	m := entities.NewMeeting(userID, title, date, "")
	for i := 0; i < decisions; i++ {
		m.Decisions = append(m.Decisions, entities.Decision{Decision: "d", Context: "c"})
	}
	return m
}

func TestSummary(t *testing.T) {
	svc, meetings, tasks := newDashboard()
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 7; i++ {
		task := entities.NewTask(userID, "open")
		task.CreatedAt = fixedNow.Add(-time.Duration(i) * time.Hour)
		require.NoError(t, tasks.Create(ctx, task))
	}
	done := entities.NewTask(userID, "done")
	done.Status = entities.TaskStatusDone
	require.NoError(t, tasks.Create(ctx, done))
	require.NoError(t, tasks.Create(ctx, entities.NewTask(uuid.New(), "other user")))

	for _, m := range []*entities.Meeting{
		meetingOn(userID, "monday", fixedNow.Add(-24*time.Hour), 2),
		meetingOn(userID, "sunday", fixedNow.Add(-48*time.Hour), 1),
		meetingOn(userID, "friday", fixedNow.Add(-96*time.Hour), 0),
		meetingOn(userID, "thursday", fixedNow.Add(-120*time.Hour), 3),
		meetingOn(userID, "last month", fixedNow.Add(-30*24*time.Hour), 5),
	} {
		require.NoError(t, meetings.CreateWithTasks(ctx, m, nil))
	}

	summary, err := svc.Summary(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, int64(7), summary.OpenTaskCount)
	assert.Len(t, summary.OpenTasks, 5)
	assert.Equal(t, int64(4), summary.WeekMeetingCount)
	require.Len(t, summary.WeekMeetings, 3)
	assert.Equal(t, "monday", summary.WeekMeetings[0].Title)
	assert.Equal(t, "friday", summary.WeekMeetings[2].Title)
	assert.Equal(t, 6, summary.WeekDecisionCount)
}

func TestSummary_Empty(t *testing.T) {
	svc, _, _ := newDashboard()

	summary, err := svc.Summary(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, summary.OpenTaskCount)
	assert.Empty(t, summary.WeekMeetings)
	assert.Zero(t, summary.WeekDecisionCount)
}

func TestSummary_RepositoryFailure(t *testing.T) {
	svc, meetings, _ := newDashboard()
	meetings.Err = stdErrors.New("db down")

	_, err := svc.Summary(context.Background(), uuid.New())
	assert.Error(t, err)
}
