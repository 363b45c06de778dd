package meeting

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/usecase/ai"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
)

type countingInvalidator struct {
	calls map[uuid.UUID]int
}

func (c *countingInvalidator) Invalidate(userID uuid.UUID) {
	if c.calls == nil {
		c.calls = make(map[uuid.UUID]int)
	}
	c.calls[userID]++
}

type fixture struct {
	svc       *MeetingService
	meetings  *fakes.Meetings
	tasks     *fakes.Tasks
	completer *fakes.Completer
	inval     *countingInvalidator
}

func newFixture() *fixture {
	tasks := &fakes.Tasks{}
	f := &fixture{
		tasks:     tasks,
		meetings:  fakes.NewMeetings(tasks),
		completer: &fakes.Completer{},
		inval:     &countingInvalidator{},
	}
	aiSvc := ai.NewAIService(f.completer, &fakes.Transcriber{Text: "Ana: hello"}, "Sam", 4096, nil)
	f.svc = NewMeetingService(f.meetings, f.tasks, aiSvc, f.inval, nil)
	f.svc.now = func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }
	return f
}

func codeOf(t *testing.T, err error) appErrors.ErrorCode {
	t.Helper()
	var appErr appErrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func strPtr(s string) *string { return &s }

func TestProcess(t *testing.T) {
	f := newFixture()
	f.completer.Reply = `{"title":"Sync","summary":"Done","action_items":[{"task":"Ship","assignee":"Ana","due":null}],"decisions":[],"key_topics":["launch"]}`

	out, err := f.svc.Process(context.Background(), "Ana: ship it", nil)
	require.NoError(t, err)
	assert.Equal(t, "Sync", out.Title)
	assert.Equal(t, "Ana: ship it", out.RawTranscript)
	assert.Equal(t, time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC), out.Date)
	assert.Len(t, out.ActionItems, 1)

	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	out, err = f.svc.Process(context.Background(), "x", &date)
	require.NoError(t, err)
	assert.Equal(t, date, out.Date)
}

func TestProcess_EmptyTranscript(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Process(context.Background(), "  \n ", nil)
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
	assert.Empty(t, f.completer.Requests)
}

func TestProcess_ModelGarbage(t *testing.T) {
	f := newFixture()
	f.completer.Reply = "sorry"

	_, err := f.svc.Process(context.Background(), "transcript", nil)
	assert.Equal(t, appErrors.ErrorCode_AI_PROCESSING_FAILED, codeOf(t, err))
}

func TestTranscribe(t *testing.T) {
	f := newFixture()
	f.completer.Reply = `{"title":"Hello","summary":"s","action_items":[],"decisions":[],"key_topics":[]}`

	out, err := f.svc.Transcribe(context.Background(), "https://example.com/a.mp3", nil)
	require.NoError(t, err)
	assert.Equal(t, "Ana: hello", out.RawTranscript)
	assert.Equal(t, "Hello", out.Title)

	_, err = f.svc.Transcribe(context.Background(), "", nil)
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
}

func TestCreate_MirrorsActionItems(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	detail, err := f.svc.Create(context.Background(), CreateMeetingInput{
		UserID:        userID,
		Title:         " Planning ",
		Date:          time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		RawTranscript: "raw",
		Summary:       strPtr("Summary"),
		ActionItems: []entities.ActionItem{
			{Task: "Ship beta", Assignee: "Ana", Due: strPtr("Friday")},
			{Task: "Write notes"},
		},
		KeyTopics: []string{"launch", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "Planning", detail.Meeting.Title)
	assert.Equal(t, entities.MeetingSourceManual, detail.Meeting.Source)
	assert.Equal(t, []string{"launch"}, []string(detail.Meeting.KeyTopics))
	assert.NotNil(t, detail.Meeting.Decisions)
	require.Len(t, detail.Tasks, 2)

	first := detail.Tasks[0]
	assert.Equal(t, "Ship beta", first.Title)
	require.NotNil(t, first.Description)
	assert.Equal(t, "Assignee: Ana", *first.Description)
	assert.Equal(t, entities.TaskStatusTodo, first.Status)
	assert.Equal(t, entities.TaskPriorityMedium, first.Priority)
	require.NotNil(t, first.DueDate)
	assert.Equal(t, "Friday", *first.DueDate)
	require.NotNil(t, first.MeetingID)
	assert.Equal(t, detail.Meeting.ID, *first.MeetingID)

	assert.Nil(t, detail.Tasks[1].Description)
	assert.Nil(t, detail.Tasks[1].DueDate)
	assert.Len(t, f.tasks.Items, 2)
	assert.Equal(t, 1, f.inval.calls[userID])
}

func TestCreate_RequiresTitle(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateMeetingInput{UserID: uuid.New(), Title: "  "})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
}

func TestCreate_TransactionFailure(t *testing.T) {
	f := newFixture()
	f.meetings.Err = stdErrors.New("tx aborted")

	_, err := f.svc.Create(context.Background(), CreateMeetingInput{UserID: uuid.New(), Title: "x"})
	assert.Equal(t, appErrors.ErrorCode_DB_TRANSACTION_FAILED, codeOf(t, err))
	assert.Empty(t, f.tasks.Items)
}

func TestGet_ScopedByUser(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, CreateMeetingInput{
		UserID:      owner,
		Title:       "Sync",
		ActionItems: []entities.ActionItem{{Task: "a"}, {Task: "b"}},
	})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, owner, detail.Meeting.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tasks, 2)

	_, err = f.svc.Get(ctx, uuid.New(), detail.Meeting.ID)
	assert.Equal(t, appErrors.ErrorCode_MEETING_NOT_FOUND, codeOf(t, err))
}

func TestUpdate_LeavesTasksAlone(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, CreateMeetingInput{
		UserID:      owner,
		Title:       "Sync",
		Summary:     strPtr("old"),
		ActionItems: []entities.ActionItem{{Task: "a"}},
	})
	require.NoError(t, err)

	topics := []string{"x", " y "}
	updated, err := f.svc.Update(ctx, UpdateMeetingInput{
		UserID:    owner,
		ID:        detail.Meeting.ID,
		Title:     strPtr("Renamed"),
		Summary:   strPtr(""),
		KeyTopics: &topics,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Nil(t, updated.Summary)
	assert.Equal(t, []string{"x", "y"}, []string(updated.KeyTopics))
	assert.Equal(t, "a", updated.ActionItems[0].Task)

	_, err = f.svc.Update(ctx, UpdateMeetingInput{UserID: owner, ID: detail.Meeting.ID, Title: strPtr(" ")})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
}

func TestDelete_DetachesTasks(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, CreateMeetingInput{
		UserID:      owner,
		Title:       "Sync",
		ActionItems: []entities.ActionItem{{Task: "a"}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, owner, detail.Meeting.ID))
	require.Len(t, f.tasks.Items, 1)
	assert.Nil(t, f.tasks.Items[0].MeetingID)

	err = f.svc.Delete(ctx, owner, detail.Meeting.ID)
	assert.Equal(t, appErrors.ErrorCode_MEETING_NOT_FOUND, codeOf(t, err))
}

func TestList(t *testing.T) {
	f := newFixture()
	owner := uuid.New()
	ctx := context.Background()

	for i, day := range []int{1, 3, 2} {
		_, err := f.svc.Create(ctx, CreateMeetingInput{
			UserID: owner,
			Title:  []string{"a", "c", "b"}[i],
			Date:   time.Date(2026, 4, day, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	since := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	items, total, err := f.svc.List(ctx, owner, repositories.MeetingFilters{Since: &since})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].Title)
}
