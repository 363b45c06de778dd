package webhook

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/infrastructure/lock"
	"github.com/johnquangdev/atlas/internal/usecase/ai"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
	"github.com/johnquangdev/atlas/internal/usecase/meeting"
)

const processedReply = `{"title":"Roadmap review","summary":"Agreed scope.","action_items":[{"task":"Draft brief","assignee":"","due":null},{"task":"Price check","assignee":"Lee","due":"2026-06-01"}],"decisions":[{"decision":"Cut feature X","context":"time"}],"key_topics":["roadmap"]}`

type webhookFixture struct {
	svc       *GranolaService
	users     *fakes.Users
	meetings  *fakes.Meetings
	tasks     *fakes.Tasks
	completer *fakes.Completer
	locker    *lock.LocalLocker
}

func newWebhookFixture(t *testing.T, ownerEmail string) *webhookFixture {
	t.Helper()
	tasks := &fakes.Tasks{}
	f := &webhookFixture{
		users:     &fakes.Users{},
		tasks:     tasks,
		meetings:  fakes.NewMeetings(tasks),
		completer: &fakes.Completer{Reply: processedReply},
		locker:    lock.NewLocalLocker(),
	}
	aiSvc := ai.NewAIService(f.completer, nil, "Sam", 4096, nil)
	meetings := meeting.NewMeetingService(f.meetings, f.tasks, aiSvc, nil, nil)
	f.svc = NewGranolaService(f.users, meetings, aiSvc, f.locker, ownerEmail, nil)
	f.svc.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	return f
}

func addUser(t *testing.T, f *webhookFixture, email string, created time.Time) *entities.User {
	t.Helper()
	u := entities.NewUser(email)
	u.CreatedAt = created
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func codeOf(t *testing.T, err error) appErrors.ErrorCode {
	t.Helper()
	var appErr appErrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestReceive_SavesMeetingAndTasks(t *testing.T) {
	f := newWebhookFixture(t, "")
	first := addUser(t, f, "first@example.com", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	addUser(t, f, "second@example.com", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	res, err := f.svc.Receive(context.Background(), []byte(`{"title":"Call","notes":"Lee: check prices","date":"2026-05-30T10:00:00Z"}`))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "Roadmap review", res.Title)
	assert.Equal(t, 2, res.ActionItemsCount)

	require.Len(t, f.meetings.Items, 1)
	m := f.meetings.Items[0]
	assert.Equal(t, first.ID, m.UserID)
	assert.Equal(t, res.MeetingID, m.ID.String())
	assert.Equal(t, entities.MeetingSourceGranola, m.Source)
	assert.Equal(t, "Lee: check prices", m.RawTranscript)
	assert.Equal(t, time.Date(2026, 5, 30, 10, 0, 0, 0, time.UTC), m.Date)
	assert.Equal(t, 1, m.DecisionCount())

	require.Len(t, f.tasks.Items, 2)
	assert.Equal(t, "Assignee: Unassigned", *f.tasks.Items[0].Description)
	assert.Equal(t, "Assignee: Lee", *f.tasks.Items[1].Description)
	assert.Equal(t, "2026-06-01", *f.tasks.Items[1].DueDate)
	assert.Equal(t, first.ID, f.tasks.Items[1].UserID)
}

func TestReceive_FallbacksAndConfiguredOwner(t *testing.T) {
	f := newWebhookFixture(t, "Owner@Example.com")
	addUser(t, f, "first@example.com", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	owner := addUser(t, f, "owner@example.com", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	f.completer.Reply = `{"title":"","summary":"","action_items":[],"decisions":[],"key_topics":[]}`

	res, err := f.svc.Receive(context.Background(), []byte(`{"content":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, "Untitled Meeting", res.Title)
	assert.Equal(t, 0, res.ActionItemsCount)

	m := f.meetings.Items[0]
	assert.Equal(t, owner.ID, m.UserID)
	assert.Equal(t, time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC), m.Date)
	assert.Nil(t, m.Summary)
}

func TestReceive_NoUser(t *testing.T) {
	f := newWebhookFixture(t, "")

	_, err := f.svc.Receive(context.Background(), []byte(`{"transcript":"x"}`))
	assert.Equal(t, appErrors.ErrorCode_WEBHOOK_NO_OWNER, codeOf(t, err))
	assert.Empty(t, f.completer.Requests)
}

func TestReceive_BadInput(t *testing.T) {
	f := newWebhookFixture(t, "")
	addUser(t, f, "first@example.com", time.Now())

	_, err := f.svc.Receive(context.Background(), []byte(`not json`))
	assert.Equal(t, appErrors.ErrorCode_INVALID_PAYLOAD, codeOf(t, err))

	_, err = f.svc.Receive(context.Background(), []byte(`{"title":"only a title"}`))
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))

	_, err = f.svc.Receive(context.Background(), []byte(`{"title":"blank","transcript":"  \n\t "}`))
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
	assert.Empty(t, f.completer.Requests)
	assert.Empty(t, f.meetings.Items)
}

func TestReceive_DuplicateInFlight(t *testing.T) {
	f := newWebhookFixture(t, "")
	addUser(t, f, "first@example.com", time.Now())
	body := []byte(`{"transcript":"same"}`)

	unlock, err := f.locker.TryLock(context.Background(), deliveryLockPrefix+hashHex(body), time.Minute)
	require.NoError(t, err)

	_, err = f.svc.Receive(context.Background(), body)
	assert.Equal(t, appErrors.ErrorCode_WEBHOOK_IN_PROGRESS, codeOf(t, err))

	unlock()
	_, err = f.svc.Receive(context.Background(), body)
	require.NoError(t, err)
}

func TestReceive_ProcessingFailure(t *testing.T) {
	f := newWebhookFixture(t, "")
	addUser(t, f, "first@example.com", time.Now())
	f.completer.Reply = "no json here"

	_, err := f.svc.Receive(context.Background(), []byte(`{"transcript":"x"}`))
	assert.Equal(t, appErrors.ErrorCode_AI_PROCESSING_FAILED, codeOf(t, err))
	assert.Empty(t, f.meetings.Items)
}
