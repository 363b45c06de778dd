package task

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
)

func newTestService() (*Service, *fakes.Tasks, *fakes.Meetings) {
	tasks := &fakes.Tasks{}
	meetings := fakes.NewMeetings(tasks)
	return NewService(tasks, meetings, nil, nil), tasks, meetings
}

func codeOf(t *testing.T, err error) appErrors.ErrorCode {
	t.Helper()
	var appErr appErrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func ptr[T any](v T) *T { return &v }

func TestCreate_Defaults(t *testing.T) {
	svc, _, _ := newTestService()

	task, err := svc.Create(context.Background(), CreateTaskInput{
		UserID:      uuid.New(),
		Title:       " Call vendor ",
		Description: ptr("  "),
		DueDate:     ptr("next week"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Call vendor", task.Title)
	assert.Equal(t, entities.TaskStatusTodo, task.Status)
	assert.Equal(t, entities.TaskPriorityMedium, task.Priority)
	assert.Nil(t, task.Description)
	assert.Equal(t, "next week", *task.DueDate)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, CreateTaskInput{UserID: userID, Title: ""})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))

	_, err = svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "x", Status: "blocked"})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))

	_, err = svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "x", Priority: "urgent"})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))

	_, err = svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "x", MeetingID: ptr(uuid.New())})
	assert.Equal(t, appErrors.ErrorCode_MEETING_NOT_FOUND, codeOf(t, err))
}

func TestUpdate_Partial(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	task, err := svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "Draft", Priority: entities.TaskPriorityLow})
	require.NoError(t, err)

	done := entities.TaskStatusDone
	updated, err := svc.Update(ctx, UpdateTaskInput{UserID: userID, ID: task.ID, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusDone, updated.Status)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, entities.TaskPriorityLow, updated.Priority)

	bad := entities.TaskStatus("archived")
	_, err = svc.Update(ctx, UpdateTaskInput{UserID: userID, ID: task.ID, Status: &bad})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))

	_, err = svc.Update(ctx, UpdateTaskInput{UserID: uuid.New(), ID: task.ID, Title: ptr("stolen")})
	assert.Equal(t, appErrors.ErrorCode_TASK_NOT_FOUND, codeOf(t, err))
}

func TestList_Filters(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "a"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "b", Status: entities.TaskStatusDone})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateTaskInput{UserID: uuid.New(), Title: "other"})
	require.NoError(t, err)

	open, total, err := svc.List(ctx, userID, repositories.TaskFilters{OpenOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "a", open[0].Title)

	bad := entities.TaskPriority("urgent")
	_, _, err = svc.List(ctx, userID, repositories.TaskFilters{Priority: &bad})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
}

func TestDelete(t *testing.T) {
	svc, tasks, _ := newTestService()
	ctx := context.Background()
	userID := uuid.New()

	task, err := svc.Create(ctx, CreateTaskInput{UserID: userID, Title: "a"})
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), task.ID)
	assert.Equal(t, appErrors.ErrorCode_TASK_NOT_FOUND, codeOf(t, err))

	require.NoError(t, svc.Delete(ctx, userID, task.ID))
	assert.Empty(t, tasks.Items)
}
