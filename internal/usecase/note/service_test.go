package note

import (
	"context"
	stdErrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/usecase/fakes"
)

func codeOf(t *testing.T, err error) appErrors.ErrorCode {
	t.Helper()
	var appErr appErrors.AppError
	require.True(t, stdErrors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestNoteLifecycle(t *testing.T) {
	svc := NewService(&fakes.Notes{})
	ctx := context.Background()
	userID := uuid.New()

	n, err := svc.Create(ctx, userID, NoteInput{Title: " Ideas ", Content: "ship faster", Tags: []string{" product ", ""}})
	require.NoError(t, err)
	assert.Equal(t, "Ideas", n.Title)
	assert.Equal(t, []string{"product"}, []string(n.Tags))

	n, err = svc.Update(ctx, userID, n.ID, NoteInput{Title: "Ideas", Content: "ship safer"})
	require.NoError(t, err)
	assert.Equal(t, "ship safer", n.Content)
	assert.Nil(t, n.Tags)

	items, total, err := svc.List(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	_, err = svc.Get(ctx, uuid.New(), n.ID)
	assert.Equal(t, appErrors.ErrorCode_NOTE_NOT_FOUND, codeOf(t, err))

	require.NoError(t, svc.Delete(ctx, userID, n.ID))
	err = svc.Delete(ctx, userID, n.ID)
	assert.Equal(t, appErrors.ErrorCode_NOTE_NOT_FOUND, codeOf(t, err))
}

func TestNoteValidation(t *testing.T) {
	svc := NewService(&fakes.Notes{})

	_, err := svc.Create(context.Background(), uuid.New(), NoteInput{Title: "", Content: "x"})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))

	_, err = svc.Create(context.Background(), uuid.New(), NoteInput{Title: "x", Content: " "})
	assert.Equal(t, appErrors.ErrorCode_INVALID_ARGUMENT, codeOf(t, err))
}
