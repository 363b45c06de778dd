package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

func TestFromDomain(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		in   error
		code appErrors.ErrorCode
		http int
	}{
		{entities.ErrMeetingNotFound, appErrors.ErrorCode_MEETING_NOT_FOUND, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", entities.ErrTaskNotFound), appErrors.ErrorCode_TASK_NOT_FOUND, http.StatusNotFound},
		{entities.ErrDocumentNotFound, appErrors.ErrorCode_DOCUMENT_NOT_FOUND, http.StatusNotFound},
		{entities.ErrNoteNotFound, appErrors.ErrorCode_NOTE_NOT_FOUND, http.StatusNotFound},
		{entities.ErrInvalidTaskStatus, appErrors.ErrorCode_INVALID_ARGUMENT, http.StatusBadRequest},
		{entities.ErrSessionExpired, appErrors.ErrorCode_AUTH_INVALID_REFRESH_TOKEN, http.StatusUnauthorized},
		{stdErrors.New("boom"), appErrors.ErrorCode_INTERNAL, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		var appErr appErrors.AppError
		require.ErrorAs(t, FromDomain(tc.in, id), &appErr, tc.in.Error())
		assert.Equal(t, tc.code, appErr.Code, tc.in.Error())
		assert.Equal(t, tc.http, appErr.HTTPCode, tc.in.Error())
	}

	assert.NoError(t, FromDomain(nil, id))

	passthrough := appErrors.ErrWebhookInProgress()
	assert.Equal(t, error(passthrough), FromDomain(passthrough, id))
}
