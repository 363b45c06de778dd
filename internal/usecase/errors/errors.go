package errors

import (
	stdErrors "errors"

	"github.com/google/uuid"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// Validation messages returned verbatim to clients
const (
	MsgTranscriptRequired  = "Transcript is required and must be a string"
	MsgTranscriptEmpty     = "Transcript cannot be empty"
	MsgMessagesRequired    = "Messages array is required"
	MsgMessagesEmpty       = "At least one message is required"
	MsgDocumentTitleNeeded = "Please select a file and enter a title"
	MsgAudioURLRequired    = "audio_url is required"
)

// FromDomain converts domain sentinel errors into AppErrors.
// AppErrors pass through; anything else becomes an internal error.
func FromDomain(err error, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	var appErr appErrors.AppError
	if stdErrors.As(err, &appErr) {
		return err
	}

	switch {
	case stdErrors.Is(err, entities.ErrMeetingNotFound):
		return appErrors.ErrMeetingNotFound(id.String())
	case stdErrors.Is(err, entities.ErrTaskNotFound):
		return appErrors.ErrTaskNotFound(id.String())
	case stdErrors.Is(err, entities.ErrDocumentNotFound):
		return appErrors.ErrDocumentNotFound(id.String())
	case stdErrors.Is(err, entities.ErrNoteNotFound):
		return appErrors.ErrNoteNotFound(id.String())
	case stdErrors.Is(err, entities.ErrUserNotFound):
		return appErrors.ErrUserNotFound()
	case stdErrors.Is(err, entities.ErrSessionNotFound),
		stdErrors.Is(err, entities.ErrSessionExpired):
		return appErrors.ErrInvalidRefreshToken()
	case stdErrors.Is(err, entities.ErrInvalidToken):
		return appErrors.ErrInvalidToken()
	case stdErrors.Is(err, entities.ErrTokenExpired):
		return appErrors.ErrTokenExpired()
	case stdErrors.Is(err, entities.ErrMagicLinkInvalid):
		return appErrors.ErrMagicLinkInvalid()
	case stdErrors.Is(err, entities.ErrUnauthorized):
		return appErrors.ErrUnauthenticated()
	case stdErrors.Is(err, entities.ErrEmptyTitle),
		stdErrors.Is(err, entities.ErrInvalidTaskStatus),
		stdErrors.Is(err, entities.ErrInvalidTaskPriority),
		stdErrors.Is(err, entities.ErrInvalidChatRole),
		stdErrors.Is(err, entities.ErrInvalidEmail),
		stdErrors.Is(err, entities.ErrInvalidRequest):
		return appErrors.ErrInvalidArgument(err.Error())
	}

	return appErrors.ErrInternal(err)
}
