package errors

// ErrorCode is the machine readable code returned in error bodies
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007
	ErrorCode_PAYLOAD_TOO_LARGE ErrorCode = 1009

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN         ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED         ErrorCode = 2001
	ErrorCode_AUTH_USER_NOT_FOUND        ErrorCode = 2002
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN ErrorCode = 2003
	ErrorCode_AUTH_MAGIC_LINK_INVALID    ErrorCode = 2004
	ErrorCode_AUTH_MAGIC_LINK_FAILED     ErrorCode = 2005

	// Domain
	ErrorCode_MEETING_NOT_FOUND      ErrorCode = 3000
	ErrorCode_TASK_NOT_FOUND         ErrorCode = 3001
	ErrorCode_DOCUMENT_NOT_FOUND     ErrorCode = 3002
	ErrorCode_NOTE_NOT_FOUND         ErrorCode = 3003
	ErrorCode_DOCUMENT_TYPE_REJECTED ErrorCode = 3004

	// AI
	ErrorCode_AI_CHAT_FAILED          ErrorCode = 4000
	ErrorCode_AI_PROCESSING_FAILED    ErrorCode = 4001
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 4002
	ErrorCode_AI_SERVICE_UNAVAILABLE  ErrorCode = 4003

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
	ErrorCode_INTEGRATION_MAIL_FAILED    ErrorCode = 5002

	// Database
	ErrorCode_DB_QUERY_FAILED       ErrorCode = 6000
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 6001

	// Webhook
	ErrorCode_WEBHOOK_UNAUTHORIZED ErrorCode = 7000
	ErrorCode_WEBHOOK_NO_OWNER     ErrorCode = 7001
	ErrorCode_WEBHOOK_IN_PROGRESS  ErrorCode = 7002
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_PAYLOAD_TOO_LARGE:          "PAYLOAD_TOO_LARGE",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_USER_NOT_FOUND:        "AUTH_USER_NOT_FOUND",
	ErrorCode_AUTH_INVALID_REFRESH_TOKEN: "AUTH_INVALID_REFRESH_TOKEN",
	ErrorCode_AUTH_MAGIC_LINK_INVALID:    "AUTH_MAGIC_LINK_INVALID",
	ErrorCode_AUTH_MAGIC_LINK_FAILED:     "AUTH_MAGIC_LINK_FAILED",
	ErrorCode_MEETING_NOT_FOUND:          "MEETING_NOT_FOUND",
	ErrorCode_TASK_NOT_FOUND:             "TASK_NOT_FOUND",
	ErrorCode_DOCUMENT_NOT_FOUND:         "DOCUMENT_NOT_FOUND",
	ErrorCode_NOTE_NOT_FOUND:             "NOTE_NOT_FOUND",
	ErrorCode_DOCUMENT_TYPE_REJECTED:     "DOCUMENT_TYPE_REJECTED",
	ErrorCode_AI_CHAT_FAILED:             "AI_CHAT_FAILED",
	ErrorCode_AI_PROCESSING_FAILED:       "AI_PROCESSING_FAILED",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SERVICE_UNAVAILABLE:     "AI_SERVICE_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_MAIL_FAILED:    "INTEGRATION_MAIL_FAILED",
	ErrorCode_DB_QUERY_FAILED:            "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:      "DB_TRANSACTION_FAILED",
	ErrorCode_WEBHOOK_UNAUTHORIZED:       "WEBHOOK_UNAUTHORIZED",
	ErrorCode_WEBHOOK_NO_OWNER:           "WEBHOOK_NO_OWNER",
	ErrorCode_WEBHOOK_IN_PROGRESS:        "WEBHOOK_IN_PROGRESS",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
