package handler

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/adapter/dto/common"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/pkg/validator"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Response shapes
type success struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleSuccessStatus(logger, c, http.StatusOK, data)
}

// HandleSuccessStatus is HandleSuccess with an explicit status code
func HandleSuccessStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.HTTPCode < http.StatusInternalServerError {
			if appErr.Raw != nil {
				body.Info = appErr.Raw.Error()
			}
			body.Details = appErr.Details
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// HTTPErrorHandler renders errors that escape handlers, including middleware
// rejections and unknown routes, in the same body shape as HandleError
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			body := errs{
				Code:    httpStatusCode(he.Code),
				Message: fmt.Sprint(he.Message),
			}
			if c.Request().Method == http.MethodHead {
				_ = c.NoContent(he.Code)
				return
			}
			_ = c.JSON(he.Code, body)
			return
		}

		_ = HandleError(logger, c, err)
	}
}

func httpStatusCode(status int) errors.ErrorCode {
	switch status {
	case http.StatusUnauthorized:
		return errors.ErrorCode_UNAUTHENTICATED
	case http.StatusForbidden:
		return errors.ErrorCode_FORBIDDEN
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errors.ErrorCode_NOT_FOUND
	case http.StatusRequestEntityTooLarge:
		return errors.ErrorCode_PAYLOAD_TOO_LARGE
	}
	if status >= http.StatusInternalServerError {
		return errors.ErrorCode_INTERNAL
	}
	return errors.ErrorCode_INVALID_ARGUMENT
}

// currentUserID reads the user id set by the auth middleware
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, errors.ErrUnauthenticated()
	}
	return userID, nil
}

// currentUser reads the user set by the auth middleware
func currentUser(c echo.Context) (*entities.User, error) {
	user, ok := c.Get("user").(*entities.User)
	if !ok || user == nil {
		return nil, errors.ErrUnauthenticated()
	}
	return user, nil
}

// pathID parses the :id path parameter
func pathID(c echo.Context, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument(fmt.Sprintf("%s ID must be a valid UUID", resource))
	}
	return id, nil
}

// pagination reads page and page_size query parameters
func pagination(c echo.Context) (page, pageSize int, err error) {
	page, pageSize = 1, defaultPageSize
	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errors.ErrInvalidArgument("page must be a positive integer")
		}
	}
	if raw := c.QueryParam("page_size"); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > maxPageSize {
			return 0, 0, errors.ErrInvalidArgument(fmt.Sprintf("page_size must be between 1 and %d", maxPageSize))
		}
	}
	return page, pageSize, nil
}

func offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// newListResponse wraps a page of items with pagination metadata
func newListResponse(data interface{}, total int64, page, pageSize int) *common.ListResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return &common.ListResponse{
		Data: data,
		Pagination: &common.PaginationResponse{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
		},
	}
}

// parseOptionalDate parses an optional date string from a request body
func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := entities.ParseMeetingDate(*raw)
	if err != nil {
		return nil, errors.ErrInvalidArgument("date must be an ISO 8601 timestamp")
	}
	return &t, nil
}

// bindJSON decodes the request body, mapping malformed JSON to an invalid payload error
func bindJSON(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return errors.ErrInvalidPayload()
	}
	return nil
}

// validate runs the registered validator
func validate(c echo.Context, v interface{}) error {
	if err := c.Validate(v); err != nil {
		appErr := errors.ErrValidationFailed(err)
		for field, tag := range validator.Fields(err) {
			appErr = appErr.WithDetail(field, tag)
		}
		return appErr
	}
	return nil
}
