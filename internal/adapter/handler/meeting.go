package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/errors"
	meetingDTO "github.com/johnquangdev/atlas/internal/adapter/dto/meeting"
	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
	"github.com/johnquangdev/atlas/internal/usecase/meeting"
)

// Meeting handles meeting HTTP requests
type Meeting struct {
	meetingService meeting.Service
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService meeting.Service, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// Process handles POST /meetings/process
// @Summary      Process a transcript
// @Description  Extracts title, summary, action items, decisions and key topics. Nothing is saved.
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meetingDTO.ProcessMeetingRequest  true  "Transcript"
// @Success      200      {object}  meetingDTO.ProcessedMeetingResponse
// @Failure      400      {object}  map[string]interface{}  "Missing or empty transcript"
// @Failure      502      {object}  map[string]interface{}  "Model output could not be processed"
// @Router       /meetings/process [post]
func (h *Meeting) Process(c echo.Context) error {
	var req meetingDTO.ProcessMeetingRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	transcript, ok := req.Transcript.(string)
	if !ok {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.MsgTranscriptRequired))
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.meetingService.Process(c.Request().Context(), transcript, date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToProcessedMeetingResponse(out))
}

// Transcribe handles POST /meetings/transcribe
// @Summary      Transcribe and process a recording
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meetingDTO.TranscribeMeetingRequest  true  "Recording URL"
// @Success      200      {object}  meetingDTO.ProcessedMeetingResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Failure      502      {object}  map[string]interface{}  "Transcription failed"
// @Failure      503      {object}  map[string]interface{}  "Transcription not configured"
// @Router       /meetings/transcribe [post]
func (h *Meeting) Transcribe(c echo.Context) error {
	var req meetingDTO.TranscribeMeetingRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if strings.TrimSpace(req.AudioURL) == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.MsgAudioURLRequired))
	}
	if err := validate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	out, err := h.meetingService.Transcribe(c.Request().Context(), req.AudioURL, date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToProcessedMeetingResponse(out))
}

// Create handles POST /meetings
// @Summary      Save a meeting
// @Description  Saves a reviewed meeting and copies each action item into a task
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      meetingDTO.CreateMeetingRequest  true  "Meeting"
// @Success      201      {object}  meetingDTO.MeetingDetailResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid request"
// @Router       /meetings [post]
func (h *Meeting) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.CreateMeetingRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := validate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	input := meeting.CreateMeetingInput{
		UserID:        userID,
		Title:         req.Title,
		RawTranscript: req.RawTranscript,
		Summary:       req.Summary,
		KeyTopics:     req.KeyTopics,
		Source:        entities.MeetingSource(req.Source),
	}
	if date != nil {
		input.Date = *date
	}
	for _, item := range req.ActionItems {
		input.ActionItems = append(input.ActionItems, entities.ActionItem{
			Task:     item.Task,
			Assignee: item.Assignee,
			Due:      item.Due,
		})
	}
	for _, d := range req.Decisions {
		input.Decisions = append(input.Decisions, entities.Decision{Decision: d.Decision, Context: d.Context})
	}

	detail, err := h.meetingService.Create(c.Request().Context(), input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToMeetingDetailResponse(detail))
}

// List handles GET /meetings
// @Summary      List meetings
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page"
// @Param        page_size  query     int     false  "Page size"
// @Param        since      query     string  false  "Only meetings on or after this date"
// @Success      200        {object}  common.ListResponse
// @Router       /meetings [get]
func (h *Meeting) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	page, pageSize, err := pagination(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	filters := repositories.MeetingFilters{Limit: pageSize, Offset: offset(page, pageSize)}
	if raw := c.QueryParam("since"); raw != "" {
		since, err := parseOptionalDate(&raw)
		if err != nil {
			return HandleError(h.logger, c, err)
		}
		filters.Since = since
	}

	meetings, total, err := h.meetingService.List(c.Request().Context(), userID, filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, newListResponse(presenter.ToMeetingResponses(meetings), total, page, pageSize))
}

// Get handles GET /meetings/:id
// @Summary      Get a meeting with its tasks
// @Tags         Meetings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Meeting ID (UUID)"
// @Success      200  {object}  meetingDTO.MeetingDetailResponse
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [get]
func (h *Meeting) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Meeting")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	detail, err := h.meetingService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingDetailResponse(detail))
}

// Update handles PUT /meetings/:id
// @Summary      Update a meeting
// @Tags         Meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Meeting ID (UUID)"
// @Param        request  body      meetingDTO.UpdateMeetingRequest  true  "Fields to change"
// @Success      200      {object}  meetingDTO.MeetingResponse
// @Failure      404      {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [put]
func (h *Meeting) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Meeting")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDTO.UpdateMeetingRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if err := validate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	date, err := parseOptionalDate(req.Date)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetingService.Update(c.Request().Context(), meeting.UpdateMeetingInput{
		UserID:    userID,
		ID:        id,
		Title:     req.Title,
		Date:      date,
		Summary:   req.Summary,
		KeyTopics: req.KeyTopics,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m))
}

// Delete handles DELETE /meetings/:id
// @Summary      Delete a meeting
// @Description  Tasks copied from the meeting are kept and detached
// @Tags         Meetings
// @Security     BearerAuth
// @Param        id   path  string  true  "Meeting ID (UUID)"
// @Success      204
// @Failure      404  {object}  map[string]interface{}  "Meeting not found"
// @Router       /meetings/{id} [delete]
func (h *Meeting) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Meeting")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.meetingService.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
