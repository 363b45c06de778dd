package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	noteDTO "github.com/johnquangdev/atlas/internal/adapter/dto/note"
	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	"github.com/johnquangdev/atlas/internal/usecase/note"
)

// Note handles note HTTP requests
type Note struct {
	noteService *note.Service
	logger      *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(noteService *note.Service, logger *zap.Logger) *Note {
	return &Note{
		noteService: noteService,
		logger:      logger,
	}
}

// List handles GET /notes
// @Summary      List notes
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  common.ListResponse
// @Router       /notes [get]
func (h *Note) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	page, pageSize, err := pagination(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	notes, total, err := h.noteService.List(c.Request().Context(), userID, pageSize, offset(page, pageSize))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, newListResponse(presenter.ToNoteResponses(notes), total, page, pageSize))
}

// Create handles POST /notes
// @Summary      Create a note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      noteDTO.NoteRequest  true  "Note"
// @Success      201      {object}  noteDTO.NoteResponse
// @Failure      400      {object}  map[string]interface{}  "Title and content are required"
// @Router       /notes [post]
func (h *Note) Create(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req noteDTO.NoteRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	n, err := h.noteService.Create(c.Request().Context(), userID, note.NoteInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToNoteResponse(n))
}

// Get handles GET /notes/:id
// @Summary      Get a note
// @Tags         Notes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Note ID (UUID)"
// @Success      200  {object}  noteDTO.NoteResponse
// @Failure      404  {object}  map[string]interface{}  "Note not found"
// @Router       /notes/{id} [get]
func (h *Note) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Note")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	n, err := h.noteService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToNoteResponse(n))
}

// Update handles PUT /notes/:id
// @Summary      Replace a note
// @Tags         Notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string               true  "Note ID (UUID)"
// @Param        request  body      noteDTO.NoteRequest  true  "Note"
// @Success      200      {object}  noteDTO.NoteResponse
// @Failure      404      {object}  map[string]interface{}  "Note not found"
// @Router       /notes/{id} [put]
func (h *Note) Update(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Note")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req noteDTO.NoteRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	n, err := h.noteService.Update(c.Request().Context(), userID, id, note.NoteInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToNoteResponse(n))
}

// Delete handles DELETE /notes/:id
// @Summary      Delete a note
// @Tags         Notes
// @Security     BearerAuth
// @Param        id   path  string  true  "Note ID (UUID)"
// @Success      204
// @Failure      404  {object}  map[string]interface{}  "Note not found"
// @Router       /notes/{id} [delete]
func (h *Note) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Note")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.noteService.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
