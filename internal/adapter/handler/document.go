package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/errors"
	documentDTO "github.com/johnquangdev/atlas/internal/adapter/dto/document"
	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
	"github.com/johnquangdev/atlas/internal/usecase/document"
)

// Document handles document HTTP requests
type Document struct {
	documentService *document.Service
	logger          *zap.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentService *document.Service, logger *zap.Logger) *Document {
	return &Document{
		documentService: documentService,
		logger:          logger,
	}
}

// Upload handles POST /documents
// @Summary      Upload a document
// @Description  Accepts .pdf .docx .txt .md .png .jpg .jpeg .gif. Text files keep their content.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file   formData  file    true   "Document"
// @Param        title  formData  string  false  "Title; defaults to the file name"
// @Param        tags   formData  string  false  "Comma separated tags"
// @Success      201    {object}  documentDTO.DocumentResponse
// @Failure      400    {object}  map[string]interface{}  "Missing file or rejected type"
// @Failure      413    {object}  map[string]interface{}  "File too large"
// @Router       /documents [post]
func (h *Document) Upload(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(usecaseErrors.MsgDocumentTitleNeeded))
	}
	limit := h.documentService.MaxBytes()
	if limit > 0 && fh.Size > limit {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(limit))
	}

	f, err := fh.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	doc, err := h.documentService.Upload(c.Request().Context(), document.UploadInput{
		UserID:      userID,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
		Title:       c.FormValue("title"),
		Tags:        c.FormValue("tags"),
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccessStatus(h.logger, c, http.StatusCreated, presenter.ToDocumentResponse(doc))
}

// List handles GET /documents
// @Summary      List documents
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  common.ListResponse
// @Router       /documents [get]
func (h *Document) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	page, pageSize, err := pagination(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	docs, total, err := h.documentService.List(c.Request().Context(), userID, pageSize, offset(page, pageSize))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, newListResponse(presenter.ToDocumentResponses(docs), total, page, pageSize))
}

// Get handles GET /documents/:id
// @Summary      Get a document
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID (UUID)"
// @Success      200  {object}  documentDTO.DocumentResponse
// @Failure      404  {object}  map[string]interface{}  "Document not found"
// @Router       /documents/{id} [get]
func (h *Document) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Document")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	doc, err := h.documentService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToDocumentResponse(doc))
}

// Download handles GET /documents/:id/download
// @Summary      Get a download link
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID (UUID)"
// @Success      200  {object}  documentDTO.DownloadResponse
// @Failure      404  {object}  map[string]interface{}  "Document or file not found"
// @Router       /documents/{id}/download [get]
func (h *Document) Download(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Document")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	url, expiry, err := h.documentService.DownloadURL(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, documentDTO.DownloadResponse{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(expiry),
	})
}

// Delete handles DELETE /documents/:id
// @Summary      Delete a document
// @Tags         Documents
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID (UUID)"
// @Success      204
// @Failure      404  {object}  map[string]interface{}  "Document not found"
// @Router       /documents/{id} [delete]
func (h *Document) Delete(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathID(c, "Document")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.documentService.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
