package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/errors"
	chatDTO "github.com/johnquangdev/atlas/internal/adapter/dto/chat"
	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	"github.com/johnquangdev/atlas/internal/usecase/chat"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
	pkgai "github.com/johnquangdev/atlas/pkg/ai"
)

// Chat handles assistant HTTP requests
type Chat struct {
	chatService *chat.Service
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *chat.Service, logger *zap.Logger) *Chat {
	return &Chat{
		chatService: chatService,
		logger:      logger,
	}
}

// Send handles POST /chat
// @Summary      Ask the assistant
// @Description  Recent meetings, open tasks and documents are added as context unless context is given
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      chatDTO.ChatRequest  true  "Conversation"
// @Success      200      {object}  chatDTO.ChatResponse
// @Failure      400      {object}  map[string]interface{}  "Invalid messages"
// @Failure      502      {object}  map[string]interface{}  "Assistant unavailable"
// @Router       /chat [post]
func (h *Chat) Send(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req chatDTO.ChatRequest
	if err := bindJSON(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	messages, err := decodeMessages(req.Messages)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	reply, err := h.chatService.Chat(c.Request().Context(), chat.Input{
		UserID:   userID,
		Messages: messages,
		Context:  req.Context,
		Model:    req.Model,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, chatDTO.ChatResponse{Response: reply})
}

// History handles GET /chat/history
// @Summary      Conversation history
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum messages, default 50"
// @Success      200    {array}   chatDTO.HistoryMessageResponse
// @Router       /chat/history [get]
func (h *Chat) History(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be a positive integer"))
		}
	}

	messages, err := h.chatService.History(c.Request().Context(), userID, limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToHistoryResponses(messages))
}

// ClearHistory handles DELETE /chat/history
// @Summary      Clear conversation history
// @Tags         Chat
// @Security     BearerAuth
// @Success      204
// @Router       /chat/history [delete]
func (h *Chat) ClearHistory(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.chatService.ClearHistory(c.Request().Context(), userID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// decodeMessages requires a JSON array of {role, content} objects
func decodeMessages(raw json.RawMessage) ([]pkgai.Message, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.ErrInvalidArgument(usecaseErrors.MsgMessagesRequired)
	}

	var items []chatDTO.MessageRequest
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, errors.ErrInvalidArgument("Each message must have a string role and content")
	}

	messages := make([]pkgai.Message, len(items))
	for i, m := range items {
		messages[i] = pkgai.Message{Role: m.Role, Content: m.Content}
	}
	return messages, nil
}
