package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/usecase/webhook"
)

const maxWebhookBody = 5 << 20

// WebhookHandler handles inbound meeting webhooks
type WebhookHandler struct {
	granola *webhook.GranolaService
	logger  *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(granola *webhook.GranolaService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{granola: granola, logger: logger}
}

// HandleGranola receives finished meeting notes from Granola
// @Summary      Granola webhook
// @Description  Processes the transcript, saves the meeting and copies its action items into tasks
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        Authorization  header    string  false  "Bearer {WEBHOOK_SECRET} when a secret is configured"
// @Success      200            {object}  webhook.Result
// @Failure      400            {object}  map[string]interface{}  "Invalid payload or no owner"
// @Failure      401            {object}  map[string]interface{}  "Unauthorized"
// @Failure      409            {object}  map[string]interface{}  "Same payload already in progress"
// @Router       /webhooks/granola [post]
func (h *WebhookHandler) HandleGranola(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody+1))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if len(body) > maxWebhookBody {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(maxWebhookBody))
	}

	result, err := h.granola.Receive(c.Request().Context(), body)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	h.logger.Info("http.response.success",
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Path()),
	)
	return c.JSON(http.StatusOK, result)
}
