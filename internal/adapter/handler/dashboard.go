package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/internal/adapter/presenter"
	"github.com/johnquangdev/atlas/internal/usecase/dashboard"
)

// Dashboard serves the home screen overview
type Dashboard struct {
	dashboardService *dashboard.Service
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboard.Service, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Get handles GET /dashboard
// @Summary      Home screen overview
// @Description  Open tasks plus meetings and decisions from the last seven days
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardDTO.DashboardResponse
// @Router       /dashboard [get]
func (h *Dashboard) Get(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	summary, err := h.dashboardService.Summary(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToDashboardResponse(summary))
}
