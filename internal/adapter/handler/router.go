package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/atlas/pkg/config"
)

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      *Auth
	Meeting   *Meeting
	Task      *Task
	Document  *Document
	Note      *Note
	Chat      *Chat
	Dashboard *Dashboard
	Webhook   *WebhookHandler
}

// Router holds all handlers
type Router struct {
	cfg         *config.Config
	handlers    Handlers
	authMW      echo.MiddlewareFunc
	webhookMW   echo.MiddlewareFunc
	healthCheck map[string]HealthCheck
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	handlers Handlers,
	authMW echo.MiddlewareFunc,
	webhookMW echo.MiddlewareFunc,
	checks map[string]HealthCheck,
) *Router {
	return &Router{
		cfg:         cfg,
		handlers:    handlers,
		authMW:      authMW,
		webhookMW:   webhookMW,
		healthCheck: checks,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")

	rt.setupAuthRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupTaskRoutes(v1)
	rt.setupDocumentRoutes(v1)
	rt.setupNoteRoutes(v1)
	rt.setupChatRoutes(v1)
	rt.setupWebhookRoutes(v1)

	v1.GET("/dashboard", rt.handlers.Dashboard.Get, rt.authMW)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	h := rt.handlers.Auth
	authGroup := g.Group("/auth")

	authGroup.POST("/magic-link", h.RequestMagicLink)
	authGroup.GET("/callback", h.Callback)
	authGroup.POST("/verify", h.Verify)
	authGroup.POST("/refresh", h.RefreshToken)
	authGroup.POST("/logout", h.Logout)
	authGroup.POST("/logout-all", h.LogoutAll, rt.authMW)
	authGroup.GET("/me", h.Me, rt.authMW)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	h := rt.handlers.Meeting
	meetings := g.Group("/meetings", rt.authMW)

	meetings.POST("/process", h.Process)
	meetings.POST("/transcribe", h.Transcribe)
	meetings.GET("", h.List)
	meetings.POST("", h.Create)
	meetings.GET("/:id", h.Get)
	meetings.PUT("/:id", h.Update)
	meetings.DELETE("/:id", h.Delete)
}

func (rt *Router) setupTaskRoutes(g *echo.Group) {
	h := rt.handlers.Task
	tasks := g.Group("/tasks", rt.authMW)

	tasks.GET("", h.List)
	tasks.POST("", h.Create)
	tasks.GET("/:id", h.Get)
	tasks.PATCH("/:id", h.Update)
	tasks.DELETE("/:id", h.Delete)
}

func (rt *Router) setupDocumentRoutes(g *echo.Group) {
	h := rt.handlers.Document
	documents := g.Group("/documents", rt.authMW)

	documents.GET("", h.List)
	documents.POST("", h.Upload)
	documents.GET("/:id", h.Get)
	documents.GET("/:id/download", h.Download)
	documents.DELETE("/:id", h.Delete)
}

func (rt *Router) setupNoteRoutes(g *echo.Group) {
	h := rt.handlers.Note
	notes := g.Group("/notes", rt.authMW)

	notes.GET("", h.List)
	notes.POST("", h.Create)
	notes.GET("/:id", h.Get)
	notes.PUT("/:id", h.Update)
	notes.DELETE("/:id", h.Delete)
}

func (rt *Router) setupChatRoutes(g *echo.Group) {
	h := rt.handlers.Chat
	chat := g.Group("/chat", rt.authMW)

	chat.POST("", h.Send)
	chat.GET("/history", h.History)
	chat.DELETE("/history", h.ClearHistory)
}

func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhooks := g.Group("/webhooks", rt.webhookMW)

	webhooks.POST("/granola", rt.handlers.Webhook.HandleGranola)
}

// health returns health status. Any failing dependency turns the response into a 503.
func (rt *Router) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(rt.healthCheck))
	for name, check := range rt.healthCheck {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.JSON(status, map[string]interface{}{
		"status":      overall,
		"environment": rt.cfg.Server.Environment,
		"checks":      checks,
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}
