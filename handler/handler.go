// Package handler exposes the HTTP API: user registration/login/identity
// and the public events surface.
package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/eventhub/eventhub/logging/logger"
	"github.com/eventhub/eventhub/middleware"
	"github.com/eventhub/eventhub/net/resp"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
	"github.com/eventhub/eventhub/service"
	"github.com/eventhub/eventhub/version"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	User  *UserHandler
	Event *EventHandler
}

// NewHandler creates the handler layer over the service layer.
func NewHandler(svc *service.Service, log *logger.Logger) *Handler {
	return &Handler{
		User:  NewUserHandler(svc.Auth, log),
		Event: NewEventHandler(svc.Event, log),
	}
}

// RegisterRoutes wires all API routes onto the router. Browsing is
// public; anything acting on behalf of an identity sits behind the
// auth middleware.
func (h *Handler) RegisterRoutes(r *gin.Engine, tokenManager *securityjwt.TokenManager, log *logger.Logger) {
	users := r.Group("/api/users")
	{
		users.POST("", h.User.Register)
		users.POST("/login", h.User.Login)
		users.GET("/me", middleware.AuthMiddleware(tokenManager, log), h.User.Me)
	}

	events := r.Group("/api/events")
	{
		events.GET("", h.Event.List)
		events.GET("/:id", h.Event.Get)

		authed := events.Group("", middleware.AuthMiddleware(tokenManager, log))
		authed.POST("", h.Event.Create)
		authed.POST("/:id/register", h.Event.Register)
	}

	r.GET("/health", func(c *gin.Context) {
		resp.Success(c.Writer, map[string]any{
			"status":  "healthy",
			"version": version.Get(),
		})
	})
}
