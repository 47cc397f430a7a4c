package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
	"github.com/eventhub/eventhub/middleware"
	"github.com/eventhub/eventhub/net/resp"
	"github.com/eventhub/eventhub/service"
)

// EventHandler handles event browsing, creation and registration.
type EventHandler struct {
	eventService *service.EventService
	logger       *logger.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService *service.EventService, log *logger.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       log,
	}
}

// Create creates an event organized by the acting user.
func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized(middleware.MsgNoToken))
		return
	}

	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrPastDate) {
			resp.Fail(c.Writer, resp.BadRequest(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "event creation failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Server error"))
		return
	}

	resp.WithStatusCode(c.Writer, http.StatusCreated, event)
}

// List returns upcoming events, optionally filtered by category, day or
// title search.
func (h *EventHandler) List(c *gin.Context) {
	q := service.ListEventsQuery{
		Category: c.Query("category"),
		Date:     c.Query("date"),
		Search:   c.Query("search"),
	}

	events, err := h.eventService.List(c.Request.Context(), &q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			resp.Fail(c.Writer, resp.BadRequest(err.Error()))
			return
		}
		h.logger.Error(c.Request.Context(), "event listing failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Server error"))
		return
	}

	resp.Success(c.Writer, events)
}

// Get returns a single event with organizer and attendees resolved.
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.eventService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			resp.Fail(c.Writer, resp.NotFound("Event not found"))
			return
		}
		h.logger.Error(c.Request.Context(), "event lookup failed", "error", err)
		resp.Fail(c.Writer, resp.InternalServer("Server error"))
		return
	}

	resp.Success(c.Writer, event)
}

// Register adds the acting user to an event's attendee list.
func (h *EventHandler) Register(c *gin.Context) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		resp.Fail(c.Writer, resp.UnAuthorized(middleware.MsgNoToken))
		return
	}

	event, err := h.eventService.RegisterAttendance(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			resp.Fail(c.Writer, resp.NotFound("Event not found"))
		case errors.Is(err, repository.ErrAlreadyRegistered):
			resp.Fail(c.Writer, resp.BadRequest("Already registered"))
		default:
			h.logger.Error(c.Request.Context(), "registration failed", "error", err)
			resp.Fail(c.Writer, resp.InternalServer("Server error"))
		}
		return
	}

	resp.Success(c.Writer, event)
}
