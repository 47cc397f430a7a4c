package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
)

// EventService handles the events domain: creation, public listing,
// detail lookup and attendance registration.
type EventService struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
	logger    *logger.Logger
}

// NewEventService creates a new event service.
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository, log *logger.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		logger:    log,
	}
}

// CreateEventRequest represents the request to create an event.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	Category    string    `json:"category" binding:"required,oneof=Conference Workshop Social Other"`
}

// ListEventsQuery narrows the public event listing.
type ListEventsQuery struct {
	Category string
	// Date filters to a single calendar day, formatted 2006-01-02.
	Date   string
	Search string
}

// UserRef is a resolved organizer/attendee reference.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// EventDetail is an event with organizer and attendee names resolved.
type EventDetail struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	Location       string    `json:"location"`
	Category       string    `json:"category"`
	Organizer      *UserRef  `json:"organizer"`
	Attendees      []UserRef `json:"attendees"`
	AttendeesCount int       `json:"attendees_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Create creates an event organized by the acting user.
func (s *EventService) Create(ctx context.Context, organizerID string, req *CreateEventRequest) (*EventDetail, error) {
	orgID, err := primitive.ObjectIDFromHex(organizerID)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	if !req.Date.After(time.Now()) {
		return nil, ErrPastDate
	}

	event, err := s.eventRepo.Create(ctx, &repository.Event{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Category:    req.Category,
		Organizer:   orgID,
	})
	if err != nil {
		return nil, err
	}

	return s.populate(ctx, event)
}

// List retrieves upcoming events matching the query, soonest first.
func (s *EventService) List(ctx context.Context, q *ListEventsQuery) ([]*EventDetail, error) {
	filter := repository.EventFilter{
		Category: q.Category,
		Search:   q.Search,
	}

	if q.Date != "" {
		day, err := time.Parse("2006-01-02", q.Date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.Day = &day
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	details := make([]*EventDetail, 0, len(events))
	for _, event := range events {
		detail, err := s.populate(ctx, event)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

// Get retrieves a single event with resolved references.
func (s *EventService) Get(ctx context.Context, id string) (*EventDetail, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, repository.ErrEventNotFound
		}
		return nil, err
	}
	return s.populate(ctx, event)
}

// RegisterAttendance adds the acting user to an event's attendee list.
func (s *EventService) RegisterAttendance(ctx context.Context, eventID, userID string) (*EventDetail, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, repository.ErrInvalidID
	}

	event, err := s.eventRepo.AddAttendee(ctx, eventID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, repository.ErrEventNotFound
		}
		return nil, err
	}

	return s.populate(ctx, event)
}

// populate resolves organizer and attendee ids to usernames, mirroring
// the document references stored on the event.
func (s *EventService) populate(ctx context.Context, event *repository.Event) (*EventDetail, error) {
	ids := make([]primitive.ObjectID, 0, len(event.Attendees)+1)
	ids = append(ids, event.Organizer)
	ids = append(ids, event.Attendees...)

	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	detail := &EventDetail{
		ID:             event.ID.Hex(),
		Title:          event.Title,
		Description:    event.Description,
		Date:           event.Date,
		Location:       event.Location,
		Category:       event.Category,
		Organizer:      &UserRef{ID: event.Organizer.Hex(), Username: names[event.Organizer]},
		Attendees:      make([]UserRef, 0, len(event.Attendees)),
		AttendeesCount: len(event.Attendees),
		CreatedAt:      event.CreatedAt,
	}
	for _, id := range event.Attendees {
		detail.Attendees = append(detail.Attendees, UserRef{ID: id.Hex(), Username: names[id]})
	}
	return detail, nil
}
