package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/eventhub/logging/logger"
)

// Event categories accepted by the API.
const (
	CategoryConference = "Conference"
	CategoryWorkshop   = "Workshop"
	CategorySocial     = "Social"
	CategoryOther      = "Other"
)

// Event represents an event document.
type Event struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Date        time.Time            `bson:"date" json:"date"`
	Location    string               `bson:"location" json:"location"`
	Category    string               `bson:"category" json:"category"`
	Organizer   primitive.ObjectID   `bson:"organizer" json:"organizer"`
	Attendees   []primitive.ObjectID `bson:"attendees" json:"attendees"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
}

// EventFilter narrows the public event listing.
type EventFilter struct {
	Category string
	// Day limits results to events on that calendar day. When set it
	// replaces the default upcoming-only constraint.
	Day *time.Time
	// Search is a case-insensitive match on the title.
	Search string
}

// EventRepository defines the interface for event data operations.
type EventRepository interface {
	Create(ctx context.Context, event *Event) (*Event, error)
	FindByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	AddAttendee(ctx context.Context, eventID string, userID primitive.ObjectID) (*Event, error)
}

type eventRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewEventRepository creates a new event repository instance.
func NewEventRepository(db *mongo.Database, logger *logger.Logger) EventRepository {
	collection := db.Collection("events")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}},
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Warn(ctx, "failed to create index on date", "error", err)
	}

	return &eventRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create creates a new event.
func (r *eventRepository) Create(ctx context.Context, event *Event) (*Event, error) {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	if event.Attendees == nil {
		event.Attendees = []primitive.ObjectID{}
	}

	_, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		r.logger.Error(ctx, "failed to create event", "error", err)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	r.logger.Info(ctx, "event created", "id", event.ID.Hex())
	return event, nil
}

// FindByID retrieves an event by ID.
func (r *eventRepository) FindByID(ctx context.Context, id string) (*Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var event Event
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&event)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrEventNotFound
		}
		r.logger.Error(ctx, "failed to find event", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

// List retrieves events matching the filter, upcoming first.
func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]*Event, error) {
	query := bson.M{
		"date": bson.M{"$gte": time.Now()},
	}

	if filter.Category != "" {
		query["category"] = filter.Category
	}

	if filter.Day != nil {
		day := filter.Day.Truncate(24 * time.Hour)
		query["date"] = bson.M{
			"$gte": day,
			"$lt":  day.Add(24 * time.Hour),
		}
	}

	if filter.Search != "" {
		query["title"] = bson.M{
			"$regex":   filter.Search,
			"$options": "i",
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list events", "error", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error(ctx, "failed to decode events", "error", err)
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}

	return events, nil
}

// AddAttendee registers a user for an event. The $ne guard makes the
// append atomic: a concurrent duplicate registration matches no document
// and reports ErrAlreadyRegistered.
func (r *eventRepository) AddAttendee(ctx context.Context, eventID string, userID primitive.ObjectID) (*Event, error) {
	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, ErrInvalidID
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID, "attendees": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"attendees": userID}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	if result.Err() != nil {
		if result.Err() == mongo.ErrNoDocuments {
			// Either the event is gone or the user already registered.
			if _, err := r.FindByID(ctx, eventID); err != nil {
				return nil, err
			}
			return nil, ErrAlreadyRegistered
		}
		r.logger.Error(ctx, "failed to add attendee", "id", eventID, "error", result.Err())
		return nil, fmt.Errorf("failed to add attendee: %w", result.Err())
	}

	var updated Event
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated event: %w", err)
	}

	r.logger.Info(ctx, "attendee registered", "event", eventID, "user", userID.Hex())
	return &updated, nil
}
