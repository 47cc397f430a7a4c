package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/eventhub/data/repository"
)

type eventFixture struct {
	svc       *EventService
	userRepo  *fakeUserRepo
	eventRepo *fakeEventRepo
	organizer *repository.User
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	userRepo := newFakeUserRepo()
	eventRepo := newFakeEventRepo()

	organizer, err := userRepo.Create(context.Background(), &repository.User{
		Username: "organizer",
		Email:    "organizer@example.com",
	})
	require.NoError(t, err)

	return &eventFixture{
		svc:       NewEventService(eventRepo, userRepo, testLogger()),
		userRepo:  userRepo,
		eventRepo: eventRepo,
		organizer: organizer,
	}
}

func (f *eventFixture) create(t *testing.T, title, category string, date time.Time) *EventDetail {
	t.Helper()
	detail, err := f.svc.Create(context.Background(), f.organizer.ID.Hex(), &CreateEventRequest{
		Title:       title,
		Description: "a gathering",
		Date:        date,
		Location:    "Berlin",
		Category:    category,
	})
	require.NoError(t, err)
	return detail
}

func TestCreateEvent(t *testing.T) {
	f := newEventFixture(t)
	date := time.Now().Add(48 * time.Hour)

	detail := f.create(t, "Go Meetup", repository.CategoryConference, date)

	assert.NotEmpty(t, detail.ID)
	assert.Equal(t, "Go Meetup", detail.Title)
	assert.Equal(t, repository.CategoryConference, detail.Category)
	require.NotNil(t, detail.Organizer)
	assert.Equal(t, "organizer", detail.Organizer.Username)
	assert.Empty(t, detail.Attendees)
	assert.Zero(t, detail.AttendeesCount)
}

func TestCreateEventPastDate(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.svc.Create(context.Background(), f.organizer.ID.Hex(), &CreateEventRequest{
		Title:       "Retro",
		Description: "looking back",
		Date:        time.Now().Add(-time.Hour),
		Location:    "Berlin",
		Category:    repository.CategoryOther,
	})
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestListEvents(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	later := f.create(t, "Go Meetup", repository.CategoryConference, time.Now().Add(72*time.Hour))
	sooner := f.create(t, "Testing Workshop", repository.CategoryWorkshop, time.Now().Add(24*time.Hour))

	details, err := f.svc.List(ctx, &ListEventsQuery{})
	require.NoError(t, err)
	require.Len(t, details, 2)
	// Soonest first.
	assert.Equal(t, sooner.ID, details[0].ID)
	assert.Equal(t, later.ID, details[1].ID)
}

func TestListEventsByCategory(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	f.create(t, "Go Meetup", repository.CategoryConference, time.Now().Add(24*time.Hour))
	workshop := f.create(t, "Testing Workshop", repository.CategoryWorkshop, time.Now().Add(48*time.Hour))

	details, err := f.svc.List(ctx, &ListEventsQuery{Category: repository.CategoryWorkshop})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, workshop.ID, details[0].ID)
}

func TestListEventsBySearch(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	meetup := f.create(t, "Go Meetup", repository.CategoryConference, time.Now().Add(24*time.Hour))
	f.create(t, "Testing Workshop", repository.CategoryWorkshop, time.Now().Add(48*time.Hour))

	details, err := f.svc.List(ctx, &ListEventsQuery{Search: "go mee"})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, meetup.ID, details[0].ID)
}

func TestListEventsByDay(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	target := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(24 * time.Hour).Add(10 * time.Hour)
	onDay := f.create(t, "Go Meetup", repository.CategoryConference, target)
	f.create(t, "Testing Workshop", repository.CategoryWorkshop, target.Add(48*time.Hour))

	details, err := f.svc.List(ctx, &ListEventsQuery{Date: target.Format("2006-01-02")})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, onDay.ID, details[0].ID)
}

func TestListEventsInvalidDate(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.svc.List(context.Background(), &ListEventsQuery{Date: "31-12-2026"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGetEvent(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	created := f.create(t, "Go Meetup", repository.CategoryConference, time.Now().Add(24*time.Hour))

	detail, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)

	_, err = f.svc.Get(ctx, "5f9a0b1c2d3e4f5a6b7c8d9e")
	assert.ErrorIs(t, err, repository.ErrEventNotFound)

	_, err = f.svc.Get(ctx, "not-a-hex-id")
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestRegisterAttendance(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	attendee, err := f.userRepo.Create(ctx, &repository.User{
		Username: "attendee",
		Email:    "attendee@example.com",
	})
	require.NoError(t, err)

	event := f.create(t, "Go Meetup", repository.CategoryConference, time.Now().Add(24*time.Hour))

	detail, err := f.svc.RegisterAttendance(ctx, event.ID, attendee.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, detail.AttendeesCount)
	require.Len(t, detail.Attendees, 1)
	assert.Equal(t, "attendee", detail.Attendees[0].Username)

	_, err = f.svc.RegisterAttendance(ctx, event.ID, attendee.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrAlreadyRegistered)

	_, err = f.svc.RegisterAttendance(ctx, "5f9a0b1c2d3e4f5a6b7c8d9e", attendee.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}
