package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
)

// In-memory repositories mirroring the MongoDB implementations' contract,
// sentinel errors included.

type fakeUserRepo struct {
	mu    sync.Mutex
	users []*repository.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) Create(_ context.Context, user *repository.User) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, repository.ErrEmailExists
		}
		if u.Username == user.Username {
			return nil, repository.ErrUsernameExists
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users = append(r.users, user)
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == objectID {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var users []*repository.User
	for _, u := range r.users {
		if wanted[u.ID] {
			users = append(users, u)
		}
	}
	return users, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []*repository.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (r *fakeEventRepo) Create(_ context.Context, event *repository.Event) (*repository.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	if event.Attendees == nil {
		event.Attendees = []primitive.ObjectID{}
	}
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id string) (*repository.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID == objectID {
			return e, nil
		}
	}
	return nil, repository.ErrEventNotFound
}

func (r *fakeEventRepo) List(_ context.Context, filter repository.EventFilter) ([]*repository.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []*repository.Event
	for _, e := range r.events {
		if filter.Day != nil {
			day := filter.Day.Truncate(24 * time.Hour)
			if e.Date.Before(day) || !e.Date.Before(day.Add(24*time.Hour)) {
				continue
			}
		} else if e.Date.Before(time.Now()) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.Search)) {
			continue
		}
		events = append(events, e)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func (r *fakeEventRepo) AddAttendee(_ context.Context, eventID string, userID primitive.ObjectID) (*repository.Event, error) {
	objectID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, repository.ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.ID != objectID {
			continue
		}
		for _, a := range e.Attendees {
			if a == userID {
				return nil, repository.ErrAlreadyRegistered
			}
		}
		e.Attendees = append(e.Attendees, userID)
		return e, nil
	}
	return nil, repository.ErrEventNotFound
}

func testLogger() *logger.Logger {
	return logger.StdLogger()
}
