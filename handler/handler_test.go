package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
	securityjwt "github.com/eventhub/eventhub/security/jwt"
	"github.com/eventhub/eventhub/service"
)

// memUserRepo and memEventRepo are in-memory stand-ins honoring the
// repository sentinel errors, so the full handler stack runs without a
// database.

type memUserRepo struct {
	mu    sync.Mutex
	users []*repository.User
}

func (r *memUserRepo) Create(_ context.Context, user *repository.User) (*repository.User, error) {
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

func (r *memUserRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
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

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*repository.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*repository.User, error) {
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

type memEventRepo struct {
	mu     sync.Mutex
	events []*repository.Event
}

func (r *memEventRepo) Create(_ context.Context, event *repository.Event) (*repository.Event, error) {
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

func (r *memEventRepo) FindByID(_ context.Context, id string) (*repository.Event, error) {
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

func (r *memEventRepo) List(_ context.Context, filter repository.EventFilter) ([]*repository.Event, error) {
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

func (r *memEventRepo) AddAttendee(_ context.Context, eventID string, userID primitive.ObjectID) (*repository.Event, error) {
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

type testAPI struct {
	router       *gin.Engine
	tokenManager *securityjwt.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.StdLogger()
	tm := securityjwt.NewTokenManager("test-signing-key", time.Hour)

	userRepo := &memUserRepo{}
	eventRepo := &memEventRepo{}

	svc := &service.Service{
		Auth:  service.NewAuthService(userRepo, tm, log),
		Event: service.NewEventService(eventRepo, userRepo, log),
	}

	r := gin.New()
	NewHandler(svc, log).RegisterRoutes(r, tm, log)

	return &testAPI{router: r, tokenManager: tm}
}

// do issues a request against the in-process router. A non-empty token
// is carried as a bearer header.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) register(t *testing.T, username, email, password string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, w, &body)
	return body.Error
}
