// Package client is the Go SDK for the eventhub API. Client is the plain
// HTTP transport; Session layers the identity lifecycle on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 API error.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// User is the public view of a user record.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserRef is a resolved organizer/attendee reference.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Event is an event with organizer and attendee names resolved.
type Event struct {
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

// CreateEventRequest is the payload for event creation.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
}

// EventQuery narrows the public event listing.
type EventQuery struct {
	Category string
	Date     string
	Search   string
}

// LoginResult carries the issued token and the identity it represents.
type LoginResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Client is the HTTP API client. When it holds a token, every request
// carries it as `Authorization: Bearer <token>`. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken drops the held token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently held token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates a new account. It does not log in; call Login after.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/api/users", body, nil)
}

// Login authenticates and returns the issued token with the user summary.
// It does not mutate the client's held token; Session owns that.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/users/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me resolves the held token to the current user record.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListEvents returns upcoming events matching the query.
func (c *Client) ListEvents(ctx context.Context, q EventQuery) ([]*Event, error) {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Date != "" {
		values.Set("date", q.Date)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}

	path := "/api/events"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var events []*Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetEvent returns a single event.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodGet, "/api/events/"+id, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// CreateEvent creates an event organized by the authenticated user.
func (c *Client) CreateEvent(ctx context.Context, req *CreateEventRequest) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodPost, "/api/events", req, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// RegisterForEvent adds the authenticated user to an event's attendees.
func (c *Client) RegisterForEvent(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := c.do(ctx, http.MethodPost, "/api/events/"+id+"/register", nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// do performs a request and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return decodeError(res)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response into an *APIError.
func decodeError(res *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(res.Body).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(res.StatusCode)
	}
	return &APIError{
		StatusCode: res.StatusCode,
		Message:    body.Error,
	}
}
