package client

import (
	"context"
	"errors"
	"sync"

	"github.com/eventhub/eventhub/client/store"
)

// State is the session lifecycle state.
type State int

const (
	// StateInitializing means the session has not yet checked the store.
	StateInitializing State = iota
	// StateResolving means a persisted token is being verified against
	// the server.
	StateResolving
	// StateAuthenticated means the session holds a verified identity.
	StateAuthenticated
	// StateAnonymous means no identity is held.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// SessionExpiredMessage is the error surfaced when a held token stops
// being accepted by the server.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// ErrLoginInFlight is returned when Login is called while another login
// is still running. Two interleaved logins could persist two different
// tokens, so the second attempt is suppressed instead of raced.
var ErrLoginInFlight = errors.New("login already in progress")

// Session holds the current identity and drives the token lifecycle.
//
// On construction it restores the persisted token (if any) and verifies
// it against the server in the background; callers observe Initializing
// or Resolving until that completes. Logout is purely local: the server
// keeps honoring an issued token until it expires on its own, so a
// leaked token outlives the logout that discarded it.
type Session struct {
	client *Client
	store  store.Repository

	mu        sync.Mutex
	state     State
	user      *User
	lastErr   string
	loggingIn bool
	closed    bool

	cancel  context.CancelFunc
	updates chan struct{}
}

// NewSession creates a session bound to the given client and store and
// starts the background identity check.
func NewSession(c *Client, st store.Repository) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		client:  c,
		store:   st,
		state:   StateInitializing,
		cancel:  cancel,
		updates: make(chan struct{}, 1),
	}
	go s.restore(ctx)
	return s
}

// Close stops the background check. A check completing after Close is
// discarded rather than applied to the closed session.
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the held identity, or nil when not authenticated.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Err returns the last session error message, empty when none. It is
// set when a restore fails or the server stops accepting the token, and
// cleared by a successful login or a logout.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Updates signals state transitions. The channel carries at most one
// pending notification; consumers re-read State after each receive.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// restore loads the persisted token and resolves it to an identity.
func (s *Session) restore(ctx context.Context) {
	token, err := s.store.Get(ctx, store.TokenKey)
	if err != nil || len(token) == 0 {
		s.apply(StateAnonymous, nil, "")
		return
	}

	s.apply(StateResolving, nil, "")
	s.client.SetToken(string(token))

	user, err := s.client.Me(ctx)
	if err != nil {
		// Expired, invalid or unreachable: drop the token so the
		// stored-token/identity invariant holds.
		_ = s.store.Delete(context.WithoutCancel(ctx), store.TokenKey)
		s.client.ClearToken()
		s.apply(StateAnonymous, nil, SessionExpiredMessage)
		return
	}

	s.apply(StateAuthenticated, user, "")
}

// apply commits a state transition unless the session has been closed.
func (s *Session) apply(state State, user *User, errMsg string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.state = state
	s.user = user
	s.lastErr = errMsg
	s.mu.Unlock()
	s.notify()
}

// Login authenticates, persists the issued token, and transitions to
// Authenticated. Only one login may run at a time; concurrent calls get
// ErrLoginInFlight.
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	s.mu.Lock()
	if s.loggingIn {
		s.mu.Unlock()
		return nil, ErrLoginInFlight
	}
	s.loggingIn = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loggingIn = false
		s.mu.Unlock()
	}()

	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.store.Set(ctx, store.TokenKey, []byte(result.Token)); err != nil {
		return nil, err
	}
	s.client.SetToken(result.Token)
	s.apply(StateAuthenticated, result.User, "")
	return result.User, nil
}

// Logout drops the identity and the persisted token. It is local and
// synchronous: no network call, no server-side invalidation.
func (s *Session) Logout() {
	_ = s.store.Delete(context.Background(), store.TokenKey)
	s.client.ClearToken()
	s.apply(StateAnonymous, nil, "")
}

// observe watches errors from authenticated calls. A 401 means the
// whole session is stale, not just the one request: the session flips
// to Anonymous and records the expiry message for global display.
func (s *Session) observe(err error) {
	if err == nil || !IsUnauthorized(err) {
		return
	}

	s.mu.Lock()
	stale := s.state == StateAuthenticated && !s.closed
	s.mu.Unlock()
	if !stale {
		return
	}

	_ = s.store.Delete(context.Background(), store.TokenKey)
	s.client.ClearToken()
	s.apply(StateAnonymous, nil, SessionExpiredMessage)
}

// Me resolves the current identity against the server.
func (s *Session) Me(ctx context.Context) (*User, error) {
	user, err := s.client.Me(ctx)
	s.observe(err)
	return user, err
}

// CreateEvent creates an event on behalf of the session's identity.
func (s *Session) CreateEvent(ctx context.Context, req *CreateEventRequest) (*Event, error) {
	event, err := s.client.CreateEvent(ctx, req)
	s.observe(err)
	return event, err
}

// RegisterForEvent registers the session's identity for an event.
func (s *Session) RegisterForEvent(ctx context.Context, id string) (*Event, error) {
	event, err := s.client.RegisterForEvent(ctx, id)
	s.observe(err)
	return event, err
}
