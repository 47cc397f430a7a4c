package client

// Decision is the outcome of gating a protected view on session state.
type Decision int

const (
	// DecisionWait means identity resolution is still running; show a
	// loading placeholder. Rendering a login prompt here would flash it
	// at returning users whose token is about to resolve.
	DecisionWait Decision = iota
	// DecisionAllow means the protected content may render.
	DecisionAllow
	// DecisionRedirect means the caller should route to the login view.
	DecisionRedirect
)

// Guard maps a session state to a routing decision. It is a pure
// function of the state: callers must re-evaluate it on every session
// change and never cache the result.
func Guard(state State) Decision {
	switch state {
	case StateInitializing, StateResolving:
		return DecisionWait
	case StateAuthenticated:
		return DecisionAllow
	default:
		return DecisionRedirect
	}
}

// Guard evaluates the route guard against the session's current state.
func (s *Session) Guard() Decision {
	return Guard(s.State())
}
