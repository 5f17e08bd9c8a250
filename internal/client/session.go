package client

import (
	"context"
	"sync"
)

// SessionState is the authentication state driving route access.
type SessionState int

const (
	// StateUnknown is the initial state before the first Load.
	StateUnknown SessionState = iota
	// StateLoading means a current-user fetch is in flight.
	StateLoading
	// StateAuthenticated means the server confirmed the session.
	StateAuthenticated
	// StateUnauthenticated means there is no valid session.
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Route names the view a state maps to.
type Route string

const (
	RouteLogin Route = "login"
	RouteChat  Route = "chat"
)

// SessionSnapshot is an immutable view of the session state. Mutation
// methods publish a fresh snapshot to subscribers; views never see
// intermediate state.
type SessionSnapshot struct {
	State    SessionState
	Username string
	Err      string
}

// Route returns the view this state may show: only an authenticated
// session sees the chat view, everything else lands on login. The
// login view in turn redirects an authenticated session to chat.
func (s SessionSnapshot) Route() Route {
	if s.State == StateAuthenticated {
		return RouteChat
	}
	return RouteLogin
}

// Session tracks authentication state. Inject one per UI; there is no
// package-level instance.
type Session struct {
	mu   sync.Mutex
	api  *API
	snap SessionSnapshot
	subs map[int]func(SessionSnapshot)
	next int
}

// NewSession creates a session in StateUnknown.
func NewSession(api *API) *Session {
	return &Session{
		api:  api,
		snap: SessionSnapshot{State: StateUnknown},
		subs: make(map[int]func(SessionSnapshot)),
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registers fn to receive every new snapshot. It is called
// immediately with the current one. Returns an unsubscribe func.
func (s *Session) Subscribe(fn func(SessionSnapshot)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	snap := s.snap
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Load resolves the session against the server: Loading, then
// Authenticated or Unauthenticated.
func (s *Session) Load(ctx context.Context) {
	s.publish(SessionSnapshot{State: StateLoading})

	username, err := s.api.CurrentUser(ctx)
	if err != nil {
		s.publish(SessionSnapshot{State: StateUnauthenticated})
		return
	}
	s.publish(SessionSnapshot{State: StateAuthenticated, Username: username})
}

// Login authenticates and re-fetches the current user, mirroring the
// login -> fetch-user flow rather than trusting the login response.
func (s *Session) Login(ctx context.Context, username, password string) {
	if err := s.api.Login(ctx, username, password); err != nil {
		s.publish(SessionSnapshot{State: StateUnauthenticated, Err: err.Error()})
		return
	}
	s.Load(ctx)
}

// Register creates an account. No auto-login: on success the state
// stays Unauthenticated and the user logs in explicitly.
func (s *Session) Register(ctx context.Context, username, password, confirm string) {
	if err := s.api.Register(ctx, username, password, confirm); err != nil {
		s.publish(SessionSnapshot{State: StateUnauthenticated, Err: err.Error()})
		return
	}
	s.publish(SessionSnapshot{State: StateUnauthenticated})
}

// Logout tells the server to clear the cookie. Local state always
// becomes Unauthenticated, even when the network call fails.
func (s *Session) Logout(ctx context.Context) {
	defer s.publish(SessionSnapshot{State: StateUnauthenticated})
	_ = s.api.Logout(ctx)
}

func (s *Session) publish(snap SessionSnapshot) {
	s.mu.Lock()
	s.snap = snap
	subs := make([]func(SessionSnapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
