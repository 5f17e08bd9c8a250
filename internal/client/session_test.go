package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeServer serves just enough of the API for client state tests.
// When loggedIn is true, /api/auth/user succeeds.
func fakeServer(t *testing.T, loggedIn *bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		*loggedIn = true
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Login successful"}`))
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Registration successful"}`))
	})
	mux.HandleFunc("GET /api/auth/user", func(w http.ResponseWriter, r *http.Request) {
		if !*loggedIn {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"username":"alice"}}`))
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		*loggedIn = false
		w.Write([]byte(`{"message":"Logged out"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSession_LoadUnauthenticated(t *testing.T) {
	loggedIn := false
	server := fakeServer(t, &loggedIn)
	api, err := NewAPI(server.URL)
	require.NoError(t, err)

	session := NewSession(api)
	assert.Equal(t, StateUnknown, session.Snapshot().State)

	session.Load(context.Background())
	snap := session.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Equal(t, RouteLogin, snap.Route())
}

func TestSession_LoginRefetchesUser(t *testing.T) {
	loggedIn := false
	server := fakeServer(t, &loggedIn)
	api, err := NewAPI(server.URL)
	require.NoError(t, err)

	session := NewSession(api)
	session.Login(context.Background(), "alice", "hunter22")

	snap := session.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, "alice", snap.Username)
	assert.Equal(t, RouteChat, snap.Route())
}

func TestSession_SubscribeSeesTransitions(t *testing.T) {
	loggedIn := true
	server := fakeServer(t, &loggedIn)
	api, err := NewAPI(server.URL)
	require.NoError(t, err)

	session := NewSession(api)

	var states []SessionState
	unsubscribe := session.Subscribe(func(snap SessionSnapshot) {
		states = append(states, snap.State)
	})
	defer unsubscribe()

	session.Load(context.Background())
	assert.Equal(t, []SessionState{StateUnknown, StateLoading, StateAuthenticated}, states)
}

func TestSession_LogoutClearsStateEvenOnNetworkFailure(t *testing.T) {
	loggedIn := true
	server := fakeServer(t, &loggedIn)
	api, err := NewAPI(server.URL)
	require.NoError(t, err)

	session := NewSession(api)
	session.Load(context.Background())
	require.Equal(t, StateAuthenticated, session.Snapshot().State)

	// Kill the server so the logout call fails on the wire
	server.Close()
	session.Logout(context.Background())

	snap := session.Snapshot()
	assert.Equal(t, StateUnauthenticated, snap.State)
	assert.Empty(t, snap.Username)
}

func TestSession_RegisterDoesNotAutoLogin(t *testing.T) {
	loggedIn := false
	server := fakeServer(t, &loggedIn)
	api, err := NewAPI(server.URL)
	require.NoError(t, err)

	session := NewSession(api)
	session.Register(context.Background(), "alice", "hunter22", "hunter22")

	assert.Equal(t, StateUnauthenticated, session.Snapshot().State)
}
