package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatdesk/internal/config"
	"chatdesk/internal/llm/scripted"
	"chatdesk/internal/middleware"
	"chatdesk/internal/prompts"
	"chatdesk/internal/repository/memory"
	authsvc "chatdesk/internal/service/auth"
	chatsvc "chatdesk/internal/service/chat"
)

// newTestServer wires the full HTTP stack on in-memory stores and a
// scripted provider, mirroring cmd/server.
func newTestServer(t *testing.T) (*httptest.Server, *scripted.Provider) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	provider := scripted.NewProvider("canned reply")

	tokens, err := authsvc.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	registry, err := prompts.NewRegistry()
	require.NoError(t, err)

	authService := authsvc.NewService(store, tokens, logger)
	chatService := chatsvc.NewService(store, store, provider, registry, "test-model", time.Second, logger)

	authHandler := NewAuthHandler(authService, config.SessionTTL, false, logger)
	chatHandler := NewChatHandler(chatService, logger)
	authMw := middleware.NewAuth(authService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", HealthCheck)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("GET /api/auth/user", authMw.RequireAuth(http.HandlerFunc(authHandler.CurrentUser)))
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/chat", authMw.RequireAuth(http.HandlerFunc(chatHandler.History)))
	mux.Handle("POST /api/chat", authMw.RequireAuth(http.HandlerFunc(chatHandler.Send)))

	server := httptest.NewServer(middleware.Recovery(logger)(mux))
	t.Cleanup(server.Close)
	return server, provider
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func registerAndLogin(t *testing.T, client *http.Client, baseURL, username string) {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/auth/register", map[string]string{
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, client, baseURL+"/api/auth/login", map[string]string{
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/api/auth/register", map[string]string{
		"username": "alice",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same username again conflicts
	resp = postJSON(t, client, server.URL+"/api/auth/register", map[string]string{
		"username": "alice",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Missing fields fail validation
	resp = postJSON(t, client, server.URL+"/api/auth/register", map[string]string{
		"username": "",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPasswordSetsNoCookie(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)

	resp := postJSON(t, client, server.URL+"/api/auth/register", map[string]string{
		"username": "alice",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "failed login must not set a session cookie")
}

func TestLogin_SetsHTTPOnlyCookie(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	resp := postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"username": "alice",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.NotEmpty(t, session.Value)
}

func TestCurrentUser_MissingVsInvalidToken(t *testing.T) {
	server, _ := newTestServer(t)

	// No cookie at all: 401
	resp, err := http.Get(server.URL + "/api/auth/user")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Tampered cookie: 403
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/auth/user", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "bogus"})
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

func TestCurrentUser_Authenticated(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	resp, err := client.Get(server.URL + "/api/auth/user")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "alice", out.User.Username)
}

func TestLogout_ClearsCookieWithoutSession(t *testing.T) {
	server, _ := newTestServer(t)

	// Works with no session at all
	resp, err := http.Post(server.URL+"/api/auth/logout", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var cleared *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestChat_SendAndHistory(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	resp := postJSON(t, client, server.URL+"/api/chat", map[string]string{
		"message": "hi",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sendOut struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sendOut))
	assert.Equal(t, "canned reply", sendOut.Message)

	histResp, err := client.Get(server.URL + "/api/chat")
	require.NoError(t, err)
	defer histResp.Body.Close()
	require.Equal(t, http.StatusOK, histResp.StatusCode)

	var histOut struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.NewDecoder(histResp.Body).Decode(&histOut))
	require.Len(t, histOut.Messages, 2)
	assert.Equal(t, "user", histOut.Messages[0].Role)
	assert.Equal(t, "hi", histOut.Messages[0].Content)
	assert.Equal(t, "assistant", histOut.Messages[1].Role)
}

func TestChat_RequiresAuth(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/chat")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChat_EmptySend(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	resp := postJSON(t, client, server.URL+"/api/chat", map[string]string{
		"message": "   ",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {contentType},
	})
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, form.Close())
	return &buf, form.FormDataContentType()
}

func TestChat_UploadTextFile(t *testing.T) {
	server, provider := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	body, contentType := multipartUpload(t, "faq.txt", "text/plain", []byte("refunds: 30 days"))
	resp, err := client.Post(server.URL+"/api/chat", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Message, "faq.txt")
	assert.Empty(t, provider.Requests(), "upload must not call the provider")
}

func TestChat_UploadUnsupportedType(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	body, contentType := multipartUpload(t, "photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	resp, err := client.Post(server.URL+"/api/chat", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestChat_UploadTooLarge(t *testing.T) {
	server, _ := newTestServer(t)
	client := newClient(t)
	registerAndLogin(t, client, server.URL, "alice")

	big := bytes.Repeat([]byte("a"), config.MaxUploadBytes+1)
	body, contentType := multipartUpload(t, "big.txt", "text/plain", big)
	resp, err := client.Post(server.URL+"/api/chat", contentType, body)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}
