// Package client implements the chat client: an HTTP API wrapper plus
// the session and conversation state that drive a UI. State objects are
// explicit and injected (no package-level singletons); views observe
// them through immutable snapshots.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"

	"chatdesk/internal/domain"
	"chatdesk/internal/domain/models"
)

// API talks to the chatdesk server. The session cookie lives in the
// client's cookie jar, so one API value is one browser-like session.
type API struct {
	baseURL string
	http    *http.Client
}

// NewAPI creates an API client for the given base URL (no trailing slash).
func NewAPI(baseURL string) (*API, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &API{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar},
	}, nil
}

// Register creates an account.
func (a *API) Register(ctx context.Context, username, password, confirm string) error {
	body := map[string]string{
		"username":         username,
		"password":         password,
		"confirm_password": confirm,
	}
	return a.postJSON(ctx, "/api/auth/register", body, nil)
}

// Login authenticates; the session cookie lands in the jar.
func (a *API) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return a.postJSON(ctx, "/api/auth/login", body, nil)
}

// CurrentUser returns the authenticated username. A 401 maps to
// domain.ErrUnauthenticated and a 403 to domain.ErrInvalidToken, so
// callers can tell "never logged in" from "session expired".
func (a *API) CurrentUser(ctx context.Context) (string, error) {
	var out struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := a.getJSON(ctx, "/api/auth/user", &out); err != nil {
		return "", err
	}
	return out.User.Username, nil
}

// Logout clears the server-side cookie. Always safe to call.
func (a *API) Logout(ctx context.Context) error {
	return a.postJSON(ctx, "/api/auth/logout", map[string]string{}, nil)
}

// History fetches the full transcript.
func (a *API) History(ctx context.Context) ([]models.Turn, error) {
	var out struct {
		Messages []models.Turn `json:"messages"`
	}
	if err := a.getJSON(ctx, "/api/chat", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// Send sends a text message and returns the assistant reply.
func (a *API) Send(ctx context.Context, message string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"message": message}
	if err := a.postJSON(ctx, "/api/chat", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// SendFile uploads a file (with optional accompanying message) as
// multipart form data and returns the server confirmation.
func (a *API) SendFile(ctx context.Context, filename, contentType string, data []byte, message string) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	if message != "" {
		if err := form.WriteField("message", message); err != nil {
			return "", fmt.Errorf("write form field: %w", err)
		}
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/chat", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var out struct {
		Message string `json:"message"`
	}
	if err := a.do(req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (a *API) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	return a.do(req, out)
}

func (a *API) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *API) do(req *http.Request, out interface{}) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError maps an error response back to the domain taxonomy where
// the status is unambiguous, keeping the server's detail text.
func apiError(resp *http.Response) error {
	var problem struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&problem)

	detail := problem.Detail
	if detail == "" {
		detail = problem.Title
	}
	if detail == "" {
		detail = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthenticated, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrInvalidToken, detail)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, detail)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %s", domain.ErrPayloadTooLarge, detail)
	case http.StatusUnsupportedMediaType:
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, detail)
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, detail)
	}
}
