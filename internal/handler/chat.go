package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"chatdesk/internal/config"
	"chatdesk/internal/domain/services"
	"chatdesk/internal/httputil"
)

// ChatHandler handles chat HTTP requests.
type ChatHandler struct {
	chatService services.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// History returns the user's full transcript
// GET /api/chat
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	username := httputil.GetUsername(r)

	turns, err := h.chatService.History(r.Context(), username)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": turns,
	})
}

// Send handles one chat send: a text message, an uploaded file, or
// both. Accepts multipart form data (message + file) as well as a
// plain JSON body for text-only sends.
// POST /api/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseSendRequest(w, r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = httputil.GetUsername(r)

	reply, err := h.chatService.SendTurn(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"message": reply,
	})
}

func (h *ChatHandler) parseSendRequest(w http.ResponseWriter, r *http.Request) (*services.SendTurnRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var body struct {
			Message string `json:"message"`
		}
		if err := httputil.ParseJSON(w, r, &body); err != nil {
			return nil, err
		}
		return &services.SendTurnRequest{Content: body.Message}, nil
	}

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return nil, err
	}

	req := &services.SendTurnRequest{
		Content: r.FormValue("message"),
	}

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	upload := &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}

	// Oversized files are rejected by the service on Size alone;
	// don't buffer their bytes here.
	if header.Size <= config.MaxUploadBytes {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		upload.Data = data
	}

	req.File = upload
	return req, nil
}
