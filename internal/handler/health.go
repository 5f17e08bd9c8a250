package handler

import (
	"net/http"

	"chatdesk/internal/httputil"
)

// HealthCheck reports server liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
