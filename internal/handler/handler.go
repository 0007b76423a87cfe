package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gyesanghoe/gyesanghoe/internal/session"
)

// SessionCookie carries the opaque session token issued at splash.
const SessionCookie = "gyesanghoe_session"

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// sessionFrom resolves the caller's session from the token cookie.
// Returns nil when the cookie is absent or the token is unknown.
func sessionFrom(r *http.Request, registry *session.Registry) *session.Session {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	return registry.Get(c.Value)
}
