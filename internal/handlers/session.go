package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/umutak/deskmate/internal/idle"
)

// SessionHandler exposes the idle screen-lock state. Its routes are mounted
// outside the activity-tracking middleware: polling the lock state or
// unlocking must not itself count as activity.
type SessionHandler struct {
	monitor *idle.Monitor
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(monitor *idle.Monitor) *SessionHandler {
	return &SessionHandler{monitor: monitor}
}

// RegisterRoutes registers session routes on the given router.
// The router should already have the /session prefix.
func (h *SessionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetState).Methods("GET")
	r.HandleFunc("/unlock", h.Unlock).Methods("POST")
}

// SessionStateResponse reports whether the screen lock is engaged
type SessionStateResponse struct {
	Locked bool `json:"locked"`
}

// GetState reports the current lock state
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, SessionStateResponse{Locked: h.monitor.Locked()})
}

// Unlock is the single deliberate action that exits the locked state. It also
// re-arms the idle timer from zero. Unlocking an already unlocked session is
// a no-op beyond the timer reset.
func (h *SessionHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	h.monitor.Unlock()
	respondJSON(w, http.StatusOK, SessionStateResponse{Locked: h.monitor.Locked()})
}
