package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/umutak/deskmate/internal/idle"
)

func newSessionRouter(h *SessionHandler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1/session").Subrouter())
	return r
}

func sessionState(t *testing.T, w *httptest.ResponseRecorder) SessionStateResponse {
	t.Helper()
	var env struct {
		Data SessionStateResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return env.Data
}

func TestGetState_StartsLocked(t *testing.T) {
	t.Parallel()

	monitor := idle.NewMonitor(time.Minute)
	defer monitor.Stop()

	router := newSessionRouter(NewSessionHandler(monitor))

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if state := sessionState(t, w); !state.Locked {
		t.Error("Expected session to start locked")
	}
}

func TestUnlock_ExitsLockedState(t *testing.T) {
	t.Parallel()

	monitor := idle.NewMonitor(time.Minute)
	defer monitor.Stop()

	router := newSessionRouter(NewSessionHandler(monitor))

	req := httptest.NewRequest("POST", "/api/v1/session/unlock", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if state := sessionState(t, w); state.Locked {
		t.Error("Expected unlock to report unlocked state")
	}
	if monitor.Locked() {
		t.Error("Expected monitor to be unlocked")
	}
}

func TestUnlock_Idempotent(t *testing.T) {
	t.Parallel()

	monitor := idle.NewMonitor(time.Minute)
	defer monitor.Stop()

	router := newSessionRouter(NewSessionHandler(monitor))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "/api/v1/session/unlock", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("Unlock attempt %d: expected status 200, got %d", i+1, w.Code)
		}
	}

	if monitor.Locked() {
		t.Error("Expected monitor to stay unlocked")
	}
}
