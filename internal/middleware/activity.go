package middleware

import (
	"net/http"

	"github.com/umutak/deskmate/internal/idle"
)

// ActivityTracking feeds API requests into the idle monitor as activity
// signals: every request through this middleware counts as the user being
// present, resetting the screen-lock timer. The session endpoints are
// registered outside this middleware so that lock-state polling and the
// unlock action do not count as activity.
func ActivityTracking(monitor *idle.Monitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			monitor.Touch()
			next.ServeHTTP(w, r)
		})
	}
}
