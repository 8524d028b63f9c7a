package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/umutak/deskmate/internal/database"
	"github.com/umutak/deskmate/internal/notify"
)

// NotificationHandler exposes the notification popup slots and their
// acknowledgment endpoints.
type NotificationHandler struct {
	reminderEval *notify.Evaluator
	todoEval     *notify.Evaluator
	reminderRepo database.ReminderRepositoryInterface
	todoRepo     database.TodoRepositoryInterface
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(reminderEval, todoEval *notify.Evaluator, reminderRepo database.ReminderRepositoryInterface, todoRepo database.TodoRepositoryInterface) *NotificationHandler {
	return &NotificationHandler{
		reminderEval: reminderEval,
		todoEval:     todoEval,
		reminderRepo: reminderRepo,
		todoRepo:     todoRepo,
	}
}

// RegisterRoutes registers notification routes on the given router.
// The router should already have the /notifications prefix.
func (h *NotificationHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetActive).Methods("GET")
	r.HandleFunc("/reminders/acknowledge", h.AcknowledgeReminder).Methods("POST")
	r.HandleFunc("/todos/acknowledge", h.AcknowledgeTodo).Methods("POST")
}

// PopupResponse is one category's active popup, or null when the slot is empty
type PopupResponse struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`
	DueAt   string    `json:"due_at,omitempty"`
}

// ActiveNotificationsResponse reports both popup slots
type ActiveNotificationsResponse struct {
	Reminder *PopupResponse `json:"reminder"`
	Todo     *PopupResponse `json:"todo"`
}

func popupResponse(rec *notify.Record) *PopupResponse {
	if rec == nil {
		return nil
	}
	resp := &PopupResponse{
		ID:      rec.ID,
		Content: rec.Content,
	}
	if rec.DueAt != nil {
		resp.DueAt = rec.DueAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// GetActive reports the currently active popup for each category. The
// frontend polls this and renders at most one popup per category.
func (h *NotificationHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ActiveNotificationsResponse{
		Reminder: popupResponse(h.reminderEval.Active()),
		Todo:     popupResponse(h.todoEval.Active()),
	})
}

// AcknowledgeReminder completes the active reminder popup. The completion is
// persisted before the slot clears; a failed write keeps the popup active.
// Acknowledging an empty slot is a no-op.
func (h *NotificationHandler) AcknowledgeReminder(w http.ResponseWriter, r *http.Request) {
	err := h.reminderEval.Acknowledge(r.Context(), func(ctx context.Context, id uuid.UUID) error {
		return h.reminderRepo.SetCompleted(ctx, id, true)
	})
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to complete reminder")
		return
	}

	respondJSON(w, http.StatusOK, ActiveNotificationsResponse{
		Reminder: popupResponse(h.reminderEval.Active()),
		Todo:     popupResponse(h.todoEval.Active()),
	})
}

// AcknowledgeTodo completes the active todo popup with the same semantics as
// AcknowledgeReminder.
func (h *NotificationHandler) AcknowledgeTodo(w http.ResponseWriter, r *http.Request) {
	err := h.todoEval.Acknowledge(r.Context(), func(ctx context.Context, id uuid.UUID) error {
		return h.todoRepo.SetCompleted(ctx, id, true)
	})
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to complete todo")
		return
	}

	respondJSON(w, http.StatusOK, ActiveNotificationsResponse{
		Reminder: popupResponse(h.reminderEval.Active()),
		Todo:     popupResponse(h.todoEval.Active()),
	})
}
