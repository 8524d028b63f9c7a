package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/umutak/deskmate/internal/database"
	"github.com/umutak/deskmate/internal/models"
	"github.com/umutak/deskmate/internal/validation"
)

// MaxReminderContentLength is the maximum length for reminder content
const MaxReminderContentLength = 10000

// ReminderHandler handles reminder-related requests
type ReminderHandler struct {
	reminderRepo database.ReminderRepositoryInterface
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminderRepo database.ReminderRepositoryInterface) *ReminderHandler {
	return &ReminderHandler{reminderRepo: reminderRepo}
}

// RegisterRoutes registers reminder routes on the given router.
// The router should already have the /reminders prefix.
func (h *ReminderHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListReminders).Methods("GET")
	r.HandleFunc("", h.CreateReminder).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateReminder).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteReminder).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteReminder).Methods("POST")
}

// CreateReminderRequest represents a create reminder request. RemindAt is the
// target time of the event itself, not the popup time.
type CreateReminderRequest struct {
	Content  string `json:"content" validate:"required,min=1,max=10000"`
	RemindAt string `json:"remind_at" validate:"required,rfc3339"`
}

// UpdateReminderRequest represents an update reminder request
type UpdateReminderRequest struct {
	Content   *string `json:"content,omitempty"`
	RemindAt  *string `json:"remind_at,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ListReminders lists all reminders
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve reminders")
		return
	}

	respondJSON(w, http.StatusOK, reminders)
}

// CreateReminder creates a new reminder
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Content = validation.SanitizeText(req.Content)
	if req.Content == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Content is required and cannot be empty after sanitization")
		return
	}

	remindAt, err := validation.ParseTimestamp(req.RemindAt)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	reminder := &models.Reminder{
		ID:        uuid.New(),
		Content:   req.Content,
		RemindAt:  remindAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.reminderRepo.Create(r.Context(), reminder); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create reminder")
		return
	}

	respondJSON(w, http.StatusCreated, reminder)
}

// UpdateReminder updates an existing reminder
func (h *ReminderHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid reminder ID")
		return
	}

	ctx := r.Context()
	reminder, err := h.reminderRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Reminder not found")
		return
	}

	var req UpdateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if req.Content != nil {
		sanitized := validation.SanitizeText(*req.Content)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Content cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxReminderContentLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Content exceeds maximum length of %d characters", MaxReminderContentLength))
			return
		}
		reminder.Content = sanitized
	}
	if req.RemindAt != nil {
		t, err := validation.ParseTimestamp(*req.RemindAt)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		reminder.RemindAt = t
	}
	if req.Completed != nil {
		reminder.Completed = *req.Completed
	}

	if err := h.reminderRepo.Update(ctx, reminder); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update reminder")
		return
	}

	respondJSON(w, http.StatusOK, reminder)
}

// CompleteReminder marks a reminder as completed
func (h *ReminderHandler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid reminder ID")
		return
	}

	if err := h.reminderRepo.SetCompleted(r.Context(), id, true); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Reminder not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "completed": true})
}

// DeleteReminder deletes a reminder
func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid reminder ID")
		return
	}

	if err := h.reminderRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Reminder not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
