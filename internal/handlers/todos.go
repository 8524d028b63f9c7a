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

// MaxTodoContentLength is the maximum length for todo content
const MaxTodoContentLength = 10000

// TodoHandler handles todo-related requests
type TodoHandler struct {
	todoRepo database.TodoRepositoryInterface
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todoRepo database.TodoRepositoryInterface) *TodoHandler {
	return &TodoHandler{todoRepo: todoRepo}
}

// RegisterRoutes registers todo routes on the given router.
// The router should already have the /todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteTodo).Methods("POST")
}

// CreateTodoRequest represents a create todo request. DueAt is optional; a
// todo without one never raises a notification popup.
type CreateTodoRequest struct {
	Content string `json:"content" validate:"required,min=1,max=10000"`
	DueAt   string `json:"due_at,omitempty" validate:"omitempty,rfc3339"`
}

// UpdateTodoRequest represents an update todo request
type UpdateTodoRequest struct {
	Content   *string `json:"content,omitempty"`
	DueAt     *string `json:"due_at,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ListTodos lists all todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.todoRepo.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve todos")
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req CreateTodoRequest
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

	var dueAt *time.Time
	if req.DueAt != "" {
		t, err := validation.ParseTimestamp(req.DueAt)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		dueAt = &t
	}

	todo := &models.Todo{
		ID:        uuid.New(),
		Content:   req.Content,
		DueAt:     dueAt,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.todoRepo.Create(r.Context(), todo); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create todo")
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// UpdateTodo updates an existing todo. Fields left out of the request keep
// their current value; sending "due_at": "" clears the due time.
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	ctx := r.Context()
	todo, err := h.todoRepo.GetByID(ctx, id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}

	var req UpdateTodoRequest
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
		if len(sanitized) > MaxTodoContentLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Content exceeds maximum length of %d characters", MaxTodoContentLength))
			return
		}
		todo.Content = sanitized
	}
	if req.DueAt != nil {
		if *req.DueAt == "" {
			todo.DueAt = nil
		} else {
			t, err := validation.ParseTimestamp(*req.DueAt)
			if err != nil {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
				return
			}
			todo.DueAt = &t
		}
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	if err := h.todoRepo.Update(ctx, todo); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update todo")
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	if err := h.todoRepo.Delete(r.Context(), id); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTodo marks a todo as completed
func (h *TodoHandler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return
	}

	if err := h.todoRepo.SetCompleted(r.Context(), id, true); err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Todo not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"id": id, "completed": true})
}
