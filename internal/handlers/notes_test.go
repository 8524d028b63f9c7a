package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/umutak/deskmate/internal/models"
)

func newNoteRouter(repo *fakeNoteRepo) *mux.Router {
	r := mux.NewRouter()
	NewNoteHandler(repo).RegisterRoutes(r.PathPrefix("/api/v1/notes").Subrouter())
	return r
}

func TestCreateNote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid note",
			body:       `{"content":"buy milk"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing content",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "whitespace only content",
			body:       `{"content":"   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid JSON",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := &fakeNoteRepo{}
			router := newNoteRouter(repo)

			req := httptest.NewRequest("POST", "/api/v1/notes", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus == http.StatusCreated && len(repo.notes) != 1 {
				t.Errorf("Expected 1 stored note, got %d", len(repo.notes))
			}
		})
	}
}

func TestListNotes(t *testing.T) {
	t.Parallel()

	repo := &fakeNoteRepo{notes: []*models.Note{
		{ID: uuid.New(), Content: "first", CreatedAt: time.Now()},
		{ID: uuid.New(), Content: "second", CreatedAt: time.Now()},
	}}
	router := newNoteRouter(repo)

	req := httptest.NewRequest("GET", "/api/v1/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var env struct {
		Data []*models.Note `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(env.Data) != 2 {
		t.Errorf("Expected 2 notes, got %d", len(env.Data))
	}
}

func TestUpdateNote(t *testing.T) {
	t.Parallel()

	note := &models.Note{ID: uuid.New(), Content: "old", CreatedAt: time.Now()}
	repo := &fakeNoteRepo{notes: []*models.Note{note}}
	router := newNoteRouter(repo)

	req := httptest.NewRequest("PUT", "/api/v1/notes/"+note.ID.String(), strings.NewReader(`{"content":"new"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.notes[0].Content != "new" {
		t.Errorf("Expected content to be updated, got %q", repo.notes[0].Content)
	}
}

func TestDeleteNote(t *testing.T) {
	t.Parallel()

	note := &models.Note{ID: uuid.New(), Content: "bye", CreatedAt: time.Now()}
	repo := &fakeNoteRepo{notes: []*models.Note{note}}
	router := newNoteRouter(repo)

	req := httptest.NewRequest("DELETE", "/api/v1/notes/"+note.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, got %d", w.Code)
	}
	if len(repo.notes) != 0 {
		t.Errorf("Expected note to be deleted, %d remain", len(repo.notes))
	}

	// Unknown ID maps to 404
	req = httptest.NewRequest("DELETE", "/api/v1/notes/"+uuid.NewString(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown note, got %d", w.Code)
	}
}
