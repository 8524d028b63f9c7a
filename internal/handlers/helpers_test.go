package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON_Envelope(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, 200, map[string]string{"key": "value"})

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["success"] != true {
		t.Error("Expected success to be true")
	}
	if body["timestamp"] == "" {
		t.Error("Expected timestamp to be set")
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["key"] != "value" {
		t.Errorf("Unexpected data payload: %v", body["data"])
	}
}

func TestSanitizeErrorMessage_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 500)
	got := sanitizeErrorMessage(long)
	if len(got) != 203 {
		t.Errorf("Expected truncation to 200 chars plus ellipsis, got length %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected truncated message to end with ellipsis")
	}

	short := "plain error"
	if got := sanitizeErrorMessage(short); got != short {
		t.Errorf("Expected short message unchanged, got %q", got)
	}
}
