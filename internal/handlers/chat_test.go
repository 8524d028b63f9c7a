package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/umutak/deskmate/internal/services/ai"
)

type fakeAIProvider struct {
	response *ai.ChatResponse
	err      error
	gotMsgs  []ai.ChatMessage
}

func (f *fakeAIProvider) Chat(ctx context.Context, messages []ai.ChatMessage) (*ai.ChatResponse, error) {
	f.gotMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newChatRouter(provider ai.AIProvider) *mux.Router {
	r := mux.NewRouter()
	NewChatHandler(provider, zap.NewNop()).RegisterRoutes(r.PathPrefix("/api/v1/chat").Subrouter())
	return r
}

func chatMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Data ai.ChatResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return env.Data.Message
}

func TestSendMessage_ForwardsToProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeAIProvider{response: &ai.ChatResponse{Message: "hello there"}}
	router := newChatRouter(provider)

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := chatMessage(t, w); got != "hello there" {
		t.Errorf("Expected provider message, got %q", got)
	}
	if len(provider.gotMsgs) != 1 || provider.gotMsgs[0].Content != "hi" {
		t.Errorf("Expected conversation to reach provider, got %+v", provider.gotMsgs)
	}
}

func TestSendMessage_NoProviderConfigured(t *testing.T) {
	t.Parallel()

	router := newChatRouter(nil)

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := chatMessage(t, w); got != UnavailableChatMessage {
		t.Errorf("Expected canned unavailable message, got %q", got)
	}
}

func TestSendMessage_EmptyConversation(t *testing.T) {
	t.Parallel()

	router := newChatRouter(&fakeAIProvider{response: &ai.ChatResponse{Message: "x"}})

	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(`{"messages":[]}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
}

func TestSendMessage_RateLimited(t *testing.T) {
	t.Parallel()

	provider := &fakeAIProvider{err: &ai.APIError{StatusCode: 429, Type: "rate_limit_error"}}
	router := newChatRouter(provider)

	body := `{"messages":[{"role":"user","content":"hi"}]}`
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected status 503, got %d", w.Code)
	}
}
