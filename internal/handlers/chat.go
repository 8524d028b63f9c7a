package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/umutak/deskmate/internal/services/ai"
)

// UnavailableChatMessage is returned when no AI provider is configured.
const UnavailableChatMessage = "The assistant is not available right now. Set an OpenAI API key to enable chat."

// MaxChatMessages caps the conversation length accepted in one request
const MaxChatMessages = 50

// ChatHandler handles AI chat requests
type ChatHandler struct {
	provider ai.AIProvider
	logger   *zap.Logger
}

// NewChatHandler creates a new chat handler. provider may be nil when chat is
// not configured; requests then get a canned unavailable response.
func NewChatHandler(provider ai.AIProvider, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{provider: provider, logger: logger}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.SendMessage).Methods("POST")
}

// ChatRequest represents a chat request carrying the conversation so far
type ChatRequest struct {
	Messages []ai.ChatMessage `json:"messages"`
}

// SendMessage forwards the conversation to the AI provider
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if len(req.Messages) == 0 {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "At least one message is required")
		return
	}
	if len(req.Messages) > MaxChatMessages {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Too many messages in conversation")
		return
	}

	if h.provider == nil {
		respondJSON(w, http.StatusOK, ai.ChatResponse{Message: UnavailableChatMessage})
		return
	}

	response, err := h.provider.Chat(r.Context(), req.Messages)
	if err != nil {
		h.logger.Error("chat_request_failed", zap.Error(err))
		if ai.IsRateLimitError(err) {
			respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", "The assistant is rate limited, try again shortly")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get AI response")
		return
	}

	respondJSON(w, http.StatusOK, response)
}
