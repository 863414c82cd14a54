package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const systemPrompt = "You are an expert at writing professional policy documents."

// CompletionHandler proxies policy-generation prompts to a chat-completions
// provider using a server-held API key. The provider is an opaque
// collaborator: upstream status codes and error bodies pass through verbatim.
type CompletionHandler struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewCompletionHandler creates a new CompletionHandler.
func NewCompletionHandler(apiKey, baseURL, model string) *CompletionHandler {
	return &CompletionHandler{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type completionRequest struct {
	Prompt string `json:"prompt"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// HandleCompletion handles POST /api/v1/completions requests.
func (h *CompletionHandler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	if h.apiKey == "" {
		writeJSON(w, http.StatusInternalServerError, errorResponse("OpenRouter API key is not configured."))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("Prompt is required."))
		return
	}

	payload, err := json.Marshal(chatRequest{
		Model: h.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("An unexpected error occurred during policy generation."))
		return
	}

	upstream, err := http.NewRequestWithContext(r.Context(), http.MethodPost,
		h.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("An unexpected error occurred during policy generation."))
		return
	}
	upstream.Header.Set("Authorization", "Bearer "+h.apiKey)
	upstream.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(upstream)
	if err != nil {
		slog.Error("completion request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse("Failed to fetch response from OpenRouter."))
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("reading completion response failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse("Failed to fetch response from OpenRouter."))
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("completion provider error", "status", resp.StatusCode)
		writeJSON(w, resp.StatusCode, map[string]string{
			"error":   "Failed to fetch response from OpenRouter.",
			"details": string(body),
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	w.Write(body)
}
