package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func postCompletion(h *CompletionHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/completions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleCompletion(rec, req)
	return rec
}

func TestCompletionMissingAPIKey(t *testing.T) {
	h := NewCompletionHandler("", "http://unused", "test-model")

	rec := postCompletion(h, `{"prompt":"write a policy"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "OpenRouter API key is not configured." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestCompletionEmptyPrompt(t *testing.T) {
	h := NewCompletionHandler("key", "http://unused", "test-model")

	rec := postCompletion(h, `{"prompt":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "Prompt is required." {
		t.Errorf("error = %q", body["error"])
	}
}

func TestCompletionInvalidBody(t *testing.T) {
	h := NewCompletionHandler("key", "http://unused", "test-model")

	rec := postCompletion(h, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompletionForwardsPromptAndKey(t *testing.T) {
	var captured chatRequest
	var auth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &captured)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"Generated policy."}}]}`))
	}))
	defer upstream.Close()

	h := NewCompletionHandler("secret-key", upstream.URL, "test-model")

	rec := postCompletion(h, `{"prompt":"write a retention policy"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if auth != "Bearer secret-key" {
		t.Errorf("authorization header = %q", auth)
	}
	if captured.Model != "test-model" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != systemPrompt {
		t.Errorf("system message = %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "write a retention policy" {
		t.Errorf("user message = %+v", captured.Messages[1])
	}
	if !strings.Contains(rec.Body.String(), "Generated policy.") {
		t.Errorf("upstream body not passed through: %s", rec.Body.String())
	}
}

func TestCompletionPropagatesUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"insufficient credits"}}`))
	}))
	defer upstream.Close()

	h := NewCompletionHandler("key", upstream.URL, "test-model")

	rec := postCompletion(h, `{"prompt":"write a policy"}`)
	if rec.Code != http.StatusPaymentRequired {
		t.Fatalf("status = %d, want upstream 402", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body["error"] != "Failed to fetch response from OpenRouter." {
		t.Errorf("error = %q", body["error"])
	}
	if !strings.Contains(body["details"], "insufficient credits") {
		t.Errorf("details = %q, want upstream body verbatim", body["details"])
	}
}

func TestCompletionUpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // connection refused

	h := NewCompletionHandler("key", upstream.URL, "test-model")

	rec := postCompletion(h, `{"prompt":"write a policy"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}
