package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hrcraft/internal/config"
	"hrcraft/internal/fault"
)

func groqConfig(baseURL string) config.Config {
	return config.Config{
		GroqBaseURL: baseURL,
		GroqAPIKey:  "gsk_test_key_12345",
		GroqModel:   "llama-3.3-70b-versatile",
		Temperature: 0.7,
		MaxTokens:   2000,
	}
}

func groqCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestGroqBackend_Generate(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		groqCompletion("Generated document body.")(w, r)
	}))
	defer srv.Close()

	b := NewGroqBackend(groqConfig(srv.URL), "")
	out, err := b.Generate(context.Background(), "write a doc")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "Generated document body." {
		t.Fatalf("unexpected output: %q", out)
	}
	if gotPath != "/openai/v1/chat/completions" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer gsk_test_key_12345" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody.Model != "llama-3.3-70b-versatile" || gotBody.MaxTokens != 2000 {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" || gotBody.Messages[0].Content != "write a doc" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
}

func TestGroqBackend_MissingKey(t *testing.T) {
	cfg := groqConfig("http://localhost:9")
	cfg.GroqAPIKey = ""
	b := NewGroqBackend(cfg, "")
	_, err := b.Generate(context.Background(), "prompt")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindAuth {
		t.Fatalf("expected auth fault without key, got %v", err)
	}
}

func TestGroqBackend_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid API Key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	b := NewGroqBackend(groqConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindAuth || f.Code != fault.CodeGroqAuth {
		t.Fatalf("expected auth fault, got %v", err)
	}
	if fault.Retryable(err) {
		t.Fatalf("auth failure must not be retryable")
	}
}

func TestGroqBackend_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		http.Error(w, `{"error":{"message":"Rate limit reached"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := NewGroqBackend(groqConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindRateLimit || f.Code != fault.CodeGroqRateLimit {
		t.Fatalf("expected rate limit fault, got %v", err)
	}
	if f.RetryAfter != 7 {
		t.Fatalf("expected retry-after hint 7, got %d", f.RetryAfter)
	}
	if fault.Retryable(err) {
		t.Fatalf("rate limit must not be retryable")
	}
}

func TestGroqBackend_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model decommissioned"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	b := NewGroqBackend(groqConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindGeneration || f.Code != fault.CodeGroqAPI {
		t.Fatalf("expected generation fault, got %v", err)
	}
}

func TestGroqBackend_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	b := NewGroqBackend(groqConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	if kind := ClassifyError(err); kind != fault.KindGeneration {
		t.Fatalf("expected generation fault for empty choices, got %v", err)
	}
}

func TestGroqBackend_HealthyUsesTinyCompletion(t *testing.T) {
	var gotMaxTokens int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			MaxTokens int `json:"max_tokens"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotMaxTokens = body.MaxTokens
		groqCompletion("pong")(w, r)
	}))
	defer srv.Close()

	b := NewGroqBackend(groqConfig(srv.URL), "")
	if !b.Healthy(context.Background()) {
		t.Fatalf("expected healthy")
	}
	if gotMaxTokens != 5 {
		t.Fatalf("expected max_tokens 5 for health probe, got %d", gotMaxTokens)
	}

	cfg := groqConfig(srv.URL)
	cfg.GroqAPIKey = ""
	if NewGroqBackend(cfg, "").Healthy(context.Background()) {
		t.Fatalf("expected unhealthy without key")
	}

	gotMaxTokens = 0
	cfg.GroqAPIKey = "not-a-groq-key"
	if NewGroqBackend(cfg, "").Healthy(context.Background()) {
		t.Fatalf("expected unhealthy with malformed key")
	}
	if gotMaxTokens != 0 {
		t.Fatalf("malformed key must not reach the api")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	if got := retryAfterSeconds(""); got != 60 {
		t.Fatalf("expected default 60, got %d", got)
	}
	if got := retryAfterSeconds("15"); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if got := retryAfterSeconds("garbage"); got != 60 {
		t.Fatalf("expected default for garbage, got %d", got)
	}
}
