package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hrcraft/internal/config"
	"hrcraft/internal/fault"
)

func ollamaConfig(baseURL string) config.Config {
	return config.Config{
		OllamaBaseURL: baseURL,
		OllamaModel:   "deepseek-r1:8b",
		Temperature:   0.7,
		MaxTokens:     2000,
	}
}

func TestOllamaBackend_Generate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "# Draft\n\nGenerated text."})
	}))
	defer srv.Close()

	b := NewOllamaBackend(ollamaConfig(srv.URL), "")
	out, err := b.Generate(context.Background(), "write a draft")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Generated text.") {
		t.Fatalf("unexpected output: %q", out)
	}
	if gotPath != "/api/generate" {
		t.Fatalf("expected /api/generate, got %s", gotPath)
	}
	if gotBody["model"] != "deepseek-r1:8b" || gotBody["prompt"] != "write a draft" {
		t.Fatalf("unexpected payload: %+v", gotBody)
	}
	if gotBody["stream"] != false {
		t.Fatalf("expected stream=false, got %v", gotBody["stream"])
	}
	opts, ok := gotBody["options"].(map[string]any)
	if !ok {
		t.Fatalf("missing options block: %+v", gotBody)
	}
	if opts["temperature"] != 0.7 || opts["num_predict"] != float64(2000) {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestOllamaBackend_GenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	b := NewOllamaBackend(ollamaConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindGeneration || f.Code != fault.CodeOllamaGeneration {
		t.Fatalf("expected generation fault, got %v", err)
	}
	if !strings.Contains(f.Message, "404") {
		t.Fatalf("expected status in message, got %q", f.Message)
	}
}

func TestOllamaBackend_GenerateConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	b := NewOllamaBackend(ollamaConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindConnectivity || f.Code != fault.CodeOllamaConnection {
		t.Fatalf("expected connectivity fault, got %v", err)
	}
	if !fault.Retryable(err) {
		t.Fatalf("connection failure should be retryable")
	}
}

func TestOllamaBackend_GenerateEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "   "})
	}))
	defer srv.Close()

	b := NewOllamaBackend(ollamaConfig(srv.URL), "")
	_, err := b.Generate(context.Background(), "prompt")
	if kind := ClassifyError(err); kind != fault.KindGeneration {
		t.Fatalf("expected generation fault for empty response, got %v", err)
	}
}

func TestOllamaBackend_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	b := NewOllamaBackend(ollamaConfig(srv.URL), "")
	if !b.Healthy(context.Background()) {
		t.Fatalf("expected healthy against live server")
	}
	srv.Close()
	if b.Healthy(context.Background()) {
		t.Fatalf("expected unhealthy after shutdown")
	}
}

func TestOllamaBackend_ModelOverride(t *testing.T) {
	b := NewOllamaBackend(ollamaConfig("http://localhost:11434"), "llama3:8b")
	d := b.Describe()
	if d.Model != "llama3:8b" || d.Mode != ModeLocal || d.Provider != "Ollama" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}
