package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"hrcraft/internal/config"
	"hrcraft/internal/fault"
)

const (
	ollamaGenerateTimeout = 120 * time.Second
	ollamaHealthTimeout   = 5 * time.Second
)

// OllamaBackend serves the local generation mode against an Ollama-compatible
// inference server. A single generation can block for minutes while the model
// streams nothing back, hence the generous client timeout.
type OllamaBackend struct {
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	health      *http.Client
}

func NewOllamaBackend(cfg config.Config, model string) *OllamaBackend {
	if strings.TrimSpace(model) == "" {
		model = cfg.OllamaModel
	}
	return &OllamaBackend{
		baseURL:     strings.TrimRight(cfg.OllamaBaseURL, "/"),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: ollamaGenerateTimeout},
		health:      &http.Client{Timeout: ollamaHealthTimeout},
	}
}

func (o *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	payload, _ := json.Marshal(map[string]any{
		"model":  o.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": o.temperature,
			"num_predict": o.maxTokens,
		},
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fault.Wrap(fault.KindGeneration, fault.CodeOllamaGeneration, "build ollama request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", fault.Wrap(fault.KindTimeout, fault.CodeOllamaTimeout,
				fmt.Sprintf("ollama request timed out after %.0f seconds", o.client.Timeout.Seconds()), err)
		}
		return "", fault.Wrap(fault.KindConnectivity, fault.CodeOllamaConnection,
			"cannot connect to ollama at "+o.baseURL, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fault.New(fault.KindGeneration, fault.CodeOllamaGeneration,
			fmt.Sprintf("ollama generate error %d: %s", resp.StatusCode, excerpt(body)))
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fault.Wrap(fault.KindGeneration, fault.CodeOllamaGeneration, "decode ollama response", err)
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return "", fault.New(fault.KindGeneration, fault.CodeOllamaGeneration, "ollama returned empty response")
	}
	return parsed.Response, nil
}

func (o *OllamaBackend) Describe() ModelDescriptor {
	return ModelDescriptor{
		Provider:    "Ollama",
		Model:       o.model,
		Mode:        ModeLocal,
		BaseURL:     o.baseURL,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	}
}

// Healthy probes the tags endpoint, which answers without touching a model.
func (o *OllamaBackend) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.health.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	return s
}
