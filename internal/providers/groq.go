package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hrcraft/internal/config"
	"hrcraft/internal/fault"
)

const (
	groqGenerateTimeout = 60 * time.Second
	groqHealthTimeout   = 10 * time.Second
)

// GroqBackend serves the cloud generation mode through Groq's OpenAI-compatible
// chat completions API.
type GroqBackend struct {
	baseURL     string
	apiKey      string
	keyValid    bool
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	health      *http.Client
}

func NewGroqBackend(cfg config.Config, model string) *GroqBackend {
	if strings.TrimSpace(model) == "" {
		model = cfg.GroqModel
	}
	return &GroqBackend{
		baseURL:     strings.TrimRight(cfg.GroqBaseURL, "/"),
		apiKey:      cfg.GroqAPIKey,
		keyValid:    cfg.GroqKeyLooksValid(),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		client:      &http.Client{Timeout: groqGenerateTimeout},
		health:      &http.Client{Timeout: groqHealthTimeout},
	}
}

func (g *GroqBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return g.complete(ctx, g.client, prompt, g.maxTokens)
}

func (g *GroqBackend) complete(ctx context.Context, client *http.Client, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(g.apiKey) == "" {
		return "", fault.New(fault.KindAuth, fault.CodeGroqAuth, "groq api key is not configured")
	}
	payload, _ := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": g.temperature,
		"max_tokens":  maxTokens,
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/openai/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fault.Wrap(fault.KindGeneration, fault.CodeGroqAPI, "build groq request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return "", fault.Wrap(fault.KindTimeout, fault.CodeGroqTimeout,
				fmt.Sprintf("groq request timed out after %.0f seconds", client.Timeout.Seconds()), err)
		}
		return "", fault.Wrap(fault.KindConnectivity, fault.CodeGroqConnection,
			"cannot connect to groq at "+g.baseURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fault.New(fault.KindAuth, fault.CodeGroqAuth, "groq rejected the configured api key")
	case resp.StatusCode == http.StatusTooManyRequests:
		f := fault.New(fault.KindRateLimit, fault.CodeGroqRateLimit, "groq rate limit exceeded, try again later")
		f.RetryAfter = retryAfterSeconds(resp.Header.Get("Retry-After"))
		return "", f
	case resp.StatusCode >= 400:
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fault.New(fault.KindGeneration, fault.CodeGroqAPI,
			fmt.Sprintf("groq generate error %d: %s", resp.StatusCode, msg))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fault.Wrap(fault.KindGeneration, fault.CodeGroqAPI, "decode groq response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fault.New(fault.KindGeneration, fault.CodeGroqAPI, "groq returned empty choices")
	}
	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fault.New(fault.KindGeneration, fault.CodeGroqAPI, "groq returned empty completion")
	}
	return content, nil
}

func (g *GroqBackend) Describe() ModelDescriptor {
	return ModelDescriptor{
		Provider:    "Groq",
		Model:       g.model,
		Mode:        ModeCloud,
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}
}

// Healthy issues a minimal completion; there is no cheaper authenticated probe.
// A key that fails shape validation is reported unhealthy without the call.
func (g *GroqBackend) Healthy(ctx context.Context) bool {
	if !g.keyValid {
		return false
	}
	_, err := g.complete(ctx, g.health, "ping", 5)
	return err == nil
}

func retryAfterSeconds(header string) int {
	if header == "" {
		return 60
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs > 0 {
		return secs
	}
	if t, err := http.ParseTime(header); err == nil {
		if secs := int(time.Until(t).Seconds()); secs > 0 {
			return secs
		}
	}
	return 60
}
