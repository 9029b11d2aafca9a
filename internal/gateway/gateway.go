// Package gateway routes generation requests onto a configured backend and
// applies that backend's retry profile around the call.
package gateway

import (
	"context"
	"math"
	"strings"
	"time"

	"hrcraft/internal/fault"
	"hrcraft/internal/providers"
	"hrcraft/internal/retry"
)

// Resolver maps a model choice onto a configured backend.
type Resolver interface {
	ByChoice(choice string) (providers.Backend, providers.BackendRef, bool)
}

// GenerationResult is the outcome of one successful generation. Content is
// never empty and Model describes the backend that actually produced it.
type GenerationResult struct {
	Content        string                    `json:"content"`
	Model          providers.ModelDescriptor `json:"model"`
	ElapsedSeconds float64                   `json:"elapsed_seconds"`
}

type Gateway struct {
	resolver  Resolver
	policyFor func(providers.Mode) retry.Policy
}

func New(r Resolver) *Gateway {
	return &Gateway{resolver: r, policyFor: defaultPolicy}
}

func defaultPolicy(mode providers.Mode) retry.Policy {
	if mode == providers.ModeCloud {
		return retry.CloudPolicy()
	}
	return retry.LocalPolicy()
}

// Generate validates the request, resolves the backend for choice, and runs
// the generation under the backend's retry profile. Validation failures are
// reported before any backend call; after the retry budget is spent the last
// backend error is returned as-is.
func (g *Gateway) Generate(ctx context.Context, choice, prompt string) (GenerationResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return GenerationResult{}, fault.Validation("prompt must not be empty")
	}
	backend, _, ok := g.resolver.ByChoice(choice)
	if !ok {
		return GenerationResult{}, fault.Validation("invalid model choice %q, must be 'hrcraft_mini' or 'hrcraft_pro'", choice)
	}

	desc := backend.Describe()
	start := time.Now()
	var content string
	err := retry.Do(func() error {
		out, genErr := backend.Generate(ctx, prompt)
		if genErr != nil {
			return genErr
		}
		content = out
		return nil
	}, g.policyFor(desc.Mode))
	if err != nil {
		return GenerationResult{}, err
	}
	if strings.TrimSpace(content) == "" {
		return GenerationResult{}, fault.New(fault.KindGeneration, fault.CodeInternal, "backend returned empty content")
	}
	return GenerationResult{
		Content:        content,
		Model:          desc,
		ElapsedSeconds: roundSeconds(time.Since(start)),
	}, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
