package providers

import (
	"context"
	"strings"
)

// MockBackend returns deterministic document-shaped markdown so the API,
// renderer, and worker paths can run without a live model.
type MockBackend struct{}

func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

func (m *MockBackend) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "job description"):
		return "# Job Description\n\n## About the Role\nDeterministic mock output for a role posting.\n\n## Responsibilities\n- Own the core deliverables\n- Collaborate across teams\n\n**Note:** replace with a real backend for production quality.", nil
	case strings.Contains(lower, "offer letter"):
		return "# Offer Letter\n\nWe are pleased to extend this **mock** offer.\n\n## Compensation\n- Base salary as discussed\n- Standard benefits package", nil
	case strings.Contains(lower, "interview"):
		return "# Interview Questions\n\n## Technical\n1. Describe a system you designed.\n2. Walk through a recent debugging session.\n\n## Behavioral\n- Tell us about a conflict you resolved.", nil
	case strings.Contains(lower, "onboarding"):
		return "# Onboarding Plan\n\n## Week 1\n- Meet the team\n- Set up the development environment\n\n## Week 2\n- Ship a starter task", nil
	case strings.Contains(lower, "performance review"):
		return "# Performance Review\n\n## Highlights\n- Consistent delivery\n- Strong collaboration\n\n## Growth Areas\n- Broaden cross-team visibility", nil
	}
	return "# Generated Document\n\nDeterministic **mock** content.\n\n- First point\n- Second point", nil
}

func (m *MockBackend) Describe() ModelDescriptor {
	return ModelDescriptor{Provider: "Mock", Model: "mock-llm-v1", Mode: ModeLocal}
}

func (m *MockBackend) Healthy(ctx context.Context) bool {
	_ = ctx
	return true
}
