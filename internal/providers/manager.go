package providers

import (
	"fmt"

	"hrcraft/internal/config"
)

type NamedBackend struct {
	Ref     BackendRef
	Backend Backend
}

// Manager owns the configured backends and resolves model choices onto them.
type Manager struct {
	backends []NamedBackend
}

func NewManager(cfg config.Config) (*Manager, error) {
	refs := ParseBackendList(cfg.Backends)

	m := &Manager{}
	for _, ref := range refs {
		b, err := buildBackend(ref, cfg)
		if err != nil {
			return nil, err
		}
		m.backends = append(m.backends, NamedBackend{Ref: ref, Backend: b})
	}
	if len(m.backends) == 0 {
		m.backends = []NamedBackend{{Ref: BackendRef{Raw: "mock", Name: "mock"}, Backend: NewMockBackend()}}
	}
	return m, nil
}

func (m *Manager) ByIndex(i int) (Backend, BackendRef) {
	if len(m.backends) == 0 {
		return NewMockBackend(), BackendRef{Raw: "mock", Name: "mock"}
	}
	if i < 0 || i >= len(m.backends) {
		i = 0
	}
	return m.backends[i].Backend, m.backends[i].Ref
}

func (m *Manager) Count() int {
	return len(m.backends)
}

// ByChoice resolves a model choice (canonical name or alias) onto a
// configured backend.
func (m *Manager) ByChoice(choice string) (Backend, BackendRef, bool) {
	target := CanonicalChoice(choice)
	if target == "" {
		return nil, BackendRef{}, false
	}
	for i := range m.backends {
		if m.backends[i].Ref.Name == target {
			return m.backends[i].Backend, m.backends[i].Ref, true
		}
	}
	return nil, BackendRef{}, false
}

// IndexForChoice reports the backend index a model choice resolves to, or -1
// when no configured backend carries that name.
func (m *Manager) IndexForChoice(choice string) int {
	target := CanonicalChoice(choice)
	for i := range m.backends {
		if m.backends[i].Ref.Name == target {
			return i
		}
	}
	return -1
}

// PreferredOrder lists backend indexes with real backends before mocks.
func (m *Manager) PreferredOrder() []int {
	n := len(m.backends)
	if n <= 0 {
		return nil
	}
	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if m.backends[i].Ref.Name != "mock" {
			out = append(out, i)
		}
	}
	for i := 0; i < n; i++ {
		if m.backends[i].Ref.Name == "mock" {
			out = append(out, i)
		}
	}
	return out
}

func buildBackend(ref BackendRef, cfg config.Config) (Backend, error) {
	switch ref.Name {
	case "mock":
		return NewMockBackend(), nil
	case "local":
		return NewOllamaBackend(cfg, ref.Model), nil
	case "cloud":
		return NewGroqBackend(cfg, ref.Model), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", ref.Raw)
	}
}
