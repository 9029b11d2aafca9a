package providers

import "strings"

// BackendRef is one entry of the HRCRAFT_BACKENDS list. An optional
// ":model" suffix overrides the configured model for that backend.
type BackendRef struct {
	Raw   string
	Name  string
	Model string
}

func ParseBackendList(raw string) []BackendRef {
	parts := strings.Split(raw, ",")
	out := make([]BackendRef, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := BackendRef{Raw: p}
		if strings.Contains(p, ":") {
			x := strings.SplitN(p, ":", 2)
			ref.Name = strings.TrimSpace(x[0])
			ref.Model = strings.TrimSpace(x[1])
		} else {
			ref.Name = p
		}
		ref.Name = CanonicalChoice(ref.Name)
		out = append(out, ref)
	}
	if len(out) == 0 {
		out = append(out, BackendRef{Raw: "mock", Name: "mock"})
	}
	return out
}

// CanonicalChoice collapses the accepted model-choice aliases onto the
// canonical backend names. Unknown names pass through unchanged so the
// manager can report them.
func CanonicalChoice(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hrcraft_mini", "local", "ollama":
		return "local"
	case "hrcraft_pro", "cloud", "groq":
		return "cloud"
	case "mock":
		return "mock"
	}
	return strings.ToLower(strings.TrimSpace(name))
}
