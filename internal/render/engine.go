package render

// Engine turns a self-contained HTML page into PDF bytes. Engines are tried
// in the order they were injected; an unavailable engine is skipped without
// being called.
type Engine interface {
	Name() string
	Available() bool
	Render(html string) ([]byte, error)
}
