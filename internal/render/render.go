// Package render turns generated markdown into branded DOCX and PDF files.
package render

import (
	"time"

	"hrcraft/internal/models"
)

// Metadata is the export header block: title line, generation date and the
// document reference shown under the title.
type Metadata struct {
	Title     string
	Date      string
	Reference string
}

func (m Metadata) withDefaults(docType models.DocType) Metadata {
	if m.Title == "" {
		m.Title = docType.DisplayTitle()
	}
	if m.Date == "" {
		m.Date = time.Now().UTC().Format("2006-01-02")
	}
	return m
}

// Renderer produces export files. Branding is passed per call so one
// renderer can serve every request; PDF engines are injected and tried
// in order.
type Renderer struct {
	templateDir string
	engines     []Engine
}

// NewRenderer builds a renderer. templateDir may be empty (built-in page
// template only) and engines may be empty, in which case PDF rendering
// reports a configuration fault while DOCX keeps working.
func NewRenderer(templateDir string, engines ...Engine) *Renderer {
	return &Renderer{templateDir: templateDir, engines: engines}
}
