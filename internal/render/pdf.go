package render

import (
	"log"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

// DefaultEngines is the production engine order: wkhtmltopdf first for full
// stylesheet support, the pure-Go fallback second so exports still work when
// the binary is missing.
func DefaultEngines(wkhtmltopdfPath string) []Engine {
	return []Engine{NewWkhtmltopdfEngine(wkhtmltopdfPath), NewFallbackEngine()}
}

// PDF renders the generated markdown to PDF and reports which engine
// produced it. The page gets the reduced inline stylesheet every engine can
// cope with; the first engine additionally receives the paged-media
// stylesheet. Engines are tried in order and the call fails with a
// configuration fault only when no engine could produce output.
func (r *Renderer) PDF(content string, docType models.DocType, meta Metadata, branding *models.BrandingContext) ([]byte, string, error) {
	meta = meta.withDefaults(docType)

	page, err := r.pageHTML(content, docType, meta, branding)
	if err != nil {
		return nil, "", err
	}
	page = insertInlineStyles(page, inlineCSS)

	companyName := ""
	if branding != nil {
		companyName = branding.Name
	}

	var lastErr error
	tried := 0
	for i, engine := range r.engines {
		if !engine.Available() {
			log.Printf("render: pdf engine %s unavailable, skipping", engine.Name())
			continue
		}
		input := page
		if i == 0 {
			input = insertInlineStyles(page, fullPageCSS(companyName))
		}
		out, err := engine.Render(input)
		if err == nil && len(out) > 0 {
			log.Printf("render: pdf generated using %s", engine.Name())
			return out, engine.Name(), nil
		}
		if err == nil {
			err = fault.Configuration("engine "+engine.Name()+" produced empty output", nil)
		}
		log.Printf("render: pdf engine %s failed: %v", engine.Name(), err)
		lastErr = err
		tried++
	}
	if tried == 0 {
		return nil, "", fault.Configuration("no pdf engine available: install wkhtmltopdf or configure a fallback engine", nil)
	}
	return nil, "", fault.Configuration("pdf generation failed with all available engines", lastErr)
}
