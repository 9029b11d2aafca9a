// Package prompt renders the generation prompt for each document type from
// a template, merging request fields with company branding context.
package prompt

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Builder holds one parsed template per document type. Built-in templates are
// compiled in; a template directory can override them per type.
type Builder struct {
	templates map[models.DocType]*template.Template
}

// NewBuilder parses the built-in templates and, when dir is non-empty,
// replaces any type whose "<doc_type>.tmpl" exists in dir.
func NewBuilder(dir string) (*Builder, error) {
	b := &Builder{templates: make(map[models.DocType]*template.Template)}
	for _, dt := range models.AllDocTypes() {
		raw, err := builtinTemplates.ReadFile("templates/" + string(dt) + ".tmpl")
		if err != nil {
			return nil, fault.Configuration("missing built-in prompt template for "+string(dt), err)
		}
		if dir != "" {
			if override, err := os.ReadFile(filepath.Join(dir, string(dt)+".tmpl")); err == nil {
				raw = override
			}
		}
		tmpl, err := template.New(string(dt)).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fault.Configuration("parse prompt template for "+string(dt), err)
		}
		b.templates[dt] = tmpl
	}
	return b, nil
}

// Build renders the prompt for docType. The data map carries the request
// fields; branding keys are merged on top, falling back to neutral defaults
// when branding is nil. Same inputs always produce the same prompt.
func (b *Builder) Build(docType models.DocType, data map[string]any, branding *models.BrandingContext) (string, error) {
	tmpl, ok := b.templates[docType]
	if !ok {
		return "", fault.Configuration(fmt.Sprintf("prompt template not found: %s", docType), nil)
	}

	ctx := make(map[string]any, len(data)+7)
	for k, v := range data {
		ctx[k] = v
	}
	merge := func(key, value, fallback string) {
		if strings.TrimSpace(value) == "" {
			value = fallback
		}
		ctx[key] = value
	}
	if branding != nil {
		merge("company_name", branding.Name, "Our Company")
		merge("industry", branding.Industry, "Technology")
		merge("company_size", branding.Size, "Growing team")
		merge("company_location", branding.Location, "")
		merge("company_website", branding.Website, "")
		merge("company_description", branding.Description, "")
		merge("company_values", branding.Values, "")
	} else {
		merge("company_name", "", "Our Company")
		merge("industry", "", "Technology")
		merge("company_size", "", "Growing team")
		merge("company_location", "", "")
		merge("company_website", "", "")
		merge("company_description", "", "")
		merge("company_values", "", "")
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, ctx); err != nil {
		return "", fault.Configuration("render prompt template for "+string(docType), err)
	}
	return out.String(), nil
}
