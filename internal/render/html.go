package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	highlighting "github.com/yuin/goldmark-highlighting/v2"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

var markdownConverter = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		highlighting.NewHighlighting(highlighting.WithStyle("github")),
	),
)

const defaultPageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
</head>
<body>
<header>
{{- if .Company}}
<div class="company-info">
<h1>{{.Company.Name}}</h1>
{{- if .Company.Location}}
<p class="location">{{.Company.Location}}</p>
{{- end}}
</div>
{{- end}}
</header>
<div class="document-header">
<h2>{{.Title}}</h2>
<p class="metadata">Generated: {{.Date}}{{if .Reference}}<br>Reference: {{.Reference}}{{end}}</p>
</div>
<main>
{{.Content}}
</main>
<footer>
{{- if .Company}}
<p>&copy; {{.Year}} {{.Company.Name}}. All rights reserved.{{if .Company.Website}}<br>Website: {{.Company.Website}}{{end}}</p>
{{- end}}
</footer>
</body>
</html>
`

type pageData struct {
	Company   *models.BrandingContext
	Content   template.HTML
	Title     string
	Date      string
	Reference string
	Year      int
}

// pageHTML converts markdown to HTML and wraps it in the page template for
// docType, falling back to the built-in page when no override file exists.
func (r *Renderer) pageHTML(content string, docType models.DocType, meta Metadata, branding *models.BrandingContext) (string, error) {
	var body bytes.Buffer
	if err := markdownConverter.Convert([]byte(content), &body); err != nil {
		return "", fault.Internal(fmt.Errorf("convert markdown: %w", err))
	}

	raw := defaultPageTemplate
	if r.templateDir != "" {
		if override, err := os.ReadFile(filepath.Join(r.templateDir, string(docType)+"_template.html")); err == nil {
			raw = string(override)
		}
	}
	tmpl, err := template.New(string(docType)).Parse(raw)
	if err != nil {
		return "", fault.Configuration("parse page template for "+string(docType), err)
	}

	var page bytes.Buffer
	err = tmpl.Execute(&page, pageData{
		Company:   branding,
		Content:   template.HTML(body.String()),
		Title:     meta.Title,
		Date:      meta.Date,
		Reference: meta.Reference,
		Year:      time.Now().UTC().Year(),
	})
	if err != nil {
		return "", fault.Configuration("render page template for "+string(docType), err)
	}
	return page.String(), nil
}

// insertInlineStyles embeds css into the document: after an existing <style>
// tag if one is open, otherwise into <head>, otherwise appended before
// </html>, otherwise by wrapping the fragment in a minimal page.
func insertInlineStyles(html, css string) string {
	styleTag := "<style>\n" + css + "\n</style>"
	switch {
	case strings.Contains(html, "<style>"):
		return strings.Replace(html, "<style>", "<style>\n"+css+"\n", 1)
	case strings.Contains(html, "<head>"):
		return strings.Replace(html, "</head>", styleTag+"\n</head>", 1)
	case strings.Contains(html, "</html>"):
		return strings.Replace(html, "</html>", styleTag+"\n</html>", 1)
	default:
		return "<html><head>" + styleTag + "</head><body>" + html + "</body></html>"
	}
}

// inlineCSS is the reduced stylesheet kept within CSS 2.1 so the pure-Go
// fallback engine can honor it.
const inlineCSS = `body { font-family: Arial, sans-serif; font-size: 12pt; line-height: 1.6; color: #333333; margin: 25mm; }
header { text-align: center; margin-bottom: 30px; padding-bottom: 20px; border-bottom: 2px solid #0066cc; }
header h1 { color: #0066cc; font-size: 24pt; margin: 0; }
header .location { color: #666666; font-size: 11pt; margin-top: 5px; }
.document-header { text-align: center; margin-bottom: 30px; }
.document-header h2 { color: #333333; font-size: 20pt; margin: 0; }
.metadata { color: #666666; font-size: 10pt; margin-top: 10px; }
main { margin: 20px 0; }
h1 { color: #0066cc; font-size: 18pt; margin-top: 20px; margin-bottom: 10px; }
h2 { color: #0066cc; font-size: 16pt; margin-top: 15px; margin-bottom: 8px; }
h3 { color: #333333; font-size: 14pt; margin-top: 12px; margin-bottom: 6px; }
p { margin-bottom: 10px; text-align: justify; }
ul, ol { margin-bottom: 15px; }
li { margin-bottom: 5px; }
strong { color: #000000; font-weight: bold; }
footer { text-align: center; margin-top: 40px; padding-top: 20px; border-top: 1px solid #dddddd; font-size: 9pt; color: #666666; }
table { width: 100%; border-collapse: collapse; margin-bottom: 15px; }
th, td { border: 1px solid #dddddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; font-weight: bold; }`

// fullPageCSS adds the paged-media rules only the primary engine understands:
// A4 pages with a running company header and page counters.
func fullPageCSS(companyName string) string {
	if companyName == "" {
		companyName = "Document"
	}
	companyName = strings.ReplaceAll(companyName, `"`, `\"`)
	return fmt.Sprintf(`@page { size: A4; margin: 25mm; @top-center { content: "%s"; font-size: 10pt; color: #666; } @bottom-center { content: "Page " counter(page) " of " counter(pages); font-size: 9pt; color: #666; } }
`, companyName) + inlineCSS
}
