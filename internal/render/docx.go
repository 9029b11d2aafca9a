package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

// The DOCX writer emits the handful of WordprocessingML parts an export
// needs: content types, package rels, styles, list numbering, the document
// body and, when branding is present, a company header and footer.

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>
%s</Types>
`

const docxBrandingOverrides = `<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>
`

const docxPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>
`

const docxDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>
%s</Relationships>
`

const docxBrandingRels = `<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
<Relationship Id="rId4" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>
`

const docxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="24"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:rPr><w:b/><w:sz w:val="52"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/><w:color w:val="2F5496"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="200" w:after="100"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/><w:color w:val="2F5496"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="160" w:after="80"/></w:pPr><w:rPr><w:b/><w:sz w:val="26"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="ListNumber"><w:name w:val="List Number"/><w:basedOn w:val="Normal"/></w:style>
</w:styles>
`

const docxNumbering = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>
<w:abstractNum w:abstractNumId="1"><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>
</w:numbering>
`

// DOCX renders the generated markdown into a Word document with one inch
// margins, a centered title and date/reference line, and a branded header
// and footer when branding exists.
func (r *Renderer) DOCX(content string, docType models.DocType, meta Metadata, branding *models.BrandingContext) ([]byte, error) {
	meta = meta.withDefaults(docType)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	branded := branding != nil
	overrides := ""
	rels := ""
	if branded {
		overrides = docxBrandingOverrides
		rels = docxBrandingRels
	}
	parts := []struct {
		name, body string
	}{
		{"[Content_Types].xml", fmt.Sprintf(docxContentTypes, overrides)},
		{"_rels/.rels", docxPackageRels},
		{"word/_rels/document.xml.rels", fmt.Sprintf(docxDocumentRels, rels)},
		{"word/styles.xml", docxStyles},
		{"word/numbering.xml", docxNumbering},
		{"word/document.xml", buildDocumentXML(content, meta, branded)},
	}
	if branded {
		parts = append(parts,
			struct{ name, body string }{"word/header1.xml", buildHeaderXML(branding)},
			struct{ name, body string }{"word/footer1.xml", buildFooterXML(branding)},
		)
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, fault.Internal(fmt.Errorf("create docx part %s: %w", p.name, err))
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fault.Internal(fmt.Errorf("write docx part %s: %w", p.name, err))
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fault.Internal(fmt.Errorf("finalize docx: %w", err))
	}
	return buf.Bytes(), nil
}

func buildDocumentXML(content string, meta Metadata, branded bool) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` + "\n<w:body>\n")

	// Centered title and metadata line.
	sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="Title"/><w:jc w:val="center"/></w:pPr>` + run(meta.Title, false) + "</w:p>\n")
	sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` + run("Generated: "+meta.Date, false))
	if meta.Reference != "" {
		sb.WriteString(`<w:r><w:br/></w:r>` + run("Reference: "+meta.Reference, false))
	}
	sb.WriteString("</w:p>\n<w:p/>\n")

	for _, block := range ParseBlocks(content) {
		writeBlockXML(&sb, block)
	}

	sb.WriteString("<w:sectPr>")
	if branded {
		sb.WriteString(`<w:headerReference w:type="default" r:id="rId3"/><w:footerReference w:type="default" r:id="rId4"/>`)
	}
	// Letter page, one inch margins.
	sb.WriteString(`<w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720" w:gutter="0"/>`)
	sb.WriteString("</w:sectPr>\n</w:body>\n</w:document>\n")
	return sb.String()
}

func writeBlockXML(sb *strings.Builder, block Block) {
	switch block.Kind {
	case BlockHeading1, BlockHeading2, BlockHeading3:
		level := int(block.Kind) - int(BlockHeading1) + 1
		fmt.Fprintf(sb, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>%s</w:p>`+"\n", level, run(block.Text(), false))
	case BlockBullet:
		sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="ListBullet"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>` + run(block.Text(), false) + "</w:p>\n")
	case BlockNumbered:
		sb.WriteString(`<w:p><w:pPr><w:pStyle w:val="ListNumber"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="2"/></w:numPr></w:pPr>` + run(block.Text(), false) + "</w:p>\n")
	default:
		sb.WriteString("<w:p>")
		for _, r := range block.Runs {
			sb.WriteString(run(r.Text, r.Bold))
		}
		sb.WriteString("</w:p>\n")
	}
}

func buildHeaderXML(branding *models.BrandingContext) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	sb.WriteString(`<w:r><w:rPr><w:b/><w:sz w:val="28"/></w:rPr><w:t xml:space="preserve">` + xmlEscape(branding.Name) + `</w:t></w:r>`)
	if branding.Location != "" {
		sb.WriteString(`<w:r><w:br/></w:r><w:r><w:rPr><w:sz w:val="18"/></w:rPr><w:t xml:space="preserve">` + xmlEscape(branding.Location) + `</w:t></w:r>`)
	}
	sb.WriteString(`</w:p></w:hdr>` + "\n")
	return sb.String()
}

func buildFooterXML(branding *models.BrandingContext) string {
	year := time.Now().UTC().Year()
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	sb.WriteString(`<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">`)
	sb.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	sb.WriteString(footerRun(fmt.Sprintf("© %d %s. All rights reserved.", year, branding.Name)))
	if branding.Website != "" {
		sb.WriteString(`<w:r><w:br/></w:r>` + footerRun("Website: "+branding.Website))
	}
	sb.WriteString(`</w:p></w:ftr>` + "\n")
	return sb.String()
}

func footerRun(text string) string {
	return `<w:r><w:rPr><w:sz w:val="18"/><w:color w:val="808080"/></w:rPr><w:t xml:space="preserve">` + xmlEscape(text) + `</w:t></w:r>`
}

func run(text string, bold bool) string {
	props := ""
	if bold {
		props = "<w:rPr><w:b/></w:rPr>"
	}
	return "<w:r>" + props + `<w:t xml:space="preserve">` + xmlEscape(text) + "</w:t></w:r>"
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
