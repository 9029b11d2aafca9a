package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/net/html"
)

// FallbackEngine is the pure-Go PDF engine. It walks the HTML tree and lays
// out headings, paragraphs, lists and tables with fpdf. It honors only the
// reduced stylesheet's intent (sizes, bold, centering) and is always
// available, so exports keep working on hosts without wkhtmltopdf.
type FallbackEngine struct{}

func NewFallbackEngine() *FallbackEngine { return &FallbackEngine{} }

func (e *FallbackEngine) Name() string { return "fpdf" }

func (e *FallbackEngine) Available() bool { return true }

func (e *FallbackEngine) Render(page string) ([]byte, error) {
	root, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	w := &pdfWalker{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	if body := findElement(root, "body"); body != nil {
		w.walkChildren(body)
	} else {
		w.walkChildren(root)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("fpdf output: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfWalker struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	listNum int
}

const pdfLineHeight = 6

func (w *pdfWalker) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walkNode(c)
	}
}

func (w *pdfWalker) walkNode(n *html.Node) {
	if n.Type != html.ElementNode {
		if n.Type == html.TextNode {
			if text := collapseSpace(n.Data); text != "" {
				w.paragraph([]textSpan{{text: text}}, "L")
			}
		}
		return
	}
	switch n.Data {
	case "h1":
		w.heading(inlineText(n), 18, 0, 102, 204)
	case "h2":
		w.heading(inlineText(n), 16, 0, 102, 204)
	case "h3":
		w.heading(inlineText(n), 14, 51, 51, 51)
	case "p":
		align := "L"
		if hasClass(n, "metadata") || underTag(n, "header") || underTag(n, "footer") {
			align = "C"
		}
		w.paragraph(inlineSpans(n), align)
	case "ul":
		w.list(n, false)
	case "ol":
		w.list(n, true)
	case "table":
		w.table(n)
	case "header", "footer", "div", "main", "section", "article":
		w.walkChildren(n)
	case "br":
		w.pdf.Ln(pdfLineHeight)
	case "style", "script", "head":
		// skipped
	default:
		w.walkChildren(n)
	}
}

func (w *pdfWalker) heading(text string, size float64, r, g, b int) {
	if text == "" {
		return
	}
	w.pdf.SetTextColor(r, g, b)
	w.pdf.SetFont("Arial", "B", size)
	w.pdf.MultiCell(0, pdfLineHeight+2, w.tr(text), "", "L", false)
	w.pdf.Ln(2)
	w.pdf.SetTextColor(51, 51, 51)
}

func (w *pdfWalker) paragraph(spans []textSpan, align string) {
	if len(spans) == 0 {
		return
	}
	if align == "C" {
		w.pdf.SetFont("Arial", "", 12)
		w.pdf.MultiCell(0, pdfLineHeight, w.tr(joinSpans(spans)), "", "C", false)
		w.pdf.Ln(2)
		return
	}
	for _, s := range spans {
		style := ""
		if s.bold {
			style += "B"
		}
		if s.italic {
			style += "I"
		}
		w.pdf.SetFont("Arial", style, 12)
		w.pdf.Write(pdfLineHeight, w.tr(s.text))
	}
	w.pdf.Ln(pdfLineHeight)
	w.pdf.Ln(2)
}

func (w *pdfWalker) list(n *html.Node, ordered bool) {
	w.listNum = 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		prefix := "• "
		if ordered {
			w.listNum++
			prefix = fmt.Sprintf("%d. ", w.listNum)
		}
		spans := append([]textSpan{{text: prefix}}, inlineSpans(c)...)
		w.pdf.SetX(30)
		for _, s := range spans {
			style := ""
			if s.bold {
				style = "B"
			}
			w.pdf.SetFont("Arial", style, 12)
			w.pdf.Write(pdfLineHeight, w.tr(s.text))
		}
		w.pdf.Ln(pdfLineHeight)
	}
	w.pdf.Ln(2)
}

func (w *pdfWalker) table(n *html.Node) {
	for _, row := range tableRows(n) {
		w.pdf.SetFont("Arial", "", 11)
		w.pdf.MultiCell(0, pdfLineHeight, w.tr(strings.Join(row, "  |  ")), "", "L", false)
	}
	w.pdf.Ln(2)
}

type textSpan struct {
	text   string
	bold   bool
	italic bool
}

func inlineSpans(n *html.Node) []textSpan {
	var spans []textSpan
	var visit func(node *html.Node, bold, italic bool)
	visit = func(node *html.Node, bold, italic bool) {
		if node.Type == html.TextNode {
			if text := collapseSpace(node.Data); text != "" {
				spans = append(spans, textSpan{text: text, bold: bold, italic: italic})
			}
			return
		}
		if node.Type != html.ElementNode {
			return
		}
		switch node.Data {
		case "strong", "b":
			bold = true
		case "em", "i":
			italic = true
		case "br":
			spans = append(spans, textSpan{text: "\n"})
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c, bold, italic)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visit(c, false, false)
	}
	return mergeSpaces(spans)
}

// mergeSpaces re-inserts the single space that collapses away between
// sibling inline nodes.
func mergeSpaces(spans []textSpan) []textSpan {
	for i := 1; i < len(spans); i++ {
		prev := spans[i-1].text
		cur := spans[i].text
		if prev == "" || cur == "" || cur == "\n" || strings.HasSuffix(prev, "\n") {
			continue
		}
		if !strings.HasSuffix(prev, " ") && !strings.HasPrefix(cur, " ") {
			spans[i].text = " " + cur
		}
	}
	return spans
}

func joinSpans(spans []textSpan) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.text)
	}
	return sb.String()
}

func inlineText(n *html.Node) string {
	return strings.TrimSpace(joinSpans(inlineSpans(n)))
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func underTag(n *html.Node, name string) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == name {
			return true
		}
	}
	return false
}

func tableRows(n *html.Node) [][]string {
	var rows [][]string
	var visit func(node *html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "tr" {
			var cells []string
			for c := node.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, inlineText(c))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return rows
}
