package render

import (
	"fmt"
	"strings"
	"sync"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// WkhtmltopdfEngine is the primary PDF engine. It shells out to the
// wkhtmltopdf binary, which understands the full stylesheet including the
// @page header and page counters. When the binary is not installed the
// engine reports unavailable and the renderer moves on.
type WkhtmltopdfEngine struct {
	once      sync.Once
	available bool
}

// NewWkhtmltopdfEngine points the generator at binPath when set; otherwise
// the binary is looked up on PATH.
func NewWkhtmltopdfEngine(binPath string) *WkhtmltopdfEngine {
	if binPath != "" {
		wkhtmltopdf.SetPath(binPath)
	}
	return &WkhtmltopdfEngine{}
}

func (e *WkhtmltopdfEngine) Name() string { return "wkhtmltopdf" }

func (e *WkhtmltopdfEngine) Available() bool {
	e.once.Do(func() {
		_, err := wkhtmltopdf.NewPDFGenerator()
		e.available = err == nil
	})
	return e.available
}

func (e *WkhtmltopdfEngine) Render(html string) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("wkhtmltopdf unavailable: %w", err)
	}
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.MarginTop.Set(25)
	pdfg.MarginBottom.Set(25)
	pdfg.MarginLeft.Set(25)
	pdfg.MarginRight.Set(25)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	pdfg.AddPage(page)
	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("wkhtmltopdf render: %w", err)
	}
	return pdfg.Bytes(), nil
}
