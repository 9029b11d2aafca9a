package render

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	pdfreader "github.com/ledongthuc/pdf"

	"hrcraft/internal/fault"
	"hrcraft/internal/models"
)

type stubEngine struct {
	name      string
	available bool
	out       []byte
	err       error
	gotHTML   string
	calls     int
}

func (s *stubEngine) Name() string    { return s.name }
func (s *stubEngine) Available() bool { return s.available }
func (s *stubEngine) Render(html string) ([]byte, error) {
	s.calls++
	s.gotHTML = html
	return s.out, s.err
}

func extractText(t *testing.T, data []byte) string {
	t.Helper()
	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pdf: %v", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		t.Fatalf("extract pdf text: %v", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		t.Fatalf("read pdf text: %v", err)
	}
	return sb.String()
}

func TestPDF_PrimaryEngineWins(t *testing.T) {
	primary := &stubEngine{name: "primary", available: true, out: []byte("%PDF-stub")}
	fallback := &stubEngine{name: "fallback", available: true, out: []byte("%PDF-fallback")}
	r := NewRenderer("", primary, fallback)

	out, engine, err := r.PDF("Text.", models.DocTypeJobDescription, Metadata{}, nil)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if engine != "primary" || string(out) != "%PDF-stub" {
		t.Fatalf("expected primary output, got engine=%s out=%q", engine, out)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback must not run when primary succeeds")
	}
	if !strings.Contains(primary.gotHTML, "@page") {
		t.Fatalf("primary engine must receive the paged-media stylesheet")
	}
}

func TestPDF_FallsBackWhenPrimaryUnavailable(t *testing.T) {
	primary := &stubEngine{name: "primary", available: false}
	fallback := &stubEngine{name: "fallback", available: true, out: []byte("%PDF-fallback")}
	r := NewRenderer("", primary, fallback)

	out, engine, err := r.PDF("Text.", models.DocTypeJobDescription, Metadata{}, nil)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if engine != "fallback" || len(out) == 0 {
		t.Fatalf("expected fallback output, got engine=%s", engine)
	}
	if primary.calls != 0 {
		t.Fatalf("unavailable engine must not be called")
	}
	if !strings.Contains(fallback.gotHTML, "<style>") || strings.Contains(fallback.gotHTML, "@page") {
		t.Fatalf("fallback must get the reduced stylesheet only")
	}
}

func TestPDF_FallsBackWhenPrimaryFails(t *testing.T) {
	primary := &stubEngine{name: "primary", available: true, err: errors.New("boom")}
	fallback := &stubEngine{name: "fallback", available: true, out: []byte("%PDF-fallback")}
	r := NewRenderer("", primary, fallback)

	_, engine, err := r.PDF("Text.", models.DocTypeJobDescription, Metadata{}, nil)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if engine != "fallback" || primary.calls != 1 {
		t.Fatalf("expected fallback after primary failure, got engine=%s calls=%d", engine, primary.calls)
	}
}

func TestPDF_NoEngines(t *testing.T) {
	r := NewRenderer("")
	_, _, err := r.PDF("Text.", models.DocTypeJobDescription, Metadata{}, nil)
	if kind := fault.KindOf(err); kind != fault.KindConfiguration {
		t.Fatalf("expected configuration fault, got %v", err)
	}
}

func TestPDF_AllEnginesUnavailable(t *testing.T) {
	r := NewRenderer("",
		&stubEngine{name: "primary", available: false},
		&stubEngine{name: "fallback", available: false})
	_, _, err := r.PDF("Text.", models.DocTypeJobDescription, Metadata{}, nil)
	if kind := fault.KindOf(err); kind != fault.KindConfiguration {
		t.Fatalf("expected configuration fault, got %v", err)
	}
}

func TestPDF_AllEnginesFail(t *testing.T) {
	r := NewRenderer("",
		&stubEngine{name: "primary", available: true, err: errors.New("a")},
		&stubEngine{name: "fallback", available: true, err: errors.New("b")})
	_, _, err := r.PDF("Text.", models.DocTypeJobDescription, Metadata{}, nil)
	if kind := fault.KindOf(err); kind != fault.KindConfiguration {
		t.Fatalf("expected configuration fault, got %v", err)
	}
}

func TestPDF_FallbackEngineProducesReadablePDF(t *testing.T) {
	r := NewRenderer("", &stubEngine{name: "primary", available: false}, NewFallbackEngine())

	out, engine, err := r.PDF("## Summary\nGreat quarter.", models.DocTypePerformanceReview,
		Metadata{Title: "Q4 Review", Date: "2025-08-20", Reference: "DOC-00042"}, nil)
	if err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	if engine != "fpdf" {
		t.Fatalf("expected fpdf engine, got %s", engine)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", out[:16])
	}

	text := extractText(t, out)
	for _, want := range []string{"Q4 Review", "DOC-00042", "Summary", "Great quarter."} {
		if !strings.Contains(text, want) {
			t.Fatalf("pdf text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "All rights reserved") {
		t.Fatalf("company block must be absent without branding:\n%s", text)
	}
}

func TestPDF_FallbackRendersLists(t *testing.T) {
	eng := NewFallbackEngine()
	page := "<html><head></head><body><ul><li>alpha</li><li>beta</li></ul><ol><li>one</li></ol></body></html>"
	out, err := eng.Render(page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := extractText(t, out)
	for _, want := range []string{"alpha", "beta", "1. one"} {
		if !strings.Contains(text, want) {
			t.Fatalf("list text missing %q:\n%s", want, text)
		}
	}
}
