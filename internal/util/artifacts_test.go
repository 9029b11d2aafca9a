package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteBinaryAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "doc.pdf")
	if err := WriteBinaryAtomic(path, []byte("%PDF-fake")); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "%PDF-fake" {
		t.Fatalf("unexpected content: %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteJSONAtomic(path, map[string]int{"documents": 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "{\n  \"documents\": 3\n}\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWriteTextAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batches", "b1", "job_description-7.md")
	if err := WriteTextAtomic(path, "# Backend Engineer\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "# Backend Engineer\n" {
		t.Fatalf("unexpected content: %q", got)
	}
}

func TestExportFilename(t *testing.T) {
	cases := map[string]string{
		"Job Description: Engineer - Platform": "Job_Description:_Engineer_-_Platform",
		"  ":       "document",
		"a/b\\c":   "a_b_c",
		"NoSpaces": "NoSpaces",
	}
	for in, want := range cases {
		if got := ExportFilename(in, ".docx"); got != want+".docx" {
			t.Fatalf("filename %q: got %q want %q", in, got, want+".docx")
		}
	}
}

func TestSHA256Hex(t *testing.T) {
	if got := SHA256Hex([]byte("abc")); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Fatalf("unexpected digest: %s", got)
	}
	got, err := SHA256HexFromReader(strings.NewReader("abc"))
	if err != nil {
		t.Fatalf("hash reader: %v", err)
	}
	if got != SHA256Hex([]byte("abc")) {
		t.Fatalf("reader digest diverges: %s", got)
	}
}
