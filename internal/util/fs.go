package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// SafeJoin joins name under root, discarding any path components a caller
// may have smuggled into name.
func SafeJoin(root, name string) string {
	return filepath.Join(root, filepath.Base(name))
}

// ExportFilename derives a download filename from a document title: spaces
// become underscores and path separators are dropped. ext includes the dot.
func ExportFilename(title, ext string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		name = "document"
	}
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	return name + ext
}
