// Package upload persists decoded multipart files under a configured
// directory, gated by a maximum body size (spec.md §4.4).
package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/akhaled01/kang/internal/multipart"
	"github.com/akhaled01/kang/internal/sizefmt"
)

// ErrTooLarge is returned when a file exceeds the configured max size.
var ErrTooLarge = fmt.Errorf("upload: file exceeds maximum allowed size")

// ErrSizeMismatch is returned when the bytes written to disk don't match
// the in-memory content length — a corrupted or partial write.
var ErrSizeMismatch = fmt.Errorf("upload: on-disk size does not match in-memory size")

// Handler saves uploaded files under uploadDir/uploads, enforcing maxSize.
type Handler struct {
	maxSize   uint64
	uploadDir string
}

// New builds a Handler. maxSizeStr is parsed with sizefmt, falling back to
// sizefmt.DefaultMaxBodySize when empty or malformed (spec.md §4.4).
func New(maxSizeStr, uploadDir string) *Handler {
	return &Handler{
		maxSize:   sizefmt.ParseOrDefault(maxSizeStr),
		uploadDir: uploadDir,
	}
}

// Save writes every file in data under {uploadDir}/uploads, truncating any
// existing file of the same name, and returns the saved filenames in
// order. It fails fast on the first file that is too large or whose
// on-disk size fails to verify.
func (h *Handler) Save(data *multipart.FormData) ([]string, error) {
	destDir := filepath.Join(h.uploadDir, "uploads")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: creating %s: %w", destDir, err)
	}

	var saved []string
	for _, file := range data.Files {
		if uint64(len(file.Content)) > h.maxSize {
			return nil, fmt.Errorf("upload: %q: %w", file.Filename, ErrTooLarge)
		}

		destPath := filepath.Join(destDir, file.Filename)
		if err := h.saveOne(destPath, file.Content); err != nil {
			return nil, err
		}
		saved = append(saved, file.Filename)
	}
	return saved, nil
}

func (h *Handler) saveOne(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("upload: creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("upload: writing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("upload: flushing %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("upload: stat %s: %w", path, err)
	}
	if info.Size() != int64(len(content)) {
		return fmt.Errorf("upload: %s: %w", path, ErrSizeMismatch)
	}
	return nil
}
