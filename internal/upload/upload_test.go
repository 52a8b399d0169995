package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/akhaled01/kang/internal/multipart"
)

func TestSave_WritesFileUnderUploadsSubdir(t *testing.T) {
	dir := t.TempDir()
	h := New("", dir)

	data := &multipart.FormData{
		Fields: map[string]string{},
		Files: []multipart.File{
			{Name: "f", Filename: "a.bin", ContentType: "application/octet-stream", Content: []byte{0, 1, 2, 3}},
		},
	}

	saved, err := h.Save(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 1 || saved[0] != "a.bin" {
		t.Fatalf("unexpected saved list: %v", saved)
	}

	content, err := os.ReadFile(filepath.Join(dir, "uploads", "a.bin"))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	want := []byte{0, 1, 2, 3}
	if len(content) != len(want) {
		t.Fatalf("content length = %d, want %d", len(content), len(want))
	}
}

func TestSave_TooLarge(t *testing.T) {
	dir := t.TempDir()
	h := New("1K", dir)

	data := &multipart.FormData{
		Files: []multipart.File{
			{Name: "f", Filename: "big.bin", Content: make([]byte, 2000)},
		},
	}

	if _, err := h.Save(data); err == nil {
		t.Fatalf("expected error for oversized file")
	}
}
