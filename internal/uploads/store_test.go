package uploads

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edusarathi/content-service/internal/config"
)

func makeFileHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("answerSheet", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["answerSheet"]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.UploadConfig{
		Dir:         t.TempDir(),
		MaxFileSize: 64,
		MaxFiles:    2,
	})
}

func TestSaveAllStoresFiles(t *testing.T) {
	store := newTestStore(t)

	headers := makeFileHeaders(t, map[string]string{
		"scan-page-1.jpg": "fake jpeg bytes",
		"scan-page-2.pdf": "fake pdf bytes",
	})

	paths, err := store.SaveAll("answer-sheets", headers)
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2", len(paths))
	}

	for _, p := range paths {
		if !strings.HasPrefix(p, "answer-sheets"+string(filepath.Separator)) {
			t.Errorf("path %q should live under the category directory", p)
		}
		if strings.Contains(p, "scan-page") {
			t.Errorf("path %q should use a randomized name", p)
		}
		if _, err := os.Stat(filepath.Join(store.dir, p)); err != nil {
			t.Errorf("stored file missing: %v", err)
		}
	}
}

func TestSaveAllRejections(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name:  "disallowed extension",
			files: map[string]string{"notes.exe": "nope"},
		},
		{
			name:  "oversized file",
			files: map[string]string{"big.png": strings.Repeat("x", 100)},
		},
		{
			name: "too many files",
			files: map[string]string{
				"a.jpg": "1", "b.jpg": "2", "c.jpg": "3",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			headers := makeFileHeaders(t, tt.files)

			_, err := store.SaveAll("answer-sheets", headers)
			var uploadErr *UploadError
			if !errors.As(err, &uploadErr) {
				t.Fatalf("err = %v, want *UploadError", err)
			}

			// Rejection must happen before anything is written.
			entries, _ := os.ReadDir(filepath.Join(store.dir, "answer-sheets"))
			if len(entries) != 0 {
				t.Errorf("found %d stored files after rejection, want 0", len(entries))
			}
		})
	}
}

func TestSaveAllEmptyBatch(t *testing.T) {
	store := newTestStore(t)
	_, err := store.SaveAll("answer-sheets", nil)
	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %v, want *UploadError", err)
	}
}
