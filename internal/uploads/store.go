package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/edusarathi/content-service/internal/config"
)

// allowedExtensions whitelists upload types. Extension-based, matching the
// scan formats teachers actually send.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// UploadError is a client-side upload rejection. Handlers translate it
// to 400.
type UploadError struct {
	Filename string
	Reason   string
}

func (e *UploadError) Error() string {
	if e.Filename == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Filename, e.Reason)
}

// Store saves uploaded files on local disk under per-category directories
// with randomized names.
type Store struct {
	dir         string
	maxFileSize int64
	maxFiles    int
}

func NewStore(cfg config.UploadConfig) *Store {
	return &Store{
		dir:         cfg.Dir,
		maxFileSize: cfg.MaxFileSize,
		maxFiles:    cfg.MaxFiles,
	}
}

// SaveAll validates and stores a batch of uploads, returning the stored
// paths relative to the upload root. Validation failures reject the whole
// batch before anything is written.
func (s *Store) SaveAll(category string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, &UploadError{Reason: "no files provided"}
	}
	if len(files) > s.maxFiles {
		return nil, &UploadError{Reason: fmt.Sprintf("too many files: %d exceeds the limit of %d", len(files), s.maxFiles)}
	}

	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			return nil, &UploadError{Filename: fh.Filename, Reason: fmt.Sprintf("file type %s is not allowed", ext)}
		}
		if fh.Size > s.maxFileSize {
			return nil, &UploadError{Filename: fh.Filename, Reason: fmt.Sprintf("file exceeds the %d byte limit", s.maxFileSize)}
		}
	}

	targetDir := filepath.Join(s.dir, category)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		name := uuid.NewString() + ext

		if err := s.saveOne(fh, filepath.Join(targetDir, name)); err != nil {
			return nil, err
		}
		paths = append(paths, filepath.Join(category, name))
	}

	return paths, nil
}

func (s *Store) saveOne(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
