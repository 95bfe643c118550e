package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFileSize is the upload ceiling for a single receipt file.
const MaxFileSize = 10 << 20 // 10 MiB

var (
	ErrUnsupportedType = errors.New("invalid file type, only JPEG, PNG and PDF files are allowed")
	ErrTooLarge        = errors.New("file exceeds the maximum upload size")
)

var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// Store writes uploaded receipts to a transient directory. Files saved here
// live only for the duration of the request that created them; the caller
// owns the returned StoredFile and must call Release on every exit path.
type Store struct {
	dir    string
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger,
	}, nil
}

// Save validates the declared type and size and writes the stream to disk
// under a collision-resistant name (timestamp plus random disambiguator).
func (s *Store) Save(file io.Reader, originalName, mimeType string, size int64) (*StoredFile, error) {
	fallbackExt, ok := allowedTypes[mimeType]
	if !ok {
		return nil, ErrUnsupportedType
	}
	if size > MaxFileSize {
		return nil, ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = fallbackExt
	}

	name := fmt.Sprintf("receipt-%d-%s%s", time.Now().UnixNano(), uuid.New().String(), ext)
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	// The declared size is client-supplied; cap the actual bytes written too.
	written, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	if written > MaxFileSize {
		os.Remove(path)
		return nil, ErrTooLarge
	}

	return &StoredFile{
		Path:         path,
		MimeType:     mimeType,
		Size:         written,
		OriginalName: originalName,
		logger:       s.logger,
	}, nil
}

// StoredFile is a transient upload owned by a single request.
type StoredFile struct {
	Path         string
	MimeType     string
	Size         int64
	OriginalName string

	logger   *zap.Logger
	released bool
}

func (f *StoredFile) IsPDF() bool {
	return f.MimeType == "application/pdf" || strings.EqualFold(filepath.Ext(f.Path), ".pdf")
}

// Bytes reads the stored file back for encoding into a provider request.
func (f *StoredFile) Bytes() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Release removes the file from disk. It is idempotent: a second call is a
// no-op, and a missing file is logged rather than treated as an error.
func (f *StoredFile) Release() {
	if f.released {
		return
	}
	f.released = true

	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("Failed to remove transient upload",
			zap.String("path", f.Path),
			zap.Error(err),
		)
	}
}
