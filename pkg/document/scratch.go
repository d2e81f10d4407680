package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrTooLarge is returned when an upload exceeds the configured byte limit.
var ErrTooLarge = errors.New("file too large")

// Extractor turns a document on disk into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// FileExtractor dispatches on the file extension.
type FileExtractor struct{}

func (FileExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return ParseText(path, data)
}

// Scratch stores uploads in dir for the duration of text extraction.
type Scratch struct {
	dir      string
	maxBytes int64
}

func NewScratch(dir string, maxBytes int64) *Scratch {
	return &Scratch{dir: dir, maxBytes: maxBytes}
}

// Dir returns the scratch directory.
func (s *Scratch) Dir() string { return s.dir }

// With copies r into a uniquely named file carrying ext, calls fn with its
// path and removes the file on every return path, including panics in fn.
func (s *Scratch) With(ext string, r io.Reader, fn func(path string) error) (err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("prepare scratch dir: %w", err)
	}
	path := filepath.Join(s.dir, uuid.New().String()+"."+ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create scratch file: %w", err)
	}
	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("remove scratch file: %w", rmErr)
		}
	}()

	if err := s.copyLimited(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close scratch file: %w", err)
	}
	return fn(path)
}

func (s *Scratch) copyLimited(dst io.Writer, src io.Reader) error {
	if s.maxBytes <= 0 {
		if _, err := io.Copy(dst, src); err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		return nil
	}
	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if n > s.maxBytes {
		return fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	return nil
}
