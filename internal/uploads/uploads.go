// Package uploads stores profile photos on local disk.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/garnizeh/skillswap/internal/apperr"
)

const sniffLen = 512

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

var allowedMimeTypes = [...]string{"image/png", "image/jpeg", "image/gif"}

// PhotoSetter records a user's current photo file name.
type PhotoSetter interface {
	SetProfilePhoto(ctx context.Context, userID int64, filename string) error
}

type Store struct {
	dir      string
	maxBytes int64
	photos   PhotoSetter
	logger   *slog.Logger
}

func NewStore(dir string, maxBytes int64, photos PhotoSetter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, maxBytes: maxBytes, photos: photos, logger: logger}
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Extension returns the lower-cased extension of name if it is an accepted image type.
func Extension(name string) (string, bool) {
	i := strings.LastIndex(name, ".")
	if i < 0 || i == len(name)-1 {
		return "", false
	}
	ext := strings.ToLower(name[i+1:])
	_, ok := allowedExtensions[ext]
	return ext, ok
}

// SaveProfilePhoto writes the image under a fresh {userID}_{uuid}.{ext} name and
// points the user's profile at it.
func (s *Store) SaveProfilePhoto(ctx context.Context, userID int64, originalName string, src io.Reader) (string, error) {
	ext, ok := Extension(originalName)
	if !ok {
		return "", apperr.Validation("invalid file type")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", apperr.Validation("error reading file")
	}
	if n == 0 {
		return "", apperr.Validation("file is empty")
	}
	head = head[:n]
	if detected := mimetype.Detect(head); !detected.Is(allowedMimeTypes[0]) && !detected.Is(allowedMimeTypes[1]) && !detected.Is(allowedMimeTypes[2]) {
		return "", apperr.Validation("invalid file type")
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperr.Internal(fmt.Errorf("create upload dir: %w", err))
	}
	tmp, err := os.CreateTemp(s.dir, ".incoming-*")
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("create temp file: %w", err))
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, io.LimitReader(io.MultiReader(bytes.NewReader(head), src), s.maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("write upload: %w", err))
	}
	if written > s.maxBytes {
		return "", apperr.Validation("file is too large")
	}

	filename := fmt.Sprintf("%d_%s.%s", userID, uuid.NewString(), ext)
	if err := os.Rename(tmpPath, filepath.Join(s.dir, filename)); err != nil {
		return "", apperr.Internal(fmt.Errorf("store upload: %w", err))
	}
	tmpPath = ""

	if err := s.photos.SetProfilePhoto(ctx, userID, filename); err != nil {
		_ = os.Remove(filepath.Join(s.dir, filename))
		return "", apperr.Internal(err)
	}
	s.logger.Info("profile photo stored", slog.Int64("user_id", userID), slog.String("filename", filename), slog.Int64("bytes", written))
	return filename, nil
}

// Path resolves a stored file name to its location on disk.
// Names that are not plain file names are reported as not found.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") || strings.ContainsAny(name, `/\`) {
		return "", apperr.NotFound("file")
	}
	p := filepath.Join(s.dir, name)
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", apperr.NotFound("file")
	}
	return p, nil
}
