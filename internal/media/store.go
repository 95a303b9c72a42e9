package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dcpatrol/patrol/internal/domain/ports"
	"github.com/google/uuid"
)

// MaxImageSize is the upload limit applied before a record is
// constructed (5 MiB, matching the original upload handler)
const MaxImageSize = 5 << 20

var (
	ErrNotAnImage   = errors.New("only image uploads are accepted")
	ErrImageTooBig  = errors.New("image exceeds the 5 MiB limit")
	ErrMediaMissing = errors.New("media reference not found")
)

// extByType maps accepted content types to file extensions
var extByType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var typeByExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// refPattern guards against path traversal through crafted references
var refPattern = regexp.MustCompile(`^img_[0-9a-f-]{36}\.(png|jpg|gif|webp)$`)

// FileStore stores uploaded inspection images as files under a
// directory and hands out opaque references. The engine never looks
// inside a reference.
type FileStore struct {
	dir string
}

var _ ports.MediaStore = (*FileStore)(nil)

// NewFileStore creates the media directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Put prechecks size and content type, then stores the bytes and
// returns an opaque reference
func (s *FileStore) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := extByType[contentType]
	if !ok {
		return "", ErrNotAnImage
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooBig
	}

	ref := "img_" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return ref, nil
}

// Get resolves a reference back to the stored bytes and content type
func (s *FileStore) Get(ctx context.Context, ref string) ([]byte, string, error) {
	if !refPattern.MatchString(ref) {
		return nil, "", ErrMediaMissing
	}
	data, err := os.ReadFile(filepath.Join(s.dir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrMediaMissing
		}
		return nil, "", fmt.Errorf("read media file: %w", err)
	}
	return data, typeByExt[filepath.Ext(ref)], nil
}
