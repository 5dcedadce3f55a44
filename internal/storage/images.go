// Package storage persists uploaded product images on the local
// filesystem. The serving layer exposes the upload directory under
// /media/, so repositories only store the path relative to that root.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// allowed image extensions, lowercased
var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// maxImageBytes caps uploads at 5 MiB.
const maxImageBytes = 5 << 20

// ImageStore writes uploaded images under Dir/product_image/ with
// UUID-based filenames so concurrent uploads of files with the same
// original name never collide.
type ImageStore struct {
	Dir string
}

func NewImageStore(dir string) *ImageStore { return &ImageStore{Dir: dir} }

// Save stores the uploaded file and returns its path relative to the
// upload root (e.g. "product_image/3f2a....png"). The original filename
// contributes only its extension.
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxImageBytes {
		return "", fmt.Errorf("image too large: %d bytes", fh.Size)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("unsupported image type: %q", ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	rel := filepath.Join("product_image", uuid.NewString()+ext)
	full := filepath.Join(s.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(full)
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Remove deletes a previously stored image. A missing file is not an
// error; the row is the source of truth.
func (s *ImageStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
