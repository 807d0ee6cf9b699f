// Package storage is the job-photo object store. Paths are partitioned
// per-uploader and per-category with a random filename, so concurrent
// uploads never collide and no coordination is needed:
//
//	job-photos/{uploaderId}/{category}/{timestamp}-{random}.{ext}
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bucket is the photo bucket name
const Bucket = "job-photos"

// Photo categories. serial-scan holds the barcode/serial captures.
const (
	CategoryBefore     = "before"
	CategoryProgress   = "progress"
	CategoryAfter      = "after"
	CategorySerialScan = "serial-scan"
)

var ErrInvalidCategory = errors.New("invalid photo category")

// ValidCategory reports whether a category is one of the fixed set
func ValidCategory(category string) bool {
	switch category {
	case CategoryBefore, CategoryProgress, CategoryAfter, CategorySerialScan:
		return true
	}
	return false
}

// Store saves photos and yields their public URLs
type Store interface {
	// Save writes the photo and returns its public URL path.
	Save(uploaderID, category, originalFilename string, r io.Reader) (string, error)
	// Root returns the directory the bucket is served from.
	Root() string
}

// diskStore implements Store on the local filesystem
type diskStore struct {
	root       string
	publicBase string
}

// NewDiskStore creates a disk-backed photo store rooted at root
func NewDiskStore(root, publicBase string) (Store, error) {
	bucketRoot := filepath.Join(root, Bucket)
	if err := os.MkdirAll(bucketRoot, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &diskStore{root: bucketRoot, publicBase: publicBase}, nil
}

// ObjectKey builds the bucket-relative key for a new photo
func ObjectKey(uploaderID, category, originalFilename string) string {
	ext := strings.ToLower(path.Ext(originalFilename))
	if ext == "" {
		ext = ".jpg"
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
	return path.Join(uploaderID, category, name)
}

// Save writes a photo under the partitioned key and returns its URL path
func (s *diskStore) Save(uploaderID, category, originalFilename string, r io.Reader) (string, error) {
	if !ValidCategory(category) {
		return "", ErrInvalidCategory
	}
	if uploaderID == "" {
		return "", errors.New("uploader id is required")
	}

	key := ObjectKey(uploaderID, category, originalFilename)
	full := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(full)
		return "", err
	}

	return path.Join(s.publicBase, Bucket, key), nil
}

// Root returns the bucket directory on disk
func (s *diskStore) Root() string {
	return s.root
}
