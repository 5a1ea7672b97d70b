package storage

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrBlobNotFound is returned when a referenced blob is missing from disk.
var ErrBlobNotFound = errors.New("blob not found")

// ImageStore persists image blobs as files under a root directory. Keys are
// opaque to callers and never contain path separators, so a stored key can
// be safely round-tripped through the database.
type ImageStore struct {
	root string
}

// NewImageStore create the root directory if needed and return a store.
func NewImageStore(root string) (*ImageStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &ImageStore{root: root}, nil
}

// NewKey derive a fresh unique storage key for a movie's image.
func (s *ImageStore) NewKey(movieID int64) (string, error) {
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return fmt.Sprintf("movie_%d_%s.jpg", movieID, hex.EncodeToString(randomBytes)), nil
}

// Save write the blob under key atomically: the bytes go to a temporary file
// which is fsynced and then renamed into place. A reader can never observe a
// partially written blob, and the caller only links the key into the database
// after Save returns.
func (s *ImageStore) Save(key string, r io.Reader) error {
	tmp, err := os.CreateTemp(s.root, "upload-*.tmp")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return err
	}

	if err := tmp.Sync(); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(s.root, key))
}

// Open return a reader over the blob stored under key, along with its size.
func (s *ImageStore) Open(key string) (io.ReadSeekCloser, int64, error) {
	f, err := os.Open(filepath.Join(s.root, filepath.Base(key)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, ErrBlobNotFound
		}
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}

// Remove delete the blob stored under key. Removing a key that does not
// exist is not an error: the caller's intent is already satisfied.
func (s *ImageStore) Remove(key string) error {
	err := os.Remove(filepath.Join(s.root, filepath.Base(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
