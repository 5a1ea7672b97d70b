package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()

	store, err := NewImageStore(t.TempDir())
	require.NoError(t, err)

	return store
}

func TestNewKey(t *testing.T) {
	store := newTestStore(t)

	key, err := store.NewKey(42)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^movie_42_[0-9a-f]{16}\.jpg$`), key)
	assert.False(t, strings.ContainsRune(key, os.PathSeparator))

	other, err := store.NewKey(42)
	require.NoError(t, err)
	assert.NotEqual(t, key, other, "keys for the same movie must be unique")
}

func TestSaveAndOpen(t *testing.T) {
	store := newTestStore(t)

	content := []byte("\xff\xd8\xfffake jpeg bytes")

	key, err := store.NewKey(1)
	require.NoError(t, err)

	err = store.Save(key, bytes.NewReader(content))
	require.NoError(t, err)

	blob, size, err := store.Open(key)
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(content)), size)

	got, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	store, err := NewImageStore(dir)
	require.NoError(t, err)

	err = store.Save("movie_1_aa.jpg", bytes.NewReader([]byte("data")))
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "upload-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary upload files must not survive a successful save")
}

func TestOpenMissingBlob(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Open("movie_9_missing.jpg")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	key := "movie_1_bb.jpg"
	require.NoError(t, store.Save(key, bytes.NewReader([]byte("data"))))

	require.NoError(t, store.Remove(key))

	_, _, err := store.Open(key)
	assert.ErrorIs(t, err, ErrBlobNotFound)

	// Removing an already-removed blob is fine.
	assert.NoError(t, store.Remove(key))
}

func TestOpenIgnoresPathTraversal(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Open("../../etc/passwd")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}
