package upload

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, zap.NewNop())
	require.NoError(t, err)
	return store, dir
}

func dirEntries(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestStoreSave(t *testing.T) {
	store, dir := newTestStore(t)

	file, err := store.Save(strings.NewReader("receipt bytes"), "lunch.jpg", "image/jpeg", 13)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", file.MimeType)
	assert.Equal(t, int64(13), file.Size)
	assert.Equal(t, "lunch.jpg", file.OriginalName)
	assert.False(t, file.IsPDF())

	name := filepath.Base(file.Path)
	assert.True(t, strings.HasPrefix(name, "receipt-"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	content, err := file.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "receipt bytes", string(content))

	require.Len(t, dirEntries(t, dir), 1)
}

func TestStoreSave_RejectsUnsupportedType(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Save(strings.NewReader("GIF89a"), "anim.gif", "image/gif", 6)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Empty(t, dirEntries(t, dir))
}

func TestStoreSave_RejectsDeclaredOversize(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Save(strings.NewReader("x"), "big.png", "image/png", MaxFileSize+1)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, dirEntries(t, dir))
}

func TestStoreSave_RejectsActualOversize(t *testing.T) {
	store, dir := newTestStore(t)

	// Declared size lies; the stream itself is over the ceiling.
	payload := bytes.Repeat([]byte("a"), MaxFileSize+1)
	_, err := store.Save(bytes.NewReader(payload), "big.png", "image/png", 100)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, dirEntries(t, dir))
}

func TestStoreSave_ExtensionFallsBackToMime(t *testing.T) {
	store, _ := newTestStore(t)

	file, err := store.Save(strings.NewReader("data"), "noext", "image/png", 4)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.Path, ".png"))
	file.Release()
}

func TestStoreSave_ConcurrentUploadsDoNotCollide(t *testing.T) {
	store, dir := newTestStore(t)

	a, err := store.Save(strings.NewReader("first"), "r.jpg", "image/jpeg", 5)
	require.NoError(t, err)
	b, err := store.Save(strings.NewReader("second"), "r.jpg", "image/jpeg", 6)
	require.NoError(t, err)

	assert.NotEqual(t, a.Path, b.Path)
	assert.Len(t, dirEntries(t, dir), 2)
}

func TestRelease(t *testing.T) {
	store, dir := newTestStore(t)

	file, err := store.Save(strings.NewReader("receipt bytes"), "lunch.jpg", "image/jpeg", 13)
	require.NoError(t, err)

	file.Release()
	assert.Empty(t, dirEntries(t, dir))

	// Double release is a no-op, never a crash.
	assert.NotPanics(t, func() {
		file.Release()
		file.Release()
	})
}

func TestRelease_MissingFileIsNotFatal(t *testing.T) {
	store, _ := newTestStore(t)

	file, err := store.Save(strings.NewReader("data"), "r.png", "image/png", 4)
	require.NoError(t, err)

	// Something else removed the file first.
	require.NoError(t, os.Remove(file.Path))
	assert.NotPanics(t, func() { file.Release() })
}
