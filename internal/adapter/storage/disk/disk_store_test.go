package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnest/accommodation-service/internal/domain"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, "http://localhost:8080", logger.Nop())
	require.NoError(t, err)
	return store, dir
}

func TestStore_GeneratesUniqueNamesForSameOriginal(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	url1, err := store.Store(ctx, "photo.jpg", []byte("one"))
	require.NoError(t, err)
	url2, err := store.Store(ctx, "photo.jpg", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
	assert.True(t, strings.HasPrefix(url1, "http://localhost:8080"+RoutePrefix))
	assert.True(t, strings.HasSuffix(url1, ".jpg"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStore_RejectsPathTraversalBeforeWriting(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Store(context.Background(), "../../etc/passwd", []byte("x"))

	require.ErrorIs(t, err, domain.ErrStorage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written for a rejected filename")
}

func TestStoreAll_ReturnsURLsInInputOrder(t *testing.T) {
	store, _ := newTestStore(t)

	files := []domain.File{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
		{Name: "c.gif", Data: []byte("c")},
	}

	urls, err := store.StoreAll(context.Background(), files)

	require.NoError(t, err)
	require.Len(t, urls, 3)
	assert.True(t, strings.HasSuffix(urls[0], ".jpg"))
	assert.True(t, strings.HasSuffix(urls[1], ".png"))
	assert.True(t, strings.HasSuffix(urls[2], ".gif"))
}

func TestDelete_RemovesStoredFile(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	url, err := store.Store(ctx, "photo.jpg", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, url))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete_IsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	url, err := store.Store(ctx, "photo.jpg", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, url))
	require.NoError(t, store.Delete(ctx, url), "second delete of the same URL must succeed")
}

func TestDelete_RejectsTraversalInURL(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Delete(context.Background(), "http://localhost:8080"+RoutePrefix+"..")

	require.ErrorIs(t, err, domain.ErrStorage)
}

func TestDeleteAll_RemovesEveryFile(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.Background()

	urls, err := store.StoreAll(ctx, []domain.File{
		{Name: "a.jpg", Data: []byte("a")},
		{Name: "b.jpg", Data: []byte("b")},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteAll(ctx, urls))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewStore_CreatesRootDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewStore(root, "http://localhost:8080", logger.Nop())

	require.NoError(t, err)
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
