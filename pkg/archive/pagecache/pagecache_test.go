package pagecache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fileLoader is a Loader backed by an in-memory byte slice, standing in for
// the archive's diskio.File in tests.
type fileLoader struct {
	data []byte
}

func (f *fileLoader) ReadAt(offset int64, length int) ([]byte, error) {
	end := offset + int64(length)
	if end > int64(len(f.data)) {
		end = int64(len(f.data))
	}
	if offset >= end {
		return nil, nil
	}
	return f.data[offset:end], nil
}

func newTestCache(t *testing.T, pageCount, pageSize int) (*PageCache, *fileLoader) {
	t.Helper()
	loader := &fileLoader{data: make([]byte, pageCount*pageSize*4)}
	for i := range loader.data {
		loader.data[i] = byte(i)
	}
	cache := New(Config{
		Budget:       int64(pageCount * pageSize),
		MaxPageCount: pageCount,
		MinPageSize:  pageSize,
	}, loader, nil)
	return cache, loader
}

func TestPageCache_ReadCachedRoundTrip(t *testing.T) {
	cache, loader := newTestCache(t, 4, 64)

	out := make([]byte, 100)
	require.NoError(t, cache.ReadCached(10, out, false))
	require.Equal(t, loader.data[10:110], out)
}

func TestPageCache_LRUCorrectness(t *testing.T) {
	const pageCount = 4
	const pageSize = 64
	cache, _ := newTestCache(t, pageCount, pageSize)

	offsets := make([]int64, pageCount+1)
	for i := range offsets {
		offsets[i] = int64(i * pageSize)
	}

	// Touch p1..pP in order.
	for i := 0; i < pageCount; i++ {
		_, err := cache.FindPage(offsets[i], true, false)
		require.NoError(t, err)
	}
	for i := 0; i < pageCount; i++ {
		require.True(t, cache.Resident(offsets[i]), "page %d should be resident after initial fill", i)
	}

	// Touch p_{P+1}, forcing eviction of the LRU page (p1).
	_, err := cache.FindPage(offsets[pageCount], true, false)
	require.NoError(t, err)

	require.False(t, cache.Resident(offsets[0]), "p1 should have been evicted")
	require.True(t, cache.Resident(offsets[pageCount-1]), "pP should still be resident")
	require.True(t, cache.Resident(offsets[pageCount]), "p_{P+1} should now be resident")
}

func TestPageCache_WriteCachedOnlyTouchesResidentPages(t *testing.T) {
	cache, _ := newTestCache(t, 2, 64)

	// Nothing resident yet; WriteCached must not load pages.
	require.NoError(t, cache.WriteCached(0, []byte("hello")))
	require.False(t, cache.Resident(0))

	// Now load the page, then overwrite part of it.
	buf := make([]byte, 64)
	require.NoError(t, cache.ReadCached(0, buf, false))
	require.NoError(t, cache.WriteCached(4, []byte("PATCH")))

	out := make([]byte, 64)
	require.NoError(t, cache.ReadCached(0, out, false))
	require.Equal(t, []byte("PATCH"), out[4:9])
}

func TestPageCache_SpansMultiplePages(t *testing.T) {
	cache, loader := newTestCache(t, 4, 32)

	out := make([]byte, 100)
	require.NoError(t, cache.ReadCached(20, out, false))
	require.Equal(t, loader.data[20:120], out)
}
