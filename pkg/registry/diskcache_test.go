package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"xflscene/pkg/scene"
)

func TestDiskCacheGetPutRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "symbols.db"))
	require.NoError(t, err)
	defer cache.Close()

	data := []byte("star")
	_, ok := cache.Get(data)
	require.False(t, ok)

	require.NoError(t, cache.Put(data, &scene.Symbol{Name: "star"}))
	symbol, ok := cache.Get(data)
	require.True(t, ok)
	require.Equal(t, "star", symbol.Name)
}

func TestLoadCachedSkipsReparseOnSecondRun(t *testing.T) {
	archive := &fakeArchive{files: map[string][]byte{
		"LIBRARY/star.xml": []byte("star"),
	}}
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "symbols.db"))
	require.NoError(t, err)
	defer cache.Close()

	calls := 0
	countingParse := func(data []byte) (*scene.Symbol, error) {
		calls++
		return stubParse(data)
	}

	reg := New()
	require.NoError(t, reg.LoadCached(archive, cache, countingParse, nil))
	require.Equal(t, 1, calls)

	// A fresh Registry over the same archive content hits the disk cache
	// instead of calling parse again.
	reg2 := New()
	require.NoError(t, reg2.LoadCached(archive, cache, countingParse, nil))
	require.Equal(t, 1, calls)
	require.Equal(t, 1, reg2.Len())
}
