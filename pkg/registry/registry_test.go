package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"xflscene/pkg/scene"
	"xflscene/pkg/xflerr"
)

type fakeArchive struct {
	files map[string][]byte
}

func (f *fakeArchive) ListLibrary() []string {
	var out []string
	for path := range f.files {
		out = append(out, path)
	}
	return out
}

func (f *fakeArchive) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, xflerr.ErrMalformed
	}
	return data, nil
}

func stubParse(data []byte) (*scene.Symbol, error) {
	if string(data) == "bad" {
		return nil, xflerr.ErrMalformed
	}
	return &scene.Symbol{Name: string(data)}, nil
}

func TestRegistryLoadAndLookup(t *testing.T) {
	archive := &fakeArchive{files: map[string][]byte{
		`LIBRARY\Buttons\play.xml`: []byte("play"),
		"LIBRARY/graphics/star.xml": []byte("star"),
		"LIBRARY/notes.txt":         []byte("ignored"),
	}}

	reg := New()
	err := reg.Load(context.Background(), archive, stubParse, nil)
	require.NoError(t, err)
	require.Equal(t, 2, reg.Len())

	s, ok := reg.Lookup("LIBRARY/Buttons/play.xml")
	require.True(t, ok)
	require.Equal(t, "play", s.Name)

	// Backslash-authored key resolves via normalisation.
	s, ok = reg.Lookup(`LIBRARY\Buttons\play.xml`)
	require.True(t, ok)
	require.Equal(t, "play", s.Name)

	// Case-insensitive fallback.
	s, ok = reg.Lookup("library/buttons/play.xml")
	require.True(t, ok)
	require.Equal(t, "play", s.Name)

	_, ok = reg.Lookup("LIBRARY/missing.xml")
	require.False(t, ok)
}

func TestRegistryLoadSkipsMalformedSymbol(t *testing.T) {
	archive := &fakeArchive{files: map[string][]byte{
		"LIBRARY/bad.xml":  []byte("bad"),
		"LIBRARY/good.xml": []byte("good"),
	}}

	reg := New()
	err := reg.Load(context.Background(), archive, stubParse, nil)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())
}

func TestRegistryLoadIsIdempotent(t *testing.T) {
	archive := &fakeArchive{files: map[string][]byte{
		"LIBRARY/a.xml": []byte("a"),
	}}

	reg := New()
	require.NoError(t, reg.Load(context.Background(), archive, stubParse, nil))
	require.NoError(t, reg.Load(context.Background(), archive, stubParse, nil))
	require.Equal(t, 1, reg.Len())
}

func TestRegistryLoadCancelled(t *testing.T) {
	archive := &fakeArchive{files: map[string][]byte{
		"LIBRARY/a.xml": []byte("a"),
	}}

	reg := New()
	err := reg.Load(context.Background(), archive, stubParse, func() bool { return true })
	require.ErrorIs(t, err, xflerr.ErrCancelled)
}
