package album

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFallsBackToNumberedTitles(t *testing.T) {
	r := Build("/music", []Descriptor{
		{Audio: "a.mp3", Title: "Opening"},
		{Audio: "b.mp3"},
		{Audio: "c.mp3", Title: "   ", Video: "c.mp4"},
	})

	require.Equal(t, 3, r.Len())
	tracks := r.Tracks()
	assert.Equal(t, "Opening", tracks[0].Title)
	assert.Equal(t, "Track 2", tracks[1].Title)
	assert.Equal(t, "Track 3", tracks[2].Title)
	for i, tr := range tracks {
		assert.Equal(t, i, tr.Index)
	}
	assert.False(t, tracks[0].HasVideo())
	assert.True(t, tracks[2].HasVideo())
}

func TestEmptyRegistry(t *testing.T) {
	r := Build("", nil)
	assert.True(t, r.Empty())
	assert.False(t, r.Valid(0))
	_, ok := r.At(0)
	assert.False(t, ok)

	var nilReg *Registry
	assert.Equal(t, 0, nilReg.Len())
	assert.Empty(t, nilReg.Tracks())
}

func TestAtRejectsOutOfRange(t *testing.T) {
	r := Build("", []Descriptor{{Audio: "x.wav"}})
	_, ok := r.At(-1)
	assert.False(t, ok)
	_, ok = r.At(1)
	assert.False(t, ok)
	tr, ok := r.At(0)
	require.True(t, ok)
	assert.Equal(t, "x.wav", tr.AudioLocator)
}

func TestResolveLocalPaths(t *testing.T) {
	base := t.TempDir()
	r := Build(base, nil)

	assert.Equal(t, filepath.Join(base, "audio", "one.mp3"), r.Resolve("audio/one.mp3"))
	assert.Equal(t, filepath.Join(base, "one.mp3"), r.Resolve("./audio/../one.mp3"))
	assert.Equal(t, "", r.Resolve("  "))

	abs := filepath.Join(base, "two.mp3")
	assert.Equal(t, abs, r.Resolve(abs))
	assert.Equal(t, abs, r.Resolve("file://"+filepath.ToSlash(abs)))
}

func TestResolveAgainstRemoteBase(t *testing.T) {
	r := Build("https://cdn.example.com/albums/first/", nil)

	assert.Equal(t, "https://cdn.example.com/albums/first/audio/1.mp3", r.Resolve("audio/1.mp3"))
	assert.Equal(t, "https://cdn.example.com/audio/1.mp3", r.Resolve("/audio/1.mp3"))
	assert.Equal(t, "https://other.example.com/x.mp3", r.Resolve("https://other.example.com/x.mp3"))
}

func TestSameLocatorComparesResolvedForms(t *testing.T) {
	base := t.TempDir()
	r := Build(base, nil)

	assert.True(t, r.SameLocator("audio/one.mp3", filepath.Join(base, "audio", "one.mp3")))
	assert.True(t, r.SameLocator("audio/one.mp3", "./audio/one.mp3"))
	assert.False(t, r.SameLocator("audio/one.mp3", "audio/two.mp3"))
	assert.False(t, r.SameLocator("", ""))

	remote := Build("https://cdn.example.com/a/", nil)
	assert.True(t, remote.SameLocator("t.mp3", "https://cdn.example.com/a/t.mp3"))
}
