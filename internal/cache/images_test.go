package cache

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeLocalFile(t *testing.T) {
	ic, err := NewImageCache(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(p, pngBytes(t, 4, 3), 0o644))

	img, err := ic.Decode(p)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	img, err = ic.Decode("file://" + p)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = ic.Decode(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeRemoteUsesDiskCache(t *testing.T) {
	body := pngBytes(t, 2, 2)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cover.png" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Write(body)
	}))
	defer srv.Close()

	ic, err := NewImageCache(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		img, err := ic.Decode(srv.URL + "/cover.png")
		require.NoError(t, err)
		assert.Equal(t, 2, img.Bounds().Dx())
	}
	assert.Equal(t, int32(1), hits.Load())
	assert.FileExists(t, ic.diskPath(srv.URL+"/cover.png"))

	_, err = ic.Decode(srv.URL + "/missing.png")
	assert.ErrorContains(t, err, "404")
	assert.NoFileExists(t, ic.diskPath(srv.URL+"/missing.png"))
}

func TestDecodeReplacesCorruptCacheEntry(t *testing.T) {
	body := pngBytes(t, 1, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	ic, err := NewImageCache(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	src := srv.URL + "/art.png"
	p := ic.diskPath(src)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("not an image"), 0o644))

	img, err := ic.Decode(src)
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
}

func TestLoadAsyncRemembersFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	ic, err := NewImageCache(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)
	src := srv.URL + "/gone.png"
	noop := func(*ebiten.Image) { t.Error("callback ran for a failed image") }

	ic.LoadAsync(src, noop)
	require.Eventually(t, func() bool { return ic.Err(src) != nil }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorContains(t, ic.Err(src), "404")

	ic.LoadAsync(src, noop)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), hits.Load())
	assert.Nil(t, ic.Get(src))

	ic.Forget(src)
	assert.NoError(t, ic.Err(src))
	ic.LoadAsync(src, noop)
	require.Eventually(t, func() bool { return hits.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}
