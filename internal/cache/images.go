package cache

import (
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

// ImageCache provides disk + memory caching for album art. Local files are
// decoded in place; remote images are cached on disk by URL.
type ImageCache struct {
	cacheDir string
	client   *http.Client
	log      zerolog.Logger
	memory   sync.Map // src -> *ebiten.Image
	loading  sync.Map // src -> *loadEntry (in-flight dedup with waiters)
	failed   sync.Map // src -> error, so broken images are not refetched every frame
	sem      chan struct{}
}

// loadEntry tracks in-flight loads and their waiters.
type loadEntry struct {
	mu        sync.Mutex
	callbacks []func(*ebiten.Image)
}

// NewImageCache creates a new image cache with the given disk directory.
func NewImageCache(cacheDir string, logger zerolog.Logger) (*ImageCache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}
	return &ImageCache{
		cacheDir: cacheDir,
		client:   httpClient,
		log:      logger,
		sem:      make(chan struct{}, 4),
	}, nil
}

// Get returns a cached image if available, or nil.
func (ic *ImageCache) Get(src string) *ebiten.Image {
	if v, ok := ic.memory.Load(src); ok {
		return v.(*ebiten.Image)
	}
	return nil
}

// LoadAsync starts loading an image in the background. The callback runs on
// a background goroutine once the image is ready and is skipped on failure.
// A source that failed once is not retried until Forget is called.
func (ic *ImageCache) LoadAsync(src string, callback func(*ebiten.Image)) {
	if v, ok := ic.memory.Load(src); ok {
		callback(v.(*ebiten.Image))
		return
	}
	if _, bad := ic.failed.Load(src); bad {
		return
	}

	entry := &loadEntry{}
	entry.callbacks = append(entry.callbacks, callback)

	if existing, loaded := ic.loading.LoadOrStore(src, entry); loaded {
		existingEntry := existing.(*loadEntry)
		existingEntry.mu.Lock()
		existingEntry.callbacks = append(existingEntry.callbacks, callback)
		existingEntry.mu.Unlock()
		return
	}

	go func() {
		defer ic.loading.Delete(src)

		ic.sem <- struct{}{}
		defer func() { <-ic.sem }()

		img, err := ic.Decode(src)
		if err != nil {
			ic.log.Warn().Err(err).Str("src", src).Msg("load image")
			ic.failed.Store(src, err)
			return
		}

		eimg := ebiten.NewImageFromImage(img)
		ic.memory.Store(src, eimg)

		entry.mu.Lock()
		cbs := make([]func(*ebiten.Image), len(entry.callbacks))
		copy(cbs, entry.callbacks)
		entry.mu.Unlock()

		for _, cb := range cbs {
			cb(eimg)
		}
	}()
}

// Decode loads and decodes src without touching the in-memory cache.
func (ic *ImageCache) Decode(src string) (image.Image, error) {
	if !isRemote(src) {
		f, err := os.Open(strings.TrimPrefix(src, "file://"))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", src, err)
		}
		return img, nil
	}

	diskPath := ic.diskPath(src)

	if f, err := os.Open(diskPath); err == nil {
		img, _, err := image.Decode(f)
		f.Close()
		if err == nil {
			return img, nil
		}
		// Corrupt cache file, remove and re-download
		os.Remove(diskPath)
	}

	resp, err := ic.client.Get(src)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(diskPath)
	if err != nil {
		return nil, err
	}

	// Tee to disk while decoding
	tee := io.TeeReader(resp.Body, f)
	img, _, err := image.Decode(tee)
	f.Close()
	if err != nil {
		os.Remove(diskPath)
		return nil, err
	}

	return img, nil
}

func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

func (ic *ImageCache) diskPath(src string) string {
	h := sha256.Sum256([]byte(src))
	name := fmt.Sprintf("%x", h[:16])
	return filepath.Join(ic.cacheDir, name[:2], name)
}

// Err returns the error that made src fail to load, or nil.
func (ic *ImageCache) Err(src string) error {
	if v, ok := ic.failed.Load(src); ok {
		return v.(error)
	}
	return nil
}

// Forget drops src from memory and clears a recorded failure so the next
// LoadAsync fetches it again.
func (ic *ImageCache) Forget(src string) {
	ic.memory.Delete(src)
	ic.failed.Delete(src)
}

// CacheDir returns the disk cache directory path.
func (ic *ImageCache) CacheDir() string {
	return ic.cacheDir
}

// ClearDisk removes all cached images from disk.
func (ic *ImageCache) ClearDisk() error {
	return os.RemoveAll(ic.cacheDir)
}
