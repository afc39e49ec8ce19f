package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/renameio/v2"

	"github.com/depeter/albumcouch/internal/album"
	"github.com/depeter/albumcouch/internal/player"
)

const (
	BackendMPV  = "mpv"
	BackendBeep = "beep"
)

type Config struct {
	Album    AlbumConfig    `toml:"album"`
	Features FeatureConfig  `toml:"features"`
	Playback PlaybackConfig `toml:"playback"`
	UI       UIConfig       `toml:"ui"`
	Keybinds KeybindConfig  `toml:"keybinds"`
	Log      LogConfig      `toml:"log"`
}

type AlbumConfig struct {
	Title        string        `toml:"title"`
	Artist       string        `toml:"artist"`
	Cover        string        `toml:"cover"`
	CoverCaption string        `toml:"cover_caption"`
	Base         string        `toml:"base"`
	DefaultVideo string        `toml:"default_video"`
	Tracks       []TrackConfig `toml:"tracks"`
	Gallery      []ImageConfig `toml:"gallery"`
}

type TrackConfig struct {
	Src   string `toml:"src"`
	Title string `toml:"title"`
	Video string `toml:"video,omitempty"`
}

type ImageConfig struct {
	Src     string `toml:"src"`
	Caption string `toml:"caption,omitempty"`
}

type FeatureConfig struct {
	PlayAll                 bool `toml:"play_all"`
	BackgroundVideo         bool `toml:"background_video"`
	Volume                  bool `toml:"volume"`
	Gallery                 bool `toml:"gallery"`
	Splash                  bool `toml:"splash"`
	DisableNavOnSingleTrack bool `toml:"disable_nav_single_track"`
}

type PlaybackConfig struct {
	Backend string `toml:"backend"`
	HWAccel string `toml:"hwdec"`
	Volume  int    `toml:"volume"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	Debug      bool `toml:"debug"`
}

type KeybindConfig struct {
	PlayPause  string `toml:"play_pause"`
	Next       string `toml:"next"`
	Previous   string `toml:"previous"`
	VolumeUp   string `toml:"volume_up"`
	VolumeDown string `toml:"volume_down"`
	Mute       string `toml:"mute"`
	PlayAll    string `toml:"play_all"`
	Gallery    string `toml:"gallery"`
	Fullscreen string `toml:"fullscreen"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Pretty bool   `toml:"pretty"`
}

func DefaultConfig() *Config {
	return &Config{
		Album: AlbumConfig{
			Title: "Untitled Album",
		},
		Features: FeatureConfig{
			PlayAll: true,
			Volume:  true,
			Gallery: true,
		},
		Playback: PlaybackConfig{
			Backend: BackendMPV,
			HWAccel: "auto-safe",
			Volume:  100,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1280,
			Height:     800,
		},
		Keybinds: KeybindConfig{
			PlayPause:  "Space",
			Next:       "N",
			Previous:   "P",
			VolumeUp:   "0",
			VolumeDown: "9",
			Mute:       "M",
			PlayAll:    "A",
			Gallery:    "G",
			Fullscreen: "F",
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "albumcouch"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "album.toml"), nil
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults. Relative track locators are
// resolved against the config file's directory unless album.base is set.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if cfg.Album.Base == "" {
		cfg.Album.Base = filepath.Dir(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	base := cfg.Album.Base
	cfg.Album.Base = ""
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Album.Base == "" {
		cfg.Album.Base = base
	} else if !filepath.IsAbs(cfg.Album.Base) && !strings.Contains(cfg.Album.Base, "://") {
		cfg.Album.Base = filepath.Join(base, cfg.Album.Base)
	}
	return cfg, nil
}

// Save writes the config atomically.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending config: %w", err)
	}
	defer pending.Cleanup()

	out := *c
	out.Album.Base = portableBase(c.Album.Base, filepath.Dir(path))
	if err := toml.NewEncoder(pending).Encode(&out); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return pending.CloseAtomicallyReplace()
}

// portableBase rewrites a local album base relative to the config directory
// so the album keeps working when the directory moves. The config directory
// itself is the default and is left out.
func portableBase(base, dir string) string {
	if base == "" || strings.Contains(base, "://") {
		return base
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return base
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return base
	}
	rel, err := filepath.Rel(absDir, absBase)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return base
	}
	if rel == "." {
		return ""
	}
	return rel
}

// Validate reports every problem that would make the album unplayable.
func (c *Config) Validate() error {
	var errs []error
	switch c.Playback.Backend {
	case BackendMPV, BackendBeep:
	default:
		errs = append(errs, fmt.Errorf("playback.backend %q: want %q or %q", c.Playback.Backend, BackendMPV, BackendBeep))
	}
	if c.Playback.Volume < 0 || c.Playback.Volume > 100 {
		errs = append(errs, fmt.Errorf("playback.volume %d: want 0-100", c.Playback.Volume))
	}
	for i, t := range c.Album.Tracks {
		if strings.TrimSpace(t.Src) == "" {
			errs = append(errs, fmt.Errorf("album.tracks[%d]: missing src", i))
		}
	}
	if c.UI.Width <= 0 || c.UI.Height <= 0 {
		errs = append(errs, fmt.Errorf("ui size %dx%d: want positive", c.UI.Width, c.UI.Height))
	}
	return errors.Join(errs...)
}

// Descriptors returns the track list in registry form.
func (c *Config) Descriptors() []album.Descriptor {
	descs := make([]album.Descriptor, len(c.Album.Tracks))
	for i, t := range c.Album.Tracks {
		descs[i] = album.Descriptor{Audio: t.Src, Title: t.Title, Video: t.Video}
	}
	return descs
}

// Registry builds the track registry rooted at album.base.
func (c *Config) Registry() *album.Registry {
	return album.Build(c.Album.Base, c.Descriptors())
}

// GalleryImages returns the cover followed by the gallery, with locators
// resolved against reg.
func (c *Config) GalleryImages(reg *album.Registry) []player.Image {
	var imgs []player.Image
	if c.Album.Cover != "" {
		imgs = append(imgs, player.Image{Src: reg.Resolve(c.Album.Cover), Caption: c.Album.CoverCaption})
	}
	for _, g := range c.Album.Gallery {
		if g.Src == "" {
			continue
		}
		imgs = append(imgs, player.Image{Src: reg.Resolve(g.Src), Caption: g.Caption})
	}
	return imgs
}

// Capabilities maps feature flags onto the controller's capability set.
func (c *Config) Capabilities() player.Capabilities {
	return player.Capabilities{
		PlayAll:                 c.Features.PlayAll,
		BackgroundVideo:         c.Features.BackgroundVideo,
		VolumeControl:           c.Features.Volume,
		Gallery:                 c.Features.Gallery,
		Splash:                  c.Features.Splash,
		DisableNavOnSingleTrack: c.Features.DisableNavOnSingleTrack,
	}
}

// VolumeFraction returns playback.volume as a [0,1] fraction.
func (c *Config) VolumeFraction() float64 {
	v := float64(c.Playback.Volume) / 100
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
