package app

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/albumcouch/internal/album"
	"github.com/depeter/albumcouch/internal/config"
	"github.com/depeter/albumcouch/internal/player"
	"github.com/depeter/albumcouch/internal/ui"
)

type stubMedia struct {
	source string
	loads  int
	volume float64
	muted  bool
	events chan player.Event
}

func (m *stubMedia) SetSource(loc string) error { m.source = loc; return nil }
func (m *stubMedia) Load() error { m.loads++; return nil }
func (m *stubMedia) Play() error { return nil }
func (m *stubMedia) Pause() error { return nil }
func (m *stubMedia) Seek(float64) error { return nil }
func (m *stubMedia) SetVolume(v float64) error { m.volume = v; return nil }
func (m *stubMedia) SetMuted(b bool) error { m.muted = b; return nil }
func (m *stubMedia) Source() string { return m.source }
func (m *stubMedia) Position() float64 { return 0 }
func (m *stubMedia) Duration() float64 { return 0 }
func (m *stubMedia) ReadyState() player.ReadyState { return player.ReadyNothing }
func (m *stubMedia) Events() <-chan player.Event { return m.events }
func (m *stubMedia) Close() error { return nil }

func newTestController(t *testing.T, caps player.Capabilities) (*player.Controller, *stubMedia) {
	t.Helper()
	m := &stubMedia{events: make(chan player.Event)}
	reg := album.Build("/music", []album.Descriptor{{Audio: "a.mp3"}, {Audio: "b.mp3"}})
	c := player.New(player.Options{
		Registry: reg,
		Media:    m,
		Caps:     caps,
		Volume:   0.5,
		Gallery:  []player.Image{{Src: "/music/cover.png"}},
		Logger:   zerolog.Nop(),
	})
	return c, m
}

func pressing(keys ...string) func(string) bool {
	return func(name string) bool {
		for _, k := range keys {
			if k == name {
				return true
			}
		}
		return false
	}
}

func TestParseKey(t *testing.T) {
	k, ok := parseKey("Space")
	require.True(t, ok)
	assert.Equal(t, ebiten.KeySpace, k)

	k, ok = parseKey("n")
	require.True(t, ok)
	assert.Equal(t, ebiten.KeyN, k)

	_, ok = parseKey("F13")
	assert.False(t, ok)
}

func TestDefaultKeybindsAreKnown(t *testing.T) {
	assert.NoError(t, checkKeybinds(config.DefaultConfig().Keybinds))
}

func TestCheckKeybindsReportsUnknown(t *testing.T) {
	kb := config.DefaultConfig().Keybinds
	kb.Mute = "Hyper"
	kb.Next = ""
	err := checkKeybinds(kb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `mute="Hyper"`)
	assert.NotContains(t, err.Error(), "next")
}

func TestDispatchVolumeKeys(t *testing.T) {
	kb := config.DefaultConfig().Keybinds
	c, m := newTestController(t, player.Capabilities{VolumeControl: true})

	n := dispatchKeys(kb, c, pressing("0"), nil)
	assert.Equal(t, 1, n)
	assert.InDelta(t, 0.55, c.Session().Volume, 1e-9)
	assert.InDelta(t, 0.55, m.volume, 1e-9)

	dispatchKeys(kb, c, pressing("9"), nil)
	dispatchKeys(kb, c, pressing("9"), nil)
	assert.InDelta(t, 0.45, c.Session().Volume, 1e-9)

	dispatchKeys(kb, c, pressing("M"), nil)
	assert.True(t, c.Session().Muted)
	assert.True(t, m.muted)
}

func TestDispatchPlayPauseStartsAlbum(t *testing.T) {
	kb := config.DefaultConfig().Keybinds
	c, m := newTestController(t, player.Capabilities{})

	dispatchKeys(kb, c, pressing("Space"), nil)
	assert.Equal(t, 0, c.Session().CurrentIndex)
	assert.Equal(t, player.StateLoading, c.Session().State)
	assert.Equal(t, "/music/a.mp3", m.source)
	assert.Equal(t, 1, m.loads)
}

func TestDispatchRespectsCapabilities(t *testing.T) {
	kb := config.DefaultConfig().Keybinds

	c, m := newTestController(t, player.Capabilities{})
	dispatchKeys(kb, c, pressing("A", "G"), nil)
	assert.Zero(t, m.loads)
	assert.False(t, c.View().Modal.Visible)

	c, m = newTestController(t, player.Capabilities{PlayAll: true, Gallery: true})
	dispatchKeys(kb, c, pressing("A", "G"), nil)
	assert.Equal(t, 1, m.loads)
	assert.True(t, c.View().Modal.Visible)
	assert.Equal(t, "/music/cover.png", c.View().Modal.ImageSrc)
}

func TestDispatchIgnoresUnboundKeys(t *testing.T) {
	kb := config.KeybindConfig{PlayPause: "Space"}
	c, m := newTestController(t, player.Capabilities{VolumeControl: true})

	n := dispatchKeys(kb, c, pressing("", "0", "M"), func(name string, err error) {
		t.Errorf("%s: %v", name, err)
	})
	assert.Zero(t, n)
	assert.Zero(t, m.loads)
	assert.InDelta(t, 0.5, c.Session().Volume, 1e-9)
}

func TestApplyMediaKey(t *testing.T) {
	c, m := newTestController(t, player.Capabilities{Gallery: true})

	require.NoError(t, applyMediaKey(c, ui.MediaKeyPlayPause))
	assert.Equal(t, "/music/a.mp3", m.source)

	require.NoError(t, applyMediaKey(c, ui.MediaKeyNext))
	assert.Equal(t, 1, c.Session().CurrentIndex)

	require.NoError(t, applyMediaKey(c, ui.MediaKeyVolumeDown))
	assert.InDelta(t, 0.45, c.Session().Volume, 1e-9)

	require.NoError(t, applyMediaKey(c, ui.MediaKeyMute))
	assert.True(t, c.Session().Muted)

	c.OpenGallery(0)
	require.NoError(t, applyMediaKey(c, ui.MediaKeyBack))
	assert.False(t, c.View().Modal.Visible)

	require.NoError(t, applyMediaKey(c, ui.MediaKeyNone))
}
