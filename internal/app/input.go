package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/depeter/albumcouch/internal/config"
	"github.com/depeter/albumcouch/internal/player"
	"github.com/depeter/albumcouch/internal/ui"
)

// volumeStep is how far one volume key press moves the level, in percent.
const volumeStep = 5

// keyMap maps config key names to ebiten keys.
var keyMap = map[string]ebiten.Key{
	"space":  ebiten.KeySpace,
	"enter":  ebiten.KeyEnter,
	"return": ebiten.KeyEnter,
	"tab":    ebiten.KeyTab,
	"left":   ebiten.KeyArrowLeft,
	"right":  ebiten.KeyArrowRight,
	"up":     ebiten.KeyArrowUp,
	"down":   ebiten.KeyArrowDown,
	"a":      ebiten.KeyA,
	"b":      ebiten.KeyB,
	"c":      ebiten.KeyC,
	"d":      ebiten.KeyD,
	"e":      ebiten.KeyE,
	"f":      ebiten.KeyF,
	"g":      ebiten.KeyG,
	"h":      ebiten.KeyH,
	"i":      ebiten.KeyI,
	"j":      ebiten.KeyJ,
	"k":      ebiten.KeyK,
	"l":      ebiten.KeyL,
	"m":      ebiten.KeyM,
	"n":      ebiten.KeyN,
	"o":      ebiten.KeyO,
	"p":      ebiten.KeyP,
	"q":      ebiten.KeyQ,
	"r":      ebiten.KeyR,
	"s":      ebiten.KeyS,
	"t":      ebiten.KeyT,
	"u":      ebiten.KeyU,
	"v":      ebiten.KeyV,
	"w":      ebiten.KeyW,
	"x":      ebiten.KeyX,
	"y":      ebiten.KeyY,
	"z":      ebiten.KeyZ,
	"0":      ebiten.KeyDigit0,
	"1":      ebiten.KeyDigit1,
	"2":      ebiten.KeyDigit2,
	"3":      ebiten.KeyDigit3,
	"4":      ebiten.KeyDigit4,
	"5":      ebiten.KeyDigit5,
	"6":      ebiten.KeyDigit6,
	"7":      ebiten.KeyDigit7,
	"8":      ebiten.KeyDigit8,
	"9":      ebiten.KeyDigit9,
}

// parseKey converts a config key name to an ebiten.Key.
func parseKey(name string) (ebiten.Key, bool) {
	k, ok := keyMap[strings.ToLower(name)]
	return k, ok
}

// keyJustPressed checks if the key named by the config string was just pressed.
func keyJustPressed(name string) bool {
	if k, ok := parseKey(name); ok {
		return inpututil.IsKeyJustPressed(k)
	}
	return false
}

// binding ties a configured key to a player action.
type binding struct {
	name   string
	key    string
	action func(c *player.Controller) error
}

// bindings returns the album keybinds in dispatch order. The fullscreen key
// is handled by the window, not the controller.
func bindings(kb config.KeybindConfig) []binding {
	return []binding{
		{"play_pause", kb.PlayPause, (*player.Controller).TogglePlay},
		{"next", kb.Next, func(c *player.Controller) error { return c.Next(false) }},
		{"previous", kb.Previous, (*player.Controller).Previous},
		{"volume_up", kb.VolumeUp, func(c *player.Controller) error {
			c.AdjustVolume(volumeStep)
			return nil
		}},
		{"volume_down", kb.VolumeDown, func(c *player.Controller) error {
			c.AdjustVolume(-volumeStep)
			return nil
		}},
		{"mute", kb.Mute, func(c *player.Controller) error {
			c.ToggleMute()
			return nil
		}},
		{"play_all", kb.PlayAll, func(c *player.Controller) error {
			if !c.Capabilities().PlayAll {
				return nil
			}
			return c.PlayAll()
		}},
		{"gallery", kb.Gallery, func(c *player.Controller) error {
			if !c.Capabilities().Gallery {
				return nil
			}
			c.OpenGallery(0)
			return nil
		}},
	}
}

// checkKeybinds reports every configured key name parseKey does not know.
func checkKeybinds(kb config.KeybindConfig) error {
	names := map[string]string{"fullscreen": kb.Fullscreen}
	for _, b := range bindings(kb) {
		names[b.name] = b.key
	}
	var bad []string
	for name, key := range names {
		if key == "" {
			continue
		}
		if _, ok := parseKey(key); !ok {
			bad = append(bad, fmt.Sprintf("%s=%q", name, key))
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("unknown keybinds: %s", strings.Join(bad, ", "))
	}
	return nil
}

// dispatchKeys runs the action of every binding whose key pressed reports.
// It returns how many actions ran.
func dispatchKeys(kb config.KeybindConfig, c *player.Controller, pressed func(string) bool, onErr func(string, error)) int {
	n := 0
	for _, b := range bindings(kb) {
		if b.key == "" || !pressed(b.key) {
			continue
		}
		n++
		if err := b.action(c); err != nil && onErr != nil {
			onErr(b.name, err)
		}
	}
	return n
}

// applyMediaKey runs the action for a hardware media key.
func applyMediaKey(c *player.Controller, k ui.MediaKey) error {
	switch k {
	case ui.MediaKeyPlayPause:
		return c.TogglePlay()
	case ui.MediaKeyNext:
		return c.Next(false)
	case ui.MediaKeyPrevious:
		return c.Previous()
	case ui.MediaKeyStop:
		return c.Pause()
	case ui.MediaKeyMute:
		c.ToggleMute()
	case ui.MediaKeyVolumeUp:
		c.AdjustVolume(volumeStep)
	case ui.MediaKeyVolumeDown:
		c.AdjustVolume(-volumeStep)
	case ui.MediaKeyBack:
		c.Escape()
	}
	return nil
}
