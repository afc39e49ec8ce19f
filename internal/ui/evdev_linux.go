//go:build linux

package ui

import (
	"os"
	"path/filepath"
	"sync"
	"time"
	"unsafe"

	"github.com/rs/zerolog"
)

// inputEventSize is the size of a Linux input_event struct (timeval + u16 + u16 + s32).
var inputEventSize = int(unsafe.Sizeof(struct {
	Sec, Usec int64
	Type      uint16
	Code      uint16
	Value     int32
}{}))

var (
	evdevOnce  sync.Once
	mediaKeys  = newMediaKeyQueue()
	evdevLog   zerolog.Logger
	recentMu   sync.Mutex
	recentKeys []EvdevEvent
)

// StartEvdev watches /dev/input for media keys (play/pause, next, volume and
// the remote's back key). Devices that cannot be opened are skipped.
func StartEvdev(logger zerolog.Logger) {
	evdevOnce.Do(func() {
		evdevLog = logger
		matches, err := filepath.Glob("/dev/input/event*")
		if err != nil || len(matches) == 0 {
			logger.Debug().Msg("no evdev devices")
			return
		}
		for _, path := range matches {
			go readEvdev(path)
		}
	})
}

func readEvdev(path string) {
	f, err := os.Open(path)
	if err != nil {
		// No permission or device not accessible
		return
	}
	defer f.Close()

	device := filepath.Base(path)
	buf := make([]byte, inputEventSize)
	for {
		if _, err := f.Read(buf); err != nil {
			return
		}
		typ, code, value, ok := parseInputEvent(buf)
		if !ok {
			continue
		}
		ev := EvdevEvent{Time: time.Now(), Device: device, Type: typ, Code: code, Value: value}
		if k := mediaKeys.offer(ev); k != MediaKeyNone {
			remember(ev)
			evdevLog.Debug().Str("device", device).Uint16("code", code).Stringer("key", k).Msg("media key")
		}
	}
}

func remember(ev EvdevEvent) {
	recentMu.Lock()
	defer recentMu.Unlock()
	recentKeys = append(recentKeys, ev)
	if len(recentKeys) > recentEventsMax {
		recentKeys = recentKeys[len(recentKeys)-recentEventsMax:]
	}
}

// EvdevMediaKeys returns the media keys pressed since the last call.
func EvdevMediaKeys() []MediaKey {
	return mediaKeys.drain()
}

// EvdevRecentEvents returns a snapshot of the most recent media key presses.
func EvdevRecentEvents() []EvdevEvent {
	recentMu.Lock()
	defer recentMu.Unlock()
	out := make([]EvdevEvent, len(recentKeys))
	copy(out, recentKeys)
	return out
}
