package ui

import (
	"encoding/binary"
	"time"
)

// EvdevEvent represents a captured evdev input event.
type EvdevEvent struct {
	Time   time.Time
	Device string // e.g. "event3"
	Type   uint16
	Code   uint16
	Value  int32
}

// MediaKey is a remote or keyboard media key that ebiten does not report.
type MediaKey int

const (
	MediaKeyNone MediaKey = iota
	MediaKeyPlayPause
	MediaKeyNext
	MediaKeyPrevious
	MediaKeyStop
	MediaKeyMute
	MediaKeyVolumeUp
	MediaKeyVolumeDown
	MediaKeyBack
)

func (k MediaKey) String() string {
	switch k {
	case MediaKeyPlayPause:
		return "playpause"
	case MediaKeyNext:
		return "next"
	case MediaKeyPrevious:
		return "previous"
	case MediaKeyStop:
		return "stop"
	case MediaKeyMute:
		return "mute"
	case MediaKeyVolumeUp:
		return "volumeup"
	case MediaKeyVolumeDown:
		return "volumedown"
	case MediaKeyBack:
		return "back"
	}
	return "none"
}

// Linux input event codes, from linux/input-event-codes.h.
const (
	evKey = 0x01

	keyMute         = 113
	keyVolumeDown   = 114
	keyVolumeUp     = 115
	keyPause        = 119
	keyBack         = 158
	keyNextSong     = 163
	keyPlayPause    = 164
	keyPreviousSong = 165
	keyStopCD       = 166
	keyRewind       = 168
	keyPlayCD       = 200
	keyPauseCD      = 201
	keyPlay         = 207
	keyFastForward  = 208

	valuePress = 1 // 0 is release, 2 autorepeat
)

// mediaKeyForCode maps a key code onto a MediaKey.
func mediaKeyForCode(code uint16) MediaKey {
	switch code {
	case keyPlayPause, keyPlay, keyPause, keyPlayCD, keyPauseCD:
		return MediaKeyPlayPause
	case keyNextSong, keyFastForward:
		return MediaKeyNext
	case keyPreviousSong, keyRewind:
		return MediaKeyPrevious
	case keyStopCD:
		return MediaKeyStop
	case keyMute:
		return MediaKeyMute
	case keyVolumeUp:
		return MediaKeyVolumeUp
	case keyVolumeDown:
		return MediaKeyVolumeDown
	case keyBack:
		return MediaKeyBack
	}
	return MediaKeyNone
}

// parseInputEvent decodes the type, code and value of a 64-bit Linux
// input_event (timeval + u16 + u16 + s32).
func parseInputEvent(buf []byte) (typ, code uint16, value int32, ok bool) {
	if len(buf) < 24 {
		return 0, 0, 0, false
	}
	typ = binary.LittleEndian.Uint16(buf[16:18])
	code = binary.LittleEndian.Uint16(buf[18:20])
	value = int32(binary.LittleEndian.Uint32(buf[20:24]))
	return typ, code, value, true
}

// mediaKeyQueue collects media key presses from reader goroutines until the
// game loop drains them.
type mediaKeyQueue struct {
	keys chan MediaKey
}

const (
	mediaKeyBuffer  = 16
	recentEventsMax = 8
)

func newMediaKeyQueue() *mediaKeyQueue {
	return &mediaKeyQueue{keys: make(chan MediaKey, mediaKeyBuffer)}
}

// offer records one raw event and queues it if it is a media key press.
// Presses beyond the buffer are dropped; a frame never needs more.
func (q *mediaKeyQueue) offer(ev EvdevEvent) MediaKey {
	if ev.Type != evKey || ev.Value != valuePress {
		return MediaKeyNone
	}
	k := mediaKeyForCode(ev.Code)
	if k == MediaKeyNone {
		return k
	}
	select {
	case q.keys <- k:
	default:
	}
	return k
}

// drain returns the queued presses without blocking.
func (q *mediaKeyQueue) drain() []MediaKey {
	var out []MediaKey
	for {
		select {
		case k := <-q.keys:
			out = append(out, k)
		default:
			return out
		}
	}
}
