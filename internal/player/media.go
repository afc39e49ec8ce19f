package player

// ReadyState is the media backend's self-reported buffering level.
type ReadyState int

const (
	ReadyNothing     ReadyState = iota // no source or nothing known yet
	ReadyMetadata                      // duration and format known
	ReadyCurrentData                   // enough to render the current position
	ReadyFutureData                    // enough to advance a little
	ReadyEnoughData                    // playback can run through
)

// EventType identifies a backend notification.
type EventType int

const (
	EventMetadata EventType = iota
	EventError
	EventPlay
	EventPause
	EventTimeUpdate
	EventCanPlay
	EventVolumeChange
	EventEnded
)

var eventNames = [...]string{
	EventMetadata:     "metadata",
	EventError:        "error",
	EventPlay:         "play",
	EventPause:        "pause",
	EventTimeUpdate:   "timeupdate",
	EventCanPlay:      "canplay",
	EventVolumeChange: "volumechange",
	EventEnded:        "ended",
}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event is one notification from a media backend. Source is the locator the
// backend had loaded when the event was produced, so stale events for a
// superseded source can be told apart.
type Event struct {
	Type   EventType
	Source string
	Err    error
}

// Media is the playback resource the controller drives. Implementations own
// their own goroutines and report state changes only through Events.
type Media interface {
	// SetSource selects the locator to load next. It does not start loading.
	SetSource(locator string) error
	// Load starts loading the selected source. Completion is reported with
	// EventMetadata or EventError.
	Load() error
	// Play requests playback. A non-nil error means the request was rejected.
	// Playing a resource that has ended restarts it from the beginning.
	Play() error
	Pause() error
	// Seek moves to an absolute position in seconds.
	Seek(seconds float64) error
	// SetVolume sets the linear volume in [0,1].
	SetVolume(v float64) error
	SetMuted(muted bool) error

	Source() string
	Position() float64
	// Duration returns the length in seconds; zero or NaN when unknown.
	Duration() float64
	ReadyState() ReadyState

	Events() <-chan Event
	Close() error
}

// Backdrop switches the background video shown behind the album.
type Backdrop interface {
	Show(locator string) error
}
