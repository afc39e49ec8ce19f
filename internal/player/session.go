package player

// NoTrack is the current index when nothing is selected.
const NoTrack = -1

// muteEpsilon is the volume below which audio counts as silent.
const muteEpsilon = 0.01

// defaultUnmuteVolume is restored when unmuting from an already silent level.
const defaultUnmuteVolume = 0.5

// State is the lifecycle state of the playback session.
type State int

const (
	StateEmpty State = iota
	StateLoading
	StateReady
	StatePlaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Session is the mutable playback state owned by one Controller.
type Session struct {
	State          State
	CurrentIndex   int
	Playing        bool
	Volume         float64
	Muted          bool
	PreviousVolume float64
	LastError      error
}

func newSession(volume float64) Session {
	volume = clamp01(volume)
	return Session{
		State:          StateEmpty,
		CurrentIndex:   NoTrack,
		Volume:         volume,
		Muted:          volume < muteEpsilon,
		PreviousVolume: volume,
	}
}

// HasTrack reports whether a track is selected.
func (s Session) HasTrack() bool {
	return s.CurrentIndex != NoTrack
}

// Silent reports whether nothing is audible.
func (s Session) Silent() bool {
	return s.Muted || s.Volume < muteEpsilon
}

// reset returns to the idle state, keeping volume settings.
func (s *Session) reset(state State) {
	s.State = state
	s.CurrentIndex = NoTrack
	s.Playing = false
}

func clamp01(v float64) float64 {
	switch {
	case v != v: // NaN
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
