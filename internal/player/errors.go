package player

import "errors"

var (
	// ErrInvalidIndex is returned for navigation outside the registry.
	ErrInvalidIndex = errors.New("invalid track index")
	// ErrResourceLoad is recorded when the backend fails to load a track.
	ErrResourceLoad = errors.New("track failed to load")
	// ErrPlaybackRejected is returned when the backend declines to play.
	ErrPlaybackRejected = errors.New("playback request rejected")
)
