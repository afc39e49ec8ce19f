//go:build !linux

package ui

import "github.com/rs/zerolog"

// StartEvdev is a no-op on non-Linux platforms.
func StartEvdev(zerolog.Logger) {}

// EvdevMediaKeys is a no-op on non-Linux platforms.
func EvdevMediaKeys() []MediaKey {
	return nil
}

// EvdevRecentEvents is a no-op on non-Linux platforms.
func EvdevRecentEvents() []EvdevEvent {
	return nil
}
