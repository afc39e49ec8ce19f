package ui

import "image/color"

// Colors: warm dark theme, amber like a record label
var (
	ColorBackground    = color.RGBA{R: 0x12, G: 0x10, B: 0x16, A: 0xFF}
	ColorSurface       = color.RGBA{R: 0x1E, G: 0x1C, B: 0x24, A: 0xFF}
	ColorSurfaceHover  = color.RGBA{R: 0x2A, G: 0x27, B: 0x32, A: 0xFF}
	ColorPrimary       = color.RGBA{R: 0xF0, G: 0xA0, B: 0x30, A: 0xFF}
	ColorPrimaryDark   = color.RGBA{R: 0xB8, G: 0x6A, B: 0x10, A: 0xFF}
	ColorText          = color.RGBA{R: 0xE8, G: 0xE4, B: 0xDE, A: 0xFF}
	ColorTextSecondary = color.RGBA{R: 0x9C, G: 0x96, B: 0x90, A: 0xFF}
	ColorTextMuted     = color.RGBA{R: 0x64, G: 0x60, B: 0x5C, A: 0xFF}
	ColorFocusBorder   = color.RGBA{R: 0xF0, G: 0xA0, B: 0x30, A: 0xFF}
	ColorOverlay       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xC8}
	ColorScrim         = color.RGBA{R: 0x12, G: 0x10, B: 0x16, A: 0x90}
	ColorError         = color.RGBA{R: 0xE0, G: 0x50, B: 0x48, A: 0xFF}
)

// Layout constants
const (
	Pad = 32

	CoverSize = 180

	TrackRowHeight  = 52
	TrackDetailH    = 84
	TrackGlyphSize  = 36
	TrackListTop    = Pad*2 + CoverSize
	PlayAllButtonW  = 120
	PlayAllButtonH  = 36
	PlayerBarHeight = 104

	ProgressBarH  = 6
	VolumeSliderW = 120

	FontSizeTitle   = 28
	FontSizeHeading = 22
	FontSizeBody    = 16
	FontSizeSmall   = 13
	FontSizeCaption = 11

	ScrollAnimSpeed = 0.12
	ExpandAnimSpeed = 0.25

	ScreenWidth  = 1280
	ScreenHeight = 800

	// ScrollWheelSpeed is pixels per mouse wheel scroll unit.
	ScrollWheelSpeed = 60
)
