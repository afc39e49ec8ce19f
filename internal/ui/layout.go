package ui

import "math"

// Rect is an axis-aligned box in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y int) bool {
	return PointInRect(x, y, r.X, r.Y, r.W, r.H)
}

// Grow returns r expanded by d on every side.
func (r Rect) Grow(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Fraction maps x onto [0,1] across the width of r.
func (r Rect) Fraction(x int) float64 {
	if r.W <= 0 {
		return 0
	}
	return math.Max(0, math.Min(1, (float64(x)-r.X)/r.W))
}

// RowLayout holds the boxes of one tracklist row.
type RowLayout struct {
	Row    Rect // the clickable header line
	Glyph  Rect
	Expand Rect
	Detail Rect // zero height while collapsed
}

// AlbumLayout is where everything on the album page sits for one frame.
type AlbumLayout struct {
	Cover   Rect
	Title   Rect
	PlayAll Rect
	Rows    []RowLayout

	Bar      Rect
	Prev     Rect
	Play     Rect
	Next     Rect
	Progress Rect
	Mute     Rect
	Volume   Rect

	// ContentHeight is the scrollable height above the player bar.
	ContentHeight float64
}

// ComputeAlbumLayout lays the page out for a w×h screen. detail holds the
// current (animated) detail panel height per track.
func ComputeAlbumLayout(w, h float64, detail []float64, scrollY float64) AlbumLayout {
	var l AlbumLayout
	top := -scrollY

	l.Cover = Rect{X: Pad, Y: top + Pad, W: CoverSize, H: CoverSize}
	l.Title = Rect{X: Pad*2 + CoverSize, Y: top + Pad, W: w - Pad*3 - CoverSize, H: CoverSize}
	l.PlayAll = Rect{X: l.Title.X, Y: l.Cover.Y + CoverSize - PlayAllButtonH, W: PlayAllButtonW, H: PlayAllButtonH}

	y := top + TrackListTop
	l.Rows = make([]RowLayout, len(detail))
	for i, dh := range detail {
		row := Rect{X: Pad, Y: y, W: w - Pad*2, H: TrackRowHeight}
		inset := (TrackRowHeight - TrackGlyphSize) / 2.0
		l.Rows[i] = RowLayout{
			Row:    row,
			Glyph:  Rect{X: row.X + 8, Y: y + inset, W: TrackGlyphSize, H: TrackGlyphSize},
			Expand: Rect{X: row.X + row.W - TrackGlyphSize - 8, Y: y + inset, W: TrackGlyphSize, H: TrackGlyphSize},
			Detail: Rect{X: row.X, Y: y + TrackRowHeight, W: row.W, H: math.Max(0, dh)},
		}
		y += TrackRowHeight + math.Max(0, dh)
	}
	l.ContentHeight = y + Pad + scrollY

	l.Bar = Rect{X: 0, Y: h - PlayerBarHeight, W: w, H: PlayerBarHeight}
	cx := w / 2
	l.Play = Rect{X: cx - 24, Y: l.Bar.Y + 12, W: 48, H: 48}
	l.Prev = Rect{X: cx - 88, Y: l.Bar.Y + 16, W: 40, H: 40}
	l.Next = Rect{X: cx + 48, Y: l.Bar.Y + 16, W: 40, H: 40}

	barY := l.Bar.Y + 78
	l.Volume = Rect{X: w - Pad - VolumeSliderW, Y: barY, W: VolumeSliderW, H: ProgressBarH}
	l.Mute = Rect{X: l.Volume.X - 40, Y: barY - 12, W: 30, H: 30}
	l.Progress = Rect{X: Pad + 56, Y: barY, W: math.Max(0, l.Mute.X-Pad-(Pad+56)-56), H: ProgressBarH}
	return l
}

// MaxScroll is the largest useful scroll offset for a viewport of viewH.
func (l AlbumLayout) MaxScroll(viewH float64) float64 {
	return math.Max(0, l.ContentHeight-viewH)
}

// RowAt returns the track whose row contains the point, or -1.
func (l AlbumLayout) RowAt(x, y int) int {
	for i, r := range l.Rows {
		if r.Row.Contains(x, y) {
			return i
		}
	}
	return -1
}

// FitImage scales an iw×ih image to fit inside a w×h screen with margin on
// every side, never enlarging it, and centers the result.
func FitImage(iw, ih, w, h, margin float64) Rect {
	if iw <= 0 || ih <= 0 {
		return Rect{X: w / 2, Y: h / 2}
	}
	maxW := math.Max(0, w-2*margin)
	maxH := math.Max(0, h-2*margin)
	scale := math.Min(1, math.Min(maxW/iw, maxH/ih))
	dw, dh := iw*scale, ih*scale
	return Rect{X: (w - dw) / 2, Y: (h - dh) / 2, W: dw, H: dh}
}
