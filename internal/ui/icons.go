package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/albumcouch/internal/player"
)

// fillTriangleRight fills a right-pointing triangle inside the w×h box at
// (x, y) with vertical strokes, which is plenty at icon sizes.
func fillTriangleRight(dst *ebiten.Image, x, y, w, h float32, clr color.Color) {
	for i := float32(0); i <= w; i++ {
		half := h / 2 * (1 - i/w)
		vector.StrokeLine(dst, x+i, y+h/2-half, x+i, y+h/2+half, 1.2, clr, true)
	}
}

// fillTriangleLeft mirrors fillTriangleRight.
func fillTriangleLeft(dst *ebiten.Image, x, y, w, h float32, clr color.Color) {
	for i := float32(0); i <= w; i++ {
		half := h / 2 * (i / w)
		vector.StrokeLine(dst, x+i, y+h/2-half, x+i, y+h/2+half, 1.2, clr, true)
	}
}

// drawPlayIcon draws ▶ centred at (cx, cy) with radius r.
func drawPlayIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	fillTriangleRight(dst, cx-r*0.55, cy-r*0.8, r*1.45, r*1.6, clr)
}

// drawPauseIcon draws ⏸ centred at (cx, cy) with radius r.
func drawPauseIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	bw := r * 0.5
	vector.DrawFilledRect(dst, cx-r*0.75, cy-r*0.8, bw, r*1.6, clr, false)
	vector.DrawFilledRect(dst, cx+r*0.25, cy-r*0.8, bw, r*1.6, clr, false)
}

// drawGlyph draws the play or pause icon for g.
func drawGlyph(dst *ebiten.Image, g player.Glyph, cx, cy, r float32, clr color.Color) {
	if g == player.GlyphPause {
		drawPauseIcon(dst, cx, cy, r, clr)
		return
	}
	drawPlayIcon(dst, cx, cy, r, clr)
}

// drawPrevIcon draws a skip-back icon: bar then left triangle.
func drawPrevIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	vector.DrawFilledRect(dst, cx-r*0.85, cy-r*0.7, r*0.25, r*1.4, clr, false)
	fillTriangleLeft(dst, cx-r*0.55, cy-r*0.7, r*1.35, r*1.4, clr)
}

// drawNextIcon draws a skip-forward icon: right triangle then bar.
func drawNextIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	fillTriangleRight(dst, cx-r*0.8, cy-r*0.7, r*1.35, r*1.4, clr)
	vector.DrawFilledRect(dst, cx+r*0.6, cy-r*0.7, r*0.25, r*1.4, clr, false)
}

// drawSpeakerIcon draws a speaker with 0-3 sound waves, or a cross when muted.
func drawSpeakerIcon(dst *ebiten.Image, g player.VolumeGlyph, cx, cy, r float32, clr color.Color) {
	// Cone
	vector.DrawFilledRect(dst, cx-r, cy-r*0.3, r*0.4, r*0.6, clr, false)
	fillTriangleLeft(dst, cx-r*0.6, cy-r*0.75, r*0.6, r*1.5, clr)

	waves := 0
	switch g {
	case player.VolumeMuted:
		vector.StrokeLine(dst, cx+r*0.2, cy-r*0.35, cx+r*0.9, cy+r*0.35, 1.8, clr, true)
		vector.StrokeLine(dst, cx+r*0.2, cy+r*0.35, cx+r*0.9, cy-r*0.35, 1.8, clr, true)
		return
	case player.VolumeQuiet:
		waves = 1
	case player.VolumeMedium:
		waves = 2
	case player.VolumeLoud:
		waves = 3
	}
	for i := 1; i <= waves; i++ {
		strokeArc(dst, cx-r*0.1, cy, r*0.3*float32(i), -math.Pi/4, math.Pi/4, 1.6, clr)
	}
}

// strokeArc approximates an arc with short line segments.
func strokeArc(dst *ebiten.Image, cx, cy, r float32, a0, a1 float64, width float32, clr color.Color) {
	const steps = 8
	px := cx + r*float32(math.Cos(a0))
	py := cy + r*float32(math.Sin(a0))
	for i := 1; i <= steps; i++ {
		a := a0 + (a1-a0)*float64(i)/steps
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		vector.StrokeLine(dst, px, py, x, y, width, clr, true)
		px, py = x, y
	}
}

// drawExpandIcon draws + when collapsed and − when expanded.
func drawExpandIcon(dst *ebiten.Image, expanded bool, cx, cy, r float32, clr color.Color) {
	vector.StrokeLine(dst, cx-r, cy, cx+r, cy, 2, clr, false)
	if !expanded {
		vector.StrokeLine(dst, cx, cy-r, cx, cy+r, 2, clr, false)
	}
}

// drawChevron draws < (dir < 0) or > (dir > 0) for gallery stepping.
func drawChevron(dst *ebiten.Image, dir int, cx, cy, r float32, clr color.Color) {
	d := float32(dir)
	vector.StrokeLine(dst, cx-d*r*0.4, cy-r, cx+d*r*0.4, cy, 3, clr, true)
	vector.StrokeLine(dst, cx+d*r*0.4, cy, cx-d*r*0.4, cy+r, 3, clr, true)
}

// drawCloseIcon draws an ×.
func drawCloseIcon(dst *ebiten.Image, cx, cy, r float32, clr color.Color) {
	vector.StrokeLine(dst, cx-r, cy-r, cx+r, cy+r, 2.5, clr, true)
	vector.StrokeLine(dst, cx-r, cy+r, cx+r, cy-r, 2.5, clr, true)
}

// drawIconButton draws icon on a round button filling r.
func drawIconButton(dst *ebiten.Image, r Rect, enabled, focused bool, icon func(*ebiten.Image, float32, float32, float32, color.Color)) {
	cx := float32(r.X + r.W/2)
	cy := float32(r.Y + r.H/2)
	rad := float32(math.Min(r.W, r.H) / 2)

	bg := color.Color(ColorSurfaceHover)
	fg := color.Color(ColorText)
	if !enabled {
		fg = ColorTextMuted
	} else if focused {
		bg = ColorPrimary
		fg = ColorBackground
	}
	vector.DrawFilledCircle(dst, cx, cy, rad, bg, true)
	icon(dst, cx, cy, rad*0.45, fg)
}
