package ui

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/albumcouch/internal/player"
)

var debugOverlayVisible bool

// ToggleDebugOverlay toggles the debug overlay on F12.
func ToggleDebugOverlay() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		debugOverlayVisible = !debugOverlayVisible
	}
}

// SetDebugOverlay forces the overlay on or off, for the ui.debug setting.
func SetDebugOverlay(visible bool) {
	debugOverlayVisible = visible
}

// DebugLines describes the playback session and page state, one fact per line.
func DebugLines(c *player.Controller) []string {
	s := c.Session()
	v := c.View()
	lines := []string{
		fmt.Sprintf("state=%s  index=%d  playing=%t", s.State, s.CurrentIndex, s.Playing),
		fmt.Sprintf("volume=%.2f  muted=%t  previous=%.2f", s.Volume, s.Muted, s.PreviousVolume),
		fmt.Sprintf("time=%s / %s  progress=%.1f%%", v.Elapsed, v.Total, v.Progress),
		fmt.Sprintf("accordion open=%d  modal=%t  locked=%t", c.Accordion().Open(), v.Modal.Visible, v.ScrollLocked),
		fmt.Sprintf("backdrop=%q", v.BackgroundVideo),
	}
	if s.LastError != nil {
		lines = append(lines, "error: "+s.LastError.Error())
	}
	return lines
}

// DrawDebugOverlay draws the debug overlay if visible.
func DrawDebugOverlay(screen *ebiten.Image, c *player.Controller) {
	if !debugOverlayVisible {
		return
	}

	const (
		padX    = 16.0
		padY    = 12.0
		lineH   = 18.0
		marginR = 20.0
		marginT = 20.0
	)

	lines := DebugLines(c)
	now := time.Now()
	for _, ev := range EvdevRecentEvents() {
		age := now.Sub(ev.Time).Truncate(time.Millisecond)
		lines = append(lines, fmt.Sprintf("evdev %s code=%d %s ago", ev.Device, ev.Code, age))
	}
	var pressedKeys []ebiten.Key
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if ebiten.IsKeyPressed(k) {
			pressedKeys = append(pressedKeys, k)
		}
	}

	rows := 2 + len(lines) + 2 + max(len(pressedKeys), 1)
	panelH := float64(rows)*lineH + padY*2
	panelW := 460.0
	sw := float64(screen.Bounds().Dx())
	px := sw - panelW - marginR
	py := marginT

	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), ColorOverlay, false)

	x := px + padX
	y := py + padY

	DrawText(screen, "Debug (F12 to close)", x, y, FontSizeSmall, ColorPrimary)
	y += lineH
	DrawText(screen, "--- session ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH
	for _, l := range lines {
		DrawText(screen, Ellipsize(l, panelW-padX*2, FontSizeSmall), x, y, FontSizeSmall, ColorText)
		y += lineH
	}

	y += lineH * 0.5
	DrawText(screen, "--- keys pressed ---", x, y, FontSizeSmall, ColorTextMuted)
	y += lineH

	if len(pressedKeys) == 0 {
		DrawText(screen, "(none)", x, y, FontSizeSmall, ColorTextSecondary)
		return
	}
	for _, k := range pressedKeys {
		DrawText(screen, fmt.Sprintf("  %s (%d)", k.String(), int(k)), x, y, FontSizeSmall, ColorText)
		y += lineH
	}
}
