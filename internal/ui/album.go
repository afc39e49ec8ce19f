package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/depeter/albumcouch/internal/cache"
	"github.com/depeter/albumcouch/internal/player"
)

// AlbumInfo is the static header of the album page.
type AlbumInfo struct {
	Title        string
	Artist       string
	Cover        string // resolved locator
	CoverCaption string
}

// AlbumScreen shows the cover, the tracklist accordion and the player bar.
type AlbumScreen struct {
	c     *player.Controller
	info  AlbumInfo
	cache *cache.ImageCache
	log   zerolog.Logger

	w, h    float64
	Scroll  ScrollState
	focus   FocusList
	details []float64 // animated detail panel heights
	layout  AlbumLayout

	dragVolume bool
}

// NewAlbumScreen creates the album page for a w×h window.
func NewAlbumScreen(c *player.Controller, info AlbumInfo, imgCache *cache.ImageCache, w, h int, logger zerolog.Logger) *AlbumScreen {
	n := c.Registry().Len()
	s := &AlbumScreen{
		c:       c,
		info:    info,
		cache:   imgCache,
		log:     logger,
		w:       float64(w),
		h:       float64(h),
		focus:   FocusList{Total: n},
		details: make([]float64, n),
	}
	s.layout = ComputeAlbumLayout(s.w, s.h, s.details, 0)
	return s
}

func (s *AlbumScreen) Name() string { return "Album" }

func (s *AlbumScreen) OnEnter() {
	if s.cache == nil {
		return
	}
	if s.info.Cover != "" {
		s.cache.LoadAsync(s.info.Cover, func(*ebiten.Image) {})
	}
	for _, img := range s.c.Modal().Images() {
		s.cache.LoadAsync(img.Src, func(*ebiten.Image) {})
	}
}

func (s *AlbumScreen) OnExit() {}

// Resize adapts the layout to a new window size.
func (s *AlbumScreen) Resize(w, h int) {
	s.w, s.h = float64(w), float64(h)
}

func (s *AlbumScreen) Update() (*ScreenTransition, error) {
	v := s.c.View()
	s.layout = ComputeAlbumLayout(s.w, s.h, s.details, s.Scroll.ScrollY)
	s.Scroll.SetMax(s.layout.MaxScroll(s.h - PlayerBarHeight))

	if v.Modal.Visible {
		s.updateModal(v)
		return nil, nil
	}
	if !v.ScrollLocked {
		s.Scroll.HandleMouseWheel()
	}

	dir, enter, _ := InputState()
	s.focus.Total = len(v.Tracks)
	switch dir {
	case DirUp, DirDown:
		if s.focus.Update(dir) {
			s.ensureFocusVisible()
		}
	case DirRight:
		if !s.c.Accordion().Expanded(s.focus.Focused) {
			s.c.ToggleAccordion(s.focus.Focused, false)
		}
	case DirLeft:
		if s.c.Accordion().Expanded(s.focus.Focused) {
			s.c.ToggleAccordion(s.focus.Focused, false)
		}
	}
	if enter && s.focus.Total > 0 {
		s.act("play track", s.c.PlayTrack(s.focus.Focused))
	}

	if mx, my, clicked := MouseJustClicked(); clicked {
		s.handleClick(mx, my, v)
	}
	if x, _, held := MouseDragging(); held && s.dragVolume {
		s.c.SetVolume(s.layout.Volume.Fraction(x) * 100)
	} else {
		s.dragVolume = false
	}
	return nil, nil
}

func (s *AlbumScreen) act(what string, err error) {
	if err != nil {
		s.log.Warn().Err(err).Msg(what)
	}
}

func (s *AlbumScreen) ensureFocusVisible() {
	if s.focus.Focused >= len(s.layout.Rows) {
		return
	}
	r := s.layout.Rows[s.focus.Focused]
	top := r.Row.Y + s.Scroll.ScrollY
	s.Scroll.EnsureVisible(top, top+r.Row.H+r.Detail.H, s.h-PlayerBarHeight)
}

func (s *AlbumScreen) handleClick(mx, my int, v player.View) {
	l := s.layout
	switch {
	case l.Prev.Contains(mx, my):
		if v.PrevEnabled {
			s.act("previous", s.c.Previous())
		}
		return
	case l.Play.Contains(mx, my):
		if v.PlayEnabled {
			s.act("toggle play", s.c.TogglePlay())
		}
		return
	case l.Next.Contains(mx, my):
		if v.NextEnabled {
			s.act("next", s.c.Next(false))
		}
		return
	case l.Progress.Grow(8).Contains(mx, my):
		if v.SeekEnabled {
			s.act("seek", s.c.Seek(l.Progress.Fraction(mx)))
		}
		return
	case v.VolumeVisible && l.Mute.Contains(mx, my):
		s.c.ToggleMute()
		return
	case v.VolumeVisible && l.Volume.Grow(8).Contains(mx, my):
		s.c.SetVolume(l.Volume.Fraction(mx) * 100)
		s.dragVolume = true
		return
	case l.Bar.Contains(mx, my):
		return
	}

	if l.Cover.Contains(mx, my) {
		if s.c.Capabilities().Gallery && len(s.c.Modal().Images()) > 0 {
			s.c.OpenGallery(0)
		} else {
			s.c.OpenImage(s.info.Cover, s.info.CoverCaption)
		}
		return
	}
	if v.PlayAllVisible && v.PlayAllEnabled && l.PlayAll.Contains(mx, my) {
		s.act("play all", s.c.PlayAll())
		return
	}
	for i, r := range l.Rows {
		switch {
		case r.Glyph.Contains(mx, my):
			s.focus.Focused = i
			s.act("play track", s.c.PlayTrack(i))
			return
		case r.Expand.Contains(mx, my), r.Row.Contains(mx, my):
			s.focus.Focused = i
			s.c.ToggleAccordion(i, false)
			return
		}
	}
}

func (s *AlbumScreen) modalImageRect(src string) Rect {
	iw, ih := 480.0, 480.0
	if img := s.cachedImage(src); img != nil {
		b := img.Bounds()
		iw, ih = float64(b.Dx()), float64(b.Dy())
	}
	return FitImage(iw, ih, s.w, s.h, 72)
}

func (s *AlbumScreen) cachedImage(src string) *ebiten.Image {
	if s.cache == nil || src == "" {
		return nil
	}
	img := s.cache.Get(src)
	if img == nil {
		s.cache.LoadAsync(src, func(*ebiten.Image) {})
	}
	return img
}

func (s *AlbumScreen) modalControls() (closeBtn, prev, next Rect) {
	closeBtn = Rect{X: s.w - 56, Y: 16, W: 40, H: 40}
	prev = Rect{X: 12, Y: s.h/2 - 28, W: 40, H: 56}
	next = Rect{X: s.w - 52, Y: s.h/2 - 28, W: 40, H: 56}
	return
}

func (s *AlbumScreen) updateModal(v player.View) {
	if v.Modal.CanStep {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			s.c.StepGallery(-1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			s.c.StepGallery(1)
		}
	}

	mx, my, clicked := MouseJustClicked()
	if !clicked {
		return
	}
	closeBtn, prev, next := s.modalControls()
	switch {
	case closeBtn.Contains(mx, my):
		s.c.CloseModal()
	case v.Modal.CanStep && prev.Contains(mx, my):
		s.c.StepGallery(-1)
	case v.Modal.CanStep && next.Contains(mx, my):
		s.c.StepGallery(1)
	default:
		s.c.Modal().ClickBackdrop(s.modalImageRect(v.Modal.ImageSrc).Contains(mx, my))
	}
}

func (s *AlbumScreen) Draw(dst *ebiten.Image) {
	v := s.c.View()
	s.Scroll.Animate()
	s.animateDetails(v)
	l := ComputeAlbumLayout(s.w, s.h, s.details, s.Scroll.ScrollY)

	s.drawHeader(dst, v, l)
	for i, tv := range v.Tracks {
		if i < len(l.Rows) {
			s.drawRow(dst, tv, l.Rows[i], i == s.focus.Focused)
		}
	}
	s.drawPlayerBar(dst, v, l)
	if v.Modal.Visible {
		s.drawModal(dst, v.Modal)
	}
}

func (s *AlbumScreen) animateDetails(v player.View) {
	if len(s.details) != len(v.Tracks) {
		s.details = make([]float64, len(v.Tracks))
	}
	for i, tv := range v.Tracks {
		target := 0.0
		if tv.Expanded {
			target = TrackDetailH
		}
		s.details[i] = Lerp(s.details[i], target, ExpandAnimSpeed)
		if math.Abs(s.details[i]-target) < 0.5 {
			s.details[i] = target
		}
	}
}

func (s *AlbumScreen) drawHeader(dst *ebiten.Image, v player.View, l AlbumLayout) {
	c := l.Cover
	if img := s.cachedImage(s.info.Cover); img != nil {
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(c.W/float64(b.Dx()), c.H/float64(b.Dy()))
		op.GeoM.Translate(c.X, c.Y)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, op)
	} else {
		vector.DrawFilledRect(dst, float32(c.X), float32(c.Y), float32(c.W), float32(c.H), ColorSurface, false)
		DrawTextCentered(dst, "♪", c.X+c.W/2, c.Y+c.H/2, FontSizeTitle*2, ColorTextMuted)
	}

	t := l.Title
	DrawText(dst, Ellipsize(s.info.Title, t.W, FontSizeTitle), t.X, t.Y+8, FontSizeTitle, ColorText)
	if s.info.Artist != "" {
		DrawText(dst, Ellipsize(s.info.Artist, t.W, FontSizeHeading), t.X, t.Y+48, FontSizeHeading, ColorTextSecondary)
	}
	DrawText(dst, fmt.Sprintf("%d tracks", len(v.Tracks)), t.X, t.Y+84, FontSizeSmall, ColorTextMuted)

	if v.PlayAllVisible {
		p := l.PlayAll
		bg, fg := ColorPrimary, ColorBackground
		if !v.PlayAllEnabled {
			bg, fg = ColorSurface, ColorTextMuted
		}
		vector.DrawFilledRect(dst, float32(p.X), float32(p.Y), float32(p.W), float32(p.H), bg, false)
		DrawTextCentered(dst, "Play All", p.X+p.W/2, p.Y+p.H/2, FontSizeBody, fg)
	}
}

func (s *AlbumScreen) drawRow(dst *ebiten.Image, tv player.TrackView, r RowLayout, focused bool) {
	limit := s.h - PlayerBarHeight
	if r.Row.Y > limit || r.Detail.Y+r.Detail.H < 0 {
		return
	}

	row := r.Row
	bg := ColorSurface
	if tv.Active {
		bg = ColorSurfaceHover
	}
	vector.DrawFilledRect(dst, float32(row.X), float32(row.Y), float32(row.W), float32(row.H), bg, false)
	if focused {
		vector.StrokeRect(dst, float32(row.X), float32(row.Y), float32(row.W), float32(row.H), 2, ColorFocusBorder, false)
	}

	g := tv.Glyph
	drawIconButton(dst, r.Glyph, true, tv.Playing, func(img *ebiten.Image, cx, cy, rad float32, clr color.Color) {
		drawGlyph(img, g, cx, cy, rad, clr)
	})

	labelX := r.Glyph.X + r.Glyph.W + 14
	maxW := r.Expand.X - labelX - 12
	clr := ColorText
	if tv.Playing {
		clr = ColorPrimary
	}
	DrawText(dst, Ellipsize(tv.Label, maxW, FontSizeBody), labelX, row.Y+row.H/2-FontSizeBody/2-2, FontSizeBody, clr)

	ex := r.Expand
	drawExpandIcon(dst, tv.Expanded, float32(ex.X+ex.W/2), float32(ex.Y+ex.H/2), 7, ColorTextSecondary)

	if d := r.Detail; d.H >= 1 {
		vector.DrawFilledRect(dst, float32(d.X), float32(d.Y), float32(d.W), float32(d.H), ColorBackground, false)
		vector.StrokeLine(dst, float32(d.X+12), float32(d.Y), float32(d.X+12), float32(d.Y+d.H), 2, ColorPrimaryDark, false)
		if d.H > TrackDetailH*0.8 {
			info := "Audio only"
			if tv.HasVideo {
				info = "Plays with its own background video"
			}
			DrawText(dst, info, d.X+28, d.Y+14, FontSizeSmall, ColorTextSecondary)
			DrawText(dst, "Enter plays this track. Left collapses.", d.X+28, d.Y+40, FontSizeCaption, ColorTextMuted)
		}
	}
}

func (s *AlbumScreen) drawPlayerBar(dst *ebiten.Image, v player.View, l AlbumLayout) {
	b := l.Bar
	vector.DrawFilledRect(dst, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), ColorSurface, false)
	vector.StrokeLine(dst, 0, float32(b.Y), float32(b.W), float32(b.Y), 1, ColorSurfaceHover, false)

	titleClr := ColorText
	if v.State == player.StateError {
		titleClr = ColorError
	}
	DrawText(dst, Ellipsize(v.Title, l.Prev.X-Pad*2, FontSizeBody), Pad, b.Y+28, FontSizeBody, titleClr)

	drawIconButton(dst, l.Prev, v.PrevEnabled, false, drawPrevIcon)
	glyph := v.PlayGlyph
	drawIconButton(dst, l.Play, v.PlayEnabled, true, func(img *ebiten.Image, cx, cy, r float32, clr color.Color) {
		drawGlyph(img, glyph, cx, cy, r, clr)
	})
	drawIconButton(dst, l.Next, v.NextEnabled, false, drawNextIcon)

	p := l.Progress
	DrawText(dst, v.Elapsed, Pad, p.Y-6, FontSizeSmall, ColorTextSecondary)
	DrawText(dst, v.Total, p.X+p.W+12, p.Y-6, FontSizeSmall, ColorTextSecondary)
	drawSlider(dst, p, v.Progress/100, v.SeekEnabled)

	if v.VolumeVisible {
		m := l.Mute
		drawSpeakerIcon(dst, v.VolumeGlyph, float32(m.X+m.W/2), float32(m.Y+m.H/2), 9, ColorTextSecondary)
		level := v.Volume
		if v.Muted {
			level = 0
		}
		drawSlider(dst, l.Volume, level, true)
	}
}

func drawSlider(dst *ebiten.Image, r Rect, frac float64, enabled bool) {
	frac = math.Max(0, math.Min(1, frac))
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), ColorSurfaceHover, false)
	fill := ColorPrimary
	if !enabled {
		fill = ColorTextMuted
	}
	vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W*frac), float32(r.H), fill, false)
	if enabled {
		vector.DrawFilledCircle(dst, float32(r.X+r.W*frac), float32(r.Y+r.H/2), float32(r.H), fill, true)
	}
}

func (s *AlbumScreen) drawModal(dst *ebiten.Image, m player.ModalView) {
	vector.DrawFilledRect(dst, 0, 0, float32(s.w), float32(s.h), ColorOverlay, false)

	r := s.modalImageRect(m.ImageSrc)
	if img := s.cachedImage(m.ImageSrc); img != nil {
		b := img.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
		op.GeoM.Translate(r.X, r.Y)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(img, op)
	} else {
		vector.DrawFilledRect(dst, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), ColorSurface, false)
		DrawTextCentered(dst, "Loading…", r.X+r.W/2, r.Y+r.H/2, FontSizeBody, ColorTextSecondary)
	}
	if m.Caption != "" {
		if w, _ := MeasureText(m.Caption, FontSizeBody); w <= r.W {
			DrawTextCentered(dst, m.Caption, s.w/2, r.Y+r.H+24, FontSizeBody, ColorText)
		} else {
			DrawTextWrapped(dst, m.Caption, r.X, r.Y+r.H+12, r.W, FontSizeBody, ColorText)
		}
	}

	closeBtn, prev, next := s.modalControls()
	drawCloseIcon(dst, float32(closeBtn.X+closeBtn.W/2), float32(closeBtn.Y+closeBtn.H/2), 10, ColorText)
	if m.CanStep {
		drawChevron(dst, -1, float32(prev.X+prev.W/2), float32(prev.Y+prev.H/2), 16, ColorText)
		drawChevron(dst, 1, float32(next.X+next.W/2), float32(next.Y+next.H/2), 16, ColorText)
	}
}
