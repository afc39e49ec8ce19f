package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/depeter/albumcouch/internal/player"
)

// SplashScreen is the intro card shown over the album until dismissed.
type SplashScreen struct {
	c     *player.Controller
	w, h  float64
	frame int
}

func NewSplashScreen(c *player.Controller, w, h int) *SplashScreen {
	return &SplashScreen{c: c, w: float64(w), h: float64(h)}
}

func (s *SplashScreen) Name() string { return "Splash" }
func (s *SplashScreen) OnEnter()     { s.frame = 0 }
func (s *SplashScreen) OnExit()      {}

// Resize adapts the card to a new window size.
func (s *SplashScreen) Resize(w, h int) {
	s.w, s.h = float64(w), float64(h)
}

func (s *SplashScreen) Update() (*ScreenTransition, error) {
	s.frame++
	if !s.c.View().Splash.Visible {
		// Dismissed elsewhere (Escape or the console).
		return &ScreenTransition{Type: TransitionPop}, nil
	}
	_, enter, _ := InputState()
	_, _, clicked := MouseJustClicked()
	if enter || clicked {
		s.c.DismissSplash()
		return &ScreenTransition{Type: TransitionPop}, nil
	}
	return nil, nil
}

func (s *SplashScreen) Draw(dst *ebiten.Image) {
	sp := s.c.View().Splash
	vector.DrawFilledRect(dst, 0, 0, float32(s.w), float32(s.h), ColorScrim, false)

	title := sp.Title
	if title == "" {
		title = "albumcouch"
	}
	DrawTextCentered(dst, title, s.w/2, s.h/2-24, FontSizeTitle*1.5, ColorText)

	// Pulse the prompt so the screen doesn't look frozen.
	a := 0.55 + 0.45*math.Sin(float64(s.frame)/20)
	clr := color.NRGBA{R: ColorPrimary.R, G: ColorPrimary.G, B: ColorPrimary.B, A: uint8(255 * a)}
	DrawTextCentered(dst, "Press Enter or click to start", s.w/2, s.h/2+36, FontSizeBody, clr)
}
