package app

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/depeter/albumcouch/internal/cache"
	"github.com/depeter/albumcouch/internal/config"
	"github.com/depeter/albumcouch/internal/player"
	"github.com/depeter/albumcouch/internal/ui"
)

// ErrQuit ends the ebiten loop when the window is asked to close.
var ErrQuit = errors.New("quit")

// Game implements ebiten.Game and manages the overall application.
type Game struct {
	Config     *config.Config
	Controller *player.Controller
	Cache      *cache.ImageCache
	Screens    *ui.ScreenManager

	Width, Height int

	log zerolog.Logger
}

// NewGame creates the Game with all dependencies.
func NewGame(cfg *config.Config, c *player.Controller, imgCache *cache.ImageCache, logger zerolog.Logger) *Game {
	if err := checkKeybinds(cfg.Keybinds); err != nil {
		logger.Warn().Err(err).Msg("keybinds")
	}
	ui.SetDebugOverlay(cfg.UI.Debug)
	g := &Game{
		Config:     cfg,
		Controller: c,
		Cache:      imgCache,
		Screens:    ui.NewScreenManager(),
		Width:      cfg.UI.Width,
		Height:     cfg.UI.Height,
		log:        logger,
	}
	if g.Width <= 0 || g.Height <= 0 {
		g.Width, g.Height = ui.ScreenWidth, ui.ScreenHeight
	}
	return g
}

// ShowAlbum pushes the album page, with the splash on top when it is enabled.
func (g *Game) ShowAlbum() {
	a := g.Config.Album
	info := ui.AlbumInfo{
		Title:        a.Title,
		Artist:       a.Artist,
		Cover:        g.Controller.Registry().Resolve(a.Cover),
		CoverCaption: a.CoverCaption,
	}
	g.Screens.Push(ui.NewAlbumScreen(g.Controller, info, g.Cache, g.Width, g.Height, g.log))
	if g.Controller.View().Splash.Visible {
		g.Screens.Push(ui.NewSplashScreen(g.Controller, g.Width, g.Height))
	}
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ErrQuit
	}

	// Alt+Enter or the fullscreen key toggles fullscreen
	if (inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt)) ||
		keyJustPressed(g.Config.Keybinds.Fullscreen) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	ui.ToggleDebugOverlay()

	g.Controller.Pump()

	for _, k := range ui.EvdevMediaKeys() {
		if err := applyMediaKey(g.Controller, k); err != nil {
			g.log.Warn().Err(err).Stringer("key", k).Msg("media key")
		}
	}

	if g.Screens.Current() != nil && g.Screens.Current().Name() == "Album" && !g.Controller.View().Modal.Visible {
		dispatchKeys(g.Config.Keybinds, g.Controller, keyJustPressed, func(name string, err error) {
			g.log.Warn().Err(err).Str("action", name).Msg("keybind")
		})
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.Controller.Escape()
	}

	if err := g.Screens.Update(); err != nil {
		return err
	}

	ui.UpdateInputState()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ui.ColorBackground)
	g.Screens.Draw(screen)
	ui.DrawDebugOverlay(screen, g.Controller)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.Width || outsideHeight != g.Height {
		g.Width = outsideWidth
		g.Height = outsideHeight
		g.Screens.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
