package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/albumcouch/assets/icon"
	"github.com/depeter/albumcouch/internal/app"
	"github.com/depeter/albumcouch/internal/cache"
	"github.com/depeter/albumcouch/internal/config"
	"github.com/depeter/albumcouch/internal/console"
	"github.com/depeter/albumcouch/internal/log"
	"github.com/depeter/albumcouch/internal/player"
	"github.com/depeter/albumcouch/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "albumcouch:", err)
		os.Exit(1)
	}
}

func run() error {
	defaultPath, _ := config.ConfigPath()
	configPath := flag.String("config", defaultPath, "album config file")
	headless := flag.Bool("headless", false, "control playback from a terminal prompt instead of a window")
	writeConfig := flag.Bool("write-config", false, "write the effective config back to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *writeConfig {
		return cfg.Save(*configPath)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", *configPath, err)
	}

	log.Configure(log.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	logger := log.WithComponent("main")
	logger.Info().Str("config", *configPath).Str("backend", cfg.Playback.Backend).
		Int("tracks", len(cfg.Album.Tracks)).Bool("headless", *headless).Msg("starting")

	backend, err := newMedia(cfg)
	if err != nil {
		return err
	}
	backdrop, closeBackdrop := newBackdrop(cfg, *headless)
	defer closeBackdrop()

	c := newController(cfg, backend, backdrop)
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn().Err(err).Msg("close media")
		}
	}()

	if *headless {
		return runConsole(c)
	}
	return runWindow(cfg, c)
}

func runWindow(cfg *config.Config, c *player.Controller) error {
	logger := log.WithComponent("ui")
	if err := ui.InitDefaultFonts(); err != nil {
		return fmt.Errorf("init fonts: %w", err)
	}

	cacheDir := filepath.Join(os.TempDir(), "albumcouch", "images")
	if configDir, err := config.ConfigDir(); err == nil {
		cacheDir = filepath.Join(configDir, "cache", "images")
	}
	imgCache, err := cache.NewImageCache(cacheDir, log.WithComponent("cache"))
	if err != nil {
		return fmt.Errorf("init image cache: %w", err)
	}

	ui.StartEvdev(log.WithComponent("evdev"))
	game := app.NewGame(cfg, c, imgCache, logger)
	game.ShowAlbum()

	title := cfg.Album.Title
	if cfg.Album.Artist != "" {
		title = cfg.Album.Artist + " - " + title
	}
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}

func runConsole(c *player.Controller) error {
	history := ""
	if dir, err := config.ConfigDir(); err == nil {
		history = filepath.Join(dir, "history")
	}
	rl, err := console.NewReadline(history)
	if err != nil {
		return fmt.Errorf("open prompt: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	con := console.New(rl, rl.Stdout(), log.WithComponent("console"))
	fmt.Fprintln(rl.Stdout(), `Type "help" for commands.`)
	if err := con.Run(ctx, c); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
