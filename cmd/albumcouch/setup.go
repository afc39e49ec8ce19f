package main

import (
	"fmt"

	"github.com/faiface/beep"

	"github.com/depeter/albumcouch/internal/config"
	"github.com/depeter/albumcouch/internal/log"
	"github.com/depeter/albumcouch/internal/media"
	"github.com/depeter/albumcouch/internal/player"
)

// beepSampleRate is the mixer rate; tracks at other rates are resampled.
const beepSampleRate = beep.SampleRate(44100)

// newMedia opens the audio backend named by playback.backend.
func newMedia(cfg *config.Config) (player.Media, error) {
	switch cfg.Playback.Backend {
	case config.BackendBeep:
		sink, err := media.SpeakerSink(beepSampleRate)
		if err != nil {
			return nil, err
		}
		return media.NewBeep(media.BeepOptions{
			SampleRate: beepSampleRate,
			Sink:       sink,
			Volume:     cfg.VolumeFraction(),
			Logger:     log.WithComponent("beep"),
		}), nil
	case config.BackendMPV, "":
		m, err := media.NewMPV(media.MPVOptions{
			HWDec:  cfg.Playback.HWAccel,
			Volume: cfg.VolumeFraction(),
			Logger: log.WithComponent("mpv"),
		})
		if err != nil {
			return nil, fmt.Errorf("start mpv: %w", err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown playback backend %q", cfg.Playback.Backend)
}

// newBackdrop opens the background video window when the album asks for one.
// Headless runs and failures fall back to no backdrop.
func newBackdrop(cfg *config.Config, headless bool) (player.Backdrop, func()) {
	if !cfg.Features.BackgroundVideo || headless {
		return media.NopBackdrop{}, func() {}
	}
	logger := log.WithComponent("backdrop")
	b, err := media.NewVideoBackdrop(cfg.Playback.HWAccel, cfg.UI.Fullscreen, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("background video disabled")
		return media.NopBackdrop{}, func() {}
	}
	return b, func() {
		if err := b.Close(); err != nil {
			logger.Warn().Err(err).Msg("close backdrop")
		}
	}
}

// controllerOptions maps the album config onto controller options.
func controllerOptions(cfg *config.Config, m player.Media, b player.Backdrop) player.Options {
	reg := cfg.Registry()
	return player.Options{
		Registry:     reg,
		Media:        m,
		Backdrop:     b,
		Caps:         cfg.Capabilities(),
		Volume:       cfg.VolumeFraction(),
		Gallery:      cfg.GalleryImages(reg),
		SplashTitle:  cfg.Album.Title,
		DefaultVideo: cfg.Album.DefaultVideo,
		Logger:       log.WithComponent("player"),
	}
}

func newController(cfg *config.Config, m player.Media, b player.Backdrop) *player.Controller {
	return player.New(controllerOptions(cfg, m, b))
}
