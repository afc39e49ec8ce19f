package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/albumcouch/internal/config"
	"github.com/depeter/albumcouch/internal/media"
	"github.com/depeter/albumcouch/internal/player"
)

func TestControllerOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Album.Title = "Night Drive"
	cfg.Album.Base = "/srv/album"
	cfg.Album.Cover = "cover.jpg"
	cfg.Album.DefaultVideo = "loop.mp4"
	cfg.Album.Tracks = []config.TrackConfig{{Src: "01.mp3", Title: "Intro"}, {Src: "02.mp3"}}
	cfg.Album.Gallery = []config.ImageConfig{{Src: "band.jpg", Caption: "Band"}}
	cfg.Features.Splash = true
	cfg.Playback.Volume = 40

	opts := controllerOptions(cfg, nil, media.NopBackdrop{})
	require.Equal(t, 2, opts.Registry.Len())
	assert.Equal(t, "Night Drive", opts.SplashTitle)
	assert.Equal(t, "loop.mp4", opts.DefaultVideo)
	assert.InDelta(t, 0.4, opts.Volume, 1e-9)
	assert.True(t, opts.Caps.Splash)
	assert.Equal(t, []player.Image{
		{Src: "/srv/album/cover.jpg"},
		{Src: "/srv/album/band.jpg", Caption: "Band"},
	}, opts.Gallery)
}

func TestNewBackdropHeadlessIsNop(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Features.BackgroundVideo = true

	b, closeFn := newBackdrop(cfg, true)
	defer closeFn()
	assert.IsType(t, media.NopBackdrop{}, b)
}

func TestNewMediaRejectsUnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Playback.Backend = "gstreamer"
	_, err := newMedia(cfg)
	assert.ErrorContains(t, err, `unknown playback backend "gstreamer"`)
}
