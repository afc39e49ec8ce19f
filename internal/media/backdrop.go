package media

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gen2brain/go-mpv"
	"github.com/rs/zerolog"
)

// VideoBackdrop loops a muted video in its own window behind the album page.
type VideoBackdrop struct {
	m   *mpv.Mpv
	log zerolog.Logger

	mu      sync.Mutex
	current string

	stop chan struct{}
	done chan struct{}
}

// NewVideoBackdrop creates the backdrop player.
func NewVideoBackdrop(hwdec string, fullscreen bool, logger zerolog.Logger) (*VideoBackdrop, error) {
	m := mpv.New()
	b := &VideoBackdrop{
		m:    m,
		log:  logger,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	b.option("vo", "gpu")
	b.option("osc", "no")
	b.option("idle", "yes")
	b.option("mute", "yes")
	b.option("loop-file", "inf")
	b.option("input-default-bindings", "no")
	b.option("force-window", "yes")
	b.option("title", "albumcouch backdrop")
	b.option("fullscreen", yesNo(fullscreen))
	if hwdec != "" {
		b.option("hwdec", hwdec)
	}

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv backdrop init: %w", err)
	}
	go b.eventLoop()
	return b, nil
}

func (b *VideoBackdrop) option(name, value string) {
	if err := b.m.SetOptionString(name, value); err != nil {
		b.log.Warn().Err(err).Str("option", name).Msg("mpv backdrop option")
	}
}

// Show switches to the given video, or clears the backdrop when locator is
// empty.
func (b *VideoBackdrop) Show(locator string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if locator == b.current {
		return nil
	}
	b.current = locator
	if locator == "" {
		return b.m.Command([]string{"stop"})
	}
	if err := b.m.Command([]string{"loadfile", locator, "replace"}); err != nil {
		return fmt.Errorf("backdrop loadfile %s: %w", locator, err)
	}
	return nil
}

// Current returns the video on display.
func (b *VideoBackdrop) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Close destroys the mpv instance.
func (b *VideoBackdrop) Close() error {
	select {
	case <-b.stop:
		return nil
	default:
	}
	close(b.stop)
	<-b.done
	b.m.TerminateDestroy()
	return nil
}

// eventLoop drains mpv's queue so it never fills; only failures matter here.
func (b *VideoBackdrop) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(b.done)
	for {
		select {
		case <-b.stop:
			return
		default:
		}
		ev := b.m.WaitEvent(0.25)
		if ev == nil {
			continue
		}
		switch ev.EventID {
		case mpv.EventEnd:
			if ev.Data == nil {
				continue
			}
			if ef := ev.EndFile(); ef.Reason == mpv.EndFileError {
				b.log.Warn().Str("video", b.Current()).Msg("backdrop video failed")
			}
		case mpv.EventShutdown:
			return
		}
	}
}

// NopBackdrop discards backdrop changes, for headless runs.
type NopBackdrop struct{}

func (NopBackdrop) Show(string) error { return nil }
