// Package media implements the playback backends behind player.Media.
package media

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"sync"

	"github.com/gen2brain/go-mpv"
	"github.com/rs/zerolog"

	"github.com/depeter/albumcouch/internal/player"
)

const eventBuffer = 64

var errEmptySource = errors.New("media: empty source")

// MPVOptions configures an mpv backed player.
type MPVOptions struct {
	HWDec  string
	Volume float64 // initial volume in [0,1]
	Logger zerolog.Logger
}

// MPV plays audio tracks through libmpv. Files are loaded paused and kept
// open at the end so the position stays valid after a track finishes.
type MPV struct {
	m   *mpv.Mpv
	log zerolog.Logger

	mu       sync.Mutex
	source   string
	ready    player.ReadyState
	position float64
	duration float64
	paused   bool
	eof      bool
	entries  *entryTracker

	events *eventQueue
	stop   chan struct{}
	done   chan struct{}
}

// NewMPV creates and initializes an audio-only mpv instance.
func NewMPV(opts MPVOptions) (*MPV, error) {
	m := mpv.New()
	p := &MPV{
		m:        m,
		log:      opts.Logger,
		duration: math.NaN(),
		paused:   true,
		entries:  newEntryTracker(),
		events:   newEventQueue(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	p.option("vid", "no")
	p.option("vo", "null")
	p.option("idle", "yes")
	p.option("keep-open", "yes")
	p.option("pause", "yes")
	if opts.HWDec != "" {
		p.option("hwdec", opts.HWDec)
	}
	p.option("volume", formatVolume(opts.Volume))

	if err := m.Initialize(); err != nil {
		p.events.close()
		m.TerminateDestroy()
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	m.ObserveProperty(0, "time-pos", mpv.FormatDouble)
	m.ObserveProperty(0, "duration", mpv.FormatDouble)
	m.ObserveProperty(0, "pause", mpv.FormatFlag)
	m.ObserveProperty(0, "eof-reached", mpv.FormatFlag)
	m.ObserveProperty(0, "volume", mpv.FormatDouble)
	m.ObserveProperty(0, "mute", mpv.FormatFlag)

	go p.eventLoop()
	return p, nil
}

func (p *MPV) option(name, value string) {
	if err := p.m.SetOptionString(name, value); err != nil {
		p.log.Warn().Err(err).Str("option", name).Msg("mpv option")
	}
}

// SetSource points the player at a new resource without loading it.
func (p *MPV) SetSource(locator string) error {
	if locator == "" {
		return errEmptySource
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = locator
	p.ready = player.ReadyNothing
	p.position = 0
	p.duration = math.NaN()
	p.eof = false
	return nil
}

// Load starts fetching the current source, paused.
func (p *MPV) Load() error {
	p.mu.Lock()
	src := p.source
	p.entries.loading(src)
	p.mu.Unlock()
	if err := p.m.SetPropertyString("pause", "yes"); err != nil {
		p.abandon(src)
		return fmt.Errorf("mpv pause before load: %w", err)
	}
	if err := p.m.Command([]string{"loadfile", src, "replace"}); err != nil {
		p.abandon(src)
		return fmt.Errorf("mpv loadfile %s: %w", src, err)
	}
	return nil
}

func (p *MPV) abandon(src string) {
	p.mu.Lock()
	p.entries.abandon(src)
	p.mu.Unlock()
}

// Play resumes playback, rewinding first when the track already finished.
func (p *MPV) Play() error {
	p.mu.Lock()
	ended := p.eof
	p.mu.Unlock()
	if ended {
		if err := p.m.Command([]string{"seek", "0", "absolute"}); err != nil {
			return fmt.Errorf("mpv rewind: %w", err)
		}
	}
	if err := p.m.SetPropertyString("pause", "no"); err != nil {
		return fmt.Errorf("mpv play: %w", err)
	}
	return nil
}

// Pause suspends playback.
func (p *MPV) Pause() error {
	if err := p.m.SetPropertyString("pause", "yes"); err != nil {
		return fmt.Errorf("mpv pause: %w", err)
	}
	return nil
}

// Seek moves to an absolute position in seconds.
func (p *MPV) Seek(seconds float64) error {
	return p.m.Command([]string{"seek", strconv.FormatFloat(seconds, 'f', 3, 64), "absolute"})
}

// SetVolume sets the volume from a [0,1] fraction.
func (p *MPV) SetVolume(v float64) error {
	return p.m.SetPropertyString("volume", formatVolume(v))
}

// SetMuted sets the mute flag.
func (p *MPV) SetMuted(muted bool) error {
	return p.m.SetPropertyString("mute", yesNo(muted))
}

// Source returns the current locator.
func (p *MPV) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Position returns the playback position in seconds.
func (p *MPV) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Duration returns the track length in seconds, NaN while unknown.
func (p *MPV) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// ReadyState reports how much of the current source is available.
func (p *MPV) ReadyState() player.ReadyState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Events returns the notification stream.
func (p *MPV) Events() <-chan player.Event {
	return p.events.out
}

// Close stops the event loop and destroys the mpv instance.
func (p *MPV) Close() error {
	select {
	case <-p.stop:
		return nil
	default:
	}
	close(p.stop)
	<-p.done
	p.events.close()
	p.m.TerminateDestroy()
	return nil
}

// emit tags an event with the entry mpv is playing, which lags p.source
// until the next loadfile starts.
func (p *MPV) emit(t player.EventType, err error) {
	p.mu.Lock()
	ev := player.Event{Type: t, Source: p.entries.current(), Err: err}
	p.mu.Unlock()
	p.events.push(ev)
}

// settle updates the ready state only while mpv plays the requested source.
// Callers hold p.mu.
func (p *MPV) settle(r player.ReadyState) {
	if p.entries.current() == p.source {
		p.ready = r
	}
}

func (p *MPV) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(p.done)
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		ev := p.m.WaitEvent(0.25)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			p.property(ev.Property())

		case mpv.EventStart:
			if ev.Data == nil {
				continue
			}
			sf := ev.StartFile()
			p.mu.Lock()
			src := p.entries.started(sf.EntryID)
			p.mu.Unlock()
			p.log.Debug().Int64("entry", sf.EntryID).Str("src", src).Msg("mpv start-file")

		case mpv.EventFileLoaded:
			p.mu.Lock()
			p.settle(player.ReadyMetadata)
			p.mu.Unlock()
			p.emit(player.EventMetadata, nil)

		case mpv.EventPlaybackRestart:
			p.mu.Lock()
			p.settle(player.ReadyEnoughData)
			p.mu.Unlock()
			p.emit(player.EventCanPlay, nil)

		case mpv.EventEnd:
			if ev.Data == nil {
				continue
			}
			ef := ev.EndFile()
			p.mu.Lock()
			src, known := p.entries.ended(ef.EntryID)
			if known && ef.Reason == mpv.EndFileError && src == p.source {
				p.ready = player.ReadyNothing
			}
			p.mu.Unlock()
			p.log.Debug().Int64("entry", ef.EntryID).Str("src", src).Str("reason", fmt.Sprint(ef.Reason)).Msg("mpv end-file")
			if known && ef.Reason == mpv.EndFileError {
				p.events.push(player.Event{Type: player.EventError, Source: src, Err: fmt.Errorf("mpv end-file: %s", ef.Reason)})
			}

		case mpv.EventShutdown:
			return
		}
	}
}

func (p *MPV) property(prop mpv.EventProperty) {
	switch prop.Name {
	case "time-pos":
		if v, ok := prop.Data.(float64); ok {
			p.mu.Lock()
			if p.entries.current() == p.source {
				p.position = v
			}
			p.mu.Unlock()
			p.emit(player.EventTimeUpdate, nil)
		}
	case "duration":
		if v, ok := prop.Data.(float64); ok {
			p.mu.Lock()
			if p.entries.current() == p.source {
				p.duration = v
			}
			p.mu.Unlock()
		}
	case "pause":
		v, ok := prop.Data.(int)
		if !ok {
			return
		}
		p.mu.Lock()
		changed := p.paused != (v == 1)
		p.paused = v == 1
		p.mu.Unlock()
		if !changed {
			return
		}
		if v == 1 {
			p.emit(player.EventPause, nil)
		} else {
			p.emit(player.EventPlay, nil)
		}
	case "eof-reached":
		v, ok := prop.Data.(int)
		if !ok {
			return
		}
		p.mu.Lock()
		if p.entries.current() != p.source {
			p.mu.Unlock()
			return
		}
		ended := v == 1 && !p.eof && p.source != ""
		p.eof = v == 1
		p.mu.Unlock()
		if ended {
			p.emit(player.EventEnded, nil)
		}
	case "volume", "mute":
		p.emit(player.EventVolumeChange, nil)
	}
}

func formatVolume(v float64) string {
	if v != v || v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return strconv.FormatFloat(v*100, 'f', 0, 64)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
