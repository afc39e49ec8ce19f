// Package player keeps playback state, the track list, accordion and modal
// state consistent as user input and media notifications arrive.
//
// A Controller is not safe for concurrent use. Drive it from one goroutine,
// either by calling Pump from a frame loop or by handing it to Run.
package player

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/depeter/albumcouch/internal/album"
)

// Capabilities selects which optional parts of the album page are active.
type Capabilities struct {
	PlayAll                 bool
	BackgroundVideo         bool
	VolumeControl           bool
	Gallery                 bool
	Splash                  bool
	DisableNavOnSingleTrack bool
}

// Options configures a Controller.
type Options struct {
	Registry     *album.Registry
	Media        Media
	Backdrop     Backdrop // optional
	Caps         Capabilities
	Volume       float64 // initial volume in [0,1]
	Gallery      []Image
	SplashTitle  string
	DefaultVideo string // backdrop when the current track has no video
	Logger       zerolog.Logger
}

// loadRequest is what to do once a loading track reports its metadata.
type loadRequest struct {
	index       int
	play        bool
	autoAdvance bool
}

// readyContinuation retries Play once the media reports it can play.
type readyContinuation struct {
	index  int
	source string
}

// Controller owns one playback session and everything projected from it.
type Controller struct {
	registry     *album.Registry
	media        Media
	backdrop     Backdrop
	caps         Capabilities
	defaultVideo string
	log          zerolog.Logger

	session   Session
	accordion *Accordion
	modal     *Modal
	splash    Splash

	pending    *loadRequest
	waiting    *readyContinuation
	shownVideo string
}

// New creates a controller. The media volume is synced immediately.
func New(opts Options) *Controller {
	reg := opts.Registry
	if reg == nil {
		reg = album.Build("", nil)
	}
	c := &Controller{
		registry:     reg,
		media:        opts.Media,
		backdrop:     opts.Backdrop,
		caps:         opts.Caps,
		defaultVideo: opts.DefaultVideo,
		log:          opts.Logger,
		session:      newSession(opts.Volume),
		accordion:    NewAccordion(reg.Len()),
		modal:        NewModal(opts.Gallery),
		splash:       Splash{Visible: opts.Caps.Splash, Title: opts.SplashTitle, Video: opts.DefaultVideo},
	}
	c.applyVolume()
	c.switchBackdrop()
	return c
}

// Session returns a copy of the playback session.
func (c *Controller) Session() Session { return c.session }

// Registry returns the track registry.
func (c *Controller) Registry() *album.Registry { return c.registry }

// Accordion returns the accordion state.
func (c *Controller) Accordion() *Accordion { return c.accordion }

// Modal returns the lightbox state.
func (c *Controller) Modal() *Modal { return c.modal }

// Capabilities returns the active feature set.
func (c *Controller) Capabilities() Capabilities { return c.caps }

// View projects the current state for rendering.
func (c *Controller) View() View {
	return Project(ProjectInput{
		Session:      c.session,
		Registry:     c.registry,
		Accordion:    c.accordion,
		Modal:        c.modal,
		Splash:       c.splash,
		Position:     c.media.Position(),
		Duration:     c.media.Duration(),
		Caps:         c.caps,
		DefaultVideo: c.defaultVideo,
	})
}

// Load selects track index. When the resolved locator differs from what the
// media has loaded, loading starts and completes asynchronously; otherwise
// the loaded resource is reused.
func (c *Controller) Load(index int, playImmediately, autoAdvance bool) error {
	track, ok := c.registry.At(index)
	if !ok {
		c.log.Warn().Int("index", index).Int("tracks", c.registry.Len()).Bool("auto_advance", autoAdvance).
			Msg("invalid track index")
		if autoAdvance {
			c.stop()
		}
		return fmt.Errorf("load track %d: %w", index, ErrInvalidIndex)
	}

	target := c.registry.Resolve(track.AudioLocator)
	loaded := c.media.Source()
	if index != c.session.CurrentIndex || loaded == "" || !c.registry.SameLocator(loaded, target) {
		return c.loadNew(index, target, playImmediately, autoAdvance)
	}

	if playImmediately && !c.session.Playing {
		if autoAdvance {
			c.accordion.CloseAll(NoTrack)
		}
		return c.Play()
	}
	return nil
}

func (c *Controller) loadNew(index int, target string, play, autoAdvance bool) error {
	c.cancelContinuation()
	c.session.State = StateLoading
	c.session.CurrentIndex = index
	c.session.Playing = false
	c.session.LastError = nil
	c.pending = &loadRequest{index: index, play: play, autoAdvance: autoAdvance}
	c.switchBackdrop()

	c.log.Debug().Int("index", index).Str("src", target).Bool("play", play).Msg("loading track")
	if err := c.media.SetSource(target); err != nil {
		return c.failLoad(index, err)
	}
	if err := c.media.Load(); err != nil {
		return c.failLoad(index, err)
	}
	return nil
}

func (c *Controller) failLoad(index int, cause error) error {
	if cause == nil {
		cause = errors.New("no detail from media backend")
	}
	err := fmt.Errorf("track %d: %w: %w", index, ErrResourceLoad, cause)
	c.log.Error().Err(cause).Int("index", index).Str("src", c.media.Source()).Msg("track failed to load")
	c.pending = nil
	c.cancelContinuation()
	c.session.reset(StateError)
	c.session.LastError = err
	c.switchBackdrop()
	return err
}

// stop ends playback after auto-advance ran out of valid tracks.
func (c *Controller) stop() {
	if c.session.HasTrack() {
		if err := c.media.Pause(); err != nil {
			c.log.Warn().Err(err).Msg("pause on stop")
		}
	}
	c.pending = nil
	c.cancelContinuation()
	c.session.reset(StateEmpty)
	c.accordion.CloseAll(NoTrack)
	c.switchBackdrop()
}

// Play starts or resumes playback. With nothing selected it starts the
// album from the first track. When the media is not ready yet the request
// is deferred until the next can-play notification.
func (c *Controller) Play() error {
	if c.session.Playing {
		return nil
	}
	if !c.session.HasTrack() {
		if c.registry.Empty() {
			return nil
		}
		return c.Load(0, true, true)
	}
	if c.session.State == StateLoading {
		if c.pending != nil {
			c.pending.play = true
		}
		return nil
	}

	c.cancelContinuation()
	if c.media.ReadyState() < ReadyCurrentData {
		c.waiting = &readyContinuation{index: c.session.CurrentIndex, source: c.media.Source()}
		c.log.Debug().Int("index", c.session.CurrentIndex).Msg("media not ready, waiting for canplay")
		return nil
	}

	if err := c.media.Play(); err != nil {
		c.session.Playing = false
		if c.session.State == StatePlaying {
			c.session.State = StateReady
		}
		c.log.Warn().Err(err).Int("index", c.session.CurrentIndex).Msg("playback rejected")
		return fmt.Errorf("play track %d: %w: %w", c.session.CurrentIndex, ErrPlaybackRejected, err)
	}
	return nil
}

// Pause requests a pause. The playing flag changes when the media confirms.
func (c *Controller) Pause() error {
	if !c.session.HasTrack() {
		return nil
	}
	c.cancelContinuation()
	if c.pending != nil {
		c.pending.play = false
	}
	return c.media.Pause()
}

// TogglePlay pauses when playing and plays otherwise.
func (c *Controller) TogglePlay() error {
	if c.session.Playing {
		return c.Pause()
	}
	return c.Play()
}

// PlayTrack is the per-track play button: it pauses the track that is
// playing and starts any other.
func (c *Controller) PlayTrack(index int) error {
	if index == c.session.CurrentIndex && c.session.Playing {
		return c.Pause()
	}
	return c.Load(index, true, false)
}

// PlayAll starts the album from the first track.
func (c *Controller) PlayAll() error {
	if !c.caps.PlayAll {
		c.log.Debug().Msg("play all disabled")
		return nil
	}
	return c.Load(0, true, true)
}

// Next moves to the following track, wrapping to the first. fromEnd marks an
// auto-advance after a track finished, which keeps playback going.
func (c *Controller) Next(fromEnd bool) error {
	n := c.registry.Len()
	if n == 0 || (!fromEnd && c.navLocked()) {
		return nil
	}
	wasPlaying := c.session.Playing || fromEnd
	target := 0
	if c.session.HasTrack() {
		target = (c.session.CurrentIndex + 1) % n
	}
	return c.Load(target, wasPlaying, fromEnd)
}

// Previous moves to the preceding track, wrapping to the last.
func (c *Controller) Previous() error {
	n := c.registry.Len()
	if n == 0 || c.navLocked() {
		return nil
	}
	target := c.session.CurrentIndex - 1
	if !c.session.HasTrack() || target < 0 {
		target = n - 1
	}
	return c.Load(target, c.session.Playing, false)
}

func (c *Controller) navLocked() bool {
	return c.caps.DisableNavOnSingleTrack && c.registry.Len() <= 1
}

// Seek jumps to fraction of the duration. It does nothing while the
// duration is unknown.
func (c *Controller) Seek(fraction float64) error {
	if !c.session.HasTrack() {
		return nil
	}
	d := c.media.Duration()
	if !knownDuration(d) {
		return nil
	}
	return c.media.Seek(fraction * d)
}

// SetVolume sets the volume from a 0..100 slider value. Silent levels mute.
func (c *Controller) SetVolume(percent float64) {
	vol := clamp01(percent / 100)
	c.session.Volume = vol
	c.session.Muted = vol < muteEpsilon
	c.session.PreviousVolume = vol
	c.applyVolume()
}

// AdjustVolume changes the volume by delta percentage points.
func (c *Controller) AdjustVolume(delta float64) {
	c.SetVolume(c.session.Volume*100 + delta)
}

// ToggleMute mutes, or restores the last audible volume.
func (c *Controller) ToggleMute() {
	if c.session.Silent() {
		restore := c.session.PreviousVolume
		if restore < muteEpsilon {
			restore = defaultUnmuteVolume
		}
		c.session.Volume = restore
		c.session.Muted = false
	} else {
		c.session.PreviousVolume = c.session.Volume
		c.session.Muted = true
	}
	c.applyVolume()
}

func (c *Controller) applyVolume() {
	if err := c.media.SetVolume(c.session.Volume); err != nil {
		c.log.Warn().Err(err).Msg("set volume")
	}
	if err := c.media.SetMuted(c.session.Muted); err != nil {
		c.log.Warn().Err(err).Msg("set mute")
	}
}

// ToggleAccordion opens or closes the detail panel of track i.
func (c *Controller) ToggleAccordion(i int, forceOpen bool) {
	c.accordion.Toggle(i, forceOpen)
}

// OpenImage shows an image in the lightbox.
func (c *Controller) OpenImage(src, caption string) {
	c.modal.Open(src, caption)
}

// OpenGallery shows gallery image i.
func (c *Controller) OpenGallery(i int) {
	c.modal.OpenAt(i)
}

// StepGallery moves the lightbox through the gallery.
func (c *Controller) StepGallery(delta int) {
	if !c.caps.Gallery {
		return
	}
	c.modal.Step(delta)
}

// CloseModal hides the lightbox.
func (c *Controller) CloseModal() {
	c.modal.Close()
}

// Escape closes whatever overlay is on top and reports whether it did.
func (c *Controller) Escape() bool {
	if c.modal.Escape() {
		return true
	}
	return c.DismissSplash()
}

// DismissSplash hides the splash screen.
func (c *Controller) DismissSplash() bool {
	if !c.splash.Dismiss() {
		return false
	}
	c.switchBackdrop()
	return true
}

func (c *Controller) cancelContinuation() {
	c.waiting = nil
}

// switchBackdrop shows the video for the current track, falling back to the
// album video.
func (c *Controller) switchBackdrop() {
	if !c.caps.BackgroundVideo || c.backdrop == nil {
		return
	}
	want := c.defaultVideo
	if c.splash.Visible && c.splash.Video != "" {
		want = c.splash.Video
	} else if t, ok := c.registry.At(c.session.CurrentIndex); ok && t.HasVideo() {
		want = t.VideoLocator
	}
	want = c.registry.Resolve(want)
	if want == "" || want == c.shownVideo {
		return
	}
	if err := c.backdrop.Show(want); err != nil {
		c.log.Warn().Err(err).Str("video", want).Msg("background video switch failed")
		return
	}
	c.shownVideo = want
}

// Close releases the media backend.
func (c *Controller) Close() error {
	c.cancelContinuation()
	c.pending = nil
	return c.media.Close()
}
