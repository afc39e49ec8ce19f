package player

import "context"

// HandleEvent applies one media notification to the session.
func (c *Controller) HandleEvent(ev Event) {
	if c.stale(ev) {
		c.log.Debug().Stringer("event", ev.Type).Str("src", ev.Source).Msg("dropping event for superseded source")
		return
	}

	switch ev.Type {
	case EventMetadata:
		c.onMetadata()
	case EventError:
		if c.session.HasTrack() {
			c.failLoad(c.session.CurrentIndex, ev.Err)
		}
	case EventPlay:
		if !c.session.HasTrack() {
			// Nothing selected; the media should not be running.
			if err := c.media.Pause(); err != nil {
				c.log.Warn().Err(err).Msg("pause orphaned playback")
			}
			return
		}
		c.session.Playing = true
		c.session.State = StatePlaying
	case EventPause:
		c.session.Playing = false
		if c.session.State == StatePlaying {
			c.session.State = StateReady
		}
	case EventCanPlay:
		c.onCanPlay()
	case EventEnded:
		c.session.Playing = false
		if c.session.State == StatePlaying {
			c.session.State = StateReady
		}
		if err := c.Next(true); err != nil {
			c.log.Warn().Err(err).Msg("auto-advance")
		}
	case EventTimeUpdate, EventVolumeChange:
		// Projected on demand from the media clock and session volume.
	}
}

func (c *Controller) stale(ev Event) bool {
	cur := c.media.Source()
	return ev.Source != "" && cur != "" && !c.registry.SameLocator(ev.Source, cur)
}

func (c *Controller) onMetadata() {
	if c.session.State != StateLoading {
		return
	}
	req := c.pending
	c.pending = nil
	c.session.State = StateReady
	if req == nil || req.index != c.session.CurrentIndex {
		return
	}
	if req.play {
		if err := c.Play(); err != nil {
			c.log.Warn().Err(err).Msg("play after load")
		}
	}
	if req.autoAdvance {
		c.accordion.CloseAll(NoTrack)
	}
}

func (c *Controller) onCanPlay() {
	w := c.waiting
	if w == nil {
		return
	}
	c.waiting = nil
	if w.index != c.session.CurrentIndex || w.source != c.media.Source() || c.session.Playing {
		return
	}
	if err := c.Play(); err != nil {
		c.log.Warn().Err(err).Msg("deferred play")
	}
}

// Pump applies every queued media notification without blocking and
// returns how many were handled. Call it once per frame.
func (c *Controller) Pump() int {
	events := c.media.Events()
	n := 0
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return n
			}
			c.HandleEvent(ev)
			n++
		default:
			return n
		}
	}
}

// Command is work to run on the goroutine that owns the controller.
type Command func(*Controller)

// Run serializes commands and media notifications on the calling goroutine
// until ctx is done or cmds is closed.
func (c *Controller) Run(ctx context.Context, cmds <-chan Command) error {
	events := c.media.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.HandleEvent(ev)
		case cmd, ok := <-cmds:
			if !ok {
				return nil
			}
			cmd(c)
		}
	}
}
