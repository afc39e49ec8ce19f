package player

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/albumcouch/internal/album"
)

func TestNextFromEmptyWrapsAround(t *testing.T) {
	c, _ := newTestController(t, 3, Capabilities{})

	require.NoError(t, c.Next(false))
	assert.Equal(t, 0, c.Session().CurrentIndex)

	require.NoError(t, c.Next(false))
	require.NoError(t, c.Next(false))
	assert.Equal(t, 2, c.Session().CurrentIndex)

	require.NoError(t, c.Next(false))
	assert.Equal(t, 0, c.Session().CurrentIndex)
}

func TestPreviousFromEmptySelectsLast(t *testing.T) {
	c, _ := newTestController(t, 3, Capabilities{})

	require.NoError(t, c.Previous())
	assert.Equal(t, 2, c.Session().CurrentIndex)

	require.NoError(t, c.Previous())
	require.NoError(t, c.Previous())
	assert.Equal(t, 0, c.Session().CurrentIndex)

	require.NoError(t, c.Previous())
	assert.Equal(t, 2, c.Session().CurrentIndex)
}

func TestNavLockedOnSingleTrack(t *testing.T) {
	c, _ := newTestController(t, 1, Capabilities{DisableNavOnSingleTrack: true})

	require.NoError(t, c.Next(false))
	require.NoError(t, c.Previous())
	assert.Equal(t, NoTrack, c.Session().CurrentIndex)

	require.NoError(t, c.Next(true))
	assert.Equal(t, 0, c.Session().CurrentIndex)
}

func TestNextIsCyclic(t *testing.T) {
	for n := 1; n <= 5; n++ {
		for start := 0; start < n; start++ {
			c, m := newTestController(t, n, Capabilities{})
			require.NoError(t, c.Load(start, false, false))
			metadata(c, m)

			for i := 0; i < n; i++ {
				require.NoError(t, c.Next(false))
				metadata(c, m)
			}
			assert.Equal(t, start, c.Session().CurrentIndex, "n=%d start=%d", n, start)
		}
	}
}

func TestPreviousThenNextReturns(t *testing.T) {
	for n := 1; n <= 4; n++ {
		for start := 0; start < n; start++ {
			c, m := newTestController(t, n, Capabilities{})
			require.NoError(t, c.Load(start, false, false))
			metadata(c, m)

			require.NoError(t, c.Previous())
			require.NoError(t, c.Next(false))
			assert.Equal(t, start, c.Session().CurrentIndex, "n=%d start=%d", n, start)
		}
	}
}

func TestNavigationOnEmptyRegistry(t *testing.T) {
	c, m := newTestController(t, 0, Capabilities{PlayAll: true})

	assert.NoError(t, c.Next(false))
	assert.NoError(t, c.Previous())
	assert.NoError(t, c.Play())
	assert.Equal(t, NoTrack, c.Session().CurrentIndex)
	assert.Zero(t, m.loads)

	err := c.PlayAll()
	assert.ErrorIs(t, err, ErrInvalidIndex)
	assert.Equal(t, StateEmpty, c.Session().State)
}

func TestLoadSameTrackDoesNotReload(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})

	require.NoError(t, c.Load(1, false, false))
	metadata(c, m)
	require.Equal(t, 1, m.loads)

	require.NoError(t, c.Load(1, false, false))
	assert.Equal(t, 1, m.loads)
	assert.Equal(t, StateReady, c.Session().State)
}

func TestLoadSameTrackComparesResolvedLocators(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})

	require.NoError(t, c.Load(0, false, false))
	metadata(c, m)
	// The backend reports the source in a different textual form.
	m.source = "/album/./audio/../audio/t0.mp3"

	require.NoError(t, c.Load(0, true, false))
	assert.Equal(t, 1, m.loads)
	assert.Equal(t, 1, m.plays)
}

func TestLoadSameTrackPlaysWhenRequested(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	c.ToggleAccordion(1, false)

	require.NoError(t, c.Load(0, false, false))
	metadata(c, m)
	require.Zero(t, m.plays)

	require.NoError(t, c.Load(0, true, true))
	assert.Equal(t, 1, m.plays)
	assert.Equal(t, 0, c.Accordion().OpenCount())
}

func TestLoadInvalidIndex(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	playing(t, c, m, 1)

	err := c.Load(99, false, false)
	require.ErrorIs(t, err, ErrInvalidIndex)
	assert.Equal(t, 1, c.Session().CurrentIndex)
	assert.True(t, c.Session().Playing)
	assert.Zero(t, m.pauses)

	c.ToggleAccordion(2, false)
	err = c.Load(99, true, true)
	require.ErrorIs(t, err, ErrInvalidIndex)
	s := c.Session()
	assert.Equal(t, StateEmpty, s.State)
	assert.Equal(t, NoTrack, s.CurrentIndex)
	assert.False(t, s.Playing)
	assert.Equal(t, 1, m.pauses)
	assert.Equal(t, 0, c.Accordion().OpenCount())
}

func TestLoadingClearsPreviousPlayingMarker(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	playing(t, c, m, 0)
	require.True(t, c.View().Tracks[0].Playing)

	require.NoError(t, c.Load(1, true, false))
	v := c.View()
	assert.False(t, v.Tracks[0].Playing)
	assert.False(t, v.Tracks[0].Active)
	assert.True(t, v.Tracks[1].Active)
	assert.Equal(t, StateLoading, c.Session().State)
}

func TestEndOfTrackAutoAdvanceWrapsAndKeepsPlaying(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	playing(t, c, m, 2)
	require.Equal(t, 1, m.plays)
	c.ToggleAccordion(1, false)

	// The media reports the pause that precedes the end.
	c.HandleEvent(Event{Type: EventPause, Source: m.source})
	c.HandleEvent(Event{Type: EventEnded, Source: m.source})

	s := c.Session()
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, StateLoading, s.State)
	assert.Equal(t, 1, c.Accordion().OpenCount(), "accordion collapses once the next track is ready")

	metadata(c, m)
	assert.Equal(t, 2, m.plays)
	assert.Equal(t, 0, c.Accordion().OpenCount())
}

func TestEndOfSingleTrackReplays(t *testing.T) {
	c, m := newTestController(t, 1, Capabilities{})
	playing(t, c, m, 0)

	c.HandleEvent(Event{Type: EventEnded, Source: m.source})
	assert.Equal(t, 1, m.loads)
	assert.Equal(t, 2, m.plays)
}

func TestPlayFromEmptyStartsFirstTrack(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	c.ToggleAccordion(2, false)

	require.NoError(t, c.Play())
	assert.Equal(t, 0, c.Session().CurrentIndex)
	assert.Zero(t, m.plays)

	metadata(c, m)
	assert.Equal(t, 1, m.plays)
	assert.Equal(t, 0, c.Accordion().OpenCount())

	started(c, m)
	assert.True(t, c.Session().Playing)
	assert.Equal(t, StatePlaying, c.Session().State)
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	playing(t, c, m, 0)

	require.NoError(t, c.Play())
	assert.Equal(t, 1, m.plays)
}

func TestPlayDefersUntilReady(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	require.NoError(t, c.Load(0, false, false))
	c.HandleEvent(Event{Type: EventMetadata, Source: m.source})
	m.ready = ReadyMetadata

	require.NoError(t, c.Play())
	assert.Zero(t, m.plays)

	m.ready = ReadyEnoughData
	c.HandleEvent(Event{Type: EventCanPlay, Source: m.source})
	assert.Equal(t, 1, m.plays)

	// The continuation fires at most once.
	c.HandleEvent(Event{Type: EventCanPlay, Source: m.source})
	assert.Equal(t, 1, m.plays)
}

func TestDeferredPlayIsReplacedBySupersedingLoad(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	require.NoError(t, c.Load(0, false, false))
	c.HandleEvent(Event{Type: EventMetadata, Source: m.source})
	m.ready = ReadyMetadata
	require.NoError(t, c.Play())
	oldSource := m.source

	require.NoError(t, c.Load(2, false, false))
	m.ready = ReadyEnoughData
	c.HandleEvent(Event{Type: EventCanPlay, Source: oldSource})
	c.HandleEvent(Event{Type: EventCanPlay, Source: m.source})
	assert.Zero(t, m.plays)
}

func TestPauseCancelsDeferredPlay(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	require.NoError(t, c.Load(0, false, false))
	c.HandleEvent(Event{Type: EventMetadata, Source: m.source})
	m.ready = ReadyMetadata
	require.NoError(t, c.Play())

	require.NoError(t, c.Pause())
	m.ready = ReadyEnoughData
	c.HandleEvent(Event{Type: EventCanPlay, Source: m.source})
	assert.Zero(t, m.plays)
}

func TestPlayRejected(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	require.NoError(t, c.Load(0, false, false))
	metadata(c, m)
	m.playErr = errors.New("autoplay blocked")

	err := c.Play()
	require.ErrorIs(t, err, ErrPlaybackRejected)
	s := c.Session()
	assert.False(t, s.Playing)
	assert.Equal(t, StateReady, s.State)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, GlyphPlay, c.View().PlayGlyph)
}

func TestPauseOnlyFlipsOnNotification(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	require.NoError(t, c.Pause())
	assert.Zero(t, m.pauses)

	playing(t, c, m, 1)
	require.NoError(t, c.Pause())
	assert.Equal(t, 1, m.pauses)
	assert.True(t, c.Session().Playing)

	c.HandleEvent(Event{Type: EventPause, Source: m.source})
	assert.False(t, c.Session().Playing)
	assert.Equal(t, StateReady, c.Session().State)
}

func TestPlayEventWithoutTrackIsIgnored(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	c.HandleEvent(Event{Type: EventPlay})

	assert.False(t, c.Session().Playing)
	assert.Equal(t, 1, m.pauses)
}

func TestResourceErrorResetsSession(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	require.NoError(t, c.Load(1, true, false))

	c.HandleEvent(Event{Type: EventError, Source: m.source, Err: errors.New("404")})
	s := c.Session()
	assert.Equal(t, StateError, s.State)
	assert.Equal(t, NoTrack, s.CurrentIndex)
	assert.False(t, s.Playing)
	require.ErrorIs(t, s.LastError, ErrResourceLoad)
	assert.Equal(t, TitleLoadError, c.View().Title)

	// A later late metadata event for that source changes nothing.
	c.HandleEvent(Event{Type: EventMetadata, Source: m.source})
	assert.Equal(t, StateError, c.Session().State)

	require.NoError(t, c.Load(1, false, false))
	assert.Equal(t, 2, m.loads)
	assert.NoError(t, c.Session().LastError)
}

func TestSynchronousLoadFailure(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	m.loadErr = errors.New("no such file")

	err := c.Load(0, true, false)
	require.ErrorIs(t, err, ErrResourceLoad)
	assert.Equal(t, StateError, c.Session().State)
}

func TestStaleEventsAreDropped(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	require.NoError(t, c.Load(0, false, false))
	old := m.source
	require.NoError(t, c.Load(1, true, false))

	c.HandleEvent(Event{Type: EventError, Source: old, Err: errors.New("aborted")})
	assert.Equal(t, StateLoading, c.Session().State)
	assert.Equal(t, 1, c.Session().CurrentIndex)
}

func TestSupersededErrorDoesNotBlockNextTrack(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	require.NoError(t, c.Load(0, false, false))
	old := m.source
	require.NoError(t, c.PlayTrack(1))

	c.HandleEvent(Event{Type: EventError, Source: old, Err: errors.New("connection reset")})
	metadata(c, m)

	assert.Equal(t, 1, m.plays)
	assert.NoError(t, c.Session().LastError)
	assert.Equal(t, 1, c.Session().CurrentIndex)
}

func TestPlayTrackTogglesCurrent(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	require.NoError(t, c.PlayTrack(1))
	metadata(c, m)
	started(c, m)
	require.Equal(t, 1, m.plays)

	require.NoError(t, c.PlayTrack(1))
	assert.Equal(t, 1, m.pauses)

	require.NoError(t, c.PlayTrack(2))
	assert.Equal(t, 2, c.Session().CurrentIndex)
	assert.Equal(t, 2, m.loads)
}

func TestPreviousKeepsPlayingWithoutAutoAdvance(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	playing(t, c, m, 1)
	c.ToggleAccordion(2, false)

	require.NoError(t, c.Previous())
	metadata(c, m)
	assert.Equal(t, 0, c.Session().CurrentIndex)
	assert.Equal(t, 2, m.plays)
	assert.Equal(t, 2, c.Accordion().Open(), "manual navigation leaves the accordion alone")
}

func TestSeek(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	require.NoError(t, c.Seek(0.5))
	assert.Empty(t, m.seeks)

	require.NoError(t, c.Load(0, false, false))
	m.duration = math.NaN()
	require.NoError(t, c.Seek(0.5))
	assert.Empty(t, m.seeks)

	m.duration = math.Inf(1)
	require.NoError(t, c.Seek(0.5))
	assert.Empty(t, m.seeks)

	m.duration = 200
	require.NoError(t, c.Seek(0.25))
	assert.Equal(t, []float64{50}, m.seeks)
}

func TestSetVolumeKeepsMuteConsistent(t *testing.T) {
	c, m := newTestController(t, 1, Capabilities{VolumeControl: true})
	for _, v := range []float64{-20, 0, 0.5, 0.99, 1, 1.5, 10, 55, 99.9, 100, 250, math.NaN()} {
		c.SetVolume(v)
		s := c.Session()
		assert.GreaterOrEqual(t, s.Volume, 0.0, "v=%v", v)
		assert.LessOrEqual(t, s.Volume, 1.0, "v=%v", v)
		assert.Equal(t, s.Volume < muteEpsilon, s.Muted, "v=%v", v)
		assert.Equal(t, s.Volume, m.volume)
		assert.Equal(t, s.Muted, m.muted)
	}
}

func TestToggleMuteFromSilenceRestoresDefault(t *testing.T) {
	c, m := newTestController(t, 1, Capabilities{})
	c.SetVolume(0)
	require.True(t, c.Session().Muted)

	c.ToggleMute()
	s := c.Session()
	assert.False(t, s.Muted)
	assert.Equal(t, defaultUnmuteVolume, s.Volume)
	assert.False(t, m.muted)
}

func TestToggleMuteRoundTrip(t *testing.T) {
	c, _ := newTestController(t, 1, Capabilities{})
	c.SetVolume(80)

	c.ToggleMute()
	assert.True(t, c.Session().Muted)
	assert.Equal(t, VolumeMuted, c.View().VolumeGlyph)

	c.ToggleMute()
	assert.False(t, c.Session().Muted)
	assert.InDelta(t, 0.8, c.Session().Volume, 1e-9)
}

func TestAdjustVolume(t *testing.T) {
	c, _ := newTestController(t, 1, Capabilities{})
	c.SetVolume(50)
	c.AdjustVolume(5)
	assert.InDelta(t, 0.55, c.Session().Volume, 1e-9)
	c.AdjustVolume(-100)
	assert.Zero(t, c.Session().Volume)
	assert.True(t, c.Session().Muted)
}

func TestPlayAllRespectsCapability(t *testing.T) {
	c, m := newTestController(t, 3, Capabilities{})
	require.NoError(t, c.PlayAll())
	assert.Zero(t, m.loads)

	c, m = newTestController(t, 3, Capabilities{PlayAll: true})
	require.NoError(t, c.Load(2, false, false))
	require.NoError(t, c.PlayAll())
	assert.Equal(t, 0, c.Session().CurrentIndex)
	metadata(c, m)
	assert.Equal(t, 1, m.plays)
}

func TestBackgroundVideoFollowsTrack(t *testing.T) {
	m := newFakeMedia()
	b := &fakeBackdrop{}
	c := New(Options{
		Registry: album.Build("/album", []album.Descriptor{
			{Audio: "a.mp3", Video: "video/first.mp4"},
			{Audio: "b.mp3"},
		}),
		Media:        m,
		Backdrop:     b,
		Caps:         Capabilities{BackgroundVideo: true, Splash: true},
		Volume:       1,
		DefaultVideo: "video/loop.mp4",
		Logger:       zerolog.Nop(),
	})
	require.Equal(t, []string{"/album/video/loop.mp4"}, b.shown)

	require.True(t, c.DismissSplash())
	require.NoError(t, c.Load(0, false, false))
	assert.Equal(t, "/album/video/first.mp4", b.shown[len(b.shown)-1])

	require.NoError(t, c.Load(1, false, false))
	assert.Equal(t, "/album/video/loop.mp4", b.shown[len(b.shown)-1])
	assert.Len(t, b.shown, 3)
}

func TestEscapeClosesModalBeforeSplash(t *testing.T) {
	c, _ := newTestController(t, 1, Capabilities{Splash: true, Gallery: true})
	c.OpenImage("cover.jpg", "Cover")

	assert.True(t, c.Escape())
	assert.False(t, c.Modal().Visible)
	assert.True(t, c.View().Splash.Visible)

	assert.True(t, c.Escape())
	assert.False(t, c.View().Splash.Visible)
	assert.False(t, c.Escape())
}

func TestCloseReleasesMedia(t *testing.T) {
	c, m := newTestController(t, 1, Capabilities{})
	require.NoError(t, c.Close())
	assert.True(t, m.closed)
}
