package player

import (
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/depeter/albumcouch/internal/album"
)

type fakeMedia struct {
	source   string
	ready    ReadyState
	duration float64
	position float64
	volume   float64
	muted    bool

	setSourceErr error
	loadErr      error
	playErr      error

	loads  int
	plays  int
	pauses int
	seeks  []float64
	closed bool

	events chan Event
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{duration: math.NaN(), events: make(chan Event, 16)}
}

func (m *fakeMedia) SetSource(loc string) error {
	if m.setSourceErr != nil {
		return m.setSourceErr
	}
	m.source = loc
	m.ready = ReadyNothing
	return nil
}

func (m *fakeMedia) Load() error {
	m.loads++
	return m.loadErr
}

func (m *fakeMedia) Play() error {
	if m.playErr != nil {
		return m.playErr
	}
	m.plays++
	return nil
}

func (m *fakeMedia) Pause() error {
	m.pauses++
	return nil
}

func (m *fakeMedia) Seek(s float64) error {
	m.seeks = append(m.seeks, s)
	return nil
}

func (m *fakeMedia) SetVolume(v float64) error { m.volume = v; return nil }
func (m *fakeMedia) SetMuted(b bool) error     { m.muted = b; return nil }
func (m *fakeMedia) Source() string            { return m.source }
func (m *fakeMedia) Position() float64         { return m.position }
func (m *fakeMedia) Duration() float64         { return m.duration }
func (m *fakeMedia) ReadyState() ReadyState    { return m.ready }
func (m *fakeMedia) Events() <-chan Event      { return m.events }
func (m *fakeMedia) Close() error              { m.closed = true; return nil }

type fakeBackdrop struct {
	shown []string
}

func (b *fakeBackdrop) Show(loc string) error {
	b.shown = append(b.shown, loc)
	return nil
}

func testRegistry(n int) *album.Registry {
	descs := make([]album.Descriptor, n)
	for i := range descs {
		descs[i] = album.Descriptor{Audio: fmt.Sprintf("audio/t%d.mp3", i), Title: fmt.Sprintf("Song %d", i)}
	}
	return album.Build("/album", descs)
}

func newTestController(t *testing.T, n int, caps Capabilities) (*Controller, *fakeMedia) {
	t.Helper()
	m := newFakeMedia()
	c := New(Options{
		Registry: testRegistry(n),
		Media:    m,
		Caps:     caps,
		Volume:   1,
		Logger:   zerolog.Nop(),
	})
	return c, m
}

// metadata simulates the media finishing a load with enough data buffered.
func metadata(c *Controller, m *fakeMedia) {
	m.ready = ReadyEnoughData
	m.duration = 180
	c.HandleEvent(Event{Type: EventMetadata, Source: m.source})
}

func started(c *Controller, m *fakeMedia) {
	c.HandleEvent(Event{Type: EventPlay, Source: m.source})
}

// playing loads index i and drives it to the playing state.
func playing(t *testing.T, c *Controller, m *fakeMedia, i int) {
	t.Helper()
	if err := c.Load(i, true, false); err != nil {
		t.Fatalf("load %d: %v", i, err)
	}
	metadata(c, m)
	started(c, m)
}
