package player

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPumpDrainsQueuedEvents(t *testing.T) {
	c, m := newTestController(t, 2, Capabilities{})
	require.NoError(t, c.Load(0, true, false))
	m.ready = ReadyEnoughData

	m.events <- Event{Type: EventMetadata, Source: m.source}
	m.events <- Event{Type: EventPlay, Source: m.source}
	m.events <- Event{Type: EventTimeUpdate, Source: m.source}

	assert.Equal(t, 3, c.Pump())
	assert.True(t, c.Session().Playing)
	assert.Equal(t, 1, m.plays)
	assert.Zero(t, c.Pump())
}

func TestPumpStopsOnClosedChannel(t *testing.T) {
	c, m := newTestController(t, 1, Capabilities{})
	close(m.events)
	assert.Zero(t, c.Pump())
}

func TestRunSerializesCommandsAndEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, m := newTestController(t, 3, Capabilities{})
	m.events = make(chan Event)
	src := c.Registry().Resolve("audio/t1.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmds := make(chan Command)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, cmds) }()

	cmds <- func(c *Controller) {
		assert.NoError(t, c.Load(1, true, false))
		m.ready = ReadyEnoughData
	}
	m.events <- Event{Type: EventMetadata, Source: src}
	m.events <- Event{Type: EventPlay, Source: src}

	got := make(chan Session, 1)
	cmds <- func(c *Controller) { got <- c.Session() }
	s := <-got
	assert.Equal(t, 1, s.CurrentIndex)
	assert.True(t, s.Playing)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunReturnsWhenCommandsClose(t *testing.T) {
	defer goleak.VerifyNone(t)

	c, _ := newTestController(t, 1, Capabilities{})
	cmds := make(chan Command)
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), cmds) }()

	close(cmds)
	assert.NoError(t, <-done)
}
