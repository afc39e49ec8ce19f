package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/depeter/albumcouch/internal/player"
)

func TestEventQueueNeverBlocksProducer(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := newEventQueue()
	defer q.close()

	// Far more than the channel buffer, with nobody reading yet.
	const n = eventBuffer * 4
	for i := 0; i < n; i++ {
		q.push(player.Event{Type: player.EventTimeUpdate, Source: string(rune('a' + i%26))})
	}
	for i := 0; i < n; i++ {
		ev := <-q.out
		assert.Equal(t, string(rune('a'+i%26)), ev.Source, "event %d out of order", i)
	}
}

func TestEventQueueCloseIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := newEventQueue()
	q.push(player.Event{Type: player.EventPlay})
	q.close()
	q.close()
}
