package media

import (
	"sync"

	"github.com/depeter/albumcouch/internal/player"
)

// eventQueue delivers events in order without ever blocking the producer.
// The controller calls into a backend while it is also the consumer, so a
// bounded channel alone could deadlock.
type eventQueue struct {
	mu      sync.Mutex
	pending []player.Event

	wake chan struct{}
	out  chan player.Event
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newEventQueue() *eventQueue {
	q := &eventQueue{
		wake: make(chan struct{}, 1),
		out:  make(chan player.Event, eventBuffer),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *eventQueue) push(ev player.Event) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *eventQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.mu.Unlock()
			select {
			case <-q.wake:
				continue
			case <-q.stop:
				return
			}
		}
		ev := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		select {
		case q.out <- ev:
		case <-q.stop:
			return
		}
	}
}

// close stops delivery. Undelivered events are dropped.
func (q *eventQueue) close() {
	q.once.Do(func() {
		close(q.stop)
		<-q.done
	})
}
