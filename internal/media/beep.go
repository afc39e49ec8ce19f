package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/rs/zerolog"

	"github.com/depeter/albumcouch/internal/player"
)

var (
	// ErrUnsupportedFormat is returned for sources beep cannot decode.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrTrackTooLarge is returned for remote tracks over maxRemoteTrack.
	ErrTrackTooLarge = errors.New("remote track too large")
)

// maxRemoteTrack caps how much of a remote track is buffered in memory.
const maxRemoteTrack = 256 << 20

// memoryTrack is a fully downloaded body. The decoders need to seek.
type memoryTrack struct {
	*bytes.Reader
}

func (memoryTrack) Close() error { return nil }

// Sink is where decoded audio goes. The speaker package satisfies it.
type Sink interface {
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerSink struct{}

func (speakerSink) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerSink) Clear()                  { speaker.Clear() }
func (speakerSink) Lock()                   { speaker.Lock() }
func (speakerSink) Unlock()                 { speaker.Unlock() }

var speakerOnce sync.Once

// SpeakerSink initializes the default output device once and returns it.
func SpeakerSink(sr beep.SampleRate) (Sink, error) {
	var err error
	speakerOnce.Do(func() {
		err = speaker.Init(sr, sr.N(time.Second/10))
	})
	if err != nil {
		return nil, fmt.Errorf("speaker init: %w", err)
	}
	return speakerSink{}, nil
}

// BeepOptions configures a beep backed player.
type BeepOptions struct {
	SampleRate beep.SampleRate
	Sink       Sink
	Volume     float64
	Logger     zerolog.Logger
	HTTPClient *http.Client
}

// Beep decodes wav and mp3 tracks in process and mixes them to a Sink.
type Beep struct {
	sink   Sink
	rate   beep.SampleRate
	client *http.Client
	log    zerolog.Logger

	mu     sync.Mutex
	source string
	gen    int
	ready  player.ReadyState
	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	volume *effects.Volume
	queued bool
	ended  bool
	level  float64
	muted  bool

	events *eventQueue
	wg     sync.WaitGroup
	closed bool
}

// NewBeep creates a beep player writing to opts.Sink.
func NewBeep(opts BeepOptions) *Beep {
	rate := opts.SampleRate
	if rate == 0 {
		rate = 44100
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Beep{
		sink:   opts.Sink,
		rate:   rate,
		client: client,
		log:    opts.Logger,
		level:  opts.Volume,
		events: newEventQueue(),
	}
}

// SetSource releases the current stream and remembers the new locator.
func (b *Beep) SetSource(locator string) error {
	if locator == "" {
		return errEmptySource
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release()
	b.source = locator
	b.gen++
	b.ready = player.ReadyNothing
	return nil
}

// release drops the live stream. Callers hold b.mu.
func (b *Beep) release() {
	if b.stream == nil {
		return
	}
	b.sink.Lock()
	if b.ctrl != nil {
		b.ctrl.Streamer = nil
	}
	b.sink.Unlock()
	if err := b.stream.Close(); err != nil {
		b.log.Debug().Err(err).Str("src", b.source).Msg("close stream")
	}
	b.stream, b.ctrl, b.volume = nil, nil, nil
	b.queued, b.ended = false, false
}

// Load decodes the current source in the background.
func (b *Beep) Load() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return errors.New("beep: closed")
	}
	src, gen := b.source, b.gen
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.decode(src, gen)
	}()
	return nil
}

func (b *Beep) decode(src string, gen int) {
	stream, format, err := b.open(src)

	b.mu.Lock()
	if gen != b.gen || b.closed {
		b.mu.Unlock()
		if stream != nil {
			stream.Close()
		}
		return
	}
	if err != nil {
		b.ready = player.ReadyNothing
		b.mu.Unlock()
		b.events.push(player.Event{Type: player.EventError, Source: src, Err: err})
		return
	}

	var s beep.Streamer = stream
	if format.SampleRate != b.rate {
		s = beep.Resample(4, format.SampleRate, b.rate, s)
	}
	b.stream = stream
	b.format = format
	b.volume = &effects.Volume{Streamer: s, Base: 2}
	b.ctrl = &beep.Ctrl{Streamer: b.volume, Paused: true}
	b.applyVolume()
	b.ready = player.ReadyEnoughData
	b.mu.Unlock()

	b.log.Debug().Str("src", src).Int("rate", int(format.SampleRate)).Int("samples", stream.Len()).Msg("decoded")
	b.events.push(player.Event{Type: player.EventMetadata, Source: src})
	b.events.push(player.Event{Type: player.EventCanPlay, Source: src})
}

func (b *Beep) open(src string) (beep.StreamSeekCloser, beep.Format, error) {
	var rc io.ReadCloser
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		resp, err := b.client.Get(src)
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("fetch %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, beep.Format{}, fmt.Errorf("fetch %s: status %d", src, resp.StatusCode)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteTrack+1))
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("fetch %s: %w", src, err)
		}
		if len(data) > maxRemoteTrack {
			return nil, beep.Format{}, fmt.Errorf("fetch %s: %w", src, ErrTrackTooLarge)
		}
		rc = memoryTrack{bytes.NewReader(data)}
	} else {
		f, err := os.Open(src)
		if err != nil {
			return nil, beep.Format{}, err
		}
		rc = f
	}

	ext := strings.ToLower(path.Ext(strings.SplitN(src, "?", 2)[0]))
	var (
		s   beep.StreamSeekCloser
		f   beep.Format
		err error
	)
	switch ext {
	case ".wav":
		s, f, err = wav.Decode(rc)
	case ".mp3":
		s, f, err = mp3.Decode(rc)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		rc.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", src, err)
	}
	return s, f, nil
}

// Play starts or resumes the stream, rewinding a finished track.
func (b *Beep) Play() error {
	b.mu.Lock()
	if b.stream == nil {
		b.mu.Unlock()
		return errors.New("beep: nothing loaded")
	}
	src := b.source
	b.sink.Lock()
	if b.ended {
		if err := b.stream.Seek(0); err != nil {
			b.sink.Unlock()
			b.mu.Unlock()
			return fmt.Errorf("rewind: %w", err)
		}
		b.ended = false
	}
	b.ctrl.Paused = false
	b.sink.Unlock()
	if !b.queued {
		b.queued = true
		gen := b.gen
		b.sink.Play(beep.Seq(b.ctrl, beep.Callback(func() {
			// Runs inside the mixer; hand off before touching state.
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.finished(gen)
			}()
		})))
	}
	b.mu.Unlock()

	b.events.push(player.Event{Type: player.EventPlay, Source: src})
	return nil
}

func (b *Beep) finished(gen int) {
	b.mu.Lock()
	if gen != b.gen || b.closed {
		b.mu.Unlock()
		return
	}
	b.queued = false
	b.ended = true
	b.ctrl.Paused = true
	src := b.source
	b.mu.Unlock()

	b.events.push(player.Event{Type: player.EventPause, Source: src})
	b.events.push(player.Event{Type: player.EventEnded, Source: src})
}

// Pause halts the stream in place.
func (b *Beep) Pause() error {
	b.mu.Lock()
	if b.ctrl == nil {
		b.mu.Unlock()
		return nil
	}
	b.sink.Lock()
	b.ctrl.Paused = true
	b.sink.Unlock()
	src := b.source
	b.mu.Unlock()

	b.events.push(player.Event{Type: player.EventPause, Source: src})
	return nil
}

// Seek jumps to an absolute position in seconds.
func (b *Beep) Seek(seconds float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream == nil {
		return errors.New("beep: nothing loaded")
	}
	n := b.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if n < 0 {
		n = 0
	}
	if l := b.stream.Len(); n > l {
		n = l
	}
	b.sink.Lock()
	err := b.stream.Seek(n)
	b.sink.Unlock()
	if err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	b.ended = false
	b.events.push(player.Event{Type: player.EventTimeUpdate, Source: b.source})
	return nil
}

// SetVolume sets the gain from a [0,1] fraction.
func (b *Beep) SetVolume(v float64) error {
	b.mu.Lock()
	b.level = v
	b.sink.Lock()
	b.applyVolume()
	b.sink.Unlock()
	src := b.source
	b.mu.Unlock()
	b.events.push(player.Event{Type: player.EventVolumeChange, Source: src})
	return nil
}

// SetMuted silences output without touching the level.
func (b *Beep) SetMuted(muted bool) error {
	b.mu.Lock()
	b.muted = muted
	b.sink.Lock()
	b.applyVolume()
	b.sink.Unlock()
	src := b.source
	b.mu.Unlock()
	b.events.push(player.Event{Type: player.EventVolumeChange, Source: src})
	return nil
}

// applyVolume maps the linear level onto the exponential gain of
// effects.Volume. Callers hold b.mu.
func (b *Beep) applyVolume() {
	if b.volume == nil {
		return
	}
	b.volume.Silent = b.muted || b.level <= 0
	if !b.volume.Silent {
		b.volume.Volume = math.Log2(math.Min(b.level, 1))
	}
}

// Source returns the current locator.
func (b *Beep) Source() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.source
}

// Position returns the playback position in seconds.
func (b *Beep) Position() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream == nil {
		return 0
	}
	b.sink.Lock()
	pos := b.stream.Position()
	b.sink.Unlock()
	return b.format.SampleRate.D(pos).Seconds()
}

// Duration returns the track length in seconds, NaN while unknown.
func (b *Beep) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream == nil {
		return math.NaN()
	}
	return b.format.SampleRate.D(b.stream.Len()).Seconds()
}

// ReadyState reports whether the current source is decoded.
func (b *Beep) ReadyState() player.ReadyState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Events returns the notification stream.
func (b *Beep) Events() <-chan player.Event {
	return b.events.out
}

// Close stops output and waits for background decodes.
func (b *Beep) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.gen++
	b.release()
	b.mu.Unlock()

	b.sink.Clear()
	b.wg.Wait()
	b.events.close()
	return nil
}
