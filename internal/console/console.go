// Package console drives the album player from a line-oriented terminal
// prompt, for headless machines and scripting.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/depeter/albumcouch/internal/player"
)

// errQuit stops the group when the user quits or input ends.
var errQuit = errors.New("console: quit")

// LineReader is the part of *readline.Instance the console needs.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// NewReadline creates the interactive prompt with command completion and
// history kept in historyFile (empty for none).
func NewReadline(historyFile string) (*readline.Instance, error) {
	items := make([]readline.PrefixCompleterInterface, 0, len(verbs))
	for _, name := range Names() {
		items = append(items, readline.PcItem(name))
	}
	return readline.NewEx(&readline.Config{
		Prompt:          "album> ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
}

// Console reads commands and runs them on the controller's goroutine.
type Console struct {
	in  LineReader
	out *syncWriter
	log zerolog.Logger
}

func New(in LineReader, out io.Writer, logger zerolog.Logger) *Console {
	return &Console{in: in, out: &syncWriter{w: out}, log: logger}
}

// Run owns c until the user quits, input ends, or ctx is cancelled. Media
// notifications are applied between commands. Quitting returns nil.
func (con *Console) Run(ctx context.Context, c *player.Controller) error {
	g, ctx := errgroup.WithContext(ctx)
	cmds := make(chan player.Command)

	g.Go(func() error {
		return c.Run(ctx, cmds)
	})

	g.Go(func() error {
		<-ctx.Done()
		// Unblocks Readline.
		if err := con.in.Close(); err != nil {
			con.log.Debug().Err(err).Msg("close prompt")
		}
		return nil
	})

	g.Go(func() error {
		return con.readLoop(ctx, cmds)
	})

	err := g.Wait()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (con *Console) readLoop(ctx context.Context, cmds chan<- player.Command) error {
	for {
		line, err := con.in.Readline()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return errQuit
			}
			return fmt.Errorf("read command: %w", err)
		}

		a, err := Parse(line)
		if err != nil {
			fmt.Fprintln(con.out, err)
			continue
		}
		if a.Quit {
			return errQuit
		}
		if a.Run == nil {
			continue
		}

		done := make(chan struct{})
		cmd := func(c *player.Controller) {
			defer close(done)
			if err := a.Run(c, con.out); err != nil {
				con.log.Debug().Err(err).Str("line", line).Msg("command failed")
				fmt.Fprintln(con.out, "error:", err)
			}
		}
		select {
		case cmds <- cmd:
		case <-ctx.Done():
			return nil
		}
		// Wait so output lands before the next prompt.
		select {
		case <-done:
		case <-ctx.Done():
			return nil
		}
	}
}

// syncWriter serializes writes from the reader and controller goroutines.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
