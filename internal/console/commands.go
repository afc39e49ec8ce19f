package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/depeter/albumcouch/internal/player"
)

var (
	// ErrUnknownCommand is returned by Parse for a verb it does not know.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned by Parse when a verb's arguments are wrong.
	ErrUsage = errors.New("usage")
)

// Action is one parsed console line.
type Action struct {
	Quit bool
	Run  func(c *player.Controller, out io.Writer) error
}

type verb struct {
	name  string
	args  string
	help  string
	parse func(args []string) (Action, error)
}

func simple(fn func(c *player.Controller) error) func([]string) (Action, error) {
	return func(args []string) (Action, error) {
		if len(args) != 0 {
			return Action{}, ErrUsage
		}
		return Action{Run: func(c *player.Controller, _ io.Writer) error { return fn(c) }}, nil
	}
}

// trackArg parses a 1-based track number as shown to the user.
func trackArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, ErrUsage
	}
	return n - 1, nil
}

func floatArg(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, ErrUsage
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "%"), 64)
	if err != nil {
		return 0, ErrUsage
	}
	return f, nil
}

var verbs []verb

func init() {
	verbs = []verb{
		{"play", "", "start or resume playback", simple((*player.Controller).Play)},
		{"pause", "", "pause playback", simple((*player.Controller).Pause)},
		{"toggle", "", "play or pause", simple((*player.Controller).TogglePlay)},
		{"next", "", "skip to the next track", simple(func(c *player.Controller) error { return c.Next(false) })},
		{"prev", "", "go back one track", simple((*player.Controller).Previous)},
		{"all", "", "play the album from the first track", simple(func(c *player.Controller) error {
			if !c.Capabilities().PlayAll {
				return errors.New("play all is disabled")
			}
			return c.PlayAll()
		})},
		{"track", "N", "play or pause track N", func(args []string) (Action, error) {
			i, err := trackArg(args)
			if err != nil {
				return Action{}, err
			}
			return Action{Run: func(c *player.Controller, _ io.Writer) error { return c.PlayTrack(i) }}, nil
		}},
		{"seek", "F", "seek to fraction F of the track (0..1)", func(args []string) (Action, error) {
			f, err := floatArg(args)
			if err != nil {
				return Action{}, err
			}
			return Action{Run: func(c *player.Controller, _ io.Writer) error { return c.Seek(f) }}, nil
		}},
		{"vol", "N", "set the volume to N percent, or +N/-N to adjust", func(args []string) (Action, error) {
			f, err := floatArg(args)
			if err != nil {
				return Action{}, err
			}
			relative := strings.HasPrefix(args[0], "+") || strings.HasPrefix(args[0], "-")
			return Action{Run: func(c *player.Controller, _ io.Writer) error {
				if relative {
					c.AdjustVolume(f)
				} else {
					c.SetVolume(f)
				}
				return nil
			}}, nil
		}},
		{"mute", "", "mute or unmute", simple(func(c *player.Controller) error {
			c.ToggleMute()
			return nil
		})},
		{"expand", "N", "open or close the details of track N", func(args []string) (Action, error) {
			i, err := trackArg(args)
			if err != nil {
				return Action{}, err
			}
			return Action{Run: func(c *player.Controller, _ io.Writer) error {
				c.ToggleAccordion(i, false)
				return nil
			}}, nil
		}},
		{"gallery", "[N]", "open gallery image N (default 1)", func(args []string) (Action, error) {
			i := 0
			if len(args) > 0 {
				var err error
				if i, err = trackArg(args); err != nil {
					return Action{}, err
				}
			}
			return Action{Run: func(c *player.Controller, _ io.Writer) error {
				if !c.Capabilities().Gallery {
					return errors.New("gallery is disabled")
				}
				c.OpenGallery(i)
				return nil
			}}, nil
		}},
		{"step", "±N", "move through the open gallery", func(args []string) (Action, error) {
			if len(args) != 1 {
				return Action{}, ErrUsage
			}
			d, err := strconv.Atoi(args[0])
			if err != nil {
				return Action{}, ErrUsage
			}
			return Action{Run: func(c *player.Controller, _ io.Writer) error {
				c.StepGallery(d)
				return nil
			}}, nil
		}},
		{"close", "", "close the lightbox", simple(func(c *player.Controller) error {
			c.CloseModal()
			return nil
		})},
		{"esc", "", "close the top overlay", simple(func(c *player.Controller) error {
			c.Escape()
			return nil
		})},
		{"status", "", "show what is playing", func(args []string) (Action, error) {
			if len(args) != 0 {
				return Action{}, ErrUsage
			}
			return Action{Run: func(c *player.Controller, out io.Writer) error {
				return WriteStatus(out, c.View())
			}}, nil
		}},
		{"list", "", "list the tracks", func(args []string) (Action, error) {
			if len(args) != 0 {
				return Action{}, ErrUsage
			}
			return Action{Run: func(c *player.Controller, out io.Writer) error {
				return WriteTracks(out, c.View())
			}}, nil
		}},
		{"help", "", "list commands", func([]string) (Action, error) {
			return Action{Run: func(_ *player.Controller, out io.Writer) error {
				return WriteHelp(out)
			}}, nil
		}},
		{"quit", "", "exit", func([]string) (Action, error) { return Action{Quit: true}, nil }},
	}
}

// Parse turns one input line into an Action. Blank lines parse to a no-op.
func Parse(line string) (Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{}, nil
	}
	name := strings.ToLower(fields[0])
	if name == "exit" || name == "q" {
		name = "quit"
	}
	for _, v := range verbs {
		if v.name != name {
			continue
		}
		a, err := v.parse(fields[1:])
		if errors.Is(err, ErrUsage) {
			return Action{}, fmt.Errorf("%w: %s %s", ErrUsage, v.name, v.args)
		}
		return a, err
	}
	return Action{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

// Names lists the command verbs, for completion.
func Names() []string {
	names := make([]string, len(verbs))
	for i, v := range verbs {
		names[i] = v.name
	}
	return names
}

func WriteHelp(out io.Writer) error {
	for _, v := range verbs {
		if _, err := fmt.Fprintf(out, "  %-8s %-4s %s\n", v.name, v.args, v.help); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatus prints the player bar as one line.
func WriteStatus(out io.Writer, v player.View) error {
	title := v.Title
	if title == "" {
		title = "(nothing selected)"
	}
	vol := fmt.Sprintf("%d%%", int(v.Volume*100+0.5))
	if v.Muted {
		vol = "muted"
	}
	_, err := fmt.Fprintf(out, "%s %s  [%s] %s / %s  vol %s\n", v.PlayGlyph, title, v.State, v.Elapsed, v.Total, vol)
	if err == nil && v.Modal.Visible {
		_, err = fmt.Fprintf(out, "  lightbox: %s %s\n", v.Modal.ImageSrc, v.Modal.Caption)
	}
	return err
}

// WriteTracks prints the tracklist with play and expand markers.
func WriteTracks(out io.Writer, v player.View) error {
	for _, t := range v.Tracks {
		mark := " "
		if t.Active {
			mark = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s %s %s\n", mark, t.Glyph, t.Label, t.ExpandGlyph); err != nil {
			return err
		}
		if t.Expanded {
			detail := "audio only"
			if t.HasVideo {
				detail = "with background video"
			}
			if _, err := fmt.Fprintf(out, "       %s\n", detail); err != nil {
				return err
			}
		}
	}
	return nil
}
