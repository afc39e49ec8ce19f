package player

import (
	"fmt"
	"math"

	"github.com/depeter/albumcouch/internal/album"
)

// Title texts shown when no track is current.
const (
	TitlePlaceholder = "-- Select a Track --"
	TitleLoadError   = "Error loading track"
)

// Glyph is the play/pause symbol on a button.
type Glyph int

const (
	GlyphPlay Glyph = iota
	GlyphPause
)

func (g Glyph) String() string {
	if g == GlyphPause {
		return "⏸"
	}
	return "▶"
}

// VolumeGlyph is the speaker symbol chosen from the volume level.
type VolumeGlyph int

const (
	VolumeMuted VolumeGlyph = iota
	VolumeQuiet
	VolumeMedium
	VolumeLoud
)

func (g VolumeGlyph) String() string {
	switch g {
	case VolumeLoud:
		return "🔊"
	case VolumeMedium:
		return "🔉"
	case VolumeQuiet:
		return "🔈"
	}
	return "🔇"
}

// TrackView is the visual state of one tracklist row.
type TrackView struct {
	Index       int
	Label       string
	Active      bool
	Playing     bool
	Glyph       Glyph
	Expanded    bool
	ExpandGlyph string
	HasVideo    bool
}

// ModalView is the visual state of the lightbox.
type ModalView struct {
	Visible  bool
	ImageSrc string
	Caption  string
	CanStep  bool
}

// View is everything a renderer needs for one frame.
type View struct {
	Title     string
	State     State
	PlayGlyph Glyph

	PlayEnabled    bool
	PrevEnabled    bool
	NextEnabled    bool
	PlayAllVisible bool
	PlayAllEnabled bool

	SeekEnabled bool
	Progress    float64 // percent of duration, 0..100
	Elapsed     string
	Total       string

	VolumeVisible bool
	VolumeGlyph   VolumeGlyph
	Volume        float64
	Muted         bool

	Tracks          []TrackView
	BackgroundVideo string
	Modal           ModalView
	ScrollLocked    bool
	Splash          Splash
}

// ProjectInput gathers the state the projector reads.
type ProjectInput struct {
	Session      Session
	Registry     *album.Registry
	Accordion    *Accordion
	Modal        *Modal
	Splash       Splash
	Position     float64
	Duration     float64
	Caps         Capabilities
	DefaultVideo string
}

// Project maps state onto a View. It has no side effects.
func Project(in ProjectInput) View {
	s := in.Session
	n := in.Registry.Len()
	cur, hasCur := in.Registry.At(s.CurrentIndex)

	v := View{
		State:          s.State,
		PlayGlyph:      GlyphPlay,
		PlayEnabled:    n > 0,
		PrevEnabled:    n > 0,
		NextEnabled:    n > 0,
		PlayAllVisible: in.Caps.PlayAll,
		PlayAllEnabled: in.Caps.PlayAll && n > 0,
		Elapsed:        FormatTime(0),
		Total:          FormatTime(0),
		VolumeVisible:  in.Caps.VolumeControl,
		VolumeGlyph:    volumeGlyph(s),
		Volume:         s.Volume,
		Muted:          s.Muted,
		Splash:         in.Splash,
	}
	if in.Caps.DisableNavOnSingleTrack && n <= 1 {
		v.PrevEnabled = false
		v.NextEnabled = false
	}
	if s.Playing {
		v.PlayGlyph = GlyphPause
	}

	switch {
	case hasCur:
		v.Title = fmt.Sprintf("%d. %s", cur.Index+1, cur.Title)
		v.SeekEnabled = true
		v.Progress = progressPercent(in.Position, in.Duration)
		v.Elapsed = FormatTime(in.Position)
		v.Total = FormatTime(in.Duration)
	case s.State == StateError:
		v.Title = TitleLoadError
	default:
		v.Title = TitlePlaceholder
	}

	if in.Caps.BackgroundVideo {
		v.BackgroundVideo = in.DefaultVideo
		if hasCur && cur.HasVideo() {
			v.BackgroundVideo = cur.VideoLocator
		}
	}

	v.Tracks = make([]TrackView, 0, n)
	for _, t := range in.Registry.Tracks() {
		tv := TrackView{
			Index:       t.Index,
			Label:       fmt.Sprintf("%d. %s", t.Index+1, t.Title),
			Glyph:       GlyphPlay,
			ExpandGlyph: "+",
			HasVideo:    t.HasVideo(),
		}
		if t.Index == s.CurrentIndex {
			tv.Active = true
			if s.Playing {
				tv.Playing = true
				tv.Glyph = GlyphPause
			}
		}
		if in.Accordion != nil && in.Accordion.Expanded(t.Index) {
			tv.Expanded = true
			tv.ExpandGlyph = "−"
		}
		v.Tracks = append(v.Tracks, tv)
	}

	if in.Modal != nil && in.Modal.Visible {
		v.Modal = ModalView{
			Visible:  true,
			ImageSrc: in.Modal.ImageSrc,
			Caption:  in.Modal.Caption,
			CanStep:  in.Caps.Gallery && in.Modal.Position() >= 0 && len(in.Modal.Images()) > 1,
		}
		v.ScrollLocked = in.Modal.ScrollLocked()
	}
	return v
}

func volumeGlyph(s Session) VolumeGlyph {
	switch {
	case s.Silent():
		return VolumeMuted
	case s.Volume > 0.6:
		return VolumeLoud
	case s.Volume > 0.1:
		return VolumeMedium
	}
	return VolumeQuiet
}

func knownDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}

func progressPercent(pos, dur float64) float64 {
	if !knownDuration(dur) || math.IsNaN(pos) {
		return 0
	}
	p := pos / dur * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// FormatTime renders seconds as m:ss. Unknown or negative values render as 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
