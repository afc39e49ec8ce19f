// Package album holds the fixed, ordered track list of the album being presented.
package album

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Descriptor is one configured track entry before registry construction.
type Descriptor struct {
	Audio string
	Title string
	Video string
}

// Track is one playable item. Tracks never change after Build.
type Track struct {
	Index        int
	AudioLocator string
	Title        string
	VideoLocator string // empty when the track has no background video
}

// HasVideo reports whether the track carries its own background video.
func (t Track) HasVideo() bool {
	return t.VideoLocator != ""
}

// Registry is the ordered collection of tracks for the session. Its order is
// the canonical index space used by the player.
type Registry struct {
	tracks  []Track
	base    string
	baseURL *url.URL
}

// Build creates a registry from descriptors. Relative locators are resolved
// against base, which is either a directory or an http(s) URL.
func Build(base string, descs []Descriptor) *Registry {
	r := &Registry{base: base}
	if u, err := url.Parse(base); err == nil && isRemote(u) {
		r.baseURL = u
	}
	r.tracks = make([]Track, 0, len(descs))
	for i, d := range descs {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			title = fmt.Sprintf("Track %d", i+1)
		}
		r.tracks = append(r.tracks, Track{
			Index:        i,
			AudioLocator: d.Audio,
			Title:        title,
			VideoLocator: d.Video,
		})
	}
	return r
}

// Len returns the number of tracks.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.tracks)
}

// Empty reports whether there is nothing to play.
func (r *Registry) Empty() bool {
	return r.Len() == 0
}

// Valid reports whether i indexes a track.
func (r *Registry) Valid(i int) bool {
	return i >= 0 && i < r.Len()
}

// At returns the track at i. The second result is false for an invalid index.
func (r *Registry) At(i int) (Track, bool) {
	if !r.Valid(i) {
		return Track{}, false
	}
	return r.tracks[i], true
}

// Tracks returns a copy of the ordered track list.
func (r *Registry) Tracks() []Track {
	out := make([]Track, r.Len())
	if r != nil {
		copy(out, r.tracks)
	}
	return out
}

// Resolve turns a locator into its absolute form: an absolute URL for remote
// locators (or any locator under a remote base), a cleaned absolute file path
// otherwise. Empty stays empty.
func (r *Registry) Resolve(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" {
		switch {
		case isRemote(u):
			return u.String()
		case u.Scheme == "file":
			return filepath.Clean(u.Path)
		case len(u.Scheme) == 1:
			// Windows drive letter, not a scheme.
		default:
			return u.String()
		}
	}
	if r != nil && r.baseURL != nil {
		ref, err := url.Parse(filepath.ToSlash(loc))
		if err == nil {
			return r.baseURL.ResolveReference(ref).String()
		}
	}
	if filepath.IsAbs(loc) {
		return filepath.Clean(loc)
	}
	base := ""
	if r != nil {
		base = r.base
	}
	if abs, err := filepath.Abs(filepath.Join(base, loc)); err == nil {
		return abs
	}
	return filepath.Clean(filepath.Join(base, loc))
}

// SameLocator reports whether two locators resolve to the same resource even
// when they differ textually (relative vs absolute forms).
func (r *Registry) SameLocator(a, b string) bool {
	ra, rb := r.Resolve(a), r.Resolve(b)
	return ra != "" && ra == rb
}

func isRemote(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
