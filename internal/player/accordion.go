package player

// Accordion tracks which per-track detail panels are expanded. Opening one
// closes the others unless the open is forced.
type Accordion struct {
	expanded []bool
}

// NewAccordion creates an accordion with n collapsed entries.
func NewAccordion(n int) *Accordion {
	if n < 0 {
		n = 0
	}
	return &Accordion{expanded: make([]bool, n)}
}

// Len returns the number of entries.
func (a *Accordion) Len() int {
	return len(a.expanded)
}

// Toggle flips entry i after collapsing every other entry. With forceOpen
// the others are left alone and i is opened unconditionally.
func (a *Accordion) Toggle(i int, forceOpen bool) {
	if i < 0 || i >= len(a.expanded) {
		return
	}
	if forceOpen {
		a.expanded[i] = true
		return
	}
	wasOpen := a.expanded[i]
	a.CloseAll(i)
	a.expanded[i] = !wasOpen
}

// CloseAll collapses every entry except the given index. Pass NoTrack to
// collapse everything.
func (a *Accordion) CloseAll(except int) {
	for i := range a.expanded {
		if i != except {
			a.expanded[i] = false
		}
	}
}

// Expanded reports whether entry i is open.
func (a *Accordion) Expanded(i int) bool {
	if i < 0 || i >= len(a.expanded) {
		return false
	}
	return a.expanded[i]
}

// Open returns the first expanded index, or NoTrack.
func (a *Accordion) Open() int {
	for i, e := range a.expanded {
		if e {
			return i
		}
	}
	return NoTrack
}

// OpenCount returns how many entries are expanded.
func (a *Accordion) OpenCount() int {
	n := 0
	for _, e := range a.expanded {
		if e {
			n++
		}
	}
	return n
}
