package player

// Splash is the intro screen shown before the album when enabled.
type Splash struct {
	Visible bool
	Title   string
	Video   string
}

// Dismiss hides the splash for the rest of the session.
func (s *Splash) Dismiss() bool {
	if !s.Visible {
		return false
	}
	s.Visible = false
	return true
}
