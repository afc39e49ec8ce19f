package ui

// ScrollState provides reusable vertical scroll tracking with smooth animation.
// Embed this struct in screens that need scrollable content.
type ScrollState struct {
	ScrollY       float64
	TargetScrollY float64
	MaxScrollY    float64
}

// HandleMouseWheel updates the target scroll position from mouse wheel input.
// Call this from Update() unless scrolling is locked.
func (s *ScrollState) HandleMouseWheel() {
	_, wy := MouseWheelDelta()
	s.ScrollBy(-wy * ScrollWheelSpeed)
}

// ScrollBy moves the target by dy, clamped to the scrollable range.
func (s *ScrollState) ScrollBy(dy float64) {
	if dy == 0 {
		return
	}
	s.TargetScrollY = s.clamp(s.TargetScrollY + dy)
}

// SetMax updates the scrollable range and pulls the target back into it.
func (s *ScrollState) SetMax(limit float64) {
	if limit < 0 {
		limit = 0
	}
	s.MaxScrollY = limit
	s.TargetScrollY = s.clamp(s.TargetScrollY)
}

func (s *ScrollState) clamp(y float64) float64 {
	if y > s.MaxScrollY {
		y = s.MaxScrollY
	}
	if y < 0 {
		y = 0
	}
	return y
}

// Animate performs smooth scroll interpolation. Call this from Draw().
func (s *ScrollState) Animate() {
	s.ScrollY = Lerp(s.ScrollY, s.TargetScrollY, ScrollAnimSpeed)
}

// Reset sets scroll position back to top.
func (s *ScrollState) Reset() {
	s.ScrollY = 0
	s.TargetScrollY = 0
}

// EnsureVisible scrolls so the content span [top, bottom] fits inside a
// viewport of viewH. Coordinates are in content space (unscrolled).
func (s *ScrollState) EnsureVisible(top, bottom, viewH float64) {
	if bottom > viewH+s.TargetScrollY {
		s.TargetScrollY = s.clamp(bottom - viewH)
	}
	if top < s.TargetScrollY {
		s.TargetScrollY = s.clamp(top)
	}
}
