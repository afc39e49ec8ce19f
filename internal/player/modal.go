package player

// Image is one gallery entry.
type Image struct {
	Src     string
	Caption string
}

// Modal is the lightbox shown over the album. While visible the page behind
// it must not scroll.
type Modal struct {
	Visible  bool
	ImageSrc string
	Caption  string

	images []Image
	pos    int
}

// NewModal creates a hidden modal over the given gallery images.
func NewModal(images []Image) *Modal {
	imgs := make([]Image, 0, len(images))
	for _, img := range images {
		if img.Src != "" {
			imgs = append(imgs, img)
		}
	}
	return &Modal{images: imgs, pos: -1}
}

// Open shows an arbitrary image.
func (m *Modal) Open(src, caption string) {
	if src == "" {
		return
	}
	m.Visible = true
	m.ImageSrc = src
	m.Caption = caption
	m.pos = -1
	for i, img := range m.images {
		if img.Src == src {
			m.pos = i
			break
		}
	}
}

// OpenAt shows gallery image i.
func (m *Modal) OpenAt(i int) {
	if i < 0 || i >= len(m.images) {
		return
	}
	img := m.images[i]
	m.Open(img.Src, img.Caption)
	m.pos = i
}

// Step moves through the gallery by delta, wrapping at both ends. It does
// nothing unless the modal is showing a gallery image.
func (m *Modal) Step(delta int) {
	n := len(m.images)
	if !m.Visible || m.pos < 0 || n == 0 {
		return
	}
	m.OpenAt(((m.pos+delta)%n + n) % n)
}

// Close hides the modal and clears its payload.
func (m *Modal) Close() {
	m.Visible = false
	m.ImageSrc = ""
	m.Caption = ""
	m.pos = -1
}

// ClickBackdrop closes the modal when the click landed outside its content.
func (m *Modal) ClickBackdrop(onContent bool) {
	if m.Visible && !onContent {
		m.Close()
	}
}

// Escape closes the modal if visible and reports whether the key was consumed.
func (m *Modal) Escape() bool {
	if !m.Visible {
		return false
	}
	m.Close()
	return true
}

// ScrollLocked reports whether background scrolling is suppressed.
func (m *Modal) ScrollLocked() bool {
	return m.Visible
}

// Images returns the gallery entries.
func (m *Modal) Images() []Image {
	return m.images
}

// Position returns the gallery index on display, or -1.
func (m *Modal) Position() int {
	return m.pos
}
