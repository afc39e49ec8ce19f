package icon

import (
	"image"
	"image/color"
	"math"
)

var (
	darkBG     = color.RGBA{R: 0x12, G: 0x10, B: 0x16, A: 0xFF}
	vinyl      = color.RGBA{R: 0x1E, G: 0x1C, B: 0x22, A: 0xFF}
	groove     = color.RGBA{R: 0x3A, G: 0x36, B: 0x40, A: 0xFF}
	labelAmber = color.RGBA{R: 0xF0, G: 0xA0, B: 0x30, A: 0xFF}
	labelDark  = color.RGBA{R: 0xB8, G: 0x6A, B: 0x10, A: 0xFF}
	sheen      = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0x30}
	couchRed   = color.RGBA{R: 0xC8, G: 0x3C, B: 0x3C, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

// generate draws a record resting on a small couch.
func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	fillRect(img, 0, 0, size, size, darkBG)
	drawRecord(img, s)
	drawCouch(img, s)
	return img
}

func drawRecord(img *image.RGBA, s float64) {
	cx, cy := s*0.5, s*0.44
	r := s * 0.38
	fillCircle(img, cx, cy, r, vinyl)

	// Grooves
	for i := 1; i <= 4; i++ {
		strokeCircle(img, cx, cy, r*(0.45+0.12*float64(i)), math.Max(1, s/64), groove)
	}

	// Label and spindle hole
	fillCircle(img, cx, cy, r*0.34, labelAmber)
	strokeCircle(img, cx, cy, r*0.34, math.Max(1, s/48), labelDark)
	fillCircle(img, cx, cy, r*0.06, darkBG)

	// Light catching the upper-left edge
	fillArc(img, cx, cy, r*0.92, r, math.Pi*1.05, math.Pi*1.45, sheen)
}

func drawCouch(img *image.RGBA, s float64) {
	seatY := s * 0.78
	fillRoundedRect(img, s*0.14, seatY, s*0.72, s*0.12, s*0.04, couchRed)
	fillRoundedRect(img, s*0.08, seatY-s*0.06, s*0.10, s*0.18, s*0.04, couchRed)
	fillRoundedRect(img, s*0.82, seatY-s*0.06, s*0.10, s*0.18, s*0.04, couchRed)
}

// strokeCircle draws a ring of the given width centred on radius r.
func strokeCircle(img *image.RGBA, cx, cy, r, width float64, c color.Color) {
	fillArc(img, cx, cy, r-width/2, r+width/2, 0, 2*math.Pi, c)
}

// fillArc fills the annulus sector between radii r0..r1 and angles a0..a1.
func fillArc(img *image.RGBA, cx, cy, r0, r1, a0, a1 float64, c color.Color) {
	bounds := img.Bounds()
	for y := int(cy - r1); y <= int(cy+r1+1) && y < bounds.Max.Y; y++ {
		for x := int(cx - r1); x <= int(cx+r1+1) && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			d := math.Hypot(dx, dy)
			if d < r0 || d > r1 {
				continue
			}
			a := math.Atan2(dy, dx)
			if a < 0 {
				a += 2 * math.Pi
			}
			if a >= a0 && a <= a1 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int, c color.Color) {
	bounds := img.Bounds()
	for y := y0; y < y0+h && y < bounds.Max.Y; y++ {
		for x := x0; x < x0+w && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillRoundedRect(img *image.RGBA, xf, yf, wf, hf, rf float64, c color.Color) {
	x0 := int(xf)
	y0 := int(yf)
	x1 := int(xf + wf)
	y1 := int(yf + hf)
	r := rf
	bounds := img.Bounds()

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			// Check if inside rounded rect
			fx := float64(x)
			fy := float64(y)
			inside := true

			// Check corners
			if fx < xf+r && fy < yf+r {
				// Top-left corner
				dx := xf + r - fx
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy < yf+r {
				// Top-right corner
				dx := fx - (xf + wf - r)
				dy := yf + r - fy
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx < xf+r && fy > yf+hf-r {
				// Bottom-left corner
				dx := xf + r - fx
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			} else if fx > xf+wf-r && fy > yf+hf-r {
				// Bottom-right corner
				dx := fx - (xf + wf - r)
				dy := fy - (yf + hf - r)
				if dx*dx+dy*dy > r*r {
					inside = false
				}
			}

			if inside {
				blendPixel(img, x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, c color.Color) {
	bounds := img.Bounds()
	x0 := int(cx - r)
	y0 := int(cy - r)
	x1 := int(cx + r + 1)
	y1 := int(cy + r + 1)
	r2 := r * r

	for y := y0; y <= y1 && y < bounds.Max.Y; y++ {
		for x := x0; x <= x1 && x < bounds.Max.X; x++ {
			if x < 0 || y < 0 {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				blendPixel(img, x, y, c)
			}
		}
	}
}

// blendPixel alpha-blends color c onto the existing pixel at (x, y).
func blendPixel(img *image.RGBA, x, y int, c color.Color) {
	r0, g0, b0, a0 := c.RGBA()
	if a0 == 0 {
		return
	}
	if a0 == 0xFFFF {
		img.Set(x, y, c)
		return
	}

	// Existing pixel
	existing := img.RGBAAt(x, y)
	er := uint32(existing.R) * 257
	eg := uint32(existing.G) * 257
	eb := uint32(existing.B) * 257

	// Alpha blend
	alpha := a0
	invAlpha := 0xFFFF - alpha
	nr := (r0*alpha + er*invAlpha) / 0xFFFF
	ng := (g0*alpha + eg*invAlpha) / 0xFFFF
	nb := (b0*alpha + eb*invAlpha) / 0xFFFF

	img.SetRGBA(x, y, color.RGBA{
		R: uint8(nr >> 8),
		G: uint8(ng >> 8),
		B: uint8(nb >> 8),
		A: 0xFF,
	})
}
