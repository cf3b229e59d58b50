// Package framebuffer implements software rendering into ARGB8888 pixel
// buffers shared with the GPU. Surfaces implement draw.Image and
// pix.Driver, so all the drawing tools from the standard library, x/image
// and embeddedgo/display can be used on them. Everything done this way runs
// on the CPU and is rather slow.
package framebuffer

import (
	"image"
	"image/color"

	"github.com/embeddedgo/display/pix"

	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// Alignment of pixel memory required by the display controller.
const Alignment = 64

// Surface is a pixel buffer with a clip rectangle. All drawing except Clear is
// restricted to the clip rectangle.
type Surface struct {
	*ARGB32
	clip image.Rectangle

	disp *pix.Display
	area *pix.Area // covers clip, in surface coordinates

	// pix.Driver state
	fill  color.NRGBA
	mode  sdl.BlendMode
	hole  image.Point // pixel skipped by Fill while holed is set
	holed bool
}

// NewSurface wraps buf as a w by h surface with a pitch of 4*w bytes.
func NewSurface(buf []byte, w, h int) *Surface {
	s := &Surface{ARGB32: NewARGB32(buf, 4*w, image.Rect(0, 0, w, h))}
	s.disp = pix.NewDisplay(s)
	s.area = s.disp.NewArea(s.Rect)
	s.SetClip(s.Rect)
	return s
}

func (s *Surface) W() int     { return s.Rect.Dx() }
func (s *Surface) H() int     { return s.Rect.Dy() }
func (s *Surface) Pitch() int { return s.Stride }

// SetClip restricts drawing to r. An empty rectangle resets the clip to the
// whole surface.
func (s *Surface) SetClip(r image.Rectangle) {
	if r.Empty() {
		r = s.Rect
	}
	s.clip = r.Intersect(s.Rect)
	s.area.SetRect(s.clip)
	s.area.SetOrigin(s.clip.Min)
}

func (s *Surface) Clip() image.Rectangle {
	return s.clip
}

// Clear sets every pixel of the surface to c, ignoring the clip rectangle.
func (s *Surface) Clear(c color.NRGBA) {
	var px [4]byte
	px[0], px[1], px[2], px[3] = c.A, c.R, c.G, c.B
	row := s.Pix[:4*s.W()]
	for i := 0; i < len(row); i += 4 {
		copy(row[i:], px[:])
	}
	for y := 1; y < s.H(); y++ {
		copy(s.Pix[y*s.Stride:], row)
	}
}
