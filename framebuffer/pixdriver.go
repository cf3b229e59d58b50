package framebuffer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/embeddedgo/display/pix"

	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var _ pix.Driver = (*Surface)(nil)

// mul scales a by b/255, rounded.
func mul(a, b uint8) uint8 {
	v := uint32(a)*uint32(b) + 128
	return uint8((v + v>>8) >> 8)
}

func addSat(a, b uint8) uint8 {
	if v := uint16(a) + uint16(b); v < 0xff {
		return uint8(v)
	}
	return 0xff
}

// blend combines the source color c into the destination pixel dst.
func blend(dst []byte, c color.NRGBA, mode sdl.BlendMode) {
	dst = dst[:4:4]
	switch mode {
	case sdl.BlendNone:
		dst[0], dst[1], dst[2], dst[3] = c.A, c.R, c.G, c.B
	case sdl.BlendBlend:
		inv := 0xff - c.A
		dst[0] = mul(inv, dst[0]) + c.A
		dst[1] = mul(inv, dst[1]) + mul(c.R, c.A)
		dst[2] = mul(inv, dst[2]) + mul(c.G, c.A)
		dst[3] = mul(inv, dst[3]) + mul(c.B, c.A)
	case sdl.BlendAdd:
		dst[1] = addSat(dst[1], mul(c.R, c.A))
		dst[2] = addSat(dst[2], mul(c.G, c.A))
		dst[3] = addSat(dst[3], mul(c.B, c.A))
	case sdl.BlendMod:
		dst[1] = mul(dst[1], c.R)
		dst[2] = mul(dst[2], c.G)
		dst[3] = mul(dst[3], c.B)
	}
}

func (s *Surface) SetDir(dir int) image.Rectangle {
	return s.Rect
}

// Draw works like draw.DrawMask. Uniform sources without a mask are filled
// with the current blend mode, BlendNone turns every other op into draw.Src.
func (s *Surface) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	if u, ok := src.(*image.Uniform); ok && mask == nil {
		fill := s.fill
		s.fill = color.NRGBAModel.Convert(u.C).(color.NRGBA)
		s.Fill(r)
		s.fill = fill
		return
	}
	if s.mode == sdl.BlendNone {
		op = draw.Src
	}
	draw.DrawMask(s.ARGB32, r, src, sp, mask, mp, op)
}

// Fill blends the fill color into r, leaving out the hole if one is set.
func (s *Surface) Fill(r image.Rectangle) {
	if !s.holed || !s.hole.In(r) {
		s.fillRect(r)
		return
	}
	h := s.hole
	s.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, h.Y))
	s.fillRect(image.Rect(r.Min.X, h.Y, h.X, h.Y+1))
	s.fillRect(image.Rect(h.X+1, h.Y, r.Max.X, h.Y+1))
	s.fillRect(image.Rect(r.Min.X, h.Y+1, r.Max.X, r.Max.Y))
}

func (s *Surface) fillRect(r image.Rectangle) {
	r = r.Intersect(s.Rect)
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			blend(s.Pix[i:], s.fill, s.mode)
			i += 4
		}
	}
}

func (s *Surface) SetColor(c color.Color) {
	s.fill = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (s *Surface) Flush() {}

func (s *Surface) Err(clear bool) error {
	return nil
}

func (s *Surface) use(c color.NRGBA, mode sdl.BlendMode) {
	s.mode = mode
	s.area.SetColor(c)
}

// FillRects fills each rectangle, clipped, with c.
func (s *Surface) FillRects(rects []image.Rectangle, c color.NRGBA, mode sdl.BlendMode) {
	s.use(c, mode)
	for _, r := range rects {
		s.area.Fill(r)
	}
}

// DrawPoints plots each point, clipped, with c.
func (s *Surface) DrawPoints(points []image.Point, c color.NRGBA, mode sdl.BlendMode) {
	s.use(c, mode)
	for _, p := range points {
		s.area.Point(p.X, p.Y)
	}
}

// DrawLines draws a connected polyline through points. A single point is
// drawn as a point. Every joint is drawn once, so blended lines don't
// accumulate there.
func (s *Surface) DrawLines(points []image.Point, c color.NRGBA, mode sdl.BlendMode) {
	if len(points) == 1 {
		s.DrawPoints(points, c, mode)
		return
	}
	s.use(c, mode)
	for i := 1; i < len(points); i++ {
		s.hole, s.holed = points[i], i < len(points)-1
		s.area.Line(points[i-1], points[i])
	}
	s.holed = false
}
