package framebuffer

import (
	"errors"
	"image"
	"image/color"

	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var ErrShortBuffer = errors.New("framebuffer: pixel buffer too small")

// ARGB32 stores non-premultiplied pixels as 32-bit words in the console's
// big-endian byte order: alpha, red, green, blue. This is the layout scanned
// out by the display controller for XRGB buffers and read by the transfer
// engine as A8R8G8B8.
type ARGB32 struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewARGB32 wraps pix, which must hold at least stride*r.Dy() bytes.
func NewARGB32(pix []byte, stride int, r image.Rectangle) *ARGB32 {
	if len(pix) < stride*r.Dy() || stride < 4*r.Dx() {
		panic(ErrShortBuffer)
	}
	return &ARGB32{Pix: pix, Stride: stride, Rect: r}
}

var ARGBModel color.Model = color.NRGBAModel

func (p *ARGB32) ColorModel() color.Model { return ARGBModel }

func (p *ARGB32) Bounds() image.Rectangle { return p.Rect }

func (p *ARGB32) At(x, y int) color.Color {
	return p.NRGBAAt(x, y)
}

func (p *ARGB32) NRGBAAt(x, y int) color.NRGBA {
	if !(image.Point{x, y}.In(p.Rect)) {
		return color.NRGBA{}
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[1], G: s[2], B: s[3], A: s[0]}
}

func (p *ARGB32) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.SetNRGBA(x, y, color.NRGBAModel.Convert(c).(color.NRGBA))
}

func (p *ARGB32) SetNRGBA(x, y int, c color.NRGBA) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	i := p.PixOffset(x, y)
	s := p.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = c.A, c.R, c.G, c.B
}

func (p *ARGB32) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

// SubImage returns an image sharing pixels with p.
func (p *ARGB32) SubImage(r image.Rectangle) image.Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &ARGB32{}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &ARGB32{
		Pix:    p.Pix[i:],
		Stride: p.Stride,
		Rect:   r,
	}
}

// PutPixel encodes c into the first four bytes of b using format.
func PutPixel(format sdl.PixelFormat, b []byte, c color.NRGBA) error {
	b = b[:4:4]
	switch format {
	case sdl.PixelFormatARGB8888:
		b[0], b[1], b[2], b[3] = c.A, c.R, c.G, c.B
	case sdl.PixelFormatRGBA8888:
		b[0], b[1], b[2], b[3] = c.R, c.G, c.B, c.A
	case sdl.PixelFormatABGR8888:
		b[0], b[1], b[2], b[3] = c.A, c.B, c.G, c.R
	case sdl.PixelFormatBGRA8888:
		b[0], b[1], b[2], b[3] = c.B, c.G, c.R, c.A
	case sdl.PixelFormatRGB888:
		b[0], b[1], b[2], b[3] = 0, c.R, c.G, c.B
	default:
		return sdl.ErrUnknownFormat
	}
	return nil
}

// ConvertPixels copies the rectangle r of src into pixels, laid out with the
// given pitch and format.
func ConvertPixels(src *ARGB32, r image.Rectangle, format sdl.PixelFormat, pixels []byte, pitch int) error {
	if format.BytesPerPixel() == 0 {
		return sdl.ErrUnknownFormat
	}
	if r.Empty() {
		return nil
	}
	if pitch < 4*r.Dx() || len(pixels) < pitch*(r.Dy()-1)+4*r.Dx() {
		return ErrShortBuffer
	}
	for y := 0; y < r.Dy(); y++ {
		row := pixels[y*pitch:]
		si := src.PixOffset(r.Min.X, r.Min.Y+y)
		if format == sdl.PixelFormatARGB8888 {
			copy(row[:4*r.Dx()], src.Pix[si:si+4*r.Dx()])
			continue
		}
		for x := 0; x < r.Dx(); x++ {
			s := src.Pix[si+4*x : si+4*x+4]
			c := color.NRGBA{R: s[1], G: s[2], B: s[3], A: s[0]}
			PutPixel(format, row[4*x:], c)
		}
	}
	return nil
}
