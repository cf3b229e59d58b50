package framebuffer

import (
	"image"
	"image/color"
	"testing"

	"github.com/embeddedgo/display/pix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"github.com/ps3dev/psl1ght-sdl/sdl"
)

func TestARGB32Layout(t *testing.T) {
	pix := make([]byte, 2*8)
	img := NewARGB32(pix, 8, image.Rect(0, 0, 2, 2))

	img.Set(1, 0, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44})
	assert.Equal(t, []byte{0, 0, 0, 0, 0x44, 0x11, 0x22, 0x33}, pix[:8])
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x44}, img.At(1, 0))

	// Out of bounds is ignored.
	img.Set(2, 2, color.White)
	assert.Equal(t, color.NRGBA{}, img.At(-1, 0))

	sub := img.SubImage(image.Rect(1, 1, 5, 5)).(*ARGB32)
	assert.Equal(t, image.Rect(1, 1, 2, 2), sub.Bounds())
	sub.Set(1, 1, color.NRGBA{A: 0xff})
	assert.Equal(t, byte(0xff), pix[12])

	assert.Panics(t, func() { NewARGB32(pix, 4, image.Rect(0, 0, 2, 2)) })
}

func TestPutPixel(t *testing.T) {
	c := color.NRGBA{R: 1, G: 2, B: 3, A: 4}
	tests := map[sdl.PixelFormat][]byte{
		sdl.PixelFormatARGB8888: {4, 1, 2, 3},
		sdl.PixelFormatRGBA8888: {1, 2, 3, 4},
		sdl.PixelFormatABGR8888: {4, 3, 2, 1},
		sdl.PixelFormatBGRA8888: {3, 2, 1, 4},
		sdl.PixelFormatRGB888:   {0, 1, 2, 3},
	}
	for format, expected := range tests {
		b := make([]byte, 4)
		if err := PutPixel(format, b, c); err != nil {
			t.Fatal(format, err)
		}
		if got := b; string(got) != string(expected) {
			t.Fatalf("%v: expected %v, got %v", format, expected, got)
		}
	}
	assert.ErrorIs(t, PutPixel(sdl.PixelFormatUnknown, make([]byte, 4), c), sdl.ErrUnknownFormat)
}

func TestConvertPixels(t *testing.T) {
	s := NewSurface(make([]byte, 4*4*4), 4, 4)
	s.Clear(color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff})

	out := make([]byte, 12*2)
	require.NoError(t, ConvertPixels(s.ARGB32, image.Rect(1, 1, 3, 3), sdl.PixelFormatBGRA8888, out, 12))
	assert.Equal(t, []byte{0x30, 0x20, 0x10, 0xff}, out[4:8])
	assert.Equal(t, []byte{0, 0, 0, 0}, out[8:12], "padding untouched")

	assert.ErrorIs(t, ConvertPixels(s.ARGB32, image.Rect(0, 0, 4, 4), sdl.PixelFormatARGB8888, out, 16), ErrShortBuffer)
	assert.ErrorIs(t, ConvertPixels(s.ARGB32, image.Rect(0, 0, 1, 1), sdl.PixelFormatUnknown, out, 4), sdl.ErrUnknownFormat)
	assert.NoError(t, ConvertPixels(s.ARGB32, image.Rectangle{}, sdl.PixelFormatARGB8888, nil, 0))
}

func TestClip(t *testing.T) {
	s := NewSurface(make([]byte, 4*8*8), 8, 8)
	s.SetClip(image.Rect(2, 2, 20, 4))
	assert.Equal(t, image.Rect(2, 2, 8, 4), s.Clip())

	red := color.NRGBA{R: 0xff, A: 0xff}
	s.FillRects([]image.Rectangle{s.Rect}, red, sdl.BlendNone)
	s.DrawPoints([]image.Point{{0, 0}, {3, 3}}, red, sdl.BlendNone)

	count := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if s.NRGBAAt(x, y) == red {
				count++
				assert.True(t, image.Pt(x, y).In(s.Clip()))
			}
		}
	}
	assert.Equal(t, 12, count)

	// Clear ignores the clip.
	s.Clear(red)
	assert.Equal(t, red, s.NRGBAAt(0, 0))

	s.SetClip(image.Rectangle{})
	assert.Equal(t, s.Rect, s.Clip())
}

func TestDrawLines(t *testing.T) {
	s := NewSurface(make([]byte, 4*8*8), 8, 8)
	c := color.NRGBA{G: 0xff, A: 0x80}

	s.DrawLines([]image.Point{{0, 0}, {4, 0}, {4, 4}}, c, sdl.BlendAdd)
	for _, p := range []image.Point{{0, 0}, {2, 0}, {4, 0}, {4, 2}, {4, 4}} {
		// A joint plotted twice would saturate.
		assert.Equal(t, uint8(0x80), s.NRGBAAt(p.X, p.Y).G, p)
	}
	assert.Zero(t, s.NRGBAAt(5, 0).G)

	s.DrawLines([]image.Point{{7, 7}}, c, sdl.BlendNone)
	assert.Equal(t, c, s.NRGBAAt(7, 7))
}

func TestBlend(t *testing.T) {
	tests := map[sdl.BlendMode]struct {
		dst, src color.NRGBA
		expected color.NRGBA
	}{
		sdl.BlendNone:  {color.NRGBA{1, 2, 3, 4}, color.NRGBA{0xff, 0, 0, 0x80}, color.NRGBA{0xff, 0, 0, 0x80}},
		sdl.BlendBlend: {color.NRGBA{0, 0, 0xff, 0xff}, color.NRGBA{0xff, 0, 0, 0xff}, color.NRGBA{0xff, 0, 0, 0xff}},
		sdl.BlendAdd:   {color.NRGBA{0xf0, 0, 0, 0xff}, color.NRGBA{0xff, 0x10, 0, 0xff}, color.NRGBA{0xff, 0x10, 0, 0xff}},
		sdl.BlendMod:   {color.NRGBA{0xff, 0x80, 0x40, 0xff}, color.NRGBA{0x80, 0xff, 0, 0x10}, color.NRGBA{0x80, 0x80, 0, 0xff}},
	}
	for mode, tt := range tests {
		px := make([]byte, 4)
		PutPixel(sdl.PixelFormatARGB8888, px, tt.dst)
		blend(px, tt.src, mode)
		got := color.NRGBA{R: px[1], G: px[2], B: px[3], A: px[0]}
		if got != tt.expected {
			t.Fatalf("mode %v: expected %v, got %v", mode, tt.expected, got)
		}
	}
}

func TestDrawImage(t *testing.T) {
	s := NewSurface(make([]byte, 4*4*4), 4, 4)
	draw.Draw(s, image.Rect(1, 1, 3, 3), image.NewUniform(color.NRGBA{B: 0xff, A: 0xff}), image.Point{}, draw.Src)
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0xff}, s.NRGBAAt(2, 2))
	assert.Equal(t, color.NRGBA{}, s.NRGBAAt(3, 3))
}

func TestDiagonalLine(t *testing.T) {
	s := NewSurface(make([]byte, 4*4*4), 4, 4)
	c := color.NRGBA{R: 0xff, A: 0xff}
	s.DrawLines([]image.Point{{0, 0}, {3, 3}}, c, sdl.BlendNone)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			expected := color.NRGBA{}
			if x == y {
				expected = c
			}
			if got := s.NRGBAAt(x, y); got != expected {
				t.Fatalf("(%d,%d): expected %v, got %v", x, y, expected, got)
			}
		}
	}
}

func TestPixArea(t *testing.T) {
	s := NewSurface(make([]byte, 4*8*8), 8, 8)
	s.SetClip(image.Rect(2, 2, 6, 6))
	s.FillRects(nil, color.NRGBA{}, sdl.BlendAdd)

	// Areas on a display of the surface draw in surface coordinates.
	a := pix.NewDisplay(s).NewArea(s.Rect)
	a.Draw(image.Rect(0, 0, 2, 1), image.NewUniform(color.NRGBA{G: 0x40, A: 0xff}), image.Point{}, nil, image.Point{}, draw.Over)
	a.Draw(image.Rect(0, 0, 2, 1), image.NewUniform(color.NRGBA{G: 0x40, A: 0xff}), image.Point{}, nil, image.Point{}, draw.Over)
	assert.Equal(t, uint8(0x80), s.NRGBAAt(1, 0).G, "uniform source is blended with the surface mode")

	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{B: 0xff, A: 0x10})
	s.use(color.NRGBA{}, sdl.BlendNone)
	a.Draw(image.Rect(7, 7, 8, 8), src, image.Point{}, nil, image.Point{}, draw.Over)
	assert.Equal(t, color.NRGBA{B: 0xff, A: 0x10}, s.NRGBAAt(7, 7), "BlendNone copies")
}
