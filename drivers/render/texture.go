package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/ps3dev/psl1ght-sdl/framebuffer"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var (
	ErrTextureFormat = errors.New("Unknown texture format")
	ErrTextureSize   = errors.New("render: invalid texture size")
	ErrTextureRect   = errors.New("render: rectangle outside of texture")
)

var _ sdl.Texture = (*Texture)(nil)

// Texture is an ARGB8888 image in GPU memory, the source of Copy.
type Texture struct {
	r      *Renderer
	format sdl.PixelFormat
	w, h   int
	pix    []byte
	pitch  int
	offset uint32

	colorMod  [3]uint8
	alphaMod  uint8
	blend     sdl.BlendMode
	destroyed bool
}

func (r *Renderer) CreateTexture(format sdl.PixelFormat, w, h int) (sdl.Texture, error) {
	t, err := r.NewTexture(format, w, h)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// NewTexture allocates a w by h texture. Only ARGB8888 is supported, which
// is the layout of the transfer engine.
func (r *Renderer) NewTexture(format sdl.PixelFormat, w, h int) (*Texture, error) {
	if r.destroyed {
		return nil, ErrDestroyed
	}
	if format != sdl.PixelFormatARGB8888 {
		return nil, ErrTextureFormat
	}
	if w <= 0 || h <= 0 || w > 4096 || h > 4096 {
		return nil, ErrTextureSize
	}
	pitch := w * format.BytesPerPixel()
	pix, err := r.gcm.RSXMemalign(framebuffer.Alignment, uint32(h*pitch))
	if err != nil {
		return nil, fmt.Errorf("texture: %w: %w", sdl.ErrOutOfMemory, err)
	}
	offset, err := r.gcm.RSXAddressToOffset(pix)
	if err != nil {
		r.gcm.RSXFree(pix)
		return nil, fmt.Errorf("texture offset: %w", err)
	}
	t := &Texture{
		r:        r,
		format:   format,
		w:        w,
		h:        h,
		pix:      pix,
		pitch:    pitch,
		offset:   offset,
		colorMod: [3]uint8{0xff, 0xff, 0xff},
		alphaMod: 0xff,
	}
	r.textures[t] = struct{}{}
	return t, nil
}

func (t *Texture) Format() sdl.PixelFormat { return t.format }
func (t *Texture) Size() (w, h int)        { return t.w, t.h }

// The transfer engine copies texels unmodified. The modulation and blend
// settings are kept for the host library to query.

func (t *Texture) SetColorMod(r, g, b uint8) error {
	t.colorMod = [3]uint8{r, g, b}
	return nil
}

func (t *Texture) SetAlphaMod(a uint8) error {
	t.alphaMod = a
	return nil
}

func (t *Texture) SetBlendMode(mode sdl.BlendMode) error {
	if mode > sdl.BlendMod {
		return sdl.ErrUnsupported
	}
	t.blend = mode
	return nil
}

func (t *Texture) ColorMod() (r, g, b uint8) {
	return t.colorMod[0], t.colorMod[1], t.colorMod[2]
}

func (t *Texture) AlphaMod() uint8 {
	return t.alphaMod
}

func (t *Texture) BlendMode() sdl.BlendMode {
	return t.blend
}

func (t *Texture) bounds(r sdl.Rect) (sdl.Rect, error) {
	if t.destroyed {
		return r, ErrDestroyed
	}
	if r.Empty() {
		return sdl.Rect{W: t.w, H: t.h}, nil
	}
	if !r.Image().In(image.Rect(0, 0, t.w, t.h)) {
		return r, ErrTextureRect
	}
	return r, nil
}

// Update copies the rectangle r, row by row, from pixels laid out with
// pitch.
func (t *Texture) Update(r sdl.Rect, pixels []byte, pitch int) error {
	r, err := t.bounds(r)
	if err != nil {
		return err
	}
	n := r.W * 4
	if pitch < n || len(pixels) < pitch*(r.H-1)+n {
		return framebuffer.ErrShortBuffer
	}
	for y := 0; y < r.H; y++ {
		dst := t.pix[(r.Y+y)*t.pitch+4*r.X:]
		copy(dst[:n], pixels[y*pitch:])
	}
	return nil
}

// Lock returns the texture memory starting at the top left corner of r,
// and the texture pitch. Writes go straight to GPU memory.
func (t *Texture) Lock(r sdl.Rect) ([]byte, int, error) {
	r, err := t.bounds(r)
	if err != nil {
		return nil, 0, err
	}
	return t.pix[r.Y*t.pitch+4*r.X:], t.pitch, nil
}

func (t *Texture) Unlock() {}

// Image returns the texture memory as an image for drawing with the image
// packages.
func (t *Texture) Image() *framebuffer.ARGB32 {
	if t.destroyed {
		return nil
	}
	return framebuffer.NewARGB32(t.pix, t.pitch, image.Rect(0, 0, t.w, t.h))
}

// Destroy frees the texture memory. Destroying twice or destroying a nil
// texture is a no-op.
func (t *Texture) Destroy() {
	if t == nil || t.destroyed {
		return
	}
	t.destroyed = true
	t.r.gcm.RSXFree(t.pix)
	t.pix = nil
	delete(t.r.textures, t)
}
