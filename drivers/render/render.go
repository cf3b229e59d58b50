// Package render implements the accelerated renderer: a ring of display
// buffers in GPU memory that are drawn by the CPU, filled by the GPU's scaled
// transfer engine and flipped on vsync.
//
// All drawing goes to the back buffer, the ring entry after the one on
// screen. Present flips the back buffer to the screen once the previous flip
// completed.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/debug"
	"github.com/ps3dev/psl1ght-sdl/framebuffer"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

const Name = "PSL1GHT"

var (
	ErrFlipTimeout   = errors.New("render: flip did not complete")
	ErrDestroyed     = errors.New("render: renderer destroyed")
	ErrOutOfBounds   = errors.New("Tried to read outside of surface bounds")
	ErrBufferCount   = errors.New("render: ring needs 2 or 3 buffers")
	ErrForeignObject = errors.New("render: texture belongs to another renderer")
)

// GCM is the part of the SDK the renderer uses.
type GCM interface {
	RSXMemalign(align, size uint32) ([]byte, error)
	RSXFree(b []byte)
	RSXAddressToOffset(b []byte) (uint32, error)
	RSXFlushBuffer(ctx psl1ght.GCMContext)

	GCMSetDisplayBuffer(id uint8, offset, pitch, w, h uint32) error
	GCMGetFlipStatus() uint32
	GCMResetFlipStatus()
	GCMSetFlip(ctx psl1ght.GCMContext, id uint8) error
	GCMSetWaitFlip(ctx psl1ght.GCMContext)

	RSXSetTransferScaleMode(ctx psl1ght.GCMContext, mode, surface uint32)
	RSXSetTransferScaleSurface(ctx psl1ght.GCMContext, sc *psl1ght.TransferScale, sf *psl1ght.TransferSurface)

	SystemTime() uint64
	Usleep(usec uint64)
}

type Options struct {
	// Buffers is the ring size, 2 or 3.
	Buffers int

	FlipPollInterval time.Duration

	// FlipPollLimit bounds the flip status polls of one Present. 0 polls
	// until the flip completed.
	FlipPollLimit int

	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		Buffers:          2,
		FlipPollInterval: 200 * time.Microsecond,
		Logger:           zerolog.Nop(),
	}
}

type buffer struct {
	pix    []byte
	offset uint32
	surf   *framebuffer.Surface
}

var _ sdl.Renderer = (*Renderer)(nil)

type Renderer struct {
	gcm GCM
	ctx psl1ght.GCMContext
	opt Options
	log zerolog.Logger

	w, h     int
	ring     []buffer
	current  int
	first    bool
	viewport sdl.Rect

	color color.NRGBA
	blend sdl.BlendMode

	textures  map[*Texture]struct{}
	destroyed bool

	start     uint64
	frametime time.Duration
}

// New allocates and registers the display buffer ring for mode. On failure
// everything allocated so far is released.
func New(gcm GCM, ctx psl1ght.GCMContext, mode sdl.DisplayMode, opt Options) (*Renderer, error) {
	if mode.Format != sdl.PixelFormatARGB8888 {
		return nil, sdl.ErrUnknownFormat
	}
	if opt.Buffers != 2 && opt.Buffers != 3 {
		return nil, ErrBufferCount
	}

	r := &Renderer{
		gcm:      gcm,
		ctx:      ctx,
		opt:      opt,
		log:      opt.Logger.With().Str("component", "render").Logger(),
		w:        mode.W,
		h:        mode.H,
		ring:     make([]buffer, opt.Buffers),
		first:    true,
		color:    color.NRGBA{A: 0xff},
		textures: make(map[*Texture]struct{}),
	}

	pitch := mode.W * sdl.PixelFormatARGB8888.BytesPerPixel()
	for i := range r.ring {
		b := &r.ring[i]
		pix, err := gcm.RSXMemalign(framebuffer.Alignment, uint32(mode.H*pitch))
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("display buffer %d: %w: %w", i, sdl.ErrOutOfMemory, err)
		}
		b.pix = pix
		clear(pix)
		b.surf = framebuffer.NewSurface(pix, mode.W, mode.H)

		if b.offset, err = gcm.RSXAddressToOffset(pix); err != nil {
			r.Destroy()
			return nil, fmt.Errorf("display buffer %d offset: %w", i, err)
		}
		err = gcm.GCMSetDisplayBuffer(uint8(i), b.offset, uint32(pitch), uint32(mode.W), uint32(mode.H))
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("display buffer %d: %w", i, err)
		}
		r.log.Debug().Int("id", i).Uint32("offset", b.offset).
			Int("w", mode.W).Int("h", mode.H).Msg("display buffer created")
	}

	r.SetViewport(sdl.Rect{})
	r.start = gcm.SystemTime()
	return r, nil
}

func (r *Renderer) Info() sdl.RendererInfo {
	return sdl.RendererInfo{
		Name:    Name,
		Flags:   sdl.RendererAccelerated | sdl.RendererPresentVSync,
		Formats: []sdl.PixelFormat{sdl.PixelFormatARGB8888},
	}
}

// Current returns the index of the buffer on screen, or the one that will
// be replaced by the first flip.
func (r *Renderer) Current() int {
	return r.current
}

// BackIndex returns the index of the buffer being drawn.
func (r *Renderer) BackIndex() int {
	back := (r.current + 1) % len(r.ring)
	debug.Assert(back != r.current, "render: back buffer is on screen")
	return back
}

// BackBuffer returns the pixels and pitch of the buffer being drawn.
func (r *Renderer) BackBuffer() ([]byte, int) {
	b := &r.ring[r.BackIndex()]
	return b.pix, b.surf.Pitch()
}

// Target returns the back buffer as a surface clipped to the viewport.
func (r *Renderer) Target() *framebuffer.Surface {
	return r.ring[r.BackIndex()].surf
}

func (r *Renderer) Size() (w, h int) {
	return r.w, r.h
}

// Present flips the back buffer to the screen. See PresentContext.
func (r *Renderer) Present() error {
	return r.PresentContext(context.Background())
}

// PresentContext waits for the previous flip to complete, then queues a
// flip to the back buffer, which becomes the current buffer. The very first
// present has no previous flip to wait for.
func (r *Renderer) PresentContext(ctx context.Context) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if r.first {
		r.gcm.GCMResetFlipStatus()
		r.first = false
	} else if err := r.waitFlip(ctx); err != nil {
		return err
	}

	back := r.BackIndex()
	if err := r.gcm.GCMSetFlip(r.ctx, uint8(back)); err != nil {
		return fmt.Errorf("flip to buffer %d: %w", back, err)
	}
	r.gcm.RSXFlushBuffer(r.ctx)
	r.gcm.GCMSetWaitFlip(r.ctx)
	r.current = back

	now := r.gcm.SystemTime()
	r.frametime = time.Duration(now-r.start) * time.Microsecond
	r.start = now
	return nil
}

func (r *Renderer) waitFlip(ctx context.Context) error {
	interval := uint64(r.opt.FlipPollInterval / time.Microsecond)
	for polls := 1; r.gcm.GCMGetFlipStatus() != psl1ght.FlipDone; polls++ {
		if r.opt.FlipPollLimit > 0 && polls >= r.opt.FlipPollLimit {
			return ErrFlipTimeout
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.gcm.Usleep(interval)
	}
	r.gcm.GCMResetFlipStatus()
	return nil
}

// FPS returns the frame rate measured over the last two presents.
func (r *Renderer) FPS() float32 {
	if r.frametime == 0 {
		return 0
	}
	return 1e9 / float32(r.frametime)
}

// SetViewport sets the drawing origin and clip of every buffer. An empty
// rectangle selects the whole screen.
func (r *Renderer) SetViewport(v sdl.Rect) error {
	if r.destroyed {
		return ErrDestroyed
	}
	if v.W == 0 && v.H == 0 {
		v.W, v.H = r.w, r.h
	}
	r.viewport = v
	for i := range r.ring {
		r.ring[i].surf.SetClip(v.Image())
	}
	return nil
}

func (r *Renderer) Viewport() sdl.Rect {
	return r.viewport
}

func (r *Renderer) SetDrawColor(c color.NRGBA) {
	r.color = c
}

func (r *Renderer) SetDrawBlendMode(mode sdl.BlendMode) {
	r.blend = mode
}

// Destroy frees all textures and display buffers. It may be called more
// than once, on a nil renderer and on one whose construction failed.
func (r *Renderer) Destroy() {
	if r == nil || r.destroyed {
		return
	}
	r.destroyed = true
	for t := range r.textures {
		t.Destroy()
	}
	for i := range r.ring {
		if b := &r.ring[i]; b.pix != nil {
			r.gcm.RSXFree(b.pix)
			b.pix, b.surf = nil, nil
		}
	}
	r.log.Debug().Msg("renderer destroyed")
}

func (r *Renderer) toImage(points []sdl.Point) []image.Point {
	pts := make([]image.Point, len(points))
	for i, p := range points {
		pts[i] = image.Pt(p.X+r.viewport.X, p.Y+r.viewport.Y)
	}
	return pts
}
