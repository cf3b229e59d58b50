package sim

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/ps3dev/psl1ght-sdl/framebuffer"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

const maxDisplayBuffers = 8

type displayBuffer struct {
	offset, pitch, w, h uint32
	set                 bool
}

type gpu struct {
	ctx      psl1ght.GCMContext
	flipMode psl1ght.FlipMode
	buffers  [maxDisplayBuffers]displayBuffer

	status    uint32
	queued    []uint8 // flips waiting for a command buffer flush
	pending   int     // submitted flip, -1 if none
	countdown int
	onScreen  int
	stall     bool

	scaleMode, scaleSurface uint32

	stats GPUStats
}

// GPUStats counts flip related SDK calls.
type GPUStats struct {
	StatusPolls int
	Resets      int
	FlipsQueued int
	Flips       int
	Flushes     int
	WaitFlips   int
	Transfers   int
}

func (g *gpu) init() {
	g.pending = -1
	g.onScreen = -1
}

func (c *Console) RSXInit(cmdSize, ioSize uint32) (psl1ght.GCMContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cmdSize == 0 || ioSize == 0 {
		return 0, psl1ght.EINVAL
	}
	if c.gpu.ctx == 0 {
		c.gpu.ctx = 1
	}
	c.record("RSXInit(%#x, %#x)", cmdSize, ioSize)
	return c.gpu.ctx, nil
}

func (c *Console) checkContext(ctx psl1ght.GCMContext) {
	if ctx == 0 || ctx != c.gpu.ctx {
		panic("sim: invalid GCM context")
	}
}

func (c *Console) RSXFlushBuffer(ctx psl1ght.GCMContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkContext(ctx)
	c.gpu.stats.Flushes++
	c.record("RSXFlushBuffer")
	for _, id := range c.gpu.queued {
		if c.gpu.pending >= 0 {
			// Superseded flips complete without being polled.
			c.completeFlip()
		}
		c.gpu.pending = int(id)
		c.gpu.countdown = c.opt.FlipLatency
	}
	c.gpu.queued = c.gpu.queued[:0]
}

func (c *Console) GCMSetFlipMode(mode psl1ght.FlipMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gpu.flipMode = mode
	c.record("GCMSetFlipMode(%d)", mode)
}

func (c *Console) GCMSetDisplayBuffer(id uint8, offset, pitch, w, h uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(id) >= maxDisplayBuffers || pitch < 4*w || int(offset)+int(pitch*h) > len(c.mem.mem) {
		return psl1ght.EINVAL
	}
	c.gpu.buffers[id] = displayBuffer{offset, pitch, w, h, true}
	c.record("GCMSetDisplayBuffer(%d, %#x, %d, %d, %d)", id, offset, pitch, w, h)
	return nil
}

// GCMGetFlipStatus returns 0 once the last submitted flip happened.
func (c *Console) GCMGetFlipStatus() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gpu.stats.StatusPolls++
	if c.gpu.pending >= 0 && !c.gpu.stall {
		c.gpu.countdown--
		if c.gpu.countdown <= 0 {
			c.completeFlip()
		}
	}
	return c.gpu.status
}

func (c *Console) completeFlip() {
	c.gpu.onScreen = c.gpu.pending
	c.gpu.pending = -1
	c.gpu.status = psl1ght.FlipDone
	c.gpu.stats.Flips++
}

func (c *Console) GCMResetFlipStatus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gpu.status = psl1ght.FlipPending
	c.gpu.stats.Resets++
	c.record("GCMResetFlipStatus")
}

func (c *Console) GCMSetFlip(ctx psl1ght.GCMContext, id uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkContext(ctx)
	if int(id) >= maxDisplayBuffers || !c.gpu.buffers[id].set {
		return psl1ght.EINVAL
	}
	c.gpu.queued = append(c.gpu.queued, id)
	c.gpu.stats.FlipsQueued++
	c.record("GCMSetFlip(%d)", id)
	return nil
}

func (c *Console) GCMSetWaitFlip(ctx psl1ght.GCMContext) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkContext(ctx)
	c.gpu.stats.WaitFlips++
	c.record("GCMSetWaitFlip")
}

func (c *Console) RSXSetTransferScaleMode(ctx psl1ght.GCMContext, mode, surface uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkContext(ctx)
	c.gpu.scaleMode, c.gpu.scaleSurface = mode, surface
}

// RSXSetTransferScaleSurface performs the scaled blit right away.
func (c *Console) RSXSetTransferScaleSurface(ctx psl1ght.GCMContext, sc *psl1ght.TransferScale, sf *psl1ght.TransferSurface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkContext(ctx)
	c.gpu.stats.Transfers++
	c.record("RSXSetTransferScaleSurface(%d,%d %dx%d -> %d,%d %dx%d)",
		sc.InX, sc.InY, sc.InW, sc.InH, sc.OutX, sc.OutY, sc.OutW, sc.OutH)

	if sc.Format != psl1ght.TransferFormatA8R8G8B8 || sf.Format != psl1ght.TransferSurfaceFormatA8R8G8B8 {
		c.log.Warn().Uint8("format", sc.Format).Msg("unsupported transfer format")
		return
	}

	in := image.Rect(int(sc.InX), int(sc.InY), int(sc.InX)+int(sc.InW), int(sc.InY)+int(sc.InH))
	src := c.surfaceAt(sc.Offset, int(sc.Pitch), in.Max.Y)
	dst := c.surfaceAt(sf.Offset, int(sf.Pitch), 0)
	if src == nil || dst == nil {
		c.log.Warn().Msg("transfer outside of local memory")
		return
	}
	out := image.Rect(int(sc.OutX), int(sc.OutY), int(sc.OutX)+int(sc.OutW), int(sc.OutY)+int(sc.OutH))
	clip := image.Rect(int(sc.ClipX), int(sc.ClipY), int(sc.ClipX)+int(sc.ClipW), int(sc.ClipY)+int(sc.ClipH))
	dstClip := dst.SubImage(clip).(*framebuffer.ARGB32)
	draw.NearestNeighbor.Scale(dstClip, out, src, in.Intersect(src.Rect), draw.Src, nil)
}

// surfaceAt maps local memory at offset as an image. With rows 0 the image
// extends to the end of memory.
func (c *Console) surfaceAt(offset uint32, pitch, rows int) *framebuffer.ARGB32 {
	if pitch <= 0 || int(offset) >= len(c.mem.mem) {
		return nil
	}
	mem := c.mem.mem[offset:]
	avail := len(mem) / pitch
	if rows == 0 || rows > avail {
		rows = avail
	}
	return &framebuffer.ARGB32{
		Pix:    mem[:pitch*rows],
		Stride: pitch,
		Rect:   image.Rect(0, 0, pitch/4, rows),
	}
}

// GPUStats returns the flip call counters.
func (c *Console) GPUStats() GPUStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gpu.stats
}

// StallFlips keeps submitted flips from ever completing.
func (c *Console) StallFlips(stall bool) {
	c.mu.Lock()
	c.gpu.stall = stall
	c.mu.Unlock()
}

// OnScreen returns the id of the display buffer being scanned out, or -1
// before the first flip.
func (c *Console) OnScreen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gpu.onScreen
}

// Screenshot returns a copy of the display buffer being scanned out.
func (c *Console) Screenshot() (*framebuffer.ARGB32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gpu.onScreen < 0 {
		return nil, false
	}
	return c.displayImage(c.gpu.onScreen), true
}

// DisplayBuffer returns a copy of display buffer id.
func (c *Console) DisplayBuffer(id int) (*framebuffer.ARGB32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id < 0 || id >= maxDisplayBuffers || !c.gpu.buffers[id].set {
		return nil, false
	}
	return c.displayImage(id), true
}

func (c *Console) displayImage(id int) *framebuffer.ARGB32 {
	b := c.gpu.buffers[id]
	pix := make([]byte, int(b.pitch*b.h))
	copy(pix, c.mem.mem[b.offset:])
	return &framebuffer.ARGB32{Pix: pix, Stride: int(b.pitch), Rect: image.Rect(0, 0, int(b.w), int(b.h))}
}
