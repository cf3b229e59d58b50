package render

import (
	"image"

	"github.com/ps3dev/psl1ght-sdl/framebuffer"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// Clear fills the whole back buffer with the draw color, ignoring the
// viewport.
func (r *Renderer) Clear() error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.Target().Clear(r.color)
	return nil
}

func (r *Renderer) DrawPoints(points []sdl.Point) error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.Target().DrawPoints(r.toImage(points), r.color, r.blend)
	return nil
}

func (r *Renderer) DrawLines(points []sdl.Point) error {
	if r.destroyed {
		return ErrDestroyed
	}
	r.Target().DrawLines(r.toImage(points), r.color, r.blend)
	return nil
}

func (r *Renderer) FillRects(rects []sdl.Rect) error {
	if r.destroyed {
		return ErrDestroyed
	}
	rs := make([]image.Rectangle, len(rects))
	for i, rect := range rects {
		rs[i] = rect.Offset(r.viewport.X, r.viewport.Y).Image()
	}
	r.Target().FillRects(rs, r.color, r.blend)
	return nil
}

// Copy scales the src rectangle of t into dst with the GPU's transfer
// engine, using nearest neighbour sampling. Empty rectangles select the
// whole texture and the whole viewport.
func (r *Renderer) Copy(t sdl.Texture, src, dst sdl.Rect) error {
	if r.destroyed {
		return ErrDestroyed
	}
	tex, ok := t.(*Texture)
	if !ok || tex.r != r {
		return ErrForeignObject
	}
	if tex.destroyed {
		return ErrDestroyed
	}
	if src.Empty() {
		src = sdl.Rect{W: tex.w, H: tex.h}
	}
	if dst.Empty() {
		dst = sdl.Rect{W: r.viewport.W, H: r.viewport.H}
	}
	final := dst.Offset(r.viewport.X, r.viewport.Y)
	clip := final.Image().Intersect(r.Target().Clip())
	if clip.Empty() {
		return nil
	}

	back := &r.ring[r.BackIndex()]
	scale := psl1ght.TransferScale{
		Conversion: psl1ght.TransferConversionTruncate,
		Format:     psl1ght.TransferFormatA8R8G8B8,
		Operation:  psl1ght.TransferOperationSrcCopy,
		ClipX:      int16(clip.Min.X),
		ClipY:      int16(clip.Min.Y),
		ClipW:      uint16(clip.Dx()),
		ClipH:      uint16(clip.Dy()),
		OutX:       int16(final.X),
		OutY:       int16(final.Y),
		OutW:       uint16(final.W),
		OutH:       uint16(final.H),
		RatioX:     int32((src.W << psl1ght.RatioShift) / final.W),
		RatioY:     int32((src.H << psl1ght.RatioShift) / final.H),
		InW:        uint16(src.W),
		InH:        uint16(src.H),
		Pitch:      uint16(tex.pitch),
		Origin:     psl1ght.TransferOriginCorner,
		Interp:     psl1ght.TransferInterpolatorZOH,
		Offset:     tex.offset,
		InX:        uint16(src.X),
		InY:        uint16(src.Y),
	}
	surface := psl1ght.TransferSurface{
		Format: psl1ght.TransferSurfaceFormatA8R8G8B8,
		Pitch:  uint16(back.surf.Pitch()),
		Offset: back.offset,
	}
	r.gcm.RSXSetTransferScaleMode(r.ctx, psl1ght.TransferLocalToLocal, psl1ght.TransferSurfaceLocal)
	r.gcm.RSXSetTransferScaleSurface(r.ctx, &scale, &surface)
	return nil
}

// ReadPixels converts the rect of the back buffer, relative to the
// viewport, into pixels.
func (r *Renderer) ReadPixels(rect sdl.Rect, format sdl.PixelFormat, pixels []byte, pitch int) error {
	if r.destroyed {
		return ErrDestroyed
	}
	final := rect.Offset(r.viewport.X, r.viewport.Y)
	if final.X < 0 || final.X+final.W > r.w || final.Y < 0 || final.Y+final.H > r.h {
		return ErrOutOfBounds
	}
	return framebuffer.ConvertPixels(r.Target().ARGB32, final.Image(), format, pixels, pitch)
}
