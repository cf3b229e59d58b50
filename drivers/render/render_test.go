package render_test

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/drivers/render"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

var mode = sdl.DisplayMode{Format: sdl.PixelFormatARGB8888, W: 64, H: 32}

func newRenderer(t *testing.T, con *sim.Console, opt render.Options) *render.Renderer {
	t.Helper()
	ctx, err := con.RSXInit(psl1ght.DefaultCmdSize, psl1ght.DefaultIOSize)
	require.NoError(t, err)
	opt.Logger = ps3testing.NewLogger(t)
	r, err := render.New(con, ctx, mode, opt)
	require.NoError(t, err)
	t.Cleanup(r.Destroy)
	return r
}

func TestPresentCycle(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	for _, buffers := range []int{2, 3} {
		opt := render.DefaultOptions()
		opt.Buffers = buffers
		r := newRenderer(t, con, opt)
		for i := 0; i < 7; i++ {
			current := r.Current()
			back := r.BackIndex()
			if current != i%buffers {
				t.Fatalf("ring %d, present %d: expected current %d, got %d", buffers, i, i%buffers, current)
			}
			if back != (current+1)%buffers {
				t.Fatalf("ring %d, present %d: expected back %d, got %d", buffers, i, (current+1)%buffers, back)
			}
			require.NoError(t, r.Present())
			assert.Equal(t, back, r.Current())
		}
		r.Destroy()
	}
}

func TestPresentProtocol(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{FlipLatency: 3})
	ctx, err := con.RSXInit(psl1ght.DefaultCmdSize, psl1ght.DefaultIOSize)
	require.NoError(t, err)
	r, err := render.New(con, ctx, mode, render.DefaultOptions())
	require.NoError(t, err)
	defer r.Destroy()
	con.ResetCalls()

	// The first present resets the flip status instead of polling it.
	require.NoError(t, r.Present())
	assert.Zero(t, con.GPUStats().StatusPolls)
	assert.Equal(t, []string{
		"GCMResetFlipStatus",
		"GCMSetFlip(1)",
		"RSXFlushBuffer",
		"GCMSetWaitFlip",
	}, con.Calls())
	con.ResetCalls()

	// Later presents poll until the previous flip completed, sleeping
	// between polls.
	start := con.SystemTime()
	require.NoError(t, r.Present())
	stats := con.GPUStats()
	assert.Equal(t, 3, stats.StatusPolls)
	assert.Equal(t, 1, stats.Flips)
	assert.Equal(t, uint64(2*200), con.SystemTime()-start)
	assert.Equal(t, []string{
		"GCMResetFlipStatus",
		"GCMSetFlip(0)",
		"RSXFlushBuffer",
		"GCMSetWaitFlip",
	}, con.Calls())
	assert.Equal(t, 1, con.OnScreen())
	assert.InDelta(t, 1e6/400.0, r.FPS(), 1)
}

func TestPresentTimeout(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	opt := render.DefaultOptions()
	opt.FlipPollLimit = 4
	r := newRenderer(t, con, opt)
	require.NoError(t, r.Present())

	con.StallFlips(true)
	err := r.Present()
	assert.ErrorIs(t, err, render.ErrFlipTimeout)
	assert.Equal(t, 4, con.GPUStats().StatusPolls)
	assert.Equal(t, 1, r.Current())

	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = r.PresentContext(cctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, r.Current())

	con.StallFlips(false)
	require.NoError(t, r.Present())
	assert.Equal(t, 0, r.Current())
}

func TestPresentCancelWaiting(t *testing.T) {
	con := sim.New(sim.Options{Logger: ps3testing.NewLogger(t)})
	r := newRenderer(t, con, render.DefaultOptions())
	require.NoError(t, r.Present())
	con.StallFlips(true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.PresentContext(ctx), context.DeadlineExceeded)
}

// failingGCM fails to register one display buffer.
type failingGCM struct {
	*sim.Console
	id uint8
}

func (f failingGCM) GCMSetDisplayBuffer(id uint8, offset, pitch, w, h uint32) error {
	if id == f.id {
		return psl1ght.EINVAL
	}
	return f.Console.GCMSetDisplayBuffer(id, offset, pitch, w, h)
}

func TestCreateFailure(t *testing.T) {
	tests := map[string]struct {
		setup    func(con *sim.Console) render.GCM
		expected error
	}{
		"first allocation": {func(con *sim.Console) render.GCM {
			con.InjectErrors("RSXMemalign", psl1ght.ENOMEM)
			return con
		}, sdl.ErrOutOfMemory},
		"second allocation": {func(con *sim.Console) render.GCM {
			con.InjectErrors("RSXMemalign", nil, psl1ght.ENOMEM)
			return con
		}, psl1ght.ENOMEM},
		"display buffer": {func(con *sim.Console) render.GCM {
			return failingGCM{con, 1}
		}, psl1ght.EINVAL},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			con := ps3testing.NewConsole(t, sim.Options{})
			r, err := render.New(tc.setup(con), 1, mode, render.DefaultOptions())
			require.ErrorIs(t, err, tc.expected)
			assert.Nil(t, r)
			n, _ := con.Allocations()
			assert.Zero(t, n)
		})
	}
}

func TestCreateInvalid(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	_, err := render.New(con, 1, sdl.DisplayMode{Format: sdl.PixelFormatRGB888, W: 8, H: 8}, render.DefaultOptions())
	assert.ErrorIs(t, err, sdl.ErrUnknownFormat)

	opt := render.DefaultOptions()
	opt.Buffers = 4
	_, err = render.New(con, 1, mode, opt)
	assert.ErrorIs(t, err, render.ErrBufferCount)
}

func TestDestroy(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	r := newRenderer(t, con, render.DefaultOptions())
	tex, err := r.NewTexture(sdl.PixelFormatARGB8888, 8, 8)
	require.NoError(t, err)
	n, _ := con.Allocations()
	assert.Equal(t, 3, n)

	tex.Destroy()
	tex.Destroy()
	r.Destroy()
	r.Destroy()
	n, _ = con.Allocations()
	assert.Zero(t, n)
	assert.ErrorIs(t, r.Present(), render.ErrDestroyed)
	assert.ErrorIs(t, r.Clear(), render.ErrDestroyed)
}

func TestDestroyNil(t *testing.T) {
	var r *render.Renderer
	var tex *render.Texture
	assert.NotPanics(t, r.Destroy)
	assert.NotPanics(t, tex.Destroy)
}

func TestCreateTextureFailure(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	r := newRenderer(t, con, render.DefaultOptions())
	con.InjectErrors("RSXMemalign", psl1ght.ENOMEM)
	tex, err := r.CreateTexture(sdl.PixelFormatARGB8888, 8, 8)
	require.Error(t, err)
	if tex != nil {
		t.Fatalf("expected nil texture, got %#v", tex)
	}
}

func TestBackBuffer(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	r := newRenderer(t, con, render.DefaultOptions())
	pix, pitch := r.BackBuffer()
	assert.Equal(t, 4*mode.W, pitch)
	assert.Len(t, pix, pitch*mode.H)
	for _, b := range pix {
		if b != 0 {
			t.Fatal("expected a cleared back buffer")
		}
	}

	r.SetDrawColor(color.NRGBA{0x10, 0x20, 0x30, 0xff})
	require.NoError(t, r.Clear())
	assert.Equal(t, []byte{0xff, 0x10, 0x20, 0x30}, pix[:4])

	require.NoError(t, r.Present())
	require.NoError(t, r.Present())
	assert.Equal(t, 1, con.OnScreen())
	img, ok := con.Screenshot()
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{0x10, 0x20, 0x30, 0xff}, img.NRGBAAt(63, 31))
}
