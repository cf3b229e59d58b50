package sim

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

func newConsole(t *testing.T, opt Options) *Console {
	opt.ManualClock = true
	opt.Logger = zerolog.New(zerolog.NewTestWriter(t))
	return New(opt)
}

func TestArena(t *testing.T) {
	var a arena
	a.init(1024)

	b0, ok := a.allocate(64, 100)
	require.True(t, ok)
	b1, ok := a.allocate(256, 10)
	require.True(t, ok)
	off0, _ := a.offset(b0)
	off1, _ := a.offset(b1)
	assert.Equal(t, 0, off0)
	assert.Equal(t, 256, off1)

	// First fit reuses the gap before b1.
	b2, ok := a.allocate(64, 64)
	require.True(t, ok)
	off2, _ := a.offset(b2)
	assert.Equal(t, 128, off2)

	_, ok = a.allocate(64, 1024)
	assert.False(t, ok)
	_, ok = a.allocate(3, 8)
	assert.False(t, ok, "alignment not a power of two")

	assert.True(t, a.free(b0))
	assert.False(t, a.free(b0))
	assert.False(t, a.free(make([]byte, 4)))
	n, bytes := a.inUse()
	assert.Equal(t, 2, n)
	assert.Equal(t, 74, bytes)
}

func TestMemalign(t *testing.T) {
	c := newConsole(t, Options{VRAMSize: 4096})

	b, err := c.RSXMemalign(64, 1000)
	require.NoError(t, err)
	off, err := c.RSXAddressToOffset(b[64:])
	require.NoError(t, err)
	assert.Equal(t, uint32(64), off)

	_, err = c.RSXAddressToOffset(make([]byte, 8))
	assert.ErrorIs(t, err, psl1ght.EFAULT)
	_, err = c.RSXMemalign(64, 8192)
	assert.ErrorIs(t, err, psl1ght.ENOMEM)

	c.RSXFree(b)
	assert.Panics(t, func() { c.RSXFree(b) })
	n, _ := c.Allocations()
	assert.Zero(t, n)
}

func TestInjectErrors(t *testing.T) {
	c := newConsole(t, Options{})

	c.InjectErrors("PadInit", nil, psl1ght.EINVAL)
	assert.NoError(t, c.PadInit(7))
	assert.ErrorIs(t, c.PadInit(7), psl1ght.EINVAL)
	assert.NoError(t, c.PadInit(7))
}

func TestManualClock(t *testing.T) {
	c := newConsole(t, Options{})
	assert.Zero(t, c.SystemTime())
	c.Usleep(1500)
	c.Advance(time.Millisecond)
	assert.Equal(t, uint64(2500), c.SystemTime())
}

func TestFlip(t *testing.T) {
	c := newConsole(t, Options{FlipLatency: 2})
	ctx, err := c.RSXInit(psl1ght.DefaultCmdSize, psl1ght.DefaultIOSize)
	require.NoError(t, err)

	b, err := c.RSXMemalign(64, 4*4*4)
	require.NoError(t, err)
	off, err := c.RSXAddressToOffset(b)
	require.NoError(t, err)
	require.NoError(t, c.GCMSetDisplayBuffer(0, off, 16, 4, 4))
	assert.ErrorIs(t, c.GCMSetDisplayBuffer(1, off, 8, 4, 4), psl1ght.EINVAL)
	assert.ErrorIs(t, c.GCMSetFlip(ctx, 1), psl1ght.EINVAL)

	c.GCMResetFlipStatus()
	require.NoError(t, c.GCMSetFlip(ctx, 0))
	c.RSXFlushBuffer(ctx)

	assert.Equal(t, uint32(psl1ght.FlipPending), c.GCMGetFlipStatus())
	assert.Equal(t, uint32(psl1ght.FlipDone), c.GCMGetFlipStatus())
	assert.Equal(t, 0, c.OnScreen())
	_, ok := c.Screenshot()
	assert.True(t, ok)
}

func TestVideoBusy(t *testing.T) {
	c := newConsole(t, Options{BusyPolls: 2, Resolution: psl1ght.VideoResolution576})

	s, err := c.VideoGetState(psl1ght.VideoPrimary, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(psl1ght.VideoStateEnabled), s.State)
	assert.Equal(t, uint8(psl1ght.VideoResolution576), s.DisplayMode.Resolution)

	cfg := psl1ght.VideoConfiguration{
		Resolution: psl1ght.VideoResolution720,
		Format:     psl1ght.VideoBufferFormatXRGB,
		Pitch:      4 * 1280,
	}
	require.NoError(t, c.VideoConfigure(psl1ght.VideoPrimary, &cfg, false))
	for _, expected := range []uint8{psl1ght.VideoStateBusy, psl1ght.VideoStateBusy, psl1ght.VideoStateEnabled} {
		s, err := c.VideoGetState(psl1ght.VideoPrimary, 0)
		require.NoError(t, err)
		assert.Equal(t, expected, s.State)
	}

	cfg.Pitch = 100
	assert.ErrorIs(t, c.VideoConfigure(psl1ght.VideoPrimary, &cfg, true), psl1ght.EINVAL)
	_, err = c.VideoGetResolution(3)
	assert.ErrorIs(t, err, psl1ght.EINVAL)
}
