package drivers_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/config"
	"github.com/ps3dev/psl1ght-sdl/drivers"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

var _ drivers.SDK = (*sim.Console)(nil)

func newPlatform(t *testing.T, con *sim.Console, cfg *config.Config) (*drivers.Platform, *ps3testing.Recorder) {
	rec := &ps3testing.Recorder{}
	p := drivers.New(con, cfg, drivers.Sinks{Events: rec, Joystick: rec}, ps3testing.NewLogger(t))
	return p, rec
}

func TestPlatform(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{Resolution: psl1ght.VideoResolution1080})
	con.ConnectPad(0)
	cfg := config.Default()
	cfg.Render.Buffers = 3
	p, rec := newPlatform(t, con, cfg)

	require.NoError(t, p.Init(nil))
	defer p.Quit()

	assert.Equal(t, 1920, p.Video.DesktopMode().W)
	assert.Equal(t, 1, p.Joystick.NumJoysticks())
	name, err := p.Joystick.Name(0)
	require.NoError(t, err)
	assert.Equal(t, "PAD00", name)

	r, err := p.Video.CreateRenderer()
	require.NoError(t, err)
	defer r.Destroy()
	assert.Equal(t, 1, r.BackIndex())

	spec := sdl.AudioSpec{Freq: 48000, Format: sdl.AudioS16LSB, Channels: 2}
	dev, err := p.Audio.OpenDevice("", false, &spec)
	require.NoError(t, err)
	defer dev.Close()
	assert.Equal(t, sdl.AudioF32MSB, spec.Format)

	sem, err := p.Threads.NewSemaphore(1)
	require.NoError(t, err)
	defer sem.Destroy()
	assert.NoError(t, sem.TryWait())

	con.PostSysutilEvent(psl1ght.SysutilExitGame, 0)
	p.Video.PumpEvents()
	assert.Equal(t, []string{"quit"}, rec.Events())

	start := p.Timer.GetTicks()
	p.Timer.Delay(30)
	assert.Equal(t, uint32(30), p.Timer.GetTicks()-start)
}

func TestPlatformTimer(t *testing.T) {
	con := sim.New(sim.Options{Logger: ps3testing.NewLogger(t)})
	cfg := config.Default()
	cfg.Timer.CheckInterval = time.Millisecond
	p, _ := newPlatform(t, con, cfg)

	var checks atomic.Int32
	require.NoError(t, p.Init(func() { checks.Add(1) }))
	p.Timer.SetRunning(true)
	assert.Eventually(t, func() bool { return checks.Load() > 0 }, time.Second, time.Millisecond)
	p.Quit()
}

func TestPlatformInitFailure(t *testing.T) {
	t.Run("no video driver", func(t *testing.T) {
		con := ps3testing.NewConsole(t, sim.Options{})
		cfg := config.Default()
		cfg.Video.Driver = "dummy"
		p, _ := newPlatform(t, con, cfg)
		assert.ErrorIs(t, p.Init(nil), drivers.ErrNoVideo)
	})
	t.Run("pads", func(t *testing.T) {
		con := ps3testing.NewConsole(t, sim.Options{})
		con.InjectErrors("PadInit", psl1ght.EINVAL)
		p, _ := newPlatform(t, con, config.Default())
		assert.ErrorIs(t, p.Init(nil), psl1ght.EINVAL)

		// Video was shut down again, so it can be brought up anew.
		require.NoError(t, p.Init(nil))
		p.Quit()
	})
}
