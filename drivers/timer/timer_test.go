package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/drivers/thread"
	"github.com/ps3dev/psl1ght-sdl/drivers/timer"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

func newTimer(t *testing.T, con *sim.Console) *timer.Timer {
	log := ps3testing.NewLogger(t)
	topt := thread.DefaultOptions()
	topt.Logger = log
	opt := timer.DefaultOptions()
	opt.CheckInterval = time.Millisecond
	opt.Logger = log
	return timer.New(con, thread.New(con, topt), opt)
}

func TestTicks(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	con.Advance(time.Hour)
	tm := newTimer(t, con)

	tm.StartTicks()
	assert.Equal(t, uint32(0), tm.GetTicks())

	tests := []struct {
		advance  time.Duration
		expected uint32
	}{
		{999 * time.Microsecond, 0},
		{time.Microsecond, 1},
		{1500 * time.Microsecond, 2},
		{10 * time.Second, 10002},
	}
	for _, tt := range tests {
		con.Advance(tt.advance)
		if got := tm.GetTicks(); got != tt.expected {
			t.Fatalf("expected %v, got %v", tt.expected, got)
		}
	}
}

func TestDelay(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	tm := newTimer(t, con)

	c0 := tm.PerformanceCounter()
	tm.Delay(25)
	assert.Equal(t, uint64(25000), tm.PerformanceCounter()-c0)
	assert.Equal(t, uint64(1000000), tm.PerformanceFrequency())
}

func TestStartTimer(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	tm := newTimer(t, con)
	assert.EqualError(t, tm.StartTimer(), "Internal logic error: psl1ght uses threaded timer")
	tm.StopTimer()
}

func TestThreadedTimer(t *testing.T) {
	con := sim.New(sim.Options{Logger: ps3testing.NewLogger(t)})
	tm := newTimer(t, con)

	var checks atomic.Int32
	require.NoError(t, tm.Init(func() { checks.Add(1) }))

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, checks.Load(), "checks while stopped")

	tm.SetRunning(true)
	assert.Eventually(t, func() bool { return checks.Load() >= 3 }, time.Second, time.Millisecond)

	tm.Quit()
	n := checks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, n, checks.Load(), "checks after quit")

	// Quit twice is harmless.
	tm.Quit()
}

func TestInitFailure(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	tm := newTimer(t, con)

	con.InjectErrors("ThreadCreate", psl1ght.EAGAIN)
	err := tm.Init(func() {})
	assert.ErrorIs(t, err, thread.ErrThreadResources)
	tm.Quit()
}
