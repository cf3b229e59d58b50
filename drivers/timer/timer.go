// Package timer provides ticks, delays and the performance counter on the
// kernel's microsecond clock, and runs the host's timer callbacks on a
// dedicated thread.
package timer

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var ErrThreaded = errors.New("Internal logic error: psl1ght uses threaded timer")

// Clock is the part of the SDK the timer uses.
type Clock interface {
	SystemTime() uint64
	Usleep(usec uint64)
}

type Options struct {
	// CheckInterval is the sleep between two timer checks.
	CheckInterval time.Duration
	Logger        zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		CheckInterval: 10 * time.Millisecond,
		Logger:        zerolog.Nop(),
	}
}

var _ sdl.TimerDriver = (*Timer)(nil)

type Timer struct {
	clk     Clock
	threads sdl.ThreadDriver
	opt     Options
	log     zerolog.Logger

	start uint64

	alive   atomic.Bool
	running atomic.Bool
	thread  sdl.Thread
}

// New returns a timer running its check thread on threads.
func New(clk Clock, threads sdl.ThreadDriver, opt Options) *Timer {
	return &Timer{
		clk:     clk,
		threads: threads,
		opt:     opt,
		log:     opt.Logger.With().Str("component", "timer").Logger(),
	}
}

func (t *Timer) StartTicks() {
	t.start = t.clk.SystemTime()
}

// GetTicks returns the milliseconds since StartTicks.
func (t *Timer) GetTicks() uint32 {
	return uint32((t.clk.SystemTime() - t.start) / 1000)
}

func (t *Timer) Delay(ms uint32) {
	t.clk.Usleep(uint64(ms) * 1000)
}

func (t *Timer) PerformanceCounter() uint64 {
	return t.clk.SystemTime()
}

func (t *Timer) PerformanceFrequency() uint64 {
	return 1000000
}

// Init starts the timer thread. While the timer is running the thread calls
// check every CheckInterval.
func (t *Timer) Init(check func()) error {
	t.alive.Store(true)
	th, err := t.threads.CreateThread(func() int {
		for t.alive.Load() {
			if t.running.Load() {
				check()
			}
			t.clk.Usleep(uint64(t.opt.CheckInterval.Microseconds()))
		}
		return 0
	})
	if err != nil {
		t.alive.Store(false)
		return fmt.Errorf("timer thread: %w", err)
	}
	t.thread = th
	t.log.Debug().Dur("interval", t.opt.CheckInterval).Msg("timer thread started")
	return nil
}

// SetRunning starts or pauses the checks of the timer thread.
func (t *Timer) SetRunning(running bool) {
	t.running.Store(running)
}

// Quit stops the timer thread and waits for it to exit.
func (t *Timer) Quit() {
	t.alive.Store(false)
	if t.thread != nil {
		t.threads.WaitThread(t.thread)
		t.thread = nil
	}
}

// StartTimer always fails, timers are driven by the timer thread.
func (t *Timer) StartTimer() error {
	return ErrThreaded
}

func (t *Timer) StopTimer() {}
