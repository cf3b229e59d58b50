package thread_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/drivers/thread"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

func newDriver(t *testing.T, con *sim.Console) *thread.Driver {
	opt := thread.DefaultOptions()
	opt.Logger = ps3testing.NewLogger(t)
	return thread.New(con, opt)
}

func newSemaphore(t *testing.T, d *thread.Driver, initial uint32) *thread.Semaphore {
	s, err := d.NewSemaphore(initial)
	require.NoError(t, err)
	t.Cleanup(s.Destroy)
	return s
}

func TestWaitTimeout(t *testing.T) {
	tests := map[string]struct {
		initial  uint32
		faults   []error
		ms       uint32
		expected error
		calls    []string
		elapsed  uint64
	}{
		"try empty": {
			ms: 0, expected: sdl.ErrTimedOut,
			calls: []string{"SemTryWait(256)"},
		},
		"try": {
			initial: 1, ms: 0,
			calls: []string{"SemTryWait(256)"},
		},
		"forever": {
			initial: 1, ms: sdl.MutexMaxWait,
			calls: []string{"SemWait(256, 0)"},
		},
		"timeout": {
			ms: 5, expected: sdl.ErrTimedOut,
			calls:   []string{"SemWait(256, 5000)"},
			elapsed: 5000,
		},
		"timed": {
			initial: 2, ms: 250,
			calls: []string{"SemWait(256, 250000)"},
		},
		"interrupted": {
			initial: 1, ms: sdl.MutexMaxWait,
			faults: []error{psl1ght.EINTR, psl1ght.EINTR},
			calls:  []string{"SemWait(256, 0)", "SemWait(256, 0)", "SemWait(256, 0)"},
		},
		"interrupted timed": {
			ms: 3, expected: sdl.ErrTimedOut,
			faults:  []error{psl1ght.EINTR},
			calls:   []string{"SemWait(256, 3000)", "SemWait(256, 3000)"},
			elapsed: 3000,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			con := ps3testing.NewConsole(t, sim.Options{})
			s := newSemaphore(t, newDriver(t, con), tt.initial)
			con.InjectErrors("SemWait", tt.faults...)
			con.ResetCalls()

			start := con.SystemTime()
			err := s.WaitTimeout(tt.ms)
			if err != tt.expected {
				t.Fatalf("expected %v, got %v", tt.expected, err)
			}
			assert.Equal(t, tt.calls, con.Calls())
			assert.Equal(t, tt.elapsed, con.SystemTime()-start)
		})
	}
}

func TestWaitError(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	s := newSemaphore(t, newDriver(t, con), 1)

	con.InjectErrors("SemWait", psl1ght.EINVAL)
	err := s.Wait()
	assert.ErrorIs(t, err, psl1ght.EINVAL)
	assert.NotErrorIs(t, err, sdl.ErrTimedOut)

	// The count is untouched by the failed wait.
	assert.Equal(t, uint32(1), s.Value())
}

func TestPostValue(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	s := newSemaphore(t, newDriver(t, con), 0)

	assert.Equal(t, uint32(0), s.Value())
	require.NoError(t, s.Post())
	require.NoError(t, s.Post())
	assert.Equal(t, uint32(2), s.Value())
	require.NoError(t, s.TryWait())
	assert.Equal(t, uint32(1), s.Value())

	con.InjectErrors("SemGetValue", psl1ght.ESRCH)
	assert.Equal(t, uint32(0), s.Value())

	con.InjectErrors("SemPost", psl1ght.EINVAL)
	assert.ErrorIs(t, s.Post(), psl1ght.EINVAL)
}

func TestNilSemaphore(t *testing.T) {
	var s *thread.Semaphore
	assert.ErrorIs(t, s.WaitTimeout(10), sdl.ErrNilSemaphore)
	assert.ErrorIs(t, s.TryWait(), sdl.ErrNilSemaphore)
	assert.ErrorIs(t, s.Wait(), sdl.ErrNilSemaphore)
	assert.ErrorIs(t, s.Post(), sdl.ErrNilSemaphore)
	assert.EqualError(t, s.Post(), "Passed a NULL semaphore")
	assert.Zero(t, s.Value())
	s.Destroy()
}

func TestDestroyOnce(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	d := newDriver(t, con)
	s, err := d.NewSemaphore(1)
	require.NoError(t, err)

	s.Destroy()
	s.Destroy()
	n := 0
	for _, c := range con.Calls() {
		if c == "SemDestroy(256)" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected %v, got %v", 1, n)
	}
}

func TestNewSemaphore(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	d := newDriver(t, con)

	s := newSemaphore(t, d, 3)
	assert.Equal(t, uint32(3), s.Value())
	assert.Contains(t, con.Calls(), "SemCreate(3, 32768) = 256")

	con.InjectErrors("SemCreate", psl1ght.ENOMEM)
	_, err := d.NewSemaphore(0)
	assert.ErrorIs(t, err, psl1ght.ENOMEM)
}

func TestThreads(t *testing.T) {
	con := sim.New(sim.Options{Logger: ps3testing.NewLogger(t)})
	d := newDriver(t, con)
	sem := newSemaphore(t, d, 0)

	th, err := d.CreateThread(func() int {
		time.Sleep(10 * time.Millisecond)
		if err := sem.Post(); err != nil {
			return 1
		}
		return 42
	})
	require.NoError(t, err)
	assert.NotZero(t, th.ID())
	assert.Contains(t, con.Calls(), fmt.Sprintf("ThreadCreate(%q, %d, %#x) = %d", "SDL", 1500, 0x4000, th.ID()))

	require.NoError(t, sem.Wait())
	assert.Equal(t, 42, d.WaitThread(th))

	// Joined threads are gone.
	assert.Equal(t, -1, d.WaitThread(th))
}

func TestCreateThreadFailure(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	d := newDriver(t, con)

	con.InjectErrors("ThreadCreate", psl1ght.EAGAIN)
	_, err := d.CreateThread(func() int { return 0 })
	assert.ErrorIs(t, err, thread.ErrThreadResources)
	assert.ErrorIs(t, err, psl1ght.EAGAIN)
	assert.ErrorContains(t, err, "Not enough resources to create thread")
}

func TestMaskSignals(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	d := newDriver(t, con)
	d.MaskSignals()
	d.UnmaskSignals()
	assert.Empty(t, con.Calls())
}
