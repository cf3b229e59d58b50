// Package thread implements threads and counting semaphores on kernel
// threads and kernel semaphores.
package thread

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var ErrThreadResources = errors.New("Not enough resources to create thread")

// Kernel is the part of the SDK the thread driver uses.
type Kernel interface {
	SemCreate(attr *psl1ght.SemAttr, initial, max int32) (psl1ght.SemID, error)
	SemDestroy(id psl1ght.SemID) error
	SemWait(id psl1ght.SemID, timeoutUsec uint64) error
	SemTryWait(id psl1ght.SemID) error
	SemPost(id psl1ght.SemID, count int32) error
	SemGetValue(id psl1ght.SemID) (int32, error)

	ThreadCreate(entry func(), priority int32, stackSize uint64, flags psl1ght.ThreadFlags, name string) (psl1ght.ThreadID, error)
	ThreadJoin(id psl1ght.ThreadID) (uint64, error)
	ThreadGetID() psl1ght.ThreadID
}

type Options struct {
	StackSize   uint64
	Priority    int32
	Name        string
	SemMaxCount int32
	Logger      zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		StackSize:   0x4000,
		Priority:    1500,
		Name:        "SDL",
		SemMaxCount: 32768,
		Logger:      zerolog.Nop(),
	}
}

var _ sdl.ThreadDriver = (*Driver)(nil)

type Driver struct {
	k   Kernel
	opt Options
	log zerolog.Logger
}

func New(k Kernel, opt Options) *Driver {
	return &Driver{
		k:   k,
		opt: opt,
		log: opt.Logger.With().Str("component", "thread").Logger(),
	}
}

type Thread struct {
	id     psl1ght.ThreadID
	status int
}

func (t *Thread) ID() sdl.ThreadID { return sdl.ThreadID(t.id) }

// CreateThread runs fn on a new joinable kernel thread.
func (d *Driver) CreateThread(fn func() int) (sdl.Thread, error) {
	t := &Thread{}
	id, err := d.k.ThreadCreate(func() {
		t.status = fn()
	}, d.opt.Priority, d.opt.StackSize, psl1ght.ThreadJoinable, d.opt.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrThreadResources, err)
	}
	t.id = id
	d.log.Debug().Uint64("id", uint64(id)).Msg("thread created")
	return t, nil
}

func (d *Driver) ThreadID() sdl.ThreadID {
	return sdl.ThreadID(d.k.ThreadGetID())
}

// WaitThread joins t and returns the status fn returned. It returns -1 for
// threads it did not create.
func (d *Driver) WaitThread(t sdl.Thread) int {
	th, ok := t.(*Thread)
	if !ok || th == nil {
		return -1
	}
	if _, err := d.k.ThreadJoin(th.id); err != nil {
		d.log.Error().Err(err).Uint64("id", uint64(th.id)).Msg("thread join")
		return -1
	}
	return th.status
}

// The kernel has no POSIX signals. The list documents what the host library
// expects to be blocked on its threads.
var maskedSignals = []string{
	"SIGHUP", "SIGINT", "SIGQUIT", "SIGPIPE", "SIGALRM",
	"SIGTERM", "SIGCHLD", "SIGWINCH", "SIGVTALRM", "SIGPROF",
}

func (d *Driver) MaskSignals() {
	d.log.Trace().Strs("signals", maskedSignals).Msg("mask signals")
}

func (d *Driver) UnmaskSignals() {
	d.log.Trace().Strs("signals", maskedSignals).Msg("unmask signals")
}
