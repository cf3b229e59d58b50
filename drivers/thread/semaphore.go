package thread

import (
	"errors"
	"fmt"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var _ sdl.Semaphore = (*Semaphore)(nil)

// Semaphore wraps one kernel semaphore. All methods accept a nil receiver
// and report sdl.ErrNilSemaphore.
type Semaphore struct {
	k         Kernel
	id        psl1ght.SemID
	destroyed bool
}

// NewSemaphore creates a priority ordered, process shared semaphore.
func (d *Driver) NewSemaphore(initial uint32) (*Semaphore, error) {
	attr := psl1ght.NewSemAttr(d.opt.Name)
	id, err := d.k.SemCreate(&attr, int32(initial), d.opt.SemMaxCount)
	if err != nil {
		return nil, fmt.Errorf("create semaphore: %w", err)
	}
	return &Semaphore{k: d.k, id: id}, nil
}

// WaitTimeout decrements the count, waiting up to ms milliseconds. 0 tries
// once without blocking and sdl.MutexMaxWait waits forever.
func (s *Semaphore) WaitTimeout(ms uint32) error {
	if s == nil {
		return sdl.ErrNilSemaphore
	}
	var err error
	for {
		switch ms {
		case 0:
			err = s.k.SemTryWait(s.id)
		case sdl.MutexMaxWait:
			err = s.k.SemWait(s.id, 0)
		default:
			err = s.k.SemWait(s.id, uint64(ms)*1000)
		}
		if !errors.Is(err, psl1ght.EINTR) {
			break
		}
	}

	switch {
	case err == nil:
		return nil
	case errors.Is(err, psl1ght.ETIMEDOUT), errors.Is(err, psl1ght.EBUSY):
		return sdl.ErrTimedOut
	default:
		return fmt.Errorf("semaphore wait: %w", err)
	}
}

func (s *Semaphore) TryWait() error { return s.WaitTimeout(0) }

func (s *Semaphore) Wait() error { return s.WaitTimeout(sdl.MutexMaxWait) }

func (s *Semaphore) Post() error {
	if s == nil {
		return sdl.ErrNilSemaphore
	}
	if err := s.k.SemPost(s.id, 1); err != nil {
		return fmt.Errorf("semaphore post: %w", err)
	}
	return nil
}

// Value returns the current count, or 0 when it cannot be read.
func (s *Semaphore) Value() uint32 {
	if s == nil {
		return 0
	}
	v, err := s.k.SemGetValue(s.id)
	if err != nil || v < 0 {
		return 0
	}
	return uint32(v)
}

func (s *Semaphore) Destroy() {
	if s == nil || s.destroyed {
		return
	}
	s.destroyed = true
	s.k.SemDestroy(s.id)
}
