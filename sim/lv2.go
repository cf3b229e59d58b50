package sim

import (
	"runtime"
	"time"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

type semaphore struct {
	count, max int32
	wake       chan struct{} // closed and replaced on every post
}

type thread struct {
	name     string
	joinable bool
	done     chan struct{}
}

type lv2Unit struct {
	sems       map[psl1ght.SemID]*semaphore
	nextSem    psl1ght.SemID
	threads    map[psl1ght.ThreadID]*thread
	nextThread psl1ght.ThreadID
}

func (l *lv2Unit) init() {
	l.sems = make(map[psl1ght.SemID]*semaphore)
	l.threads = make(map[psl1ght.ThreadID]*thread)
	l.nextSem = 0x100
	l.nextThread = 0x1000
}

func (c *Console) SemCreate(attr *psl1ght.SemAttr, initial, max int32) (psl1ght.SemID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("SemCreate"); err != nil {
		return 0, err
	}
	if attr == nil || max <= 0 || initial < 0 || initial > max {
		return 0, psl1ght.EINVAL
	}
	id := c.lv2.nextSem
	c.lv2.nextSem++
	c.lv2.sems[id] = &semaphore{count: initial, max: max, wake: make(chan struct{})}
	c.record("SemCreate(%d, %d) = %d", initial, max, id)
	return id, nil
}

func (c *Console) SemDestroy(id psl1ght.SemID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("SemDestroy(%d)", id)
	s, ok := c.lv2.sems[id]
	if !ok {
		return psl1ght.ESRCH
	}
	delete(c.lv2.sems, id)
	close(s.wake)
	return nil
}

// SemWait decrements the semaphore, blocking up to timeoutUsec. A timeout of
// 0 blocks until the semaphore is posted or destroyed.
func (c *Console) SemWait(id psl1ght.SemID, timeoutUsec uint64) error {
	c.mu.Lock()
	c.record("SemWait(%d, %d)", id, timeoutUsec)
	if err := c.fault("SemWait"); err != nil {
		c.mu.Unlock()
		return err
	}

	var deadline <-chan time.Time
	if timeoutUsec != 0 && !c.opt.ManualClock {
		t := time.NewTimer(time.Duration(timeoutUsec) * time.Microsecond)
		defer t.Stop()
		deadline = t.C
	}
	for {
		s, ok := c.lv2.sems[id]
		if !ok {
			c.mu.Unlock()
			return psl1ght.ESRCH
		}
		if s.count > 0 {
			s.count--
			c.mu.Unlock()
			return nil
		}
		wake := s.wake
		c.mu.Unlock()

		if timeoutUsec != 0 && c.opt.ManualClock {
			// Nobody else can move a manual clock while we sleep,
			// so the wait ends with the timeout.
			c.Usleep(timeoutUsec)
			c.mu.Lock()
			if s, ok := c.lv2.sems[id]; ok && s.count > 0 {
				s.count--
				c.mu.Unlock()
				return nil
			}
			c.mu.Unlock()
			return psl1ght.ETIMEDOUT
		}

		select {
		case <-wake:
		case <-deadline:
			return psl1ght.ETIMEDOUT
		}
		c.mu.Lock()
	}
}

func (c *Console) SemTryWait(id psl1ght.SemID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("SemTryWait(%d)", id)
	if err := c.fault("SemTryWait"); err != nil {
		return err
	}
	s, ok := c.lv2.sems[id]
	if !ok {
		return psl1ght.ESRCH
	}
	if s.count == 0 {
		return psl1ght.EBUSY
	}
	s.count--
	return nil
}

func (c *Console) SemPost(id psl1ght.SemID, count int32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record("SemPost(%d, %d)", id, count)
	if err := c.fault("SemPost"); err != nil {
		return err
	}
	s, ok := c.lv2.sems[id]
	if !ok {
		return psl1ght.ESRCH
	}
	if count <= 0 || s.count+count > s.max {
		return psl1ght.EINVAL
	}
	s.count += count
	close(s.wake)
	s.wake = make(chan struct{})
	return nil
}

func (c *Console) SemGetValue(id psl1ght.SemID) (int32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("SemGetValue"); err != nil {
		return 0, err
	}
	s, ok := c.lv2.sems[id]
	if !ok {
		return 0, psl1ght.ESRCH
	}
	return s.count, nil
}

// ThreadCreate runs entry on a new goroutine locked to its own OS thread.
func (c *Console) ThreadCreate(entry func(), priority int32, stackSize uint64, flags psl1ght.ThreadFlags, name string) (psl1ght.ThreadID, error) {
	c.mu.Lock()
	if err := c.fault("ThreadCreate"); err != nil {
		c.mu.Unlock()
		return 0, err
	}
	c.mu.Unlock()
	if entry == nil || priority < 0 || priority > 3071 || stackSize == 0 {
		return 0, psl1ght.EINVAL
	}

	t := &thread{name: name, joinable: flags&psl1ght.ThreadJoinable != 0, done: make(chan struct{})}
	ids := make(chan psl1ght.ThreadID)
	start := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		// The OS thread exits with the goroutine, so it is never
		// unlocked.
		ids <- c.newThreadID(hostThreadID())
		<-start
		defer close(t.done)
		entry()
	}()
	id := <-ids

	c.mu.Lock()
	c.lv2.threads[id] = t
	c.record("ThreadCreate(%q, %d, %#x) = %d", name, priority, stackSize, id)
	c.mu.Unlock()
	close(start)
	return id, nil
}

func (c *Console) newThreadID(tid uint64) psl1ght.ThreadID {
	if distinctThreadIDs {
		return psl1ght.ThreadID(tid)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lv2.nextThread++
	return c.lv2.nextThread
}

func (c *Console) ThreadJoin(id psl1ght.ThreadID) (uint64, error) {
	c.mu.Lock()
	t, ok := c.lv2.threads[id]
	if !ok {
		c.mu.Unlock()
		return 0, psl1ght.ESRCH
	}
	if !t.joinable {
		c.mu.Unlock()
		return 0, psl1ght.EINVAL
	}
	delete(c.lv2.threads, id)
	c.record("ThreadJoin(%d)", id)
	c.mu.Unlock()

	<-t.done
	return 0, nil
}

// ThreadGetID returns the id of the calling thread. Off Linux it only
// identifies the process.
func (c *Console) ThreadGetID() psl1ght.ThreadID {
	return psl1ght.ThreadID(hostThreadID())
}
