// Package sim is a software model of the console SDK. A Console implements
// the same methods as psl1ght.System, so every driver can run against it on
// a development host and in tests.
//
// The model covers the observable contract of the SDK calls: result codes,
// flip status, audio read indices, device connection state and queued input.
// Nothing is rendered by a GPU; transfers are done on the CPU with x/image.
package sim

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

type Options struct {
	Logger zerolog.Logger

	// ManualClock freezes the kernel clock. It then only advances with
	// Advance and Usleep, which return immediately.
	ManualClock bool

	// VRAMSize is the size of the memory arena served by RSXMemalign.
	VRAMSize int

	// Resolution is the video resolution id reported by VideoGetState.
	Resolution uint8

	// FlipLatency is the number of flip status polls it takes a submitted
	// flip to complete.
	FlipLatency int

	// BusyPolls is the number of VideoGetState calls reporting the busy
	// state after VideoConfigure.
	BusyPolls int

	// SampleRate at which audio ports consume blocks.
	SampleRate int

	// AudioCapture receives everything played on the first opened audio
	// port as a 16-bit WAV stream.
	AudioCapture io.WriteSeeker
}

func (o *Options) setDefaults() {
	if o.VRAMSize == 0 {
		o.VRAMSize = 64 << 20
	}
	if o.Resolution == 0 {
		o.Resolution = psl1ght.VideoResolution720
	}
	if o.FlipLatency == 0 {
		o.FlipLatency = 1
	}
	if o.SampleRate == 0 {
		o.SampleRate = 48000
	}
}

// Console is a simulated console. It is safe for concurrent use.
type Console struct {
	mu  sync.Mutex
	opt Options
	log zerolog.Logger

	start time.Time
	now   uint64 // manual clock, µs

	mem   arena
	gpu   gpu
	audio audioUnit
	pads  padUnit
	kbs   kbUnit
	mice  mouseUnit
	video videoUnit
	util  sysutilUnit
	lv2   lv2Unit

	calls  []string
	faults map[string][]error
}

func New(opt Options) *Console {
	opt.setDefaults()
	c := &Console{
		opt:   opt,
		log:   opt.Logger.With().Str("component", "sim").Logger(),
		start: time.Now(),
	}
	c.mem.init(opt.VRAMSize)
	c.gpu.init()
	c.audio.init()
	c.video.init(opt.Resolution)
	c.lv2.init()
	return c
}

// record appends a call to the call log. Callers hold c.mu.
func (c *Console) record(format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	c.calls = append(c.calls, call)
	c.log.Trace().Msg(call)
}

// InjectErrors makes the next len(errs) calls of the named SDK method
// return errs in order. A nil entry lets that call proceed normally.
func (c *Console) InjectErrors(method string, errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.faults == nil {
		c.faults = make(map[string][]error)
	}
	c.faults[method] = append(c.faults[method], errs...)
}

// fault pops the next injected result for method. Callers hold c.mu.
func (c *Console) fault(method string) error {
	errs := c.faults[method]
	if len(errs) == 0 {
		return nil
	}
	c.faults[method] = errs[1:]
	return errs[0]
}

// Calls returns the recorded SDK calls that have side effects on the GPU,
// semaphores and threads, in order.
func (c *Console) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *Console) ResetCalls() {
	c.mu.Lock()
	c.calls = nil
	c.mu.Unlock()
}

// SystemTime returns the kernel clock in microseconds.
func (c *Console) SystemTime() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock()
}

func (c *Console) clock() uint64 {
	if c.opt.ManualClock {
		return c.now
	}
	return hostMicros()
}

func (c *Console) Usleep(usec uint64) {
	if c.opt.ManualClock {
		c.Advance(time.Duration(usec) * time.Microsecond)
		return
	}
	hostSleep(time.Duration(usec) * time.Microsecond)
}

// Advance moves the manual clock forward and lets the simulated hardware
// catch up. It has no effect on a real-time clock.
func (c *Console) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opt.ManualClock {
		return
	}
	c.now += uint64(d / time.Microsecond)
	c.audioTick()
}
