// Package audio plays sound through a console audio port.
//
// A port is a ring of blocks of 256 big-endian float32 frames the hardware
// plays in order. The device hands out the block after the one currently
// playing, so the application always writes ahead of the hardware.
package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/debug"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// NativeFormat is the only sample format audio ports consume.
const NativeFormat = sdl.AudioF32MSB

var (
	ErrCapture = errors.New("audio: capture devices are not supported")
	ErrFormat  = errors.New("audio: no float format available")
	ErrClosed  = errors.New("audio: device closed")
)

// Ports is the part of the SDK the audio driver uses.
type Ports interface {
	AudioInit() error
	AudioQuit() error
	AudioPortOpen(param *psl1ght.AudioPortParam) (uint32, error)
	AudioGetPortConfig(port uint32) (psl1ght.AudioPortConfig, error)
	AudioPortStart(port uint32) error
	AudioPortStop(port uint32) error
	AudioPortClose(port uint32) error
	AudioPortReadIndex(port uint32) uint64

	AudioCreateNotifyEventQueue() (psl1ght.EventQueue, psl1ght.IPCKey, error)
	AudioSetNotifyEventQueue(key psl1ght.IPCKey) error
	AudioRemoveNotifyEventQueue(key psl1ght.IPCKey) error
	EventQueueReceive(q psl1ght.EventQueue, timeoutUsec uint64) error
	EventQueueDestroy(q psl1ght.EventQueue) error

	Usleep(usec uint64)
}

type Options struct {
	Channels int
	Blocks   int
	Level    float32

	// WaitRetries bounds how often Wait sleeps for the hardware to move
	// on.
	WaitRetries  int
	WaitInterval time.Duration

	// EventQueue makes the device sleep on a notify event queue, at most
	// EventTimeout per retry, instead of for WaitInterval.
	EventQueue   bool
	EventTimeout time.Duration

	Logger zerolog.Logger
}

// DefaultOptions returns the port layout and wait bounds of the console
// driver.
func DefaultOptions() Options {
	return Options{
		Channels:     psl1ght.AudioPort2Ch,
		Blocks:       psl1ght.AudioBlock8,
		Level:        1,
		WaitRetries:  5,
		WaitInterval: time.Millisecond,
		EventTimeout: 20 * time.Millisecond,
		Logger:       zerolog.Nop(),
	}
}

// NegotiateFormat walks the formats acceptable in place of f until it
// reaches a float format. Ports only take big-endian floats, so any float
// candidate resolves to NativeFormat.
func NegotiateFormat(f sdl.AudioFormat) (sdl.AudioFormat, error) {
	for _, c := range sdl.FormatCandidates(f) {
		if c.IsFloat() && c.BitSize() == 32 {
			return NativeFormat, nil
		}
	}
	return 0, fmt.Errorf("%w: %#04x", ErrFormat, uint16(f))
}

var _ sdl.AudioDriver = (*Driver)(nil)

// Driver opens audio devices on a port service.
type Driver struct {
	ports Ports
	opt   Options
}

func NewDriver(ports Ports, opt Options) *Driver {
	return &Driver{ports: ports, opt: opt}
}

func (d *Driver) OpenDevice(name string, capture bool, spec *sdl.AudioSpec) (sdl.AudioDevice, error) {
	if capture {
		return nil, ErrCapture
	}
	dev, err := Open(d.ports, spec, d.opt)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

var _ sdl.AudioDevice = (*Device)(nil)

// Device is an open and started audio port.
type Device struct {
	ports Ports
	opt   Options
	log   zerolog.Logger

	inited bool
	opened bool
	start  bool
	port   uint32
	config psl1ght.AudioPortConfig

	queue    psl1ght.EventQueue
	key      psl1ght.IPCKey
	hasQueue bool
	notified bool

	lastFilled uint64
	closed     bool
}

// Open negotiates spec with the hardware and starts a port. On return spec
// holds the format, channel count and buffer size of the device.
func Open(ports Ports, spec *sdl.AudioSpec, opt Options) (dev *Device, err error) {
	format, err := NegotiateFormat(spec.Format)
	if err != nil {
		return nil, err
	}

	d := &Device{
		ports: ports,
		opt:   opt,
		log:   opt.Logger.With().Str("component", "audio").Logger(),
	}
	defer func() {
		if err != nil {
			d.teardown()
		}
	}()

	if err := ports.AudioInit(); err != nil {
		return nil, fmt.Errorf("audio init: %w", err)
	}
	d.inited = true

	param := psl1ght.AudioPortParam{
		NumChannels: uint64(opt.Channels),
		NumBlocks:   uint64(opt.Blocks),
		Level:       opt.Level,
	}
	if d.port, err = ports.AudioPortOpen(&param); err != nil {
		return nil, fmt.Errorf("audio port open: %w", err)
	}
	d.opened = true
	d.log.Debug().Uint32("port", d.port).Msg("port opened")

	if d.config, err = ports.AudioGetPortConfig(d.port); err != nil {
		return nil, fmt.Errorf("audio port config: %w", err)
	}
	d.log.Debug().
		Uint32("status", d.config.Status).
		Uint64("channels", d.config.ChannelCount).
		Uint64("blocks", d.config.NumBlocks).
		Uint32("size", d.config.PortSize).
		Msg("port config")

	if opt.EventQueue {
		if d.queue, d.key, err = ports.AudioCreateNotifyEventQueue(); err != nil {
			return nil, fmt.Errorf("audio event queue: %w", err)
		}
		d.hasQueue = true
		if err = ports.AudioSetNotifyEventQueue(d.key); err != nil {
			return nil, fmt.Errorf("audio event queue: %w", err)
		}
		d.notified = true
	}

	if err = ports.AudioPortStart(d.port); err != nil {
		return nil, fmt.Errorf("audio port start: %w", err)
	}
	d.start = true
	d.lastFilled = 1

	spec.Format = format
	spec.Channels = int(d.config.ChannelCount)
	spec.Samples = psl1ght.AudioBlockSamples
	spec.Size = d.config.BlockSize()
	return d, nil
}

// Spec returns the layout of the buffers handed out by GetBuffer.
func (d *Device) Spec() sdl.AudioSpec {
	return sdl.AudioSpec{
		Format:   NativeFormat,
		Channels: int(d.config.ChannelCount),
		Samples:  psl1ght.AudioBlockSamples,
		Size:     d.config.BlockSize(),
	}
}

func (d *Device) busy() bool {
	return d.ports.AudioPortReadIndex(d.port) == d.lastFilled
}

// sleep waits for the hardware to make progress.
func (d *Device) sleep() {
	if d.hasQueue {
		err := d.ports.EventQueueReceive(d.queue, uint64(d.opt.EventTimeout/time.Microsecond))
		if err != nil && !errors.Is(err, psl1ght.ETIMEDOUT) {
			d.log.Warn().Err(err).Msg("event queue receive")
			d.ports.Usleep(uint64(d.opt.WaitInterval / time.Microsecond))
		}
		return
	}
	d.ports.Usleep(uint64(d.opt.WaitInterval / time.Microsecond))
}

// Wait gives the hardware a bounded amount of time to leave the last filled
// block.
func (d *Device) Wait() {
	for i := d.opt.WaitRetries; i > 0 && d.busy(); i-- {
		d.sleep()
	}
}

// GetBuffer returns the block after the one the hardware is playing.
func (d *Device) GetBuffer() []byte {
	playing := d.ports.AudioPortReadIndex(d.port)
	filling := (playing + 1) % d.config.NumBlocks
	d.lastFilled = filling
	size := d.config.BlockSize()
	debug.Assertf(len(d.config.Data) >= int(d.config.NumBlocks)*size, "audio: port ring of %d bytes", len(d.config.Data))
	return d.config.Data[int(filling)*size:][:size]
}

// Play blocks until the hardware is no longer playing the last filled block.
func (d *Device) Play() {
	for d.busy() {
		d.sleep()
	}
}

// PlayContext is like Play but gives up when ctx is done.
func (d *Device) PlayContext(ctx context.Context) error {
	for d.busy() {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.sleep()
	}
	return nil
}

// Close stops the port and releases everything Open acquired. Closing twice
// or closing a nil device is a no-op.
func (d *Device) Close() error {
	if d == nil || d.closed {
		return nil
	}
	d.closed = true
	return d.teardown()
}

func (d *Device) teardown() error {
	var errs []error
	if d.start {
		errs = append(errs, d.ports.AudioPortStop(d.port))
		d.start = false
	}
	if d.opened {
		errs = append(errs, d.ports.AudioPortClose(d.port))
		d.opened = false
	}
	if d.notified {
		errs = append(errs, d.ports.AudioRemoveNotifyEventQueue(d.key))
		d.notified = false
	}
	if d.hasQueue {
		errs = append(errs, d.ports.EventQueueDestroy(d.queue))
		d.hasQueue = false
	}
	if d.inited {
		errs = append(errs, d.ports.AudioQuit())
		d.inited = false
	}
	return errors.Join(errs...)
}

// PutSamples encodes s as big-endian float32 into dst and returns the number
// of bytes written.
func PutSamples(dst []byte, s []float32) int {
	n := min(len(dst)/4, len(s))
	for i := range n {
		binary.BigEndian.PutUint32(dst[4*i:], math.Float32bits(s[i]))
	}
	return 4 * n
}
