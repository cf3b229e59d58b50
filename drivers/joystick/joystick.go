// Package joystick exposes the console's pads as joysticks with four axes
// and sixteen buttons.
package joystick

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/drivers/input"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var ErrNotInitialized = errors.New("joystick: subsystem not initialized")

// Pads is the part of the SDK the joystick driver uses.
type Pads interface {
	PadInit(max uint32) error
	PadEnd() error
	PadClearBuf(port uint32) error
	PadGetInfo() (psl1ght.PadInfo, error)
	PadGetData(port uint32) (psl1ght.PadData, error)
}

const (
	NumAxes    = 4
	NumButtons = 16
)

// Axis indices.
const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY
)

// Button indices, in the order they are reported.
const (
	ButtonLeft = iota
	ButtonDown
	ButtonRight
	ButtonUp
	ButtonStart
	ButtonR3
	ButtonL3
	ButtonSelect
	ButtonSquare
	ButtonCross
	ButtonCircle
	ButtonTriangle
	ButtonR1
	ButtonL1
	ButtonR2
	ButtonL2
)

// AxisValue scales a raw stick byte to the full int16 range. The centered
// value 0x80 maps to 128.
func AxisValue(v uint8) int16 {
	return int16(((int(v) - psl1ght.AnalogCenter) << 8) | int(v))
}

// buttonSet reorders the pad's button word so that bit i is button i.
func buttonSet(b psl1ght.PadButtons) input.Buttons {
	return input.Buttons(bits.Reverse16(uint16(b)))
}

func axes(d *psl1ght.PadData) [NumAxes]uint8 {
	return [NumAxes]uint8{
		uint8(d.LeftH), uint8(d.LeftV), uint8(d.RightH), uint8(d.RightV),
	}
}

type Options struct {
	MaxPads int
	Logger  zerolog.Logger
}

var _ sdl.JoystickDriver = (*Subsystem)(nil)

// Subsystem is the joystick driver. It owns the pad service between Init and
// Quit.
type Subsystem struct {
	pads Pads
	sink sdl.JoystickSink
	max  int
	log  zerolog.Logger

	inited bool
	count  int
	names  [psl1ght.MaxPads]string
}

func New(pads Pads, sink sdl.JoystickSink, opt Options) *Subsystem {
	if opt.MaxPads <= 0 || opt.MaxPads > psl1ght.MaxPads {
		opt.MaxPads = psl1ght.MaxPads
	}
	return &Subsystem{
		pads: pads,
		sink: sink,
		max:  opt.MaxPads,
		log:  opt.Logger.With().Str("component", "joystick").Logger(),
	}
}

// Init starts the pad service and returns the number of connected pads.
func (s *Subsystem) Init() (int, error) {
	if err := s.pads.PadInit(uint32(s.max)); err != nil {
		return 0, fmt.Errorf("couldn't initialize pads: %w", err)
	}
	info, err := s.pads.PadGetInfo()
	if err != nil {
		s.pads.PadEnd()
		return 0, fmt.Errorf("couldn't get pad information: %w", err)
	}
	s.inited = true
	s.count = int(info.Connected)
	s.names = [psl1ght.MaxPads]string{}
	for i := 0; i < s.count && i < psl1ght.MaxPads; i++ {
		if info.Status[i] != 0 {
			s.names[i] = fmt.Sprintf("PAD%02X", i)
		}
	}
	s.log.Debug().Int("count", s.count).Msg("pads initialized")
	return s.count, nil
}

func (s *Subsystem) NumJoysticks() int {
	return s.count
}

func (s *Subsystem) Name(index int) (string, error) {
	if index < 0 || index >= s.count {
		return "", sdl.ErrInvalidIndex
	}
	return s.names[index], nil
}

func (s *Subsystem) Open(index int) (sdl.Joystick, error) {
	if !s.inited {
		return nil, ErrNotInitialized
	}
	if index < 0 || index >= s.count {
		return nil, sdl.ErrInvalidIndex
	}
	j := &Joystick{
		sys:   s,
		index: index,
		port:  uint32(index),
	}
	j.reset()
	return j, nil
}

func (s *Subsystem) Quit() {
	if !s.inited {
		return
	}
	if err := s.pads.PadEnd(); err != nil {
		s.log.Warn().Err(err).Msg("pad end")
	}
	s.inited = false
	s.count = 0
}

var _ sdl.Joystick = (*Joystick)(nil)

// Joystick is one opened pad. It remembers the last reported state so that
// Update only reports changes.
type Joystick struct {
	sys   *Subsystem
	index int
	port  uint32

	conn    input.Tracker
	buttons input.Buttons
	axes    [NumAxes]uint8
}

func (j *Joystick) Caps() sdl.JoystickCaps {
	return sdl.JoystickCaps{Axes: NumAxes, Buttons: NumButtons}
}

func (j *Joystick) Index() int {
	return j.index
}

func (j *Joystick) reset() {
	j.buttons = 0
	for i := range j.axes {
		j.axes[i] = psl1ght.AnalogCenter
	}
}

// Update polls the pad and reports every changed axis and button.
func (j *Joystick) Update() {
	if !j.sys.inited {
		return
	}
	info, err := j.sys.pads.PadGetInfo()
	if err != nil {
		j.sys.log.Warn().Err(err).Msg("pad info")
		return
	}
	j.conn.Update(info.Status[j.port] != 0)

	switch {
	case j.conn.Plugged():
		j.sys.log.Debug().Int("index", j.index).Msg("pad plugged")
		if err := j.sys.pads.PadClearBuf(j.port); err != nil {
			j.sys.log.Warn().Err(err).Msg("pad clear")
		}
		j.reset()
	case j.conn.Unplugged():
		j.sys.log.Debug().Int("index", j.index).Msg("pad unplugged")
		neutral := psl1ght.NeutralPad()
		j.report(&neutral)
		j.reset()
		return
	}
	if !j.conn.Connected() {
		return
	}

	d, err := j.sys.pads.PadGetData(j.port)
	if err != nil {
		j.sys.log.Debug().Err(err).Int("index", j.index).Msg(sdl.ErrInvalidIndex.Error())
		return
	}
	if d.Len == 0 {
		return
	}
	j.report(&d)
}

// report sends the difference between d and the last reported state.
func (j *Joystick) report(d *psl1ght.PadData) {
	sink := j.sys.sink
	for i, v := range axes(d) {
		if v != j.axes[i] {
			sink.JoystickAxis(j.index, i, AxisValue(v))
			j.axes[i] = v
		}
	}
	cur := buttonSet(d.Buttons)
	cur.Released(j.buttons).Each(func(b int) {
		sink.JoystickButton(j.index, b, sdl.Released)
	})
	cur.Pressed(j.buttons).Each(func(b int) {
		sink.JoystickButton(j.index, b, sdl.Pressed)
	})
	j.buttons = cur
}

func (j *Joystick) Close() {}
