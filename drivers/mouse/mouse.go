// Package mouse reports the first USB mouse as relative motion, button and
// wheel events.
package mouse

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/drivers/input"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// Mice is the part of the SDK the mouse driver uses.
type Mice interface {
	MouseInit(max uint32) error
	MouseEnd() error
	MouseGetInfo() (psl1ght.MouseInfo, error)
	MouseClearBuf(port uint32) error
	MouseGetDataList(port uint32) ([]psl1ght.MouseData, error)
}

const port = 0

var buttons = [...]struct {
	bit    input.Buttons
	button sdl.MouseButton
}{
	{psl1ght.MouseButtonLeft, sdl.ButtonLeft},
	{psl1ght.MouseButtonRight, sdl.ButtonRight},
	{psl1ght.MouseButtonMiddle, sdl.ButtonMiddle},
}

type Mouse struct {
	mice Mice
	sink sdl.EventSink
	log  zerolog.Logger

	inited  bool
	conn    input.Tracker
	buttons input.Buttons
}

func New(mice Mice, sink sdl.EventSink, log zerolog.Logger) *Mouse {
	return &Mouse{
		mice: mice,
		sink: sink,
		log:  log.With().Str("component", "mouse").Logger(),
	}
}

func (m *Mouse) Init() error {
	if err := m.mice.MouseInit(1); err != nil {
		return fmt.Errorf("mouse init: %w", err)
	}
	m.inited = true
	m.conn = input.Tracker{}
	m.buttons = 0
	return nil
}

// Pump processes every sample queued since the last call, in order.
func (m *Mouse) Pump() {
	if !m.inited {
		return
	}
	info, err := m.mice.MouseGetInfo()
	if err != nil {
		m.log.Warn().Err(err).Msg("mouse info")
		return
	}
	m.conn.Update(info.Status[port] == 1)

	switch {
	case m.conn.Plugged():
		m.log.Debug().Msg("mouse plugged")
		m.buttons = 0
		if err := m.mice.MouseClearBuf(port); err != nil {
			m.log.Warn().Err(err).Msg("mouse clear")
		}
	case m.conn.Unplugged():
		m.log.Debug().Msg("mouse unplugged")
		m.updateButtons(0)
		return
	}
	if !m.conn.Connected() {
		return
	}

	list, err := m.mice.MouseGetDataList(port)
	if err != nil {
		m.log.Debug().Err(err).Msg("mouse data")
		return
	}
	for _, d := range list {
		m.updateButtons(input.Buttons(d.Buttons))
		if d.XAxis != 0 || d.YAxis != 0 {
			m.sink.SendMouseMotion(true, int(d.XAxis), int(d.YAxis))
		}
		if d.Tilt != 0 || d.Wheel != 0 {
			m.sink.SendMouseWheel(int(d.Tilt), int(d.Wheel))
		}
	}
}

func (m *Mouse) updateButtons(cur input.Buttons) {
	changed := cur.Changed(m.buttons)
	for _, b := range buttons {
		if changed&b.bit == 0 {
			continue
		}
		state := sdl.Released
		if cur&b.bit != 0 {
			state = sdl.Pressed
		}
		m.sink.SendMouseButton(state, b.button)
	}
	m.buttons = cur
}

func (m *Mouse) Quit() {
	if !m.inited {
		return
	}
	if err := m.mice.MouseEnd(); err != nil {
		m.log.Warn().Err(err).Msg("mouse end")
	}
	m.inited = false
}
