// Package sdl describes the driver contract of the host multimedia library:
// the operations a platform backend has to provide for audio, video,
// rendering, input, threads and timers, and the event sinks a backend reports
// to.
//
// Nothing in here talks to hardware. Backends live in the drivers packages.
package sdl

import "errors"

var (
	ErrTimedOut      = errors.New("sdl: timed out")
	ErrOutOfMemory   = errors.New("sdl: out of memory")
	ErrNilSemaphore  = errors.New("Passed a NULL semaphore")
	ErrUnsupported   = errors.New("sdl: unsupported")
	ErrInvalidIndex  = errors.New("No joystick available with that index")
	ErrUnknownFormat = errors.New("Unknown display format")
)

// MutexMaxWait is the timeout value that makes a wait block forever.
const MutexMaxWait = ^uint32(0)

type ButtonState uint8

const (
	Released ButtonState = iota
	Pressed
)

func (s ButtonState) String() string {
	if s == Pressed {
		return "pressed"
	}
	return "released"
}

// EventSink receives keyboard, mouse and application events from a backend.
type EventSink interface {
	SendKeyboardKey(state ButtonState, code Scancode)
	SendMouseButton(state ButtonState, button MouseButton)
	SendMouseMotion(relative bool, x, y int)
	SendMouseWheel(x, y int)
	SendQuit()
}

// JoystickSink receives joystick state changes. index identifies the opened
// joystick.
type JoystickSink interface {
	JoystickAxis(index, axis int, value int16)
	JoystickButton(index, button int, state ButtonState)
}

type MouseButton uint8

const (
	ButtonLeft MouseButton = iota + 1
	ButtonMiddle
	ButtonRight
)
