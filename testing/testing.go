// Package testing provides helpers for driver tests: a sim console with a
// manual clock, a logger writing to the test log and a recorder for the
// events drivers report.
package testing

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/sdl"
	"github.com/ps3dev/psl1ght-sdl/sim"
)

// NewLogger returns a logger that writes to t's log at debug level.
func NewLogger(t testing.TB) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
}

// NewConsole returns a sim console with a manual clock, logging to t.
func NewConsole(t testing.TB, opt sim.Options) *sim.Console {
	opt.ManualClock = true
	opt.Logger = NewLogger(t)
	return sim.New(opt)
}

var (
	_ sdl.EventSink    = (*Recorder)(nil)
	_ sdl.JoystickSink = (*Recorder)(nil)
)

// Recorder collects the events sent to it as strings, in order.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *Recorder) add(format string, args ...any) {
	r.mu.Lock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

func (r *Recorder) SendKeyboardKey(state sdl.ButtonState, code sdl.Scancode) {
	r.add("key %d %s", code, state)
}

func (r *Recorder) SendMouseButton(state sdl.ButtonState, button sdl.MouseButton) {
	r.add("mouse button %d %s", button, state)
}

func (r *Recorder) SendMouseMotion(relative bool, x, y int) {
	if relative {
		r.add("mouse motion rel %d %d", x, y)
		return
	}
	r.add("mouse motion %d %d", x, y)
}

func (r *Recorder) SendMouseWheel(x, y int) {
	r.add("mouse wheel %d %d", x, y)
}

func (r *Recorder) SendQuit() {
	r.add("quit")
}

func (r *Recorder) JoystickAxis(index, axis int, value int16) {
	r.add("joy%d axis %d %d", index, axis, value)
}

func (r *Recorder) JoystickButton(index, button int, state sdl.ButtonState) {
	r.add("joy%d button %d %s", index, button, state)
}

// Events returns the events recorded since the last call and clears them.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev := r.events
	r.events = nil
	return ev
}
