package mouse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/drivers/mouse"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

func TestPump(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	rec := &ps3testing.Recorder{}
	m := mouse.New(con, rec, ps3testing.NewLogger(t))
	require.NoError(t, m.Init())
	defer m.Quit()

	steps := []struct {
		name     string
		script   func()
		expected []string
	}{
		{"stale samples", func() {
			con.ConnectMouse(0)
			con.QueueMouse(0, psl1ght.MouseData{Buttons: 1})
		}, nil},
		{"samples in order", func() {
			con.QueueMouse(0,
				psl1ght.MouseData{Buttons: 1, XAxis: 3, YAxis: -2},
				psl1ght.MouseData{Buttons: 1 | 4, Wheel: 1},
				psl1ght.MouseData{},
			)
		}, []string{
			"mouse button 1 pressed",
			"mouse motion rel 3 -2",
			"mouse button 2 pressed",
			"mouse wheel 0 1",
			"mouse button 1 released",
			"mouse button 2 released",
		}},
		{"nothing queued", func() {}, nil},
		{"zero sample", func() { con.QueueMouse(0, psl1ght.MouseData{}) }, nil},
		{"right", func() { con.QueueMouse(0, psl1ght.MouseData{Buttons: 2, Tilt: -1}) }, []string{
			"mouse button 3 pressed",
			"mouse wheel -1 0",
		}},
		{"disconnect", func() { con.DisconnectMouse(0) }, []string{
			"mouse button 3 released",
		}},
		{"disconnected", func() {}, nil},
	}
	for _, step := range steps {
		step.script()
		m.Pump()
		assert.Equal(t, step.expected, rec.Events(), step.name)
	}
}
