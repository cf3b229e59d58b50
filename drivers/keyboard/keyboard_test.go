package keyboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/drivers/keyboard"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

func TestPump(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	rec := &ps3testing.Recorder{}
	kb := keyboard.New(con, rec, ps3testing.NewLogger(t))
	require.NoError(t, kb.Init())
	defer kb.Quit()

	steps := []struct {
		name     string
		script   func()
		expected []string
	}{
		{"no keyboard", func() {}, nil},
		{"connect", func() { con.ConnectKeyboard(0) }, nil},
		{"shift a", func() { con.PressKeys(0, psl1ght.MkeyLShift, 0x04) }, []string{
			"key 225 pressed",
			"key 4 pressed",
		}},
		{"unchanged", func() {}, nil},
		{"alt gr space", func() {
			con.PressKeys(0, psl1ght.MkeyLShift|psl1ght.MkeyRAlt, 0x04, 0x2c, 0xe1)
		}, []string{
			"key 230 pressed",
			"key 44 pressed",
		}},
		{"release", func() { con.PressKeys(0, 0, 0x2c) }, []string{
			"key 225 released",
			"key 230 released",
			"key 4 released",
		}},
		{"disconnect", func() { con.DisconnectKeyboard(0) }, []string{
			"key 44 released",
		}},
		{"disconnected", func() {}, nil},
		{"reconnect", func() { con.ConnectKeyboard(0) }, nil},
		{"ctrl", func() { con.PressKeys(0, psl1ght.MkeyRCtrl) }, []string{
			"key 228 pressed",
		}},
	}
	for _, step := range steps {
		step.script()
		kb.Pump()
		assert.Equal(t, step.expected, rec.Events(), step.name)
	}
}

func TestInitFailure(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	con.InjectErrors("KbInit", psl1ght.EINVAL)
	kb := keyboard.New(con, &ps3testing.Recorder{}, ps3testing.NewLogger(t))
	assert.ErrorIs(t, kb.Init(), psl1ght.EINVAL)
	kb.Pump()
	kb.Quit()
}
