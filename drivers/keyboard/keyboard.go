// Package keyboard reports the state of the first USB keyboard as key
// events. The keyboard runs in raw mode, so keycodes are USB usages and equal
// scancodes.
package keyboard

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/drivers/input"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// Keyboards is the part of the SDK the keyboard driver uses.
type Keyboards interface {
	KbInit(max uint32) error
	KbEnd() error
	KbGetInfo() (psl1ght.KbInfo, error)
	KbSetCodeType(port uint32, t psl1ght.KbCodeType) error
	KbRead(port uint32) (psl1ght.KbData, error)
	KbClearBuf(port uint32) error
}

const port = 0

// The modifier bits follow the scancode order of the modifier keys.
func modifierScancode(bit int) sdl.Scancode {
	return sdl.ScancodeLCtrl + sdl.Scancode(bit)
}

type Keyboard struct {
	kbs  Keyboards
	sink sdl.EventSink
	log  zerolog.Logger

	inited bool
	conn   input.Tracker
	mods   input.Buttons
	keys   input.KeySet
}

func New(kbs Keyboards, sink sdl.EventSink, log zerolog.Logger) *Keyboard {
	return &Keyboard{
		kbs:  kbs,
		sink: sink,
		log:  log.With().Str("component", "keyboard").Logger(),
	}
}

// Init starts the keyboard service for a single keyboard in raw mode.
func (k *Keyboard) Init() error {
	if err := k.kbs.KbInit(1); err != nil {
		return fmt.Errorf("keyboard init: %w", err)
	}
	if err := k.kbs.KbSetCodeType(port, psl1ght.KbCodeTypeRaw); err != nil {
		k.kbs.KbEnd()
		return fmt.Errorf("keyboard code type: %w", err)
	}
	k.inited = true
	k.conn = input.Tracker{}
	k.reset()
	return nil
}

func (k *Keyboard) reset() {
	k.mods = 0
	k.keys = input.KeySet{}
}

// Pump reads the newest keyboard state and reports what changed, modifiers
// first.
func (k *Keyboard) Pump() {
	if !k.inited {
		return
	}
	info, err := k.kbs.KbGetInfo()
	if err != nil {
		k.log.Warn().Err(err).Msg("keyboard info")
		return
	}
	k.conn.Update(info.Status[port] != 0)

	switch {
	case k.conn.Plugged():
		k.log.Debug().Msg("keyboard plugged")
		if err := k.kbs.KbClearBuf(port); err != nil {
			k.log.Warn().Err(err).Msg("keyboard clear")
		}
		k.reset()
	case k.conn.Unplugged():
		k.log.Debug().Msg("keyboard unplugged")
		k.update(0, &input.KeySet{})
		k.reset()
		return
	}
	if !k.conn.Connected() {
		return
	}

	d, err := k.kbs.KbRead(port)
	if err != nil {
		k.log.Debug().Err(err).Msg("keyboard read")
		return
	}
	var keys input.KeySet
	for _, code := range d.Keycode {
		sc := sdl.Scancode(code & psl1ght.KbRawKeyMask)
		if sc == sdl.ScancodeUnknown || sc.IsModifier() {
			continue
		}
		keys.Add(sc)
	}
	k.update(input.Buttons(d.Mkey&0xff), &keys)
}

func (k *Keyboard) update(mods input.Buttons, keys *input.KeySet) {
	mods.Changed(k.mods).Each(func(bit int) {
		state := sdl.Released
		if mods&(1<<bit) != 0 {
			state = sdl.Pressed
		}
		k.sink.SendKeyboardKey(state, modifierScancode(bit))
	})
	keys.Diff(&k.keys, func(code sdl.Scancode, pressed bool) {
		state := sdl.Released
		if pressed {
			state = sdl.Pressed
		}
		k.sink.SendKeyboardKey(state, code)
	})
	k.mods, k.keys = mods, *keys
}

func (k *Keyboard) Quit() {
	if !k.inited {
		return
	}
	if err := k.kbs.KbEnd(); err != nil {
		k.log.Warn().Err(err).Msg("keyboard end")
	}
	k.inited = false
}
