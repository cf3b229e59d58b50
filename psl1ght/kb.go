package psl1ght

const (
	MaxKeyboards = 7
	MaxKeycodes  = 62
)

type KbCodeType uint32

const (
	KbCodeTypeASCII KbCodeType = 0
	KbCodeTypeRaw   KbCodeType = 1
)

type KbInfo struct {
	Max       uint32
	Connected uint32
	Info      uint32
	Status    [MaxKeyboards]uint8
}

// KbMkey is the modifier key bitmask, laid out like the USB boot protocol
// modifier byte.
type KbMkey uint32

const (
	MkeyLCtrl KbMkey = 1 << iota
	MkeyLShift
	MkeyLAlt
	MkeyLWin
	MkeyRCtrl
	MkeyRShift
	MkeyRAlt
	MkeyRWin
)

// Raw keycodes carry the USB usage in the low byte.
const KbRawKeyMask = 0x00ff

type KbData struct {
	Led     uint32
	Mkey    KbMkey
	Keycode []uint16
}
