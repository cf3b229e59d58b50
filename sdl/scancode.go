package sdl

// Scancode identifies a physical key. Values equal USB HID keyboard usage IDs.
type Scancode uint16

const NumScancodes = 512

const (
	ScancodeUnknown Scancode = 0

	ScancodeA Scancode = 4
	ScancodeZ Scancode = 29
	Scancode1 Scancode = 30
	Scancode0 Scancode = 39

	ScancodeReturn    Scancode = 40
	ScancodeEscape    Scancode = 41
	ScancodeBackspace Scancode = 42
	ScancodeTab       Scancode = 43
	ScancodeSpace     Scancode = 44

	ScancodeF1  Scancode = 58
	ScancodeF12 Scancode = 69

	ScancodeRight Scancode = 79
	ScancodeLeft  Scancode = 80
	ScancodeDown  Scancode = 81
	ScancodeUp    Scancode = 82

	ScancodeLCtrl  Scancode = 224
	ScancodeLShift Scancode = 225
	ScancodeLAlt   Scancode = 226
	ScancodeLGUI   Scancode = 227
	ScancodeRCtrl  Scancode = 228
	ScancodeRShift Scancode = 229
	ScancodeRAlt   Scancode = 230
	ScancodeRGUI   Scancode = 231
)

// IsModifier reports whether c is one of the eight modifier keys.
func (c Scancode) IsModifier() bool {
	return c >= ScancodeLCtrl && c <= ScancodeRGUI
}
