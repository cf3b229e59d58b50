package psl1ght

const MaxPads = 7

type PadInfo struct {
	Max       uint32
	Connected uint32
	Info      uint32
	VendorID  [MaxPads]uint16
	ProductID [MaxPads]uint16
	Status    [MaxPads]uint8
}

// PadButtons holds the two digital button bytes of a pad sample, the first
// one in the high byte.
type PadButtons uint16

const (
	BtnLeft PadButtons = 1 << (15 - iota)
	BtnDown
	BtnRight
	BtnUp
	BtnStart
	BtnR3
	BtnL3
	BtnSelect
	BtnSquare
	BtnCross
	BtnCircle
	BtnTriangle
	BtnR1
	BtnL1
	BtnR2
	BtnL2
)

// AnalogCenter is the raw value of a centered stick axis.
const AnalogCenter = 0x80

type PadData struct {
	Len     int32
	Buttons PadButtons
	RightH  uint16
	RightV  uint16
	LeftH   uint16
	LeftV   uint16
}

// NeutralPad returns a sample with no button pressed and both sticks
// centered.
func NeutralPad() PadData {
	return PadData{
		RightH: AnalogCenter, RightV: AnalogCenter,
		LeftH: AnalogCenter, LeftV: AnalogCenter,
	}
}
