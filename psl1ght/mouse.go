package psl1ght

const (
	MaxMice          = 7
	MouseMaxDataList = 8
)

type MouseInfo struct {
	Max       uint32
	Connected uint32
	Info      uint32
	VendorID  [MaxMice]uint16
	ProductID [MaxMice]uint16
	Status    [MaxMice]uint8
}

const (
	MouseButtonLeft   = 1 << 0
	MouseButtonRight  = 1 << 1
	MouseButtonMiddle = 1 << 2
)

type MouseData struct {
	Update  uint8
	Buttons uint8
	XAxis   int8
	YAxis   int8
	Wheel   int8
	Tilt    int8
}
