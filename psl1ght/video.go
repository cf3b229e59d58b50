package psl1ght

const VideoPrimary = 0

type VideoState struct {
	State       uint8
	ColorSpace  uint8
	DisplayMode VideoDisplayMode
}

type VideoDisplayMode struct {
	Resolution  uint8
	ScanMode    uint8
	Conversion  uint8
	AspectRatio uint8
	RefreshRate uint16
}

const (
	VideoStateEnabled  = 0
	VideoStateDisabled = 1
	VideoStateBusy     = 3
)

const (
	VideoResolution1080 = 1
	VideoResolution720  = 2
	VideoResolution480  = 4
	VideoResolution576  = 5
)

const (
	VideoBufferFormatXRGB = 1
	VideoAspect16_9       = 2
)

type VideoResolution struct {
	Width, Height uint16
}

type VideoConfiguration struct {
	Resolution uint8
	Format     uint8
	Aspect     uint8
	Pitch      uint32
}
