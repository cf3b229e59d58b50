package psl1ght

// GCMContext is the GPU command buffer context returned by RSXInit.
type GCMContext uintptr

type FlipMode uint32

const (
	FlipVSync  FlipMode = 1
	FlipHSync  FlipMode = 2
	FlipWindow FlipMode = 3
)

// Flip status values: 0 once the last requested flip happened.
const (
	FlipDone    = 0
	FlipPending = 1
)

const (
	// Command buffer and IO memory sizes used when initializing RSX.
	DefaultCmdSize = 0x10000
	DefaultIOSize  = 1024 * 1024

	// Alignment of buffers handed to the display controller.
	RSXAlign = 64
)

const (
	TransferLocalToLocal = 0
	TransferMainToLocal  = 1

	TransferSurfaceLocal = 0
)

const (
	TransferConversionTruncate    = 1
	TransferFormatA8R8G8B8        = 3
	TransferOperationSrcCopy      = 3
	TransferOriginCorner          = 2
	TransferInterpolatorZOH       = 0 // nearest neighbour
	TransferSurfaceFormatR5G6B5   = 4
	TransferSurfaceFormatA8R8G8B8 = 10
)

// TransferScale describes the source of a scaled blit. Ratios are 12.20 fixed
// point values of source pixels per destination pixel.
type TransferScale struct {
	Conversion uint8
	Format     uint8
	Operation  uint8

	ClipX, ClipY int16
	ClipW, ClipH uint16
	OutX, OutY   int16
	OutW, OutH   uint16

	RatioX, RatioY int32

	InW, InH uint16
	Pitch    uint16
	Origin   uint8
	Interp   uint8
	Offset   uint32
	InX, InY uint16
}

// TransferSurface describes the destination of a scaled blit.
type TransferSurface struct {
	Format uint8
	Pitch  uint16
	Offset uint32
}

// RatioShift is the fractional precision of TransferScale ratios.
const RatioShift = 20
