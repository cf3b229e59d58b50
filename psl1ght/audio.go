package psl1ght

const (
	AudioPort2Ch = 2
	AudioPort8Ch = 8

	AudioBlock8  = 8
	AudioBlock16 = 16
	AudioBlock32 = 32

	// Samples per channel in one port block.
	AudioBlockSamples = 256
)

const (
	AudioStatusReady   = 1
	AudioStatusRunning = 2
	AudioStatusClosed  = 0x1010
)

type AudioPortParam struct {
	NumChannels uint64
	NumBlocks   uint64
	Attrib      uint64
	Level       float32
}

// AudioPortConfig describes an open port. Data is the port's DMA ring of
// NumBlocks blocks holding big-endian float32 samples, interleaved by
// channel.
type AudioPortConfig struct {
	Status       uint32
	ChannelCount uint64
	NumBlocks    uint64
	PortSize     uint32
	Data         []byte
}

// BlockSize returns the byte size of one block of the port ring.
func (c *AudioPortConfig) BlockSize() int {
	return 4 * AudioBlockSamples * int(c.ChannelCount)
}

type EventQueue uint32

type IPCKey uint64
