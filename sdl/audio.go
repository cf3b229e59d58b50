package sdl

type AudioFormat uint16

const (
	AudioU8     AudioFormat = 0x0008
	AudioS8     AudioFormat = 0x8008
	AudioU16LSB AudioFormat = 0x0010
	AudioS16LSB AudioFormat = 0x8010
	AudioU16MSB AudioFormat = 0x1010
	AudioS16MSB AudioFormat = 0x9010
	AudioS32LSB AudioFormat = 0x8020
	AudioS32MSB AudioFormat = 0x9020
	AudioF32LSB AudioFormat = 0x8120
	AudioF32MSB AudioFormat = 0x9120
)

func (f AudioFormat) BitSize() int  { return int(f & 0xff) }
func (f AudioFormat) IsFloat() bool { return f&0x100 != 0 }
func (f AudioFormat) IsBigEndian() bool {
	return f&0x1000 != 0
}

var formatOrder = [...][]AudioFormat{
	{AudioU8, AudioS8, AudioS16LSB, AudioS16MSB, AudioU16LSB, AudioU16MSB, AudioS32LSB, AudioS32MSB, AudioF32LSB, AudioF32MSB},
	{AudioS8, AudioU8, AudioS16LSB, AudioS16MSB, AudioU16LSB, AudioU16MSB, AudioS32LSB, AudioS32MSB, AudioF32LSB, AudioF32MSB},
	{AudioS16LSB, AudioS16MSB, AudioU16LSB, AudioU16MSB, AudioS32LSB, AudioS32MSB, AudioF32LSB, AudioF32MSB, AudioU8, AudioS8},
	{AudioS16MSB, AudioS16LSB, AudioU16MSB, AudioU16LSB, AudioS32MSB, AudioS32LSB, AudioF32MSB, AudioF32LSB, AudioU8, AudioS8},
	{AudioU16LSB, AudioU16MSB, AudioS16LSB, AudioS16MSB, AudioS32LSB, AudioS32MSB, AudioF32LSB, AudioF32MSB, AudioU8, AudioS8},
	{AudioU16MSB, AudioU16LSB, AudioS16MSB, AudioS16LSB, AudioS32MSB, AudioS32LSB, AudioF32MSB, AudioF32LSB, AudioU8, AudioS8},
	{AudioS32LSB, AudioS32MSB, AudioF32LSB, AudioF32MSB, AudioS16LSB, AudioS16MSB, AudioU16LSB, AudioU16MSB, AudioU8, AudioS8},
	{AudioS32MSB, AudioS32LSB, AudioF32MSB, AudioF32LSB, AudioS16MSB, AudioS16LSB, AudioU16MSB, AudioU16LSB, AudioU8, AudioS8},
	{AudioF32LSB, AudioF32MSB, AudioS32LSB, AudioS32MSB, AudioS16LSB, AudioS16MSB, AudioU16LSB, AudioU16MSB, AudioU8, AudioS8},
	{AudioF32MSB, AudioF32LSB, AudioS32MSB, AudioS32LSB, AudioS16MSB, AudioS16LSB, AudioU16MSB, AudioU16LSB, AudioU8, AudioS8},
}

// FormatCandidates returns the formats a backend should try, in order of
// preference, when the application asked for f. The list starts with f.
// Unknown formats yield an empty list.
func FormatCandidates(f AudioFormat) []AudioFormat {
	for _, list := range formatOrder {
		if list[0] == f {
			return list
		}
	}
	return nil
}

// AudioSpec is negotiated between application and backend when a device
// is opened. Size is the byte size of one device buffer.
type AudioSpec struct {
	Freq     int
	Format   AudioFormat
	Channels int
	Samples  int
	Size     int
}

// AudioDriver opens audio devices. Capture is never supported by console
// backends but stays part of the contract.
type AudioDriver interface {
	OpenDevice(name string, capture bool, spec *AudioSpec) (AudioDevice, error)
}

type AudioDevice interface {
	// Wait blocks, for a bounded time, until a buffer can be filled.
	Wait()
	// GetBuffer returns the next device buffer to fill.
	GetBuffer() []byte
	// Play hands the filled buffer to the hardware.
	Play()
	Close() error
}
