// Package psl1ght exposes the parts of the PSL1GHT SDK used by the drivers:
// audio ports, pad/keyboard/mouse services, RSX memory and flip control, video
// output configuration, system utility callbacks and LV2 kernel primitives.
//
// The types mirror the SDK's structures. The SDK itself is only linked when
// building with the psl1ght tag; otherwise Open fails with ErrNotPS3 and every
// method of System panics.
package psl1ght

import (
	"errors"
	"fmt"
)

var ErrNotPS3 = errors.New("psl1ght: not on PS3")

// Errno is a non-zero result code returned by an SDK call.
type Errno int32

// Result codes as returned by the kernel semaphore and thread calls.
const (
	ESRCH     Errno = 3
	EINTR     Errno = 4
	EAGAIN    Errno = 11
	ENOMEM    Errno = 12
	EFAULT    Errno = 14
	EBUSY     Errno = 16
	EINVAL    Errno = 22
	ETIMEDOUT Errno = 116
)

var errnoNames = map[Errno]string{
	ESRCH:     "no such object",
	EINTR:     "interrupted",
	EAGAIN:    "resource temporarily unavailable",
	ENOMEM:    "out of memory",
	EFAULT:    "bad address",
	EBUSY:     "busy",
	EINVAL:    "invalid argument",
	ETIMEDOUT: "timed out",
}

func (e Errno) Error() string {
	if s, ok := errnoNames[e]; ok {
		return s
	}
	return fmt.Sprintf("psl1ght: error 0x%08x", uint32(e))
}

// Result converts an SDK result code into an error; 0 means success.
func Result(code int32) error {
	if code == 0 {
		return nil
	}
	return Errno(code)
}

// System is the console SDK as linked into the program. It is obtained with
// Open and implements every SDK method set consumed by the drivers.
type System struct {
	_ struct{}
}
