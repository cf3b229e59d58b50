//go:build unix

package sim

import (
	"time"

	"golang.org/x/sys/unix"
)

func hostMicros() uint64 {
	var tv unix.Timeval
	if err := unix.Gettimeofday(&tv); err != nil {
		return uint64(time.Now().UnixMicro())
	}
	return uint64(tv.Sec)*1e6 + uint64(tv.Usec)
}

func hostSleep(d time.Duration) {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	for {
		var rem unix.Timespec
		err := unix.Nanosleep(&ts, &rem)
		if err != unix.EINTR {
			return
		}
		ts = rem
	}
}
