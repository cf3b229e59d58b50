//go:build !linux

package sim

import "os"

// hostThreadID can't tell OS threads apart on this host; every thread
// reports the process id.
func hostThreadID() uint64 { return uint64(os.Getpid()) }

const distinctThreadIDs = false
