//go:build linux

package sim

import "golang.org/x/sys/unix"

// hostThreadID returns the id of the calling OS thread.
func hostThreadID() uint64 { return uint64(unix.Gettid()) }

// Thread ids from hostThreadID are distinct between threads.
const distinctThreadIDs = true
