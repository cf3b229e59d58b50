//go:build !unix

package sim

import "time"

func hostMicros() uint64 { return uint64(time.Now().UnixMicro()) }

func hostSleep(d time.Duration) { time.Sleep(d) }
