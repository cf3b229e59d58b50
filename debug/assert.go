//go:build debug

package debug

import "fmt"

const Enabled = true

func Assert(ok bool, message string) {
	if !ok {
		panic(message)
	}
}

func Assertf(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf(format, args...))
	}
}
