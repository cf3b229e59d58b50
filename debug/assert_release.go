//go:build !debug

// Package debug holds invariant checks for the drivers. Build with the debug
// tag to turn them into panics, release builds compile them away.
package debug

// Enabled guards checks that are expensive to evaluate.
const Enabled = false

// Assert panics with message if ok is false.
func Assert(ok bool, message string) {}

// Assertf is Assert with a formatted message. The arguments are still
// evaluated in release builds.
func Assertf(ok bool, format string, args ...any) {}
