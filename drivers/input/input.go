// Package input holds the edge detection shared by the pad, keyboard and
// mouse drivers: which devices were plugged or unplugged since the last poll
// and which buttons changed.
package input

import "math/bits"

// Tracker follows the connection state of one device across polls.
type Tracker struct {
	current, last bool
}

// Update records the connection state of the current poll.
func (t *Tracker) Update(connected bool) {
	t.last, t.current = t.current, connected
}

func (t *Tracker) Connected() bool {
	return t.current
}

func (t *Tracker) Plugged() bool {
	return t.current && !t.last
}

func (t *Tracker) Unplugged() bool {
	return !t.current && t.last
}

// Buttons is a set of held buttons, one bit per button.
type Buttons uint32

func (b Buttons) Changed(last Buttons) Buttons {
	return b ^ last
}

func (b Buttons) Pressed(last Buttons) Buttons {
	return b.Changed(last) & b
}

func (b Buttons) Released(last Buttons) Buttons {
	return b.Changed(last) & last
}

// Each calls fn for every set bit, lowest first.
func (b Buttons) Each(fn func(bit int)) {
	for b != 0 {
		i := bits.TrailingZeros32(uint32(b))
		fn(i)
		b &^= 1 << i
	}
}
