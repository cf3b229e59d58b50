package input

import (
	"math/bits"

	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// KeySet is a set of scancodes.
type KeySet [sdl.NumScancodes / 64]uint64

func (s *KeySet) Add(code sdl.Scancode) {
	if int(code) < sdl.NumScancodes {
		s[code/64] |= 1 << (code % 64)
	}
}

func (s *KeySet) Has(code sdl.Scancode) bool {
	return int(code) < sdl.NumScancodes && s[code/64]&(1<<(code%64)) != 0
}

func (s *KeySet) Len() (n int) {
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Diff calls fn for every scancode whose membership differs between s and
// last, in ascending order. pressed is true for codes only in s.
func (s *KeySet) Diff(last *KeySet, fn func(code sdl.Scancode, pressed bool)) {
	for i := range s {
		changed := s[i] ^ last[i]
		for changed != 0 {
			b := bits.TrailingZeros64(changed)
			changed &^= 1 << b
			fn(sdl.Scancode(i*64+b), s[i]&(1<<b) != 0)
		}
	}
}
