package sim

import (
	"sort"
	"unsafe"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

// arena is a first-fit allocator over the simulated local memory. Offsets
// into it are what the GPU sees.
type arena struct {
	mem   []byte
	alloc []span // sorted by off
}

type span struct {
	off, size int
}

func (a *arena) init(size int) {
	a.mem = make([]byte, size)
}

func alignUp(v, align int) int {
	return (v + align - 1) &^ (align - 1)
}

func (a *arena) allocate(align, size int) ([]byte, bool) {
	if size <= 0 || align <= 0 || align&(align-1) != 0 {
		return nil, false
	}
	prev := 0
	for i := 0; i <= len(a.alloc); i++ {
		end := len(a.mem)
		if i < len(a.alloc) {
			end = a.alloc[i].off
		}
		off := alignUp(prev, align)
		if off+size <= end {
			a.alloc = append(a.alloc, span{})
			copy(a.alloc[i+1:], a.alloc[i:])
			a.alloc[i] = span{off, size}
			return a.mem[off : off+size : off+size], true
		}
		if i < len(a.alloc) {
			prev = a.alloc[i].off + a.alloc[i].size
		}
	}
	return nil, false
}

// offset returns the arena offset of b's first byte.
func (a *arena) offset(b []byte) (int, bool) {
	if len(b) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.mem)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	if p < base || p >= base+uintptr(len(a.mem)) {
		return 0, false
	}
	return int(p - base), true
}

func (a *arena) free(b []byte) bool {
	off, ok := a.offset(b)
	if !ok {
		return false
	}
	i := sort.Search(len(a.alloc), func(i int) bool { return a.alloc[i].off >= off })
	if i == len(a.alloc) || a.alloc[i].off != off {
		return false
	}
	a.alloc = append(a.alloc[:i], a.alloc[i+1:]...)
	return true
}

func (a *arena) inUse() (n, bytes int) {
	for _, s := range a.alloc {
		bytes += s.size
	}
	return len(a.alloc), bytes
}

// RSXMemalign allocates from local memory. Like the SDK it doesn't clear the
// returned memory.
func (c *Console) RSXMemalign(align, size uint32) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("RSXMemalign"); err != nil {
		return nil, err
	}
	b, ok := c.mem.allocate(int(align), int(size))
	if !ok {
		return nil, psl1ght.ENOMEM
	}
	c.record("RSXMemalign(%d, %d)", align, size)
	return b, nil
}

// RSXFree panics when b wasn't returned by RSXMemalign or was already freed.
func (c *Console) RSXFree(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mem.free(b) {
		panic("sim: free of unallocated local memory")
	}
	c.record("RSXFree")
}

func (c *Console) RSXAddressToOffset(b []byte) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	off, ok := c.mem.offset(b)
	if !ok {
		return 0, psl1ght.EFAULT
	}
	return uint32(off), nil
}

// Allocations returns the number and total size of live allocations.
func (c *Console) Allocations() (n, bytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mem.inUse()
}
