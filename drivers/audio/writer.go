package audio

import (
	"errors"
	"io"
)

// ErrStop is returned by a Writer whose device was closed.
var ErrStop = errors.New("playback stopped")

// Writer streams big-endian float32 frames to a device. It implements
// [io.Writer] and [io.ReaderFrom]. A block is played as soon as it is full,
// or on Flush.
type Writer struct {
	dev *Device
	buf []byte
	n   int
}

func NewWriter(dev *Device) *Writer {
	return &Writer{dev: dev}
}

func (w *Writer) block() ([]byte, error) {
	if w.dev.closed {
		return nil, ErrStop
	}
	if w.buf == nil {
		w.dev.Wait()
		w.buf, w.n = w.dev.GetBuffer(), 0
	}
	return w.buf[w.n:], nil
}

// Write implements [io.Writer].
func (w *Writer) Write(p []byte) (n int, err error) {
	for len(p) > 0 {
		free, err := w.block()
		if err != nil {
			return n, err
		}
		nn := copy(free, p)
		n += nn
		p = p[nn:]
		w.n += nn

		if w.n == len(w.buf) {
			if err := w.Flush(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// ReadFrom implements [io.ReaderFrom].
func (w *Writer) ReadFrom(r io.Reader) (n int64, err error) {
	for {
		free, err := w.block()
		if err != nil {
			return n, err
		}
		nn, err := r.Read(free)
		n += int64(nn)
		w.n += nn

		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		}

		if w.n == len(w.buf) {
			if err := w.Flush(); err != nil {
				return n, err
			}
		}
	}
}

// Flush pads the current block with silence and plays it.
func (w *Writer) Flush() error {
	if w.dev.closed {
		return ErrStop
	}
	if w.buf == nil {
		return nil
	}
	clear(w.buf[w.n:])
	w.buf = nil
	w.dev.Play()
	return nil
}

// Len returns the number of bytes the writer buffers before a block is
// played.
func (w *Writer) Len() int {
	return w.dev.config.BlockSize()
}
