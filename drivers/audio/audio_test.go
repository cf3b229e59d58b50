package audio_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ps3dev/psl1ght-sdl/drivers/audio"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
	"github.com/ps3dev/psl1ght-sdl/sim"
	ps3testing "github.com/ps3dev/psl1ght-sdl/testing"
)

const blockSize = 4 * 256 * 2

func options(t *testing.T) audio.Options {
	opt := audio.DefaultOptions()
	opt.Logger = ps3testing.NewLogger(t)
	return opt
}

func TestNegotiateFormat(t *testing.T) {
	tests := []sdl.AudioFormat{
		sdl.AudioU8, sdl.AudioS16LSB, sdl.AudioS16MSB, sdl.AudioS32LSB,
		sdl.AudioF32LSB, sdl.AudioF32MSB,
	}
	for _, f := range tests {
		got, err := audio.NegotiateFormat(f)
		if err != nil {
			t.Fatalf("%#04x: %v", uint16(f), err)
		}
		if got != sdl.AudioF32MSB {
			t.Fatalf("%#04x: expected %#04x, got %#04x", uint16(f), uint16(sdl.AudioF32MSB), uint16(got))
		}
	}
	_, err := audio.NegotiateFormat(0x1234)
	assert.ErrorIs(t, err, audio.ErrFormat)
}

func TestOpen(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	spec := sdl.AudioSpec{Freq: 48000, Format: sdl.AudioS16LSB, Channels: 2, Samples: 1024}
	dev, err := audio.NewDriver(con, options(t)).OpenDevice("", false, &spec)
	require.NoError(t, err)

	assert.Equal(t, sdl.AudioF32MSB, spec.Format)
	assert.Equal(t, 2, spec.Channels)
	assert.Equal(t, 256, spec.Samples)
	assert.Equal(t, blockSize, spec.Size)

	inits, ports, _ := con.AudioState()
	assert.Equal(t, 1, inits)
	assert.Equal(t, 1, ports)

	require.NoError(t, dev.Close())
	require.NoError(t, dev.Close())
	inits, ports, _ = con.AudioState()
	assert.Zero(t, inits)
	assert.Zero(t, ports)
}

func TestOpenCapture(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	spec := sdl.AudioSpec{Format: sdl.AudioF32MSB}
	_, err := audio.NewDriver(con, options(t)).OpenDevice("", true, &spec)
	assert.ErrorIs(t, err, audio.ErrCapture)
}

func TestOpenFailure(t *testing.T) {
	tests := map[string]bool{
		"AudioInit":                   false,
		"AudioPortOpen":               false,
		"AudioGetPortConfig":          false,
		"AudioCreateNotifyEventQueue": true,
		"AudioPortStart":              true,
	}
	for method, eventQueue := range tests {
		t.Run(method, func(t *testing.T) {
			con := ps3testing.NewConsole(t, sim.Options{})
			con.InjectErrors(method, psl1ght.EINVAL)
			opt := options(t)
			opt.EventQueue = eventQueue
			spec := sdl.AudioSpec{Format: sdl.AudioF32MSB}
			_, err := audio.Open(con, &spec, opt)
			require.ErrorIs(t, err, psl1ght.EINVAL)

			inits, ports, queues := con.AudioState()
			assert.Zero(t, inits)
			assert.Zero(t, ports)
			assert.Zero(t, queues)
		})
	}
}

func TestOpenDeviceFailure(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	con.InjectErrors("AudioPortOpen", psl1ght.EINVAL)
	drv := audio.NewDriver(con, options(t))
	dev, err := drv.OpenDevice("", false, &sdl.AudioSpec{Format: sdl.AudioF32MSB})
	require.ErrorIs(t, err, psl1ght.EINVAL)
	if dev != nil {
		t.Fatalf("expected nil device, got %#v", dev)
	}
}

func TestCloseNil(t *testing.T) {
	var d *audio.Device
	assert.NotPanics(t, func() { assert.NoError(t, d.Close()) })
}

func TestBuffers(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	spec := sdl.AudioSpec{Format: sdl.AudioF32MSB}
	dev, err := audio.Open(con, &spec, options(t))
	require.NoError(t, err)
	defer dev.Close()
	block := con.AudioBlockDuration()

	// The hardware plays block 0, the first buffer is block 1.
	first := dev.GetBuffer()
	require.Len(t, first, blockSize)
	first[0] = 0xaa

	// Once the hardware reaches block 1, Wait gives up after five retries
	// of a millisecond each.
	con.Advance(block)
	start := con.SystemTime()
	dev.Wait()
	assert.Equal(t, uint64(5000), con.SystemTime()-start)

	// Play does not give up until the hardware moved on.
	dev.Play()
	assert.Equal(t, uint64(2), con.PlayedBlocks(0))

	next := dev.GetBuffer()
	require.Len(t, next, blockSize)
	assert.NotSame(t, &first[0], &next[0])
}

func TestWaitEventQueue(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	opt := options(t)
	opt.EventQueue = true
	spec := sdl.AudioSpec{Format: sdl.AudioF32MSB}
	dev, err := audio.Open(con, &spec, opt)
	require.NoError(t, err)
	_, _, queues := con.AudioState()
	assert.Equal(t, 1, queues)

	dev.GetBuffer()
	con.Advance(con.AudioBlockDuration())
	dev.Play()
	assert.Equal(t, uint64(2), con.PlayedBlocks(0))

	require.NoError(t, dev.Close())
	_, _, queues = con.AudioState()
	assert.Zero(t, queues)
}

func TestWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	con := ps3testing.NewConsole(t, sim.Options{AudioCapture: f})
	spec := sdl.AudioSpec{Format: sdl.AudioF32MSB}
	dev, err := audio.Open(con, &spec, options(t))
	require.NoError(t, err)

	w := audio.NewWriter(dev)
	assert.Equal(t, blockSize, w.Len())

	samples := make([]float32, 2*256)
	for i := range samples {
		samples[i] = 0.5
	}
	block := make([]byte, blockSize)
	require.Equal(t, blockSize, audio.PutSamples(block, samples))
	n, err := w.Write(block)
	require.NoError(t, err)
	assert.Equal(t, blockSize, n)

	con.Advance(3 * con.AudioBlockDuration())
	require.NoError(t, dev.Close())

	_, err = w.Write(block)
	assert.ErrorIs(t, err, audio.ErrStop)

	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err)
	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, 3*2*256)
	for i, v := range buf.Data {
		expected := 0
		if i >= 512 && i < 1024 {
			expected = 16383
		}
		if v != expected {
			t.Fatalf("sample %d: expected %v, got %v", i, expected, v)
		}
	}
}

func TestWriterReadFrom(t *testing.T) {
	con := ps3testing.NewConsole(t, sim.Options{})
	spec := sdl.AudioSpec{Format: sdl.AudioF32MSB}
	dev, err := audio.Open(con, &spec, options(t))
	require.NoError(t, err)
	defer dev.Close()

	w := audio.NewWriter(dev)
	data := bytes.Repeat([]byte{0x3f, 0, 0, 0}, blockSize*3/2/4)
	n, err := w.ReadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	require.NoError(t, w.Flush())
}
