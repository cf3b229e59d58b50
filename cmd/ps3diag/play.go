package main

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/spf13/cobra"

	"github.com/ps3dev/psl1ght-sdl/drivers"
	"github.com/ps3dev/psl1ght-sdl/drivers/audio"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// decoder yields interleaved integer PCM.
type decoder interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
	NumChans() int
	SampleRate() int
	BitDepth() int
}

type wavDecoder struct {
	*wav.Decoder
}

func newWavDecoder(r io.ReadSeeker) (decoder, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("invalid WAV file")
	}
	if d.WavAudioFormat == 3 {
		return nil, errors.New("float WAV files are not supported")
	}
	return &wavDecoder{d}, nil
}

func (w *wavDecoder) NumChans() int   { return int(w.Decoder.NumChans) }
func (w *wavDecoder) SampleRate() int { return int(w.Decoder.SampleRate) }
func (w *wavDecoder) BitDepth() int   { return int(w.Decoder.BitDepth) }

// mp3Decoder always yields 16-bit stereo.
type mp3Decoder struct {
	d   *mp3.Decoder
	raw []byte
}

func newMp3Decoder(r io.Reader) (decoder, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	return &mp3Decoder{d: d}, nil
}

func (m *mp3Decoder) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if cap(m.raw) < 2*len(buf.Data) {
		m.raw = make([]byte, 2*len(buf.Data))
	}
	raw := m.raw[:2*len(buf.Data)]
	n, err := io.ReadFull(m.d, raw)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	for i := range n / 2 {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}
	return n / 2, err
}

func (m *mp3Decoder) NumChans() int   { return 2 }
func (m *mp3Decoder) SampleRate() int { return m.d.SampleRate() }
func (m *mp3Decoder) BitDepth() int   { return 16 }

func openDecoder(f *os.File) (decoder, error) {
	switch strings.ToLower(filepath.Ext(f.Name())) {
	case ".wav":
		return newWavDecoder(f)
	case ".mp3":
		return newMp3Decoder(f)
	}
	return nil, fmt.Errorf("unsupported file type: %s", f.Name())
}

// convert maps the interleaved src frames of srcCh channels to dst frames
// of dstCh channels. Mono is copied to both front channels, extra source
// channels are dropped.
func convert(dst []float32, src []int, srcCh, dstCh, depth int) []float32 {
	scale := 1 / float32(int(1)<<(depth-1))
	dst = dst[:0]
	for i := 0; i+srcCh <= len(src); i += srcCh {
		for c := range dstCh {
			var s int
			switch {
			case c < srcCh:
				s = src[i+c]
			case srcCh == 1 && c == 1:
				s = src[i]
			}
			dst = append(dst, float32(s)*scale)
		}
	}
	return dst
}

func newPlayCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "play <file.wav|file.mp3>",
		Short: "Play an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			dec, err := openDecoder(f)
			if err != nil {
				return err
			}

			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			spec := sdl.AudioSpec{Freq: dec.SampleRate(), Format: sdl.AudioF32MSB, Channels: dec.NumChans()}
			dev, err := audio.Open(a.sdk, &spec, drivers.AudioOptions(a.cfg, a.log))
			if err != nil {
				return err
			}
			defer dev.Close()
			a.log.Info().
				Int("rate", dec.SampleRate()).
				Int("channels", dec.NumChans()).
				Int("device_channels", spec.Channels).
				Msg("playing")

			return a.run(cmd.Context(), func(ctx context.Context) error {
				return stream(ctx, dev, dec, spec.Channels)
			})
		},
	}
}

func stream(ctx context.Context, dev *audio.Device, dec decoder, channels int) error {
	w := audio.NewWriter(dev)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: dec.NumChans(), SampleRate: dec.SampleRate()},
		Data:   make([]int, 1024*dec.NumChans()),
	}
	var frames []float32
	var out []byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := dec.PCMBuffer(buf)
		if n > 0 {
			frames = convert(frames, buf.Data[:n], dec.NumChans(), channels, dec.BitDepth())
			if cap(out) < 4*len(frames) {
				out = make([]byte, 4*len(frames))
			}
			out = out[:4*len(frames)]
			audio.PutSamples(out, frames)
			if _, err := w.Write(out); err != nil {
				return err
			}
		}
		if err == io.EOF || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return dev.PlayContext(ctx)
}
