package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ps3dev/psl1ght-sdl/drivers/render"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var (
	background = color.NRGBA{0x10, 0x18, 0x40, 0xff}
	foreground = color.NRGBA{0xf0, 0xf0, 0xf0, 0xff}
	accent     = color.NRGBA{0xff, 0x60, 0x20, 0xc0}
)

// newLabel renders text into a texture.
func newLabel(r *render.Renderer, text string) (*render.Texture, error) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	tex, err := r.NewTexture(sdl.PixelFormatARGB8888, w, face.Height)
	if err != nil {
		return nil, err
	}
	img := tex.Image()
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foreground),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)
	return tex, nil
}

// drawFrame draws the test pattern for frame into the back buffer.
func drawFrame(r *render.Renderer, label *render.Texture, frame int) error {
	w, h := r.Size()
	r.SetDrawColor(background)
	r.SetDrawBlendMode(sdl.BlendNone)
	if err := r.Clear(); err != nil {
		return err
	}

	r.SetDrawColor(foreground)
	border := []sdl.Point{{X: 0, Y: 0}, {X: w - 1, Y: 0}, {X: w - 1, Y: h - 1}, {X: 0, Y: h - 1}, {X: 0, Y: 0}}
	if err := r.DrawLines(border); err != nil {
		return err
	}

	const size = 64
	x := (frame * 8) % (w - size)
	y := h/2 - size/2
	r.SetDrawColor(accent)
	r.SetDrawBlendMode(sdl.BlendBlend)
	if err := r.FillRects([]sdl.Rect{{X: x, Y: y, W: size, H: size}}); err != nil {
		return err
	}

	lw, lh := label.Size()
	return r.Copy(label, sdl.Rect{W: lw, H: lh}, sdl.Rect{X: 32, Y: 32, W: 4 * lw, H: 4 * lh})
}

func newFlipCmd(opts *options) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "flip",
		Short: "Present a moving test pattern",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.platform.Init(nil); err != nil {
				return err
			}
			r, err := a.platform.Video.CreateRenderer()
			if err != nil {
				return err
			}
			defer r.Destroy()
			label, err := newLabel(r, "ps3diag")
			if err != nil {
				return err
			}

			var presented int
			err = a.run(cmd.Context(), func(ctx context.Context) error {
				return a.frames(ctx, frames, func(frame int) error {
					a.platform.Video.PumpEvents()
					if err := drawFrame(r, label, frame); err != nil {
						return err
					}
					if err := r.PresentContext(ctx); err != nil {
						return err
					}
					presented++
					return nil
				})
			})
			fmt.Fprintf(cmd.OutOrStdout(), "%d frames, %.1f fps\n", presented, r.FPS())
			return err
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 600, "frames to present, 0 until quit")
	return cmd
}

func newScreenshotCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Render the test pattern, read it back and save it as GIF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.platform.Init(nil); err != nil {
				return err
			}
			r, err := a.platform.Video.CreateRenderer()
			if err != nil {
				return err
			}
			defer r.Destroy()
			label, err := newLabel(r, "ps3diag")
			if err != nil {
				return err
			}
			if err := drawFrame(r, label, 0); err != nil {
				return err
			}

			w, h := r.Size()
			img := image.NewNRGBA(image.Rect(0, 0, w, h))
			if err := r.ReadPixels(sdl.Rect{W: w, H: h}, sdl.PixelFormatRGBA8888, img.Pix, img.Stride); err != nil {
				return err
			}
			if err := r.Present(); err != nil {
				return err
			}
			return writeGIF(out, img)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "screenshot.gif", "output file")
	return cmd
}

func writeGIF(path string, img image.Image) error {
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 256), img)
	dst := image.NewPaletted(img.Bounds(), pal)
	draw.FloydSteinberg.Draw(dst, dst.Bounds(), img, image.Point{})

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := gif.Encode(f, dst, nil); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
