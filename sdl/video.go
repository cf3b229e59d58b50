package sdl

import (
	"fmt"
	"image"
	"image/color"
)

type PixelFormat uint32

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatARGB8888
	PixelFormatRGBA8888
	PixelFormatABGR8888
	PixelFormatBGRA8888
	PixelFormatRGB888 // 32 bits per pixel, top byte unused
)

var formatNames = map[PixelFormat]string{
	PixelFormatARGB8888: "ARGB8888",
	PixelFormatRGBA8888: "RGBA8888",
	PixelFormatABGR8888: "ABGR8888",
	PixelFormatBGRA8888: "BGRA8888",
	PixelFormatRGB888:   "RGB888",
}

func (f PixelFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("PixelFormat(%d)", uint32(f))
}

// BytesPerPixel returns 0 for unknown formats.
func (f PixelFormat) BytesPerPixel() int {
	if _, ok := formatNames[f]; ok {
		return 4
	}
	return 0
}

type BlendMode uint8

const (
	BlendNone BlendMode = iota
	BlendBlend
	BlendAdd
	BlendMod
)

type Point struct {
	X, Y int
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Rect) Offset(x, y int) Rect {
	return Rect{r.X + x, r.Y + y, r.W, r.H}
}

func RectFromImage(r image.Rectangle) Rect {
	return Rect{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
}

// DisplayMode describes one video mode. DriverData belongs to the backend.
type DisplayMode struct {
	Format      PixelFormat
	W, H        int
	RefreshRate int
	DriverData  any
}

type RendererFlags uint32

const (
	RendererSoftware RendererFlags = 1 << iota
	RendererAccelerated
	RendererPresentVSync
)

type RendererInfo struct {
	Name    string
	Flags   RendererFlags
	Formats []PixelFormat
	MaxW    int
	MaxH    int
}

// Renderer is the render driver table. All drawing goes to the back buffer
// and becomes visible with Present.
type Renderer interface {
	Info() RendererInfo
	SetDrawColor(c color.NRGBA)
	SetDrawBlendMode(mode BlendMode)
	SetViewport(r Rect) error
	Clear() error
	DrawPoints(points []Point) error
	DrawLines(points []Point) error
	FillRects(rects []Rect) error
	Copy(t Texture, src, dst Rect) error
	ReadPixels(r Rect, format PixelFormat, pixels []byte, pitch int) error
	Present() error
	CreateTexture(format PixelFormat, w, h int) (Texture, error)
	Destroy()
}

type Texture interface {
	Format() PixelFormat
	Size() (w, h int)
	SetColorMod(r, g, b uint8) error
	SetAlphaMod(a uint8) error
	SetBlendMode(mode BlendMode) error
	Update(r Rect, pixels []byte, pitch int) error
	Lock(r Rect) (pixels []byte, pitch int, err error)
	Unlock()
	Destroy()
}

// VideoDevice is the video driver table. PumpEvents also drives the input
// devices owned by the video driver.
type VideoDevice interface {
	Init() error
	DesktopMode() DisplayMode
	DisplayModes() []DisplayMode
	SetDisplayMode(mode DisplayMode) error
	PumpEvents()
	Quit()
}
