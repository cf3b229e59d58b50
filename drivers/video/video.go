// Package video is the video driver. It configures the display output,
// delivers system utility events and owns the keyboard and mouse, which it
// pumps together with the system events.
package video

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/drivers/keyboard"
	"github.com/ps3dev/psl1ght-sdl/drivers/mouse"
	"github.com/ps3dev/psl1ght-sdl/drivers/render"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

// DriverName is the value of SDL_VIDEODRIVER that selects this driver.
const DriverName = "psl1ght"

var (
	ErrDisplayDisabled = errors.New("video: display output is not enabled")
	ErrModeTimeout     = errors.New("video: display stayed busy")
	ErrNotInitialized  = errors.New("video: not initialized")
	ErrUnknownMode     = errors.New("video: unsupported display mode")
)

// System is the part of the SDK the video driver and the devices it owns
// use.
type System interface {
	RSXInit(cmdSize, ioSize uint32) (psl1ght.GCMContext, error)
	GCMSetFlipMode(mode psl1ght.FlipMode)

	VideoGetState(videoOut, deviceIndex uint32) (psl1ght.VideoState, error)
	VideoGetResolution(id uint8) (psl1ght.VideoResolution, error)
	VideoConfigure(videoOut uint32, cfg *psl1ght.VideoConfiguration, blocking bool) error

	SysutilRegisterCallback(slot uint32, fn psl1ght.SysutilCallback) error
	SysutilUnregisterCallback(slot uint32) error
	SysutilCheckCallback() error

	render.GCM
	keyboard.Keyboards
	mouse.Mice
}

type Options struct {
	ModePollInterval time.Duration

	// ModePollLimit bounds the polls waiting for the display to leave the
	// busy state. 0 waits forever.
	ModePollLimit int

	Render render.Options
	Logger zerolog.Logger
}

func DefaultOptions() Options {
	return Options{
		ModePollInterval: 10 * time.Millisecond,
		Render:           render.DefaultOptions(),
		Logger:           zerolog.Nop(),
	}
}

// Available reports whether driver names this video driver.
func Available(driver string) bool {
	return driver == DriverName
}

var modes = []struct {
	res  uint8
	w, h int
}{
	{psl1ght.VideoResolution1080, 1920, 1080},
	{psl1ght.VideoResolution720, 1280, 720},
	{psl1ght.VideoResolution480, 720, 480},
	{psl1ght.VideoResolution576, 720, 576},
}

func configuration(res uint8, w int) *psl1ght.VideoConfiguration {
	return &psl1ght.VideoConfiguration{
		Resolution: res,
		Format:     psl1ght.VideoBufferFormatXRGB,
		Aspect:     psl1ght.VideoAspect16_9,
		Pitch:      uint32(4 * w),
	}
}

var _ sdl.VideoDevice = (*Device)(nil)

type Device struct {
	sys  System
	sink sdl.EventSink
	opt  Options
	log  zerolog.Logger

	kb    *keyboard.Keyboard
	mouse *mouse.Mouse

	inited  bool
	ctx     psl1ght.GCMContext
	desktop sdl.DisplayMode
	current sdl.DisplayMode
}

func New(sys System, sink sdl.EventSink, opt Options) *Device {
	return &Device{
		sys:   sys,
		sink:  sink,
		opt:   opt,
		log:   opt.Logger.With().Str("component", "video").Logger(),
		kb:    keyboard.New(sys, sink, opt.Logger),
		mouse: mouse.New(sys, sink, opt.Logger),
	}
}

// Init sets up the GPU context and configures the display for its current
// resolution. The GPU context is created once per device and reused by
// later calls, including retries after a failed Init.
func (d *Device) Init() error {
	if d.ctx == 0 {
		ctx, err := d.sys.RSXInit(psl1ght.DefaultCmdSize, psl1ght.DefaultIOSize)
		if err != nil {
			return fmt.Errorf("video: gpu init: %w", err)
		}
		d.ctx = ctx
	}

	state, err := d.sys.VideoGetState(psl1ght.VideoPrimary, 0)
	if err != nil {
		return fmt.Errorf("video: get state: %w", err)
	}
	if state.State != psl1ght.VideoStateEnabled {
		return ErrDisplayDisabled
	}
	res, err := d.sys.VideoGetResolution(state.DisplayMode.Resolution)
	if err != nil {
		return fmt.Errorf("video: get resolution: %w", err)
	}

	cfg := configuration(state.DisplayMode.Resolution, int(res.Width))
	if err := d.sys.VideoConfigure(psl1ght.VideoPrimary, cfg, true); err != nil {
		return fmt.Errorf("video: configure: %w", err)
	}
	if err := d.waitReady(); err != nil {
		return err
	}
	d.sys.GCMSetFlipMode(psl1ght.FlipVSync)

	if err := d.sys.SysutilRegisterCallback(psl1ght.SysutilEventSlot0, d.handleEvent); err != nil {
		return fmt.Errorf("video: register sysutil callback: %w", err)
	}

	// The console runs fine without keyboard or mouse.
	if err := d.kb.Init(); err != nil {
		d.log.Warn().Err(err).Msg("keyboard unavailable")
	}
	if err := d.mouse.Init(); err != nil {
		d.log.Warn().Err(err).Msg("mouse unavailable")
	}

	d.desktop = sdl.DisplayMode{
		Format:      sdl.PixelFormatARGB8888,
		W:           int(res.Width),
		H:           int(res.Height),
		RefreshRate: int(state.DisplayMode.RefreshRate),
		DriverData:  cfg,
	}
	d.current = d.desktop
	d.inited = true
	d.log.Info().
		Int("width", d.desktop.W).
		Int("height", d.desktop.H).
		Msg("display configured")
	return nil
}

// waitReady polls the display state until it is no longer busy.
func (d *Device) waitReady() error {
	for polls := 0; ; polls++ {
		if d.opt.ModePollLimit > 0 && polls >= d.opt.ModePollLimit {
			return ErrModeTimeout
		}
		d.sys.Usleep(uint64(d.opt.ModePollInterval.Microseconds()))
		state, err := d.sys.VideoGetState(psl1ght.VideoPrimary, 0)
		if err != nil {
			return fmt.Errorf("video: get state: %w", err)
		}
		if state.State != psl1ght.VideoStateBusy {
			return nil
		}
	}
}

func (d *Device) DesktopMode() sdl.DisplayMode { return d.desktop }

// Mode returns the mode the display currently runs in.
func (d *Device) Mode() sdl.DisplayMode { return d.current }

// Context returns the GPU context created by Init.
func (d *Device) Context() psl1ght.GCMContext { return d.ctx }

func (d *Device) DisplayModes() []sdl.DisplayMode {
	ms := make([]sdl.DisplayMode, len(modes))
	for i, m := range modes {
		ms[i] = sdl.DisplayMode{
			Format:     sdl.PixelFormatARGB8888,
			W:          m.w,
			H:          m.h,
			DriverData: configuration(m.res, m.w),
		}
	}
	return ms
}

func (d *Device) SetDisplayMode(mode sdl.DisplayMode) error {
	if !d.inited {
		return ErrNotInitialized
	}
	cfg, ok := mode.DriverData.(*psl1ght.VideoConfiguration)
	if !ok {
		for _, m := range d.DisplayModes() {
			if m.W == mode.W && m.H == mode.H {
				cfg = m.DriverData.(*psl1ght.VideoConfiguration)
				break
			}
		}
	}
	if cfg == nil {
		return ErrUnknownMode
	}
	if err := d.sys.VideoConfigure(psl1ght.VideoPrimary, cfg, false); err != nil {
		return fmt.Errorf("Could not set PS3FB_MODE: %w", err)
	}
	if err := d.waitReady(); err != nil {
		return err
	}
	mode.Format = sdl.PixelFormatARGB8888
	mode.DriverData = cfg
	d.current = mode
	return nil
}

func (d *Device) handleEvent(status, param uint64) {
	switch status {
	case psl1ght.SysutilExitGame:
		d.log.Debug().Msg("exit requested")
		d.sink.SendQuit()
	case psl1ght.SysutilMenuOpen:
		d.log.Debug().Msg("xmb opened")
	case psl1ght.SysutilMenuClose:
		d.log.Debug().Msg("xmb closed")
	case psl1ght.SysutilDrawBegin, psl1ght.SysutilDrawEnd:
		d.log.Debug().Uint64("status", status).Msg("system drawing")
	default:
		d.log.Warn().
			Str("status", fmt.Sprintf("%#x", status)).
			Uint64("param", param).
			Msg("Unhandled event")
	}
}

// PumpEvents runs the pending system callbacks and polls keyboard and mouse.
func (d *Device) PumpEvents() {
	if !d.inited {
		return
	}
	if err := d.sys.SysutilCheckCallback(); err != nil {
		d.log.Error().Err(err).Msg("sysutil check failed")
	}
	d.kb.Pump()
	d.mouse.Pump()
}

func (d *Device) Quit() {
	if !d.inited {
		return
	}
	if err := d.sys.SysutilUnregisterCallback(psl1ght.SysutilEventSlot0); err != nil {
		d.log.Error().Err(err).Msg("unregister sysutil callback")
	}
	d.kb.Quit()
	d.mouse.Quit()
	d.inited = false
}

// CreateRenderer builds a renderer for the current mode on the device's GPU
// context.
func (d *Device) CreateRenderer() (*render.Renderer, error) {
	if !d.inited {
		return nil, ErrNotInitialized
	}
	opt := d.opt.Render
	opt.Logger = d.opt.Logger
	return render.New(d.sys, d.ctx, d.current, opt)
}
