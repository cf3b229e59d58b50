// Package drivers bootstraps the backend: it builds every driver from one
// configuration on top of an SDK implementation and brings them up and down
// in order.
package drivers

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ps3dev/psl1ght-sdl/config"
	"github.com/ps3dev/psl1ght-sdl/drivers/audio"
	"github.com/ps3dev/psl1ght-sdl/drivers/joystick"
	"github.com/ps3dev/psl1ght-sdl/drivers/render"
	"github.com/ps3dev/psl1ght-sdl/drivers/thread"
	"github.com/ps3dev/psl1ght-sdl/drivers/timer"
	"github.com/ps3dev/psl1ght-sdl/drivers/video"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

var ErrNoVideo = errors.New("drivers: video driver not selected")

// SDK is everything the drivers use from the console.
type SDK interface {
	audio.Ports
	joystick.Pads
	video.System
	thread.Kernel
	timer.Clock
}

var _ SDK = (*psl1ght.System)(nil)

// Sinks receive what the drivers report. Events may implement both.
type Sinks struct {
	Events   sdl.EventSink
	Joystick sdl.JoystickSink
}

type Platform struct {
	cfg *config.Config
	log zerolog.Logger

	Video    *video.Device
	Audio    *audio.Driver
	Joystick *joystick.Subsystem
	Threads  *thread.Driver
	Timer    *timer.Timer

	videoUp bool
	joyUp   bool
	timerUp bool
}

// New creates the drivers without touching the hardware.
func New(sdk SDK, cfg *config.Config, sinks Sinks, log zerolog.Logger) *Platform {
	p := &Platform{cfg: cfg, log: log.With().Str("component", "platform").Logger()}
	p.Threads = thread.New(sdk, ThreadOptions(cfg, log))
	p.Timer = timer.New(sdk, p.Threads, TimerOptions(cfg, log))
	p.Video = video.New(sdk, sinks.Events, VideoOptions(cfg, log))
	p.Audio = audio.NewDriver(sdk, AudioOptions(cfg, log))
	p.Joystick = joystick.New(sdk, sinks.Joystick, joystick.Options{
		MaxPads: cfg.Joystick.MaxPads,
		Logger:  log,
	})
	return p
}

// Init starts ticks, the timer thread when check is set, video with its
// input devices and the pads. On failure whatever was started is shut down
// again.
func (p *Platform) Init(check func()) (err error) {
	defer func() {
		if err != nil {
			p.Quit()
		}
	}()

	p.Timer.StartTicks()
	if check != nil {
		if err := p.Timer.Init(check); err != nil {
			return err
		}
		p.timerUp = true
	}

	if !video.Available(p.cfg.Video.Driver) {
		return fmt.Errorf("%w: %q", ErrNoVideo, p.cfg.Video.Driver)
	}
	if err := p.Video.Init(); err != nil {
		return err
	}
	p.videoUp = true

	n, err := p.Joystick.Init()
	if err != nil {
		return err
	}
	p.joyUp = true

	mode := p.Video.DesktopMode()
	p.log.Info().
		Int("width", mode.W).
		Int("height", mode.H).
		Int("joysticks", n).
		Msg("platform up")
	return nil
}

// Quit stops everything Init started, in reverse order.
func (p *Platform) Quit() {
	if p.joyUp {
		p.Joystick.Quit()
		p.joyUp = false
	}
	if p.videoUp {
		p.Video.Quit()
		p.videoUp = false
	}
	if p.timerUp {
		p.Timer.Quit()
		p.timerUp = false
	}
}

func ThreadOptions(cfg *config.Config, log zerolog.Logger) thread.Options {
	return thread.Options{
		StackSize:   cfg.Thread.StackSize,
		Priority:    cfg.Thread.Priority,
		Name:        cfg.Thread.Name,
		SemMaxCount: cfg.Thread.SemMaxCount,
		Logger:      log,
	}
}

func TimerOptions(cfg *config.Config, log zerolog.Logger) timer.Options {
	return timer.Options{
		CheckInterval: cfg.Timer.CheckInterval,
		Logger:        log,
	}
}

func RenderOptions(cfg *config.Config, log zerolog.Logger) render.Options {
	return render.Options{
		Buffers:          cfg.Render.Buffers,
		FlipPollInterval: cfg.Render.FlipPollInterval,
		FlipPollLimit:    cfg.Render.FlipPollLimit,
		Logger:           log,
	}
}

func VideoOptions(cfg *config.Config, log zerolog.Logger) video.Options {
	return video.Options{
		ModePollInterval: cfg.Video.ModePollInterval,
		ModePollLimit:    cfg.Video.ModePollLimit,
		Render:           RenderOptions(cfg, log),
		Logger:           log,
	}
}

func AudioOptions(cfg *config.Config, log zerolog.Logger) audio.Options {
	return audio.Options{
		Channels:     cfg.Audio.Channels,
		Blocks:       cfg.Audio.Blocks,
		Level:        cfg.Audio.Level,
		WaitRetries:  cfg.Audio.WaitRetries,
		WaitInterval: cfg.Audio.WaitInterval,
		EventQueue:   cfg.Audio.EventQueue,
		EventTimeout: cfg.Audio.EventTimeout,
		Logger:       log,
	}
}
