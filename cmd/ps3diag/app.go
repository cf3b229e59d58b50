package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ps3dev/psl1ght-sdl/config"
	"github.com/ps3dev/psl1ght-sdl/drivers"
	"github.com/ps3dev/psl1ght-sdl/logging"
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
	"github.com/ps3dev/psl1ght-sdl/sdl"
	"github.com/ps3dev/psl1ght-sdl/sim"
)

type options struct {
	configPath string
	sim        bool
	logLevel   string
	capture    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "ps3diag",
		Short:         "Exercise the PSL1GHT drivers",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file")
	root.PersistentFlags().BoolVar(&opts.sim, "sim", false, "run on the simulated console")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")
	root.PersistentFlags().StringVar(&opts.capture, "capture", "", "with --sim, write played audio to this WAV file")

	root.AddCommand(
		newInfoCmd(opts),
		newPadsCmd(opts),
		newInputCmd(opts),
		newFlipCmd(opts),
		newScreenshotCmd(opts),
		newPlayCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

type app struct {
	cfg *config.Config
	log zerolog.Logger
	out *printer

	sdk      drivers.SDK
	con      *sim.Console // nil on the console
	platform *drivers.Platform

	closers []io.Closer
}

func newApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logging.FromConfig(level, cfg.Log.Format)

	a := &app{
		cfg: cfg,
		log: log,
		out: &printer{w: cmd.OutOrStdout()},
	}
	if opts.sim {
		simOpt := sim.Options{Logger: logging.Component(log, "sim")}
		if opts.capture != "" {
			f, err := os.Create(opts.capture)
			if err != nil {
				return nil, fmt.Errorf("failed to create capture file: %w", err)
			}
			a.closers = append(a.closers, f)
			simOpt.AudioCapture = f
		}
		a.con = sim.New(simOpt)
		a.con.ConnectPad(0)
		a.con.ConnectKeyboard(0)
		a.con.ConnectMouse(0)
		a.sdk = a.con
	} else {
		sys, err := psl1ght.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open SDK, use --sim off the console: %w", err)
		}
		a.sdk = sys
	}
	a.platform = drivers.New(a.sdk, cfg, drivers.Sinks{Events: a.out, Joystick: a.out}, log)
	return a, nil
}

func (a *app) Close() error {
	a.platform.Quit()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// run runs loop, and on the simulator the input script next to it. The
// script stops when loop returns or a quit event arrived.
func (a *app) run(ctx context.Context, loop func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	if a.con != nil {
		g.Go(func() error {
			a.script(ctx)
			return nil
		})
	}
	g.Go(func() error {
		defer cancel()
		return loop(ctx)
	})
	return g.Wait()
}

// script plays with the simulated pad, keyboard and mouse.
func (a *app) script(ctx context.Context) {
	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()
	for step := 0; ; step++ {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		pad := psl1ght.NeutralPad()
		var keys []uint16
		if step%2 == 0 {
			pad.Buttons = psl1ght.BtnCross
			pad.LeftH = 0xff
			keys = []uint16{0x04}
		}
		a.con.SetPad(0, pad)
		a.con.PressKeys(0, 0, keys...)
		a.con.QueueMouse(0, psl1ght.MouseData{XAxis: 4, YAxis: -1})
	}
}

// frames calls fn once per frame until n frames passed, a quit event
// arrived or ctx is done. n == 0 runs until quit.
func (a *app) frames(ctx context.Context, n int, fn func(frame int) error) error {
	for frame := 0; n == 0 || frame < n; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.out.quit.Load() {
			return nil
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ sdl.EventSink    = (*printer)(nil)
	_ sdl.JoystickSink = (*printer)(nil)
)

// printer writes every event it receives as one line.
type printer struct {
	mu   sync.Mutex
	w    io.Writer
	quit atomic.Bool
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) SendKeyboardKey(state sdl.ButtonState, code sdl.Scancode) {
	p.printf("key %d %s", code, state)
}

func (p *printer) SendMouseButton(state sdl.ButtonState, button sdl.MouseButton) {
	p.printf("mouse button %d %s", button, state)
}

func (p *printer) SendMouseMotion(relative bool, x, y int) {
	p.printf("mouse motion %d %d", x, y)
}

func (p *printer) SendMouseWheel(x, y int) {
	p.printf("mouse wheel %d %d", x, y)
}

func (p *printer) SendQuit() {
	p.printf("quit")
	p.quit.Store(true)
}

func (p *printer) JoystickAxis(index, axis int, value int16) {
	p.printf("joy%d axis %d %d", index, axis, value)
}

func (p *printer) JoystickButton(index, button int, state sdl.ButtonState) {
	p.printf("joy%d button %d %s", index, button, state)
}
