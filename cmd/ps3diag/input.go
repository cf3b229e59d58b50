package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ps3dev/psl1ght-sdl/config"
	"github.com/ps3dev/psl1ght-sdl/sdl"
)

const frameDelay = 16 // ms

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print display, pad, keyboard and mouse status",
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

			w := cmd.OutOrStdout()
			mode := a.platform.Video.DesktopMode()
			fmt.Fprintf(w, "display: %dx%d %v %dHz\n", mode.W, mode.H, mode.Format, mode.RefreshRate)
			for _, m := range a.platform.Video.DisplayModes() {
				fmt.Fprintf(w, "  mode %dx%d\n", m.W, m.H)
			}

			n := a.platform.Joystick.NumJoysticks()
			fmt.Fprintf(w, "joysticks: %d\n", n)
			for i := range n {
				name, err := a.platform.Joystick.Name(i)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  %d: %s\n", i, name)
			}

			kb, err := a.sdk.KbGetInfo()
			if err != nil {
				return fmt.Errorf("failed to read keyboard info: %w", err)
			}
			mice, err := a.sdk.MouseGetInfo()
			if err != nil {
				return fmt.Errorf("failed to read mouse info: %w", err)
			}
			fmt.Fprintf(w, "keyboards: %d\nmice: %d\n", kb.Connected, mice.Connected)
			fmt.Fprintf(w, "ticks: %d\n", a.platform.Timer.GetTicks())
			return nil
		},
	}
}

func newPadsCmd(opts *options) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "pads",
		Short: "Print joystick events",
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

			var joys []sdl.Joystick
			for i := range a.platform.Joystick.NumJoysticks() {
				j, err := a.platform.Joystick.Open(i)
				if err != nil {
					return err
				}
				defer j.Close()
				joys = append(joys, j)
			}
			return a.run(cmd.Context(), func(ctx context.Context) error {
				return a.frames(ctx, frames, func(int) error {
					a.platform.Video.PumpEvents()
					for _, j := range joys {
						j.Update()
					}
					a.platform.Timer.Delay(frameDelay)
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 300, "frames to poll, 0 until quit")
	return cmd
}

func newInputCmd(opts *options) *cobra.Command {
	var frames int
	cmd := &cobra.Command{
		Use:   "input",
		Short: "Print keyboard, mouse and system events",
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
			return a.run(cmd.Context(), func(ctx context.Context) error {
				return a.frames(ctx, frames, func(int) error {
					a.platform.Video.PumpEvents()
					a.platform.Timer.Delay(frameDelay)
					return nil
				})
			})
		},
	}
	cmd.Flags().IntVarP(&frames, "frames", "n", 300, "frames to pump, 0 until quit")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			b, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}
