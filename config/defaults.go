package config

import "time"

// Default returns the values the console drivers were tuned with.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Buffers:          2,
			FlipPollInterval: 200 * time.Microsecond,
		},
		Video: VideoConfig{
			Driver:           "psl1ght",
			ModePollInterval: 10 * time.Millisecond,
		},
		Audio: AudioConfig{
			Channels:     2,
			Blocks:       8,
			Level:        1,
			WaitRetries:  5,
			WaitInterval: time.Millisecond,
			EventTimeout: 20 * time.Millisecond,
		},
		Joystick: JoystickConfig{
			MaxPads: 7,
		},
		Thread: ThreadConfig{
			StackSize:   0x4000,
			Priority:    1500,
			Name:        "SDL",
			SemMaxCount: 32768,
		},
		Timer: TimerConfig{
			CheckInterval: 10 * time.Millisecond,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
