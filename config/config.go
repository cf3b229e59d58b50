// Package config loads the driver configuration with Viper: poll intervals,
// retry bounds and ring sizes that are fixed constants on the console but
// worth tuning when running against the simulator.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g.
// PSL1GHT_SDL_RENDER_BUFFERS.
const EnvPrefix = "PSL1GHT_SDL"

type Config struct {
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Video    VideoConfig    `mapstructure:"video" yaml:"video"`
	Audio    AudioConfig    `mapstructure:"audio" yaml:"audio"`
	Joystick JoystickConfig `mapstructure:"joystick" yaml:"joystick"`
	Thread   ThreadConfig   `mapstructure:"thread" yaml:"thread"`
	Timer    TimerConfig    `mapstructure:"timer" yaml:"timer"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type RenderConfig struct {
	// Buffers is the size of the display buffer ring, 2 or 3.
	Buffers int `mapstructure:"buffers" yaml:"buffers"`

	// FlipPollInterval is the sleep between two flip status polls.
	FlipPollInterval time.Duration `mapstructure:"flip_poll_interval" yaml:"flip_poll_interval"`

	// FlipPollLimit bounds the number of flip status polls per present.
	// 0 polls until the flip happened.
	FlipPollLimit int `mapstructure:"flip_poll_limit" yaml:"flip_poll_limit"`
}

type VideoConfig struct {
	// Driver selects the video driver, bound to SDL_VIDEODRIVER.
	Driver string `mapstructure:"driver" yaml:"driver"`

	ModePollInterval time.Duration `mapstructure:"mode_poll_interval" yaml:"mode_poll_interval"`

	// ModePollLimit bounds the wait for the display to leave the busy
	// state. 0 waits forever.
	ModePollLimit int `mapstructure:"mode_poll_limit" yaml:"mode_poll_limit"`
}

type AudioConfig struct {
	Channels     int           `mapstructure:"channels" yaml:"channels"`
	Blocks       int           `mapstructure:"blocks" yaml:"blocks"`
	Level        float32       `mapstructure:"level" yaml:"level"`
	WaitRetries  int           `mapstructure:"wait_retries" yaml:"wait_retries"`
	WaitInterval time.Duration `mapstructure:"wait_interval" yaml:"wait_interval"`

	// EventQueue makes Wait block on the port's notify event queue
	// instead of polling the read index.
	EventQueue   bool          `mapstructure:"event_queue" yaml:"event_queue"`
	EventTimeout time.Duration `mapstructure:"event_timeout" yaml:"event_timeout"`
}

type JoystickConfig struct {
	MaxPads int `mapstructure:"max_pads" yaml:"max_pads"`
}

type ThreadConfig struct {
	StackSize   uint64 `mapstructure:"stack_size" yaml:"stack_size"`
	Priority    int32  `mapstructure:"priority" yaml:"priority"`
	Name        string `mapstructure:"name" yaml:"name"`
	SemMaxCount int32  `mapstructure:"sem_max_count" yaml:"sem_max_count"`
}

type TimerConfig struct {
	CheckInterval time.Duration `mapstructure:"check_interval" yaml:"check_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load reads the configuration from defaults, the optional file at path and
// the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("video.driver", "SDL_VIDEODRIVER"); err != nil {
		return nil, fmt.Errorf("failed to bind SDL_VIDEODRIVER: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("render.buffers", d.Render.Buffers)
	v.SetDefault("render.flip_poll_interval", d.Render.FlipPollInterval)
	v.SetDefault("render.flip_poll_limit", d.Render.FlipPollLimit)

	v.SetDefault("video.driver", d.Video.Driver)
	v.SetDefault("video.mode_poll_interval", d.Video.ModePollInterval)
	v.SetDefault("video.mode_poll_limit", d.Video.ModePollLimit)

	v.SetDefault("audio.channels", d.Audio.Channels)
	v.SetDefault("audio.blocks", d.Audio.Blocks)
	v.SetDefault("audio.level", d.Audio.Level)
	v.SetDefault("audio.wait_retries", d.Audio.WaitRetries)
	v.SetDefault("audio.wait_interval", d.Audio.WaitInterval)
	v.SetDefault("audio.event_queue", d.Audio.EventQueue)
	v.SetDefault("audio.event_timeout", d.Audio.EventTimeout)

	v.SetDefault("joystick.max_pads", d.Joystick.MaxPads)

	v.SetDefault("thread.stack_size", d.Thread.StackSize)
	v.SetDefault("thread.priority", d.Thread.Priority)
	v.SetDefault("thread.name", d.Thread.Name)
	v.SetDefault("thread.sem_max_count", d.Thread.SemMaxCount)

	v.SetDefault("timer.check_interval", d.Timer.CheckInterval)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

var (
	ErrBuffers  = errors.New("config: render.buffers must be 2 or 3")
	ErrChannels = errors.New("config: audio.channels must be 2 or 8")
	ErrBlocks   = errors.New("config: audio.blocks must be 8, 16 or 32")
	ErrMaxPads  = errors.New("config: joystick.max_pads must be between 1 and 7")
)

// Validate checks the values the hardware constrains.
func (c *Config) Validate() error {
	if c.Render.Buffers != 2 && c.Render.Buffers != 3 {
		return ErrBuffers
	}
	if c.Audio.Channels != 2 && c.Audio.Channels != 8 {
		return ErrChannels
	}
	switch c.Audio.Blocks {
	case 8, 16, 32:
	default:
		return ErrBlocks
	}
	if c.Joystick.MaxPads < 1 || c.Joystick.MaxPads > 7 {
		return ErrMaxPads
	}
	if c.Render.FlipPollLimit < 0 || c.Video.ModePollLimit < 0 || c.Audio.WaitRetries < 0 {
		return fmt.Errorf("config: poll limits must not be negative")
	}
	return nil
}
