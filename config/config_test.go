package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psl1ght.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
render:
  buffers: 3
  flip_poll_interval: 1ms
audio:
  channels: 8
  event_queue: true
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Render.Buffers)
	assert.Equal(t, time.Millisecond, cfg.Render.FlipPollInterval)
	assert.Equal(t, 8, cfg.Audio.Channels)
	assert.True(t, cfg.Audio.EventQueue)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Audio.Blocks, "untouched keys keep defaults")
	assert.Equal(t, 1500, int(cfg.Thread.Priority))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SDL_VIDEODRIVER", "dummy")
	t.Setenv("PSL1GHT_SDL_RENDER_FLIP_POLL_LIMIT", "50")
	t.Setenv("PSL1GHT_SDL_TIMER_CHECK_INTERVAL", "5ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dummy", cfg.Video.Driver)
	assert.Equal(t, 50, cfg.Render.FlipPollLimit)
	assert.Equal(t, 5*time.Millisecond, cfg.Timer.CheckInterval)
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mod      func(c *Config)
		expected error
	}{
		"defaults": {func(c *Config) {}, nil},
		"buffers":  {func(c *Config) { c.Render.Buffers = 4 }, ErrBuffers},
		"channels": {func(c *Config) { c.Audio.Channels = 6 }, ErrChannels},
		"blocks":   {func(c *Config) { c.Audio.Blocks = 12 }, ErrBlocks},
		"pads":     {func(c *Config) { c.Joystick.MaxPads = 0 }, ErrMaxPads},
	}
	for name, tt := range tests {
		cfg := Default()
		tt.mod(cfg)
		if err := cfg.Validate(); err != tt.expected {
			t.Fatalf("%s: expected %v, got %v", name, tt.expected, err)
		}
	}

	cfg := Default()
	cfg.Audio.WaitRetries = -1
	assert.Error(t, cfg.Validate())

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  buffers: 1\n"), 0o644))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrBuffers)
}

func TestYAMLRoundTrip(t *testing.T) {
	b, err := yaml.Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(b), "flip_poll_interval")

	path := filepath.Join(t.TempDir(), "dump.yaml")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
