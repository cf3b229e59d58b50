package sim

import (
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

var resolutions = map[uint8]psl1ght.VideoResolution{
	psl1ght.VideoResolution1080: {Width: 1920, Height: 1080},
	psl1ght.VideoResolution720:  {Width: 1280, Height: 720},
	psl1ght.VideoResolution480:  {Width: 720, Height: 480},
	psl1ght.VideoResolution576:  {Width: 720, Height: 576},
}

type videoUnit struct {
	state     psl1ght.VideoState
	config    psl1ght.VideoConfiguration
	busyPolls int
}

func (v *videoUnit) init(resolution uint8) {
	v.state = psl1ght.VideoState{
		State: psl1ght.VideoStateEnabled,
		DisplayMode: psl1ght.VideoDisplayMode{
			Resolution:  resolution,
			AspectRatio: psl1ght.VideoAspect16_9,
			RefreshRate: 60,
		},
	}
}

// VideoGetState reports the busy state for Options.BusyPolls calls after
// each configuration.
func (c *Console) VideoGetState(videoOut, deviceIndex uint32) (psl1ght.VideoState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("VideoGetState"); err != nil {
		return psl1ght.VideoState{}, err
	}
	if videoOut != psl1ght.VideoPrimary || deviceIndex != 0 {
		return psl1ght.VideoState{}, psl1ght.EINVAL
	}
	s := c.video.state
	if c.video.busyPolls > 0 {
		c.video.busyPolls--
		s.State = psl1ght.VideoStateBusy
	}
	return s, nil
}

func (c *Console) VideoGetResolution(id uint8) (psl1ght.VideoResolution, error) {
	r, ok := resolutions[id]
	if !ok {
		return psl1ght.VideoResolution{}, psl1ght.EINVAL
	}
	return r, nil
}

func (c *Console) VideoConfigure(videoOut uint32, cfg *psl1ght.VideoConfiguration, blocking bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("VideoConfigure"); err != nil {
		return err
	}
	r, ok := resolutions[cfg.Resolution]
	if videoOut != psl1ght.VideoPrimary || !ok || cfg.Format != psl1ght.VideoBufferFormatXRGB || cfg.Pitch < 4*uint32(r.Width) {
		return psl1ght.EINVAL
	}
	c.video.config = *cfg
	c.video.state.DisplayMode.Resolution = cfg.Resolution
	if cfg.Aspect != 0 {
		c.video.state.DisplayMode.AspectRatio = cfg.Aspect
	}
	if !blocking {
		c.video.busyPolls = c.opt.BusyPolls
	}
	c.record("VideoConfigure(%d, %d)", cfg.Resolution, cfg.Pitch)
	return nil
}

// DisableVideo makes VideoGetState report a disabled display.
func (c *Console) DisableVideo() {
	c.mu.Lock()
	c.video.state.State = psl1ght.VideoStateDisabled
	c.mu.Unlock()
}

// VideoConfiguration returns the last applied configuration.
func (c *Console) VideoConfiguration() psl1ght.VideoConfiguration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.video.config
}

type sysutilEvent struct {
	status, param uint64
}

type sysutilUnit struct {
	slots   [psl1ght.SysutilMaxSlots]psl1ght.SysutilCallback
	pending []sysutilEvent
}

func (c *Console) SysutilRegisterCallback(slot uint32, fn psl1ght.SysutilCallback) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot >= psl1ght.SysutilMaxSlots || fn == nil {
		return psl1ght.EINVAL
	}
	c.util.slots[slot] = fn
	return nil
}

func (c *Console) SysutilUnregisterCallback(slot uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot >= psl1ght.SysutilMaxSlots || c.util.slots[slot] == nil {
		return psl1ght.EINVAL
	}
	c.util.slots[slot] = nil
	return nil
}

// SysutilCheckCallback delivers pending events to every registered callback
// on the calling goroutine.
func (c *Console) SysutilCheckCallback() error {
	c.mu.Lock()
	events := c.util.pending
	c.util.pending = nil
	slots := c.util.slots
	c.mu.Unlock()

	for _, ev := range events {
		for _, fn := range slots {
			if fn != nil {
				fn(ev.status, ev.param)
			}
		}
	}
	return nil
}

// PostSysutilEvent queues a system event, e.g. psl1ght.SysutilExitGame.
func (c *Console) PostSysutilEvent(status, param uint64) {
	c.mu.Lock()
	c.util.pending = append(c.util.pending, sysutilEvent{status, param})
	c.mu.Unlock()
}
