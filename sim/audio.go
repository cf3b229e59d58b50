package sim

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

type audioPort struct {
	param  psl1ght.AudioPortParam
	data   []byte
	status uint32

	started   uint64 // clock at start, µs
	consumed  uint64 // blocks played since start
	readIndex uint64

	enc *wav.Encoder
	buf *audio.IntBuffer
}

type eventQueue struct {
	key    psl1ght.IPCKey
	events int
	notify bool
}

type audioUnit struct {
	inited    int
	ports     map[uint32]*audioPort
	nextPort  uint32
	queues    map[psl1ght.EventQueue]*eventQueue
	nextQueue psl1ght.EventQueue
	capturing bool
}

func (a *audioUnit) init() {
	a.ports = make(map[uint32]*audioPort)
	a.queues = make(map[psl1ght.EventQueue]*eventQueue)
}

func (p *audioPort) blockSize() int {
	return 4 * psl1ght.AudioBlockSamples * int(p.param.NumChannels)
}

// blockTime is the playback duration of one block in µs.
func (c *Console) blockTime() uint64 {
	return psl1ght.AudioBlockSamples * 1e6 / uint64(c.opt.SampleRate)
}

func (c *Console) AudioInit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("AudioInit"); err != nil {
		return err
	}
	c.audio.inited++
	return nil
}

func (c *Console) AudioQuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.audio.inited == 0 {
		return psl1ght.EINVAL
	}
	c.audio.inited--
	return nil
}

func (c *Console) AudioPortOpen(param *psl1ght.AudioPortParam) (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("AudioPortOpen"); err != nil {
		return 0, err
	}
	if c.audio.inited == 0 {
		return 0, psl1ght.ESRCH
	}
	switch param.NumChannels {
	case psl1ght.AudioPort2Ch, psl1ght.AudioPort8Ch:
	default:
		return 0, psl1ght.EINVAL
	}
	switch param.NumBlocks {
	case psl1ght.AudioBlock8, psl1ght.AudioBlock16, psl1ght.AudioBlock32:
	default:
		return 0, psl1ght.EINVAL
	}

	p := &audioPort{param: *param, status: psl1ght.AudioStatusReady}
	p.data = make([]byte, int(param.NumBlocks)*p.blockSize())
	if c.opt.AudioCapture != nil && !c.audio.capturing {
		c.audio.capturing = true
		ch := int(param.NumChannels)
		p.enc = wav.NewEncoder(c.opt.AudioCapture, c.opt.SampleRate, 16, ch, 1)
		p.buf = &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: ch, SampleRate: c.opt.SampleRate},
			Data:           make([]int, psl1ght.AudioBlockSamples*ch),
			SourceBitDepth: 16,
		}
	}
	num := c.audio.nextPort
	c.audio.nextPort++
	c.audio.ports[num] = p
	c.log.Debug().Uint32("port", num).Uint64("channels", param.NumChannels).
		Uint64("blocks", param.NumBlocks).Msg("audio port opened")
	return num, nil
}

func (c *Console) AudioGetPortConfig(port uint32) (psl1ght.AudioPortConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("AudioGetPortConfig"); err != nil {
		return psl1ght.AudioPortConfig{}, err
	}
	p, ok := c.audio.ports[port]
	if !ok {
		return psl1ght.AudioPortConfig{}, psl1ght.ESRCH
	}
	return psl1ght.AudioPortConfig{
		Status:       p.status,
		ChannelCount: p.param.NumChannels,
		NumBlocks:    p.param.NumBlocks,
		PortSize:     uint32(len(p.data)),
		Data:         p.data,
	}, nil
}

func (c *Console) AudioPortStart(port uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("AudioPortStart"); err != nil {
		return err
	}
	p, ok := c.audio.ports[port]
	if !ok {
		return psl1ght.ESRCH
	}
	if p.status != psl1ght.AudioStatusRunning {
		p.status = psl1ght.AudioStatusRunning
		p.started = c.clock() - p.consumed*c.blockTime()
	}
	return nil
}

func (c *Console) AudioPortStop(port uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.audio.ports[port]
	if !ok {
		return psl1ght.ESRCH
	}
	c.audioTick()
	p.status = psl1ght.AudioStatusReady
	return nil
}

func (c *Console) AudioPortClose(port uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.audio.ports[port]
	if !ok {
		return psl1ght.ESRCH
	}
	delete(c.audio.ports, port)
	p.status = psl1ght.AudioStatusClosed
	if p.enc != nil {
		if err := p.enc.Close(); err != nil {
			c.log.Error().Err(err).Msg("closing audio capture")
		}
		c.audio.capturing = false
	}
	return nil
}

// AudioPortReadIndex returns the block the hardware is playing.
func (c *Console) AudioPortReadIndex(port uint32) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audioTick()
	if p, ok := c.audio.ports[port]; ok {
		return p.readIndex
	}
	return 0
}

// audioTick lets running ports play the blocks that are due. Callers hold
// c.mu.
func (c *Console) audioTick() {
	now := c.clock()
	bt := c.blockTime()
	for _, p := range c.audio.ports {
		if p.status != psl1ght.AudioStatusRunning {
			continue
		}
		due := (now - p.started) / bt
		for p.consumed < due {
			c.playBlock(p)
			p.consumed++
			p.readIndex = p.consumed % p.param.NumBlocks
			for _, q := range c.audio.queues {
				if q.notify {
					q.events++
				}
			}
		}
	}
}

func (c *Console) playBlock(p *audioPort) {
	if p.enc == nil {
		return
	}
	size := p.blockSize()
	block := p.data[int(p.readIndex)*size:][:size]
	for i := range p.buf.Data {
		f := math.Float32frombits(binary.BigEndian.Uint32(block[4*i:]))
		f = max(-1, min(1, f))
		p.buf.Data[i] = int(f * math.MaxInt16)
	}
	if err := p.enc.Write(p.buf); err != nil {
		c.log.Error().Err(err).Msg("writing audio capture")
	}
}

// PlayedBlocks returns how many blocks port has played.
func (c *Console) PlayedBlocks(port uint32) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.audioTick()
	if p, ok := c.audio.ports[port]; ok {
		return p.consumed
	}
	return 0
}

func (c *Console) AudioCreateNotifyEventQueue() (psl1ght.EventQueue, psl1ght.IPCKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("AudioCreateNotifyEventQueue"); err != nil {
		return 0, 0, err
	}
	c.audio.nextQueue++
	q := c.audio.nextQueue
	key := psl1ght.IPCKey(0x8000cafe00000000 | uint64(q))
	c.audio.queues[q] = &eventQueue{key: key}
	return q, key, nil
}

func (c *Console) queueByKey(key psl1ght.IPCKey) *eventQueue {
	for _, q := range c.audio.queues {
		if q.key == key {
			return q
		}
	}
	return nil
}

func (c *Console) AudioSetNotifyEventQueue(key psl1ght.IPCKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queueByKey(key)
	if q == nil {
		return psl1ght.ESRCH
	}
	q.notify = true
	return nil
}

func (c *Console) AudioRemoveNotifyEventQueue(key psl1ght.IPCKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queueByKey(key)
	if q == nil {
		return psl1ght.ESRCH
	}
	q.notify = false
	return nil
}

// EventQueueReceive waits for the next block notification. A timeout of 0
// waits forever; when no port is running that would never return, so it
// fails with ETIMEDOUT instead.
func (c *Console) EventQueueReceive(eq psl1ght.EventQueue, timeoutUsec uint64) error {
	c.mu.Lock()
	q, ok := c.audio.queues[eq]
	if !ok {
		c.mu.Unlock()
		return psl1ght.ESRCH
	}
	c.audioTick()
	if q.events > 0 {
		q.events--
		c.mu.Unlock()
		return nil
	}
	wait, running := c.nextBlockIn()
	c.mu.Unlock()

	if !running || (timeoutUsec != 0 && timeoutUsec < wait) {
		if timeoutUsec != 0 {
			c.Usleep(timeoutUsec)
		}
		return psl1ght.ETIMEDOUT
	}
	c.Usleep(wait)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.audioTick()
	if q.events > 0 {
		q.events--
	}
	return nil
}

// nextBlockIn returns the time until the next block of any running port is
// played. Callers hold c.mu.
func (c *Console) nextBlockIn() (uint64, bool) {
	now := c.clock()
	bt := c.blockTime()
	var wait uint64
	running := false
	for _, p := range c.audio.ports {
		if p.status != psl1ght.AudioStatusRunning {
			continue
		}
		next := p.started + (p.consumed+1)*bt
		d := uint64(0)
		if next > now {
			d = next - now
		}
		if !running || d < wait {
			wait = d
		}
		running = true
	}
	return wait, running
}

func (c *Console) EventQueueDestroy(eq psl1ght.EventQueue) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.audio.queues[eq]; !ok {
		return psl1ght.ESRCH
	}
	delete(c.audio.queues, eq)
	return nil
}

// AudioBlockDuration is how long a port takes to play one block.
func (c *Console) AudioBlockDuration() time.Duration {
	return time.Duration(c.blockTime()) * time.Microsecond
}

// AudioState reports the number of outstanding AudioInit calls, open ports
// and event queues.
func (c *Console) AudioState() (inits, ports, queues int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audio.inited, len(c.audio.ports), len(c.audio.queues)
}
