package sim

import (
	"github.com/ps3dev/psl1ght-sdl/psl1ght"
)

type pad struct {
	connected bool
	data      psl1ght.PadData
	fresh     bool // data changed since the last read
}

type padUnit struct {
	inited bool
	max    uint32
	pads   [psl1ght.MaxPads]pad
}

type keyboard struct {
	connected bool
	codeType  psl1ght.KbCodeType
	queue     []psl1ght.KbData
	state     psl1ght.KbData
}

type kbUnit struct {
	inited bool
	max    uint32
	kbs    [psl1ght.MaxKeyboards]keyboard
}

type mouse struct {
	connected bool
	queue     []psl1ght.MouseData
}

type mouseUnit struct {
	inited bool
	max    uint32
	mice   [psl1ght.MaxMice]mouse
}

func (c *Console) PadInit(max uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("PadInit"); err != nil {
		return err
	}
	if max == 0 || max > psl1ght.MaxPads {
		return psl1ght.EINVAL
	}
	c.pads.inited, c.pads.max = true, max
	return nil
}

func (c *Console) PadEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pads.inited {
		return psl1ght.ESRCH
	}
	c.pads.inited = false
	return nil
}

func (c *Console) PadGetInfo() (psl1ght.PadInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("PadGetInfo"); err != nil {
		return psl1ght.PadInfo{}, err
	}
	if !c.pads.inited {
		return psl1ght.PadInfo{}, psl1ght.ESRCH
	}
	info := psl1ght.PadInfo{Max: c.pads.max}
	for i := 0; i < int(c.pads.max); i++ {
		if c.pads.pads[i].connected {
			info.Connected++
			info.Status[i] = 1
			info.VendorID[i] = 0x054c
			info.ProductID[i] = 0x0268
		}
	}
	return info, nil
}

// PadClearBuf drops the pending sample, so the next PadGetData reports no
// change.
func (c *Console) PadClearBuf(port uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pads.inited || port >= c.pads.max {
		return psl1ght.EINVAL
	}
	c.pads.pads[port].fresh = false
	return nil
}

// PadGetData returns the pad's newest sample. Len is 0 when nothing changed
// since the previous call.
func (c *Console) PadGetData(port uint32) (psl1ght.PadData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pads.inited || port >= c.pads.max {
		return psl1ght.PadData{}, psl1ght.EINVAL
	}
	p := &c.pads.pads[port]
	if !p.connected {
		return psl1ght.PadData{}, psl1ght.ESRCH
	}
	d := p.data
	d.Len = 0
	if p.fresh {
		d.Len = 24
		p.fresh = false
	}
	return d, nil
}

// ConnectPad plugs a pad with all buttons released and centered sticks into
// port.
func (c *Console) ConnectPad(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pads.pads[port] = pad{connected: true, data: psl1ght.NeutralPad(), fresh: true}
}

func (c *Console) DisconnectPad(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pads.pads[port] = pad{}
}

// SetPad replaces the state of the pad in port.
func (c *Console) SetPad(port int, d psl1ght.PadData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &c.pads.pads[port]
	p.data, p.fresh = d, true
}

func (c *Console) KbInit(max uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("KbInit"); err != nil {
		return err
	}
	if max == 0 || max > psl1ght.MaxKeyboards {
		return psl1ght.EINVAL
	}
	c.kbs.inited, c.kbs.max = true, max
	return nil
}

func (c *Console) KbEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.kbs.inited {
		return psl1ght.ESRCH
	}
	c.kbs.inited = false
	return nil
}

func (c *Console) KbGetInfo() (psl1ght.KbInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.kbs.inited {
		return psl1ght.KbInfo{}, psl1ght.ESRCH
	}
	info := psl1ght.KbInfo{Max: c.kbs.max}
	for i := 0; i < int(c.kbs.max); i++ {
		if c.kbs.kbs[i].connected {
			info.Connected++
			info.Status[i] = 1
		}
	}
	return info, nil
}

func (c *Console) KbSetCodeType(port uint32, t psl1ght.KbCodeType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.kbs.inited || port >= c.kbs.max {
		return psl1ght.EINVAL
	}
	c.kbs.kbs[port].codeType = t
	return nil
}

// KbRead returns the oldest queued keyboard state, or the current state when
// nothing is queued.
func (c *Console) KbRead(port uint32) (psl1ght.KbData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.kbs.inited || port >= c.kbs.max {
		return psl1ght.KbData{}, psl1ght.EINVAL
	}
	kb := &c.kbs.kbs[port]
	if !kb.connected {
		return psl1ght.KbData{}, psl1ght.ESRCH
	}
	d := kb.state
	if len(kb.queue) > 0 {
		d = kb.queue[0]
		kb.queue = kb.queue[1:]
	}
	d.Keycode = append([]uint16(nil), d.Keycode...)
	if kb.codeType == psl1ght.KbCodeTypeASCII {
		for i, k := range d.Keycode {
			d.Keycode[i] = asciiKeycode(k)
		}
	}
	return d, nil
}

func (c *Console) KbClearBuf(port uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.kbs.inited || port >= c.kbs.max {
		return psl1ght.EINVAL
	}
	c.kbs.kbs[port].queue = nil
	return nil
}

func (c *Console) ConnectKeyboard(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kb := &c.kbs.kbs[port]
	kb.connected, kb.queue, kb.state = true, nil, psl1ght.KbData{}
}

func (c *Console) DisconnectKeyboard(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kb := &c.kbs.kbs[port]
	kb.connected, kb.queue, kb.state = false, nil, psl1ght.KbData{}
}

// PressKeys queues a keyboard state with the given modifiers and raw
// keycodes held down.
func (c *Console) PressKeys(port int, mkey psl1ght.KbMkey, keycodes ...uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kb := &c.kbs.kbs[port]
	kb.state = psl1ght.KbData{Mkey: mkey, Keycode: keycodes}
	kb.queue = append(kb.queue, kb.state)
}

// asciiKeycode maps letter and digit usages to ASCII, flagged like the SDK
// does for translated codes.
func asciiKeycode(k uint16) uint16 {
	const translated = 0x8000
	u := k & psl1ght.KbRawKeyMask
	switch {
	case u >= 0x04 && u <= 0x1d:
		return translated | ('a' + u - 0x04)
	case u >= 0x1e && u <= 0x26:
		return translated | ('1' + u - 0x1e)
	case u == 0x27:
		return translated | '0'
	}
	return k
}

func (c *Console) MouseInit(max uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fault("MouseInit"); err != nil {
		return err
	}
	if max == 0 || max > psl1ght.MaxMice {
		return psl1ght.EINVAL
	}
	c.mice.inited, c.mice.max = true, max
	return nil
}

func (c *Console) MouseEnd() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mice.inited {
		return psl1ght.ESRCH
	}
	c.mice.inited = false
	return nil
}

func (c *Console) MouseGetInfo() (psl1ght.MouseInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mice.inited {
		return psl1ght.MouseInfo{}, psl1ght.ESRCH
	}
	info := psl1ght.MouseInfo{Max: c.mice.max}
	for i := 0; i < int(c.mice.max); i++ {
		if c.mice.mice[i].connected {
			info.Connected++
			info.Status[i] = 1
		}
	}
	return info, nil
}

func (c *Console) MouseClearBuf(port uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mice.inited || port >= c.mice.max {
		return psl1ght.EINVAL
	}
	c.mice.mice[port].queue = nil
	return nil
}

// MouseGetDataList drains up to MouseMaxDataList queued samples.
func (c *Console) MouseGetDataList(port uint32) ([]psl1ght.MouseData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mice.inited || port >= c.mice.max {
		return nil, psl1ght.EINVAL
	}
	m := &c.mice.mice[port]
	if !m.connected {
		return nil, psl1ght.ESRCH
	}
	n := min(len(m.queue), psl1ght.MouseMaxDataList)
	list := append([]psl1ght.MouseData(nil), m.queue[:n]...)
	m.queue = m.queue[n:]
	return list, nil
}

func (c *Console) ConnectMouse(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mice.mice[port] = mouse{connected: true}
}

func (c *Console) DisconnectMouse(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mice.mice[port] = mouse{}
}

// QueueMouse appends samples to the mouse's data list.
func (c *Console) QueueMouse(port int, data ...psl1ght.MouseData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := &c.mice.mice[port]
	for _, d := range data {
		d.Update = 1
		m.queue = append(m.queue, d)
	}
}
