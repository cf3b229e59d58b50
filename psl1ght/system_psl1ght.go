//go:build psl1ght

package psl1ght

// #cgo LDFLAGS: -lrsx -lgcm_sys -lio -lsysutil -lrt -llv2 -laudio -lm
//
// #include <stdint.h>
// #include <stdlib.h>
// #include <string.h>
// #include <malloc.h>
// #include <audio/audio.h>
// #include <io/pad.h>
// #include <io/kb.h>
// #include <io/mouse.h>
// #include <rsx/rsx.h>
// #include <sysutil/video.h>
// #include <sysutil/sysutil.h>
// #include <sys/sem.h>
// #include <sys/thread.h>
// #include <sys/systime.h>
// #include <sys/event_queue.h>
//
// void psl1ghtThreadEntry(uint64_t h);
// void psl1ghtSysutilCallback(uint64_t status, uint64_t param, uint32_t slot);
//
// static void thread_entry(void *arg) {
//   psl1ghtThreadEntry((uint64_t)(uintptr_t)arg);
//   sysThreadExit(0);
// }
//
// static s32 thread_create(sys_ppu_thread_t *id, uint64_t h, s32 prio,
//     u64 stack, u64 flags, const char *name) {
//   return sysThreadCreate(id, thread_entry, (void *)(uintptr_t)h, prio,
//     stack, flags, (char *)name);
// }
//
// static void sysutil_cb(u64 status, u64 param, void *usrdata) {
//   psl1ghtSysutilCallback(status, param, (uint32_t)(uintptr_t)usrdata);
// }
//
// static s32 sysutil_register(u32 slot) {
//   return sysUtilRegisterCallback(slot, sysutil_cb, (void *)(uintptr_t)slot);
// }
//
// static u64 audio_read_index(audioPortConfig *c) {
//   return *(u64 *)(u64)c->readIndex;
// }
//
// static void *audio_data(audioPortConfig *c) {
//   return (void *)(u64)c->audioDataStart;
// }
//
// static u16 pad_buttons(padData *d) {
//   return (u16)(d->button[2] << 8) | (u16)(d->button[3] & 0xff);
// }
//
// static u16 pad_analog(padData *d, int i) {
//   return d->button[4 + i];
// }
//
// static u32 kb_mkey(KbData *d) {
//   return d->mkey._KbMkeyU.mkeys;
// }
//
// static u32 kb_led(KbData *d) {
//   return d->led._KbLedU.leds;
// }
//
// static s32 sem_create(sys_sem_t *sem, u32 protocol, u32 pshared,
//     const char *name, s32 initial, s32 max) {
//   sys_sem_attr_t attr;
//   memset(&attr, 0, sizeof(attr));
//   attr.attr_protocol = protocol;
//   attr.attr_pshared = pshared;
//   strncpy(attr.name, name, sizeof(attr.name));
//   return sysSemCreate(sem, &attr, initial, max);
// }
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"
)

// Open returns the linked SDK.
func Open() (*System, error) {
	return &System{}, nil
}

//export psl1ghtThreadEntry
func psl1ghtThreadEntry(h C.uint64_t) {
	handle := cgo.Handle(h)
	entry := handle.Value().(func())
	handle.Delete()
	entry()
}

var (
	sysutilMtx sync.Mutex
	sysutilFns [SysutilMaxSlots]SysutilCallback
)

//export psl1ghtSysutilCallback
func psl1ghtSysutilCallback(status, param C.uint64_t, slot C.uint32_t) {
	sysutilMtx.Lock()
	fn := sysutilFns[slot]
	sysutilMtx.Unlock()
	if fn != nil {
		fn(uint64(status), uint64(param))
	}
}

func (s *System) AudioInit() error { return Result(int32(C.audioInit())) }
func (s *System) AudioQuit() error { return Result(int32(C.audioQuit())) }

func (s *System) AudioPortOpen(param *AudioPortParam) (uint32, error) {
	var port C.u32
	p := C.audioPortParam{
		numChannels: C.u64(param.NumChannels),
		numBlocks:   C.u64(param.NumBlocks),
		attrib:      C.u64(param.Attrib),
		level:       C.f32(param.Level),
	}
	err := Result(int32(C.audioPortOpen(&p, &port)))
	return uint32(port), err
}

func (s *System) AudioGetPortConfig(port uint32) (AudioPortConfig, error) {
	var c C.audioPortConfig
	if err := Result(int32(C.audioGetPortConfig(C.u32(port), &c))); err != nil {
		return AudioPortConfig{}, err
	}
	size := int(c.portSize)
	return AudioPortConfig{
		Status:       uint32(c.status),
		ChannelCount: uint64(c.channelCount),
		NumBlocks:    uint64(c.numBlocks),
		PortSize:     uint32(c.portSize),
		Data:         unsafe.Slice((*byte)(C.audio_data(&c)), size),
	}, nil
}

func (s *System) AudioPortStart(port uint32) error {
	return Result(int32(C.audioPortStart(C.u32(port))))
}

func (s *System) AudioPortStop(port uint32) error {
	return Result(int32(C.audioPortStop(C.u32(port))))
}

func (s *System) AudioPortClose(port uint32) error {
	return Result(int32(C.audioPortClose(C.u32(port))))
}

func (s *System) AudioPortReadIndex(port uint32) uint64 {
	var c C.audioPortConfig
	if C.audioGetPortConfig(C.u32(port), &c) != 0 {
		return 0
	}
	return uint64(C.audio_read_index(&c))
}

func (s *System) AudioCreateNotifyEventQueue() (EventQueue, IPCKey, error) {
	var q C.sys_event_queue_t
	var key C.sys_ipc_key_t
	err := Result(int32(C.audioCreateNotifyEventQueue(&q, &key)))
	return EventQueue(q), IPCKey(key), err
}

func (s *System) AudioSetNotifyEventQueue(key IPCKey) error {
	return Result(int32(C.audioSetNotifyEventQueue(C.sys_ipc_key_t(key))))
}

func (s *System) AudioRemoveNotifyEventQueue(key IPCKey) error {
	return Result(int32(C.audioRemoveNotifyEventQueue(C.sys_ipc_key_t(key))))
}

func (s *System) EventQueueReceive(q EventQueue, timeoutUsec uint64) error {
	var ev C.sys_event_t
	return Result(int32(C.sysEventQueueReceive(C.sys_event_queue_t(q), &ev, C.u64(timeoutUsec))))
}

func (s *System) EventQueueDestroy(q EventQueue) error {
	return Result(int32(C.sysEventQueueDestroy(C.sys_event_queue_t(q), 0)))
}

func (s *System) PadInit(max uint32) error { return Result(int32(C.ioPadInit(C.u32(max)))) }
func (s *System) PadEnd() error            { return Result(int32(C.ioPadEnd())) }

func (s *System) PadClearBuf(port uint32) error {
	return Result(int32(C.ioPadClearBuf(C.u32(port))))
}

func (s *System) PadGetInfo() (PadInfo, error) {
	var ci C.padInfo
	if err := Result(int32(C.ioPadGetInfo(&ci))); err != nil {
		return PadInfo{}, err
	}
	info := PadInfo{
		Max:       uint32(ci.max),
		Connected: uint32(ci.connected),
		Info:      uint32(ci.info),
	}
	for i := 0; i < MaxPads; i++ {
		info.VendorID[i] = uint16(ci.vendor_id[i])
		info.ProductID[i] = uint16(ci.product_id[i])
		info.Status[i] = uint8(ci.status[i])
	}
	return info, nil
}

func (s *System) PadGetData(port uint32) (PadData, error) {
	var cd C.padData
	if err := Result(int32(C.ioPadGetData(C.u32(port), &cd))); err != nil {
		return PadData{}, err
	}
	return PadData{
		Len:     int32(cd.len),
		Buttons: PadButtons(C.pad_buttons(&cd)),
		RightH:  uint16(C.pad_analog(&cd, 0)),
		RightV:  uint16(C.pad_analog(&cd, 1)),
		LeftH:   uint16(C.pad_analog(&cd, 2)),
		LeftV:   uint16(C.pad_analog(&cd, 3)),
	}, nil
}

func (s *System) KbInit(max uint32) error { return Result(int32(C.ioKbInit(C.u32(max)))) }
func (s *System) KbEnd() error            { return Result(int32(C.ioKbEnd())) }

func (s *System) KbGetInfo() (KbInfo, error) {
	var ci C.KbInfo
	if err := Result(int32(C.ioKbGetInfo(&ci))); err != nil {
		return KbInfo{}, err
	}
	info := KbInfo{
		Max:       uint32(ci.max),
		Connected: uint32(ci.connected),
		Info:      uint32(ci.info),
	}
	for i := 0; i < MaxKeyboards; i++ {
		info.Status[i] = uint8(ci.status[i])
	}
	return info, nil
}

func (s *System) KbSetCodeType(port uint32, t KbCodeType) error {
	return Result(int32(C.ioKbSetCodeType(C.u32(port), C.u32(t))))
}

func (s *System) KbRead(port uint32) (KbData, error) {
	var cd C.KbData
	if err := Result(int32(C.ioKbRead(C.u32(port), &cd))); err != nil {
		return KbData{}, err
	}
	data := KbData{
		Led:  uint32(C.kb_led(&cd)),
		Mkey: KbMkey(C.kb_mkey(&cd)),
	}
	n := min(int(cd.nb_keycode), MaxKeycodes)
	for i := 0; i < n; i++ {
		data.Keycode = append(data.Keycode, uint16(cd.keycode[i]))
	}
	return data, nil
}

func (s *System) KbClearBuf(port uint32) error {
	return Result(int32(C.ioKbClearBuf(C.u32(port))))
}

func (s *System) MouseInit(max uint32) error { return Result(int32(C.ioMouseInit(C.u32(max)))) }
func (s *System) MouseEnd() error            { return Result(int32(C.ioMouseEnd())) }

func (s *System) MouseGetInfo() (MouseInfo, error) {
	var ci C.mouseInfo
	if err := Result(int32(C.ioMouseGetInfo(&ci))); err != nil {
		return MouseInfo{}, err
	}
	info := MouseInfo{
		Max:       uint32(ci.max),
		Connected: uint32(ci.connected),
		Info:      uint32(ci.info),
	}
	for i := 0; i < MaxMice; i++ {
		info.VendorID[i] = uint16(ci.vendor_id[i])
		info.ProductID[i] = uint16(ci.product_id[i])
		info.Status[i] = uint8(ci.status[i])
	}
	return info, nil
}

func (s *System) MouseClearBuf(port uint32) error {
	return Result(int32(C.ioMouseClearBuf(C.u32(port))))
}

func (s *System) MouseGetDataList(port uint32) ([]MouseData, error) {
	var cl C.mouseDataList
	if err := Result(int32(C.ioMouseGetDataList(C.u32(port), &cl))); err != nil {
		return nil, err
	}
	n := min(int(cl.count), MouseMaxDataList)
	list := make([]MouseData, n)
	for i := range list {
		d := &cl.list[i]
		list[i] = MouseData{
			Update:  uint8(d.update),
			Buttons: uint8(d.buttons),
			XAxis:   int8(d.x_axis),
			YAxis:   int8(d.y_axis),
			Wheel:   int8(d.wheel),
			Tilt:    int8(d.tilt),
		}
	}
	return list, nil
}

var hostBuffer unsafe.Pointer

func (s *System) RSXInit(cmdSize, ioSize uint32) (GCMContext, error) {
	if hostBuffer == nil {
		hostBuffer = C.memalign(1024*1024, C.size_t(ioSize))
		if hostBuffer == nil {
			return 0, ENOMEM
		}
	}
	var ctx *C.gcmContextData
	if err := Result(int32(C.rsxInit(&ctx, C.u32(cmdSize), C.u32(ioSize), hostBuffer))); err != nil {
		return 0, err
	}
	return GCMContext(unsafe.Pointer(ctx)), nil
}

func gcmContext(ctx GCMContext) *C.gcmContextData {
	return (*C.gcmContextData)(unsafe.Pointer(ctx))
}

func (s *System) RSXMemalign(align, size uint32) ([]byte, error) {
	p := C.rsxMemalign(C.u32(align), C.u32(size))
	if p == nil {
		return nil, ENOMEM
	}
	return unsafe.Slice((*byte)(p), size), nil
}

func (s *System) RSXFree(b []byte) {
	if len(b) > 0 {
		C.rsxFree(unsafe.Pointer(&b[0]))
	}
}

func (s *System) RSXAddressToOffset(b []byte) (uint32, error) {
	if len(b) == 0 {
		return 0, EFAULT
	}
	var off C.u32
	err := Result(int32(C.rsxAddressToOffset(unsafe.Pointer(&b[0]), &off)))
	return uint32(off), err
}

func (s *System) RSXFlushBuffer(ctx GCMContext) { C.rsxFlushBuffer(gcmContext(ctx)) }

func (s *System) GCMSetFlipMode(mode FlipMode) { C.gcmSetFlipMode(C.u32(mode)) }

func (s *System) GCMSetDisplayBuffer(id uint8, offset, pitch, w, h uint32) error {
	return Result(int32(C.gcmSetDisplayBuffer(C.u32(id), C.u32(offset), C.u32(pitch), C.u32(w), C.u32(h))))
}

func (s *System) GCMGetFlipStatus() uint32 { return uint32(C.gcmGetFlipStatus()) }
func (s *System) GCMResetFlipStatus()      { C.gcmResetFlipStatus() }

func (s *System) GCMSetFlip(ctx GCMContext, id uint8) error {
	return Result(int32(C.gcmSetFlip(gcmContext(ctx), C.u8(id))))
}

func (s *System) GCMSetWaitFlip(ctx GCMContext) { C.rsxSetWaitFlip(gcmContext(ctx)) }

func (s *System) RSXSetTransferScaleMode(ctx GCMContext, mode, surface uint32) {
	C.rsxSetTransferScaleMode(gcmContext(ctx), C.u32(mode), C.u32(surface))
}

func (s *System) RSXSetTransferScaleSurface(ctx GCMContext, sc *TransferScale, sf *TransferSurface) {
	cs := C.gcmTransferScale{
		conversion: C.u32(sc.Conversion),
		format:     C.u32(sc.Format),
		operation:  C.u32(sc.Operation),
		clipX:      C.s16(sc.ClipX),
		clipY:      C.s16(sc.ClipY),
		clipW:      C.u16(sc.ClipW),
		clipH:      C.u16(sc.ClipH),
		outX:       C.s16(sc.OutX),
		outY:       C.s16(sc.OutY),
		outW:       C.u16(sc.OutW),
		outH:       C.u16(sc.OutH),
		ratioX:     C.s32(sc.RatioX),
		ratioY:     C.s32(sc.RatioY),
		inW:        C.u16(sc.InW),
		inH:        C.u16(sc.InH),
		pitch:      C.u16(sc.Pitch),
		origin:     C.u8(sc.Origin),
		interp:     C.u8(sc.Interp),
		offset:     C.u32(sc.Offset),
		inX:        C.u16(sc.InX),
		inY:        C.u16(sc.InY),
	}
	cf := C.gcmTransferSurface{
		format: C.u32(sf.Format),
		pitch:  C.u16(sf.Pitch),
		offset: C.u32(sf.Offset),
	}
	C.rsxSetTransferScaleSurface(gcmContext(ctx), &cs, &cf)
}

func (s *System) VideoGetState(videoOut, deviceIndex uint32) (VideoState, error) {
	var cs C.videoState
	if err := Result(int32(C.videoGetState(C.s32(videoOut), C.s32(deviceIndex), &cs))); err != nil {
		return VideoState{}, err
	}
	return VideoState{
		State:      uint8(cs.state),
		ColorSpace: uint8(cs.colorSpace),
		DisplayMode: VideoDisplayMode{
			Resolution:  uint8(cs.displayMode.resolution),
			ScanMode:    uint8(cs.displayMode.scanMode),
			Conversion:  uint8(cs.displayMode.conversion),
			AspectRatio: uint8(cs.displayMode.aspect),
			RefreshRate: uint16(cs.displayMode.refreshRates),
		},
	}, nil
}

func (s *System) VideoGetResolution(id uint8) (VideoResolution, error) {
	var cr C.videoResolution
	if err := Result(int32(C.videoGetResolution(C.s32(id), &cr))); err != nil {
		return VideoResolution{}, err
	}
	return VideoResolution{Width: uint16(cr.width), Height: uint16(cr.height)}, nil
}

func (s *System) VideoConfigure(videoOut uint32, cfg *VideoConfiguration, blocking bool) error {
	cc := C.videoConfiguration{
		resolution: C.u8(cfg.Resolution),
		format:     C.u8(cfg.Format),
		aspect:     C.u8(cfg.Aspect),
		pitch:      C.u32(cfg.Pitch),
	}
	var block C.s32
	if blocking {
		block = 1
	}
	return Result(int32(C.videoConfigure(C.s32(videoOut), &cc, nil, block)))
}

func (s *System) SysutilRegisterCallback(slot uint32, fn SysutilCallback) error {
	if slot >= SysutilMaxSlots {
		return EINVAL
	}
	sysutilMtx.Lock()
	sysutilFns[slot] = fn
	sysutilMtx.Unlock()
	return Result(int32(C.sysutil_register(C.u32(slot))))
}

func (s *System) SysutilUnregisterCallback(slot uint32) error {
	if slot >= SysutilMaxSlots {
		return EINVAL
	}
	err := Result(int32(C.sysUtilUnregisterCallback(C.u32(slot))))
	sysutilMtx.Lock()
	sysutilFns[slot] = nil
	sysutilMtx.Unlock()
	return err
}

func (s *System) SysutilCheckCallback() error {
	return Result(int32(C.sysUtilCheckCallback()))
}

func (s *System) SemCreate(attr *SemAttr, initial, max int32) (SemID, error) {
	var sem C.sys_sem_t
	name := C.CString(string(attr.Name[:]))
	defer C.free(unsafe.Pointer(name))
	err := Result(int32(C.sem_create(&sem, C.u32(attr.Protocol), C.u32(attr.PShared), name, C.s32(initial), C.s32(max))))
	return SemID(sem), err
}

func (s *System) SemDestroy(id SemID) error {
	return Result(int32(C.sysSemDestroy(C.sys_sem_t(id))))
}

func (s *System) SemWait(id SemID, timeoutUsec uint64) error {
	return Result(int32(C.sysSemWait(C.sys_sem_t(id), C.u64(timeoutUsec))))
}

func (s *System) SemTryWait(id SemID) error {
	return Result(int32(C.sysSemTryWait(C.sys_sem_t(id))))
}

func (s *System) SemPost(id SemID, count int32) error {
	return Result(int32(C.sysSemPost(C.sys_sem_t(id), C.s32(count))))
}

func (s *System) SemGetValue(id SemID) (int32, error) {
	var v C.s32
	err := Result(int32(C.sysSemGetValue(C.sys_sem_t(id), &v)))
	return int32(v), err
}

func (s *System) ThreadCreate(entry func(), priority int32, stackSize uint64, flags ThreadFlags, name string) (ThreadID, error) {
	var id C.sys_ppu_thread_t
	h := cgo.NewHandle(entry)
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	err := Result(int32(C.thread_create(&id, C.uint64_t(h), C.s32(priority), C.u64(stackSize), C.u64(flags), cname)))
	if err != nil {
		h.Delete()
		return 0, err
	}
	return ThreadID(id), nil
}

func (s *System) ThreadJoin(id ThreadID) (uint64, error) {
	var ret C.u64
	err := Result(int32(C.sysThreadJoin(C.sys_ppu_thread_t(id), &ret)))
	return uint64(ret), err
}

func (s *System) ThreadGetID() ThreadID {
	var id C.sys_ppu_thread_t
	C.sysThreadGetId(&id)
	return ThreadID(id)
}

func (s *System) SystemTime() uint64 { return uint64(C.sysGetSystemTime()) }

func (s *System) Usleep(usec uint64) { C.sysUsleep(C.u64(usec)) }
