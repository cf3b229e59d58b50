//go:build !psl1ght

package psl1ght

// Open fails with ErrNotPS3 unless built with the psl1ght tag.
func Open() (*System, error) {
	return nil, ErrNotPS3
}

func (s *System) AudioInit() error                                    { panic("psl1ght: not on PS3") }
func (s *System) AudioQuit() error                                    { panic("psl1ght: not on PS3") }
func (s *System) AudioPortOpen(param *AudioPortParam) (uint32, error) { panic("psl1ght: not on PS3") }

func (s *System) AudioGetPortConfig(port uint32) (AudioPortConfig, error) {
	panic("psl1ght: not on PS3")
}

func (s *System) AudioPortStart(port uint32) error      { panic("psl1ght: not on PS3") }
func (s *System) AudioPortStop(port uint32) error       { panic("psl1ght: not on PS3") }
func (s *System) AudioPortClose(port uint32) error      { panic("psl1ght: not on PS3") }
func (s *System) AudioPortReadIndex(port uint32) uint64 { panic("psl1ght: not on PS3") }

func (s *System) AudioCreateNotifyEventQueue() (EventQueue, IPCKey, error) {
	panic("psl1ght: not on PS3")
}

func (s *System) AudioSetNotifyEventQueue(key IPCKey) error    { panic("psl1ght: not on PS3") }
func (s *System) AudioRemoveNotifyEventQueue(key IPCKey) error { panic("psl1ght: not on PS3") }

func (s *System) EventQueueReceive(q EventQueue, timeoutUsec uint64) error {
	panic("psl1ght: not on PS3")
}

func (s *System) EventQueueDestroy(q EventQueue) error { panic("psl1ght: not on PS3") }

func (s *System) PadInit(max uint32) error                { panic("psl1ght: not on PS3") }
func (s *System) PadEnd() error                           { panic("psl1ght: not on PS3") }
func (s *System) PadClearBuf(port uint32) error           { panic("psl1ght: not on PS3") }
func (s *System) PadGetInfo() (PadInfo, error)            { panic("psl1ght: not on PS3") }
func (s *System) PadGetData(port uint32) (PadData, error) { panic("psl1ght: not on PS3") }

func (s *System) KbInit(max uint32) error                       { panic("psl1ght: not on PS3") }
func (s *System) KbEnd() error                                  { panic("psl1ght: not on PS3") }
func (s *System) KbGetInfo() (KbInfo, error)                    { panic("psl1ght: not on PS3") }
func (s *System) KbSetCodeType(port uint32, t KbCodeType) error { panic("psl1ght: not on PS3") }
func (s *System) KbRead(port uint32) (KbData, error)            { panic("psl1ght: not on PS3") }
func (s *System) KbClearBuf(port uint32) error                  { panic("psl1ght: not on PS3") }

func (s *System) MouseInit(max uint32) error                        { panic("psl1ght: not on PS3") }
func (s *System) MouseEnd() error                                   { panic("psl1ght: not on PS3") }
func (s *System) MouseGetInfo() (MouseInfo, error)                  { panic("psl1ght: not on PS3") }
func (s *System) MouseClearBuf(port uint32) error                   { panic("psl1ght: not on PS3") }
func (s *System) MouseGetDataList(port uint32) ([]MouseData, error) { panic("psl1ght: not on PS3") }

func (s *System) RSXInit(cmdSize, ioSize uint32) (GCMContext, error) { panic("psl1ght: not on PS3") }
func (s *System) RSXMemalign(align, size uint32) ([]byte, error)     { panic("psl1ght: not on PS3") }
func (s *System) RSXFree(b []byte)                                   { panic("psl1ght: not on PS3") }
func (s *System) RSXAddressToOffset(b []byte) (uint32, error)        { panic("psl1ght: not on PS3") }
func (s *System) RSXFlushBuffer(ctx GCMContext)                      { panic("psl1ght: not on PS3") }
func (s *System) GCMSetFlipMode(mode FlipMode)                       { panic("psl1ght: not on PS3") }

func (s *System) GCMSetDisplayBuffer(id uint8, offset, pitch, w, h uint32) error {
	panic("psl1ght: not on PS3")
}

func (s *System) GCMGetFlipStatus() uint32                  { panic("psl1ght: not on PS3") }
func (s *System) GCMResetFlipStatus()                       { panic("psl1ght: not on PS3") }
func (s *System) GCMSetFlip(ctx GCMContext, id uint8) error { panic("psl1ght: not on PS3") }
func (s *System) GCMSetWaitFlip(ctx GCMContext)             { panic("psl1ght: not on PS3") }

func (s *System) RSXSetTransferScaleMode(ctx GCMContext, mode, surface uint32) {
	panic("psl1ght: not on PS3")
}

func (s *System) RSXSetTransferScaleSurface(ctx GCMContext, sc *TransferScale, sf *TransferSurface) {
	panic("psl1ght: not on PS3")
}

func (s *System) VideoGetState(videoOut, deviceIndex uint32) (VideoState, error) {
	panic("psl1ght: not on PS3")
}

func (s *System) VideoGetResolution(id uint8) (VideoResolution, error) { panic("psl1ght: not on PS3") }

func (s *System) VideoConfigure(videoOut uint32, cfg *VideoConfiguration, blocking bool) error {
	panic("psl1ght: not on PS3")
}

func (s *System) SysutilRegisterCallback(slot uint32, fn SysutilCallback) error {
	panic("psl1ght: not on PS3")
}

func (s *System) SysutilUnregisterCallback(slot uint32) error { panic("psl1ght: not on PS3") }
func (s *System) SysutilCheckCallback() error                 { panic("psl1ght: not on PS3") }

func (s *System) SemCreate(attr *SemAttr, initial, max int32) (SemID, error) {
	panic("psl1ght: not on PS3")
}

func (s *System) SemDestroy(id SemID) error                  { panic("psl1ght: not on PS3") }
func (s *System) SemWait(id SemID, timeoutUsec uint64) error { panic("psl1ght: not on PS3") }
func (s *System) SemTryWait(id SemID) error                  { panic("psl1ght: not on PS3") }
func (s *System) SemPost(id SemID, count int32) error        { panic("psl1ght: not on PS3") }
func (s *System) SemGetValue(id SemID) (int32, error)        { panic("psl1ght: not on PS3") }

func (s *System) ThreadCreate(entry func(), priority int32, stackSize uint64, flags ThreadFlags, name string) (ThreadID, error) {
	panic("psl1ght: not on PS3")
}

func (s *System) ThreadJoin(id ThreadID) (uint64, error) { panic("psl1ght: not on PS3") }
func (s *System) ThreadGetID() ThreadID                  { panic("psl1ght: not on PS3") }
func (s *System) SystemTime() uint64                     { panic("psl1ght: not on PS3") }
func (s *System) Usleep(usec uint64)                     { panic("psl1ght: not on PS3") }
