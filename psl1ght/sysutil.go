package psl1ght

// System utility event status codes delivered to registered callbacks.
const (
	SysutilExitGame  = 0x0101
	SysutilDrawBegin = 0x0121
	SysutilDrawEnd   = 0x0122
	SysutilMenuOpen  = 0x0131
	SysutilMenuClose = 0x0132
)

const (
	SysutilEventSlot0 = 0
	SysutilMaxSlots   = 4
)

// SysutilCallback receives an event status code and its parameter.
type SysutilCallback func(status, param uint64)
