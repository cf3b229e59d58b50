package sdl

type JoystickCaps struct {
	Axes, Hats, Balls, Buttons int
}

type JoystickDriver interface {
	// Init scans for joysticks and returns how many are available.
	Init() (int, error)
	Name(index int) (string, error)
	Open(index int) (Joystick, error)
	Quit()
}

type Joystick interface {
	Caps() JoystickCaps
	// Update polls the device and reports changes to the JoystickSink.
	Update()
	Close()
}

type ThreadID uint64

type Thread interface {
	ID() ThreadID
}

type ThreadDriver interface {
	CreateThread(fn func() int) (Thread, error)
	ThreadID() ThreadID
	// WaitThread blocks until t has finished and returns its status.
	WaitThread(t Thread) int
}

// Semaphore is a counting semaphore. WaitTimeout returns nil when the count
// was decremented and ErrTimedOut when the timeout elapsed first.
type Semaphore interface {
	WaitTimeout(ms uint32) error
	TryWait() error
	Wait() error
	Post() error
	Value() uint32
	Destroy()
}

type TimerDriver interface {
	StartTicks()
	GetTicks() uint32
	Delay(ms uint32)
	PerformanceCounter() uint64
	PerformanceFrequency() uint64
}
