package beacon

// Mode selects which parts of the Bluetooth controller are in use.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModeBLE
	ModeClassic
	ModeDual
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeBLE:
		return "ble"
	case ModeClassic:
		return "classic"
	case ModeDual:
		return "dual"
	default:
		return "unknown"
	}
}

// Stack is the BLE controller and host stack the beacon is brought up on.
// Each method corresponds to one step of the startup sequence; see Start for
// the order in which they are called.
//
//go:generate mockgen -destination=../mocks/stack.go -package=mocks -mock_names=Stack=Stack . Stack
type Stack interface {
	// ReleaseMemory returns controller memory reserved for mode to the heap.
	ReleaseMemory(mode Mode) error
	InitController() error
	EnableController(mode Mode) error
	InitHost() error
	EnableHost() error
	RegisterCallback(handler EventHandler) error
	SetDeviceName(name string) error
	ConfigureAdvData(data AdvData) error
	StartAdvertising(params AdvParams) error
}
