package beacon

import (
	"fmt"
	"log/slog"
)

// EventType identifies a GAP event reported by the stack.
type EventType uint8

const (
	EventAdvDataSetComplete EventType = iota + 1
	EventAdvStartComplete
	EventAdvStopComplete
)

func (t EventType) String() string {
	switch t {
	case EventAdvDataSetComplete:
		return "adv-data-set-complete"
	case EventAdvStartComplete:
		return "adv-start-complete"
	case EventAdvStopComplete:
		return "adv-stop-complete"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

// Event is delivered to the registered EventHandler. Err is nil when the
// operation the event completes succeeded.
type Event struct {
	Type EventType
	Err  error
}

// EventHandler receives GAP events. Stacks may call it from their own
// goroutine.
type EventHandler func(Event)

// NopHandler ignores every event.
func NopHandler(Event) {}

// LogHandler returns a handler that only reports whether advertising started.
func LogHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev Event) {
		if ev.Type != EventAdvStartComplete {
			return
		}
		if ev.Err != nil {
			logger.Error("failed to start advertising", "err", ev.Err)
			return
		}
		logger.Info("non-connectable advertising started")
	}
}
