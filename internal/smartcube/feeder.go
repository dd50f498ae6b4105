package smartcube

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/rubik"
)

// Feeder applies cube notifications to an executor.
type Feeder struct {
	ex  *rubik.Executor
	log *log.Logger

	mu       sync.RWMutex
	battery  int
	cubeType string
}

func NewFeeder(ex *rubik.Executor, logger *log.Logger) *Feeder {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Feeder{ex: ex, log: logger, battery: -1}
}

// Handle processes one message. A physical turn has already happened, so
// a pending animation hold is settled before the move is applied.
func (f *Feeder) Handle(msg Message) error {
	switch msg.Type {
	case MsgRotation:
		rots, err := DecodeRotations(msg.Payload)
		if err != nil {
			return err
		}
		for _, r := range rots {
			if f.ex.Status() == rubik.Rotating {
				f.ex.Settle()
			}
			if _, err := f.ex.Apply(r.Move); err != nil {
				return err
			}
		}

	case MsgBattery:
		level, err := DecodeBattery(msg.Payload)
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.battery = level
		f.mu.Unlock()
		f.log.Debug("battery", "level", level)

	case MsgCubeType:
		name, err := DecodeCubeType(msg.Payload)
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.cubeType = name
		f.mu.Unlock()

	default:
		f.log.Debug("ignoring message", "type", TypeName(msg.Type), "len", len(msg.Payload))
	}
	return nil
}

// Battery returns the last reported battery level, or -1.
func (f *Feeder) Battery() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.battery
}

// CubeType returns the reported cube type, or "".
func (f *Feeder) CubeType() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cubeType
}
