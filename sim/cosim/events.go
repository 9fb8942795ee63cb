package cosim

import "github.com/lookahead-sim/lookahead-sim/sim"

// EventType names the kind of a master event.
type EventType string

const (
	EventTypeInput EventType = "input"
	EventTypeSync  EventType = "sync"
)

// EventTypePriority breaks timestamp ties: lower values run first.
var EventTypePriority = map[EventType]int{
	EventTypeInput: 0,
	EventTypeSync:  1,
}

// Event is something the master executes at a simulation time.
type Event interface {
	Timestamp() sim.SimTime
	EventID() uint64
	Type() EventType
	Execute(m *Master) error
}

// BaseEvent provides common event fields
type BaseEvent struct {
	timestamp sim.SimTime
	eventID   uint64
	eventType EventType
}

func (e *BaseEvent) Timestamp() sim.SimTime { return e.timestamp }
func (e *BaseEvent) EventID() uint64        { return e.eventID }
func (e *BaseEvent) Type() EventType        { return e.eventType }

// SyncEvent synchronizes one participant at a scheduled time.
type SyncEvent struct {
	BaseEvent
	Participant *Participant
	generation  uint64
}

func (e *SyncEvent) Execute(m *Master) error {
	return m.handleSync(e)
}

// InputEvent changes the inputs of one participant at an arbitrary time
// before its next scheduled synchronization.
type InputEvent struct {
	BaseEvent
	Participant *Participant
	Inputs      sim.InputSet
	generation  uint64
}

func (e *InputEvent) Execute(m *Master) error {
	return m.handleInput(e)
}
