// Package trace defines the optional event stream emitted by generals and
// the mission while a run is in progress.
package trace

import "sync"

type Phase string

const (
	PhaseRegister Phase = "register"
	PhaseSend     Phase = "send"
	PhaseReceive  Phase = "receive"
	PhaseDecide   Phase = "decide"
	PhaseFinal    Phase = "final"
)

// Event is one step of one participant.
type Event struct {
	ParticipantID int
	Round         int
	Phase         Phase
	Payload       map[string]interface{}
}

// Sink consumes trace events. Implementations must be safe for concurrent use.
type Sink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ev Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// Nop discards everything.
type Nop struct{}

func (Nop) Emit(Event) {}

// Emit forwards ev to sink. A nil sink is a no-op.
func Emit(sink Sink, ev Event) {
	if sink == nil {
		return
	}
	sink.Emit(ev)
}

type multi []Sink

func (m multi) Emit(ev Event) {
	for _, s := range m {
		Emit(s, ev)
	}
}

// Multi fans events out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var out multi
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Nop{}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

// Recorder keeps every event in memory. Used by tests and the demo.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Count returns how many recorded events match phase.
func (r *Recorder) Count(phase Phase) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Phase == phase {
			n++
		}
	}
	return n
}
