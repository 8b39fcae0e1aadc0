package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitNilSink(t *testing.T) {
	assert.NotPanics(t, func() {
		Emit(nil, Event{Phase: PhaseSend})
	})
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	s := Multi(a, nil, b)
	s.Emit(Event{ParticipantID: 1, Phase: PhaseSend})
	s.Emit(Event{ParticipantID: 1, Phase: PhaseReceive})

	assert.Len(t, a.Events(), 2)
	assert.Len(t, b.Events(), 2)
	assert.Equal(t, 1, a.Count(PhaseSend))

	_, isNop := Multi(nil, nil).(Nop)
	assert.True(t, isNop)
	assert.Same(t, a, Multi(a))
}

func TestSinkFunc(t *testing.T) {
	got := 0
	Emit(SinkFunc(func(ev Event) { got = ev.Round }), Event{Round: 3})
	assert.Equal(t, 3, got)
}
