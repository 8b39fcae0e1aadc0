package logger

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

func capture(t *testing.T, flag int) (*bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	SetConfig(&LoggerConfig{Flag: flag, Outputs: []io.Writer{out}, ErrOutput: errOut, NoColor: true})
	t.Cleanup(func() {
		SetConfig(&LoggerConfig{Flag: FLAG_INFO, Outputs: []io.Writer{os.Stdout}, ErrOutput: os.Stderr})
	})
	return out, errOut
}

func TestLevels(t *testing.T) {
	out, errOut := capture(t, FLAG_INFO)
	Debug("hidden %d", 1)
	Info("round %d closed", 2)
	Error("boom")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[INFO]")
	assert.Contains(t, out.String(), "round 2 closed")
	assert.Contains(t, errOut.String(), "boom")
	assert.NotContains(t, out.String(), Green)
}

func TestIdentifierAndNonFormatArgs(t *testing.T) {
	out, _ := capture(t, FLAG_DEBUG)
	SetIdentifier("mission-1")
	Debug(42, true, 3)
	Debug("values %v %d", false, 7)
	assert.Contains(t, out.String(), "[mission-1] 42 true 3")
	assert.Contains(t, out.String(), "[mission-1] values false 7")
}

func TestSinkRespectsLevel(t *testing.T) {
	out, _ := capture(t, FLAG_DEBUG)
	s := NewSink(0, 1)
	s.Emit(trace.Event{ParticipantID: 1, Phase: trace.PhaseSend})
	assert.Empty(t, out.String())
}

func TestSinkThrottles(t *testing.T) {
	out, _ := capture(t, FLAG_TRACE)
	s := NewSink(0.001, 2)
	for i := 0; i < 5; i++ {
		s.Emit(trace.Event{ParticipantID: 2, Round: 1, Phase: trace.PhaseDecide, Payload: map[string]interface{}{"provisional": true}})
	}
	assert.Equal(t, int64(3), s.Dropped())
	assert.Contains(t, out.String(), "general 2 round 1 decide provisional=true")
}

func TestFormatPayloadSorted(t *testing.T) {
	assert.Equal(t, "a=1 b=x", formatPayload(map[string]interface{}{"b": "x", "a": 1}))
	assert.Equal(t, "", formatPayload(nil))
}
