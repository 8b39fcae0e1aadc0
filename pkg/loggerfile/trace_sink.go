package loggerfile

import (
	"fmt"
	"sync"

	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

// TraceSink writes each participant's events to its own file,
// <log dir>/<mission>/general-<id>.log.
type TraceSink struct {
	mission string
	mu      sync.Mutex
	files   map[int]*FileLogger
}

func NewTraceSink(missionID string) *TraceSink {
	return &TraceSink{
		mission: missionID,
		files:   make(map[int]*FileLogger),
	}
}

func (s *TraceSink) Emit(ev trace.Event) {
	fl, err := s.fileFor(ev.ParticipantID)
	if err != nil {
		logger.Warn("Trace file for general %d unavailable: %v", ev.ParticipantID, err)
		return
	}
	fl.Emit(ev)
}

func (s *TraceSink) fileFor(id int) (*FileLogger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fl, ok := s.files[id]; ok {
		return fl, nil
	}
	fl, err := NewFileLogger(fmt.Sprintf("%s/general-%d.log", s.mission, id))
	if err != nil {
		return nil, err
	}
	s.files[id] = fl
	return fl, nil
}

// Paths lists the files opened so far, keyed by participant id.
func (s *TraceSink) Paths() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]string, len(s.files))
	for id, fl := range s.files {
		out[id] = fl.Path()
	}
	return out
}

func (s *TraceSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, fl := range s.files {
		fl.Close()
		delete(s.files, id)
	}
}
