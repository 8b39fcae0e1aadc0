package loggerfile

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

// Global log directory configuration
var (
	globalLogDir = "logs"
	dirMu        sync.RWMutex
)

// SetGlobalLogDir sets the global log directory
func SetGlobalLogDir(logDir string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	globalLogDir = logDir
}

// GetGlobalLogDir returns the current global log directory
func GetGlobalLogDir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return globalLogDir
}

// FileLogger appends trace lines to one file under the log directory.
type FileLogger struct {
	file  *os.File
	mutex sync.Mutex
}

// NewFileLogger opens (creating if needed) filePath relative to the global log directory.
func NewFileLogger(filePath string) (*FileLogger, error) {
	full := filepath.Join(GetGlobalLogDir(), filePath)
	if err := os.MkdirAll(filepath.Dir(full), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	file, err := os.OpenFile(full, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileLogger{file: file}, nil
}

// Path returns the file being written.
func (fl *FileLogger) Path() string {
	if fl == nil {
		return ""
	}
	return fl.file.Name()
}

// Emit writes ev as one line of JSON.
func (fl *FileLogger) Emit(ev trace.Event) {
	if fl == nil {
		return
	}
	line, err := EncodeEvent(ev)
	if err != nil {
		log.Printf("Failed to encode trace event: %v", err)
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()
	if _, err := fl.file.Write(append(line, '\n')); err != nil {
		log.Printf("Failed to write trace event: %v", err)
	}
}

// EncodeEvent renders ev as compact JSON through a protobuf Struct.
func EncodeEvent(ev trace.Event) ([]byte, error) {
	fields := map[string]interface{}{
		"participant": ev.ParticipantID,
		"round":       ev.Round,
		"phase":       string(ev.Phase),
	}
	if len(ev.Payload) > 0 {
		fields["payload"] = ev.Payload
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("event to struct: %w", err)
	}
	return protojson.MarshalOptions{Multiline: false}.Marshal(st)
}

// DecodeEvent parses a line written by Emit.
func DecodeEvent(line []byte) (trace.Event, error) {
	st := &structpb.Struct{}
	if err := protojson.Unmarshal(line, st); err != nil {
		return trace.Event{}, fmt.Errorf("decode event: %w", err)
	}
	m := st.AsMap()
	ev := trace.Event{}
	if v, ok := m["participant"].(float64); ok {
		ev.ParticipantID = int(v)
	}
	if v, ok := m["round"].(float64); ok {
		ev.Round = int(v)
	}
	if v, ok := m["phase"].(string); ok {
		ev.Phase = trace.Phase(v)
	}
	if v, ok := m["payload"].(map[string]interface{}); ok {
		ev.Payload = v
	}
	return ev, nil
}

// Close closes the log file
func (fl *FileLogger) Close() {
	if fl == nil {
		log.Println("FileLogger is nil. Skipping Close.")
		return
	}

	if err := fl.file.Close(); err != nil {
		log.Printf("Error closing file: %v", err)
	}
}
