package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// --- Log levels ---
const (
	FLAG_TRACE = 5
	FLAG_DEBUG = 4
	FLAG_INFO  = 3
	FLAG_WARN  = 2
	FLAG_ERROR = 1
	FLAG_OFF   = 0
)

// --- ANSI color codes ---
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
)

type LoggerConfig struct {
	Flag       int
	Identifier string
	Outputs    []io.Writer
	ErrOutput  io.Writer
	NoColor    bool
}

type Logger struct {
	Config *LoggerConfig
	mu     sync.Mutex
}

// --- Global state ---
var config = &LoggerConfig{
	Flag:      FLAG_INFO,
	Outputs:   []io.Writer{os.Stdout},
	ErrOutput: os.Stderr,
}

var logger = &Logger{Config: config}

// --- Configuration ---
func SetConfig(newConfig *LoggerConfig) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	*config = *newConfig
}

func SetIdentifier(identifier string) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	config.Identifier = identifier
}

// Enabled reports whether messages at level are written.
func Enabled(level int) bool {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	return config.Flag >= level
}

// --- Public Log API ---
func Trace(msg interface{}, a ...interface{}) { log(FLAG_TRACE, Blue, "TRACE", msg, a...) }
func Debug(msg interface{}, a ...interface{}) { log(FLAG_DEBUG, Cyan, "DEBUG", msg, a...) }
func Info(msg interface{}, a ...interface{})  { log(FLAG_INFO, Green, "INFO", msg, a...) }
func Warn(msg interface{}, a ...interface{})  { log(FLAG_WARN, Yellow, "WARN", msg, a...) }

func Error(msg interface{}, a ...interface{}) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if config.Flag < FLAG_ERROR {
		return
	}
	if config.ErrOutput != nil {
		config.ErrOutput.Write(formatConsoleLog(Red, "ERROR", msg, a...))
	}
}

// --- Internal Logging Logic ---
func log(level int, color, prefix string, msg interface{}, a ...interface{}) {
	logger.mu.Lock()
	defer logger.mu.Unlock()
	if config.Flag >= level {
		logger.writeToOutputs(formatConsoleLog(color, prefix, msg, a...))
	}
}

func (l *Logger) writeToOutputs(buffer []byte) {
	for _, out := range l.Config.Outputs {
		if out != nil {
			out.Write(buffer)
		}
	}
}

func formatMessage(buffer *bytes.Buffer, msg interface{}, a ...interface{}) {
	if config.Identifier != "" {
		fmt.Fprintf(buffer, "[%s] ", config.Identifier)
	}
	if str, ok := msg.(string); ok && len(a) > 0 {
		fmt.Fprintf(buffer, str, a...)
	} else {
		fmt.Fprint(buffer, msg)
		for _, item := range a {
			fmt.Fprintf(buffer, " %v", item)
		}
	}
}

// formatConsoleLog draws the message in a box headed by level and time.
// Caller must hold logger.mu.
func formatConsoleLog(color, prefix string, msg interface{}, a ...interface{}) []byte {
	var contentBuffer bytes.Buffer
	formatMessage(&contentBuffer, msg, a...)

	lines := strings.Split(contentBuffer.String(), "\n")
	var buffer bytes.Buffer
	header := fmt.Sprintf(" %s ", time.Now().Format("15:04:05"))
	if !config.NoColor {
		buffer.WriteString(color)
	}
	fmt.Fprintf(&buffer, "┌─[%s]%s\n", prefix, header)
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			fmt.Fprintf(&buffer, "│  %s\n", line)
		}
	}
	buffer.WriteString("└" + strings.Repeat("─", len(prefix)+len(header)+3))
	if !config.NoColor {
		buffer.WriteString(Reset)
	}
	buffer.WriteString("\n")
	return buffer.Bytes()
}
