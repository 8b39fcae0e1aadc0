package loggerfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/meta-node-blockchain/om-generals/pkg/logger"
)

// LogCleaner removes the trace files of previous runs.
type LogCleaner struct {
	logDir string
}

func NewLogCleaner(logDir string) *LogCleaner {
	return &LogCleaner{logDir: logDir}
}

// CleanLogs deletes everything inside the log directory, keeping the directory itself.
func (lc *LogCleaner) CleanLogs() error {
	entries, err := os.ReadDir(lc.logDir)
	if os.IsNotExist(err) {
		logger.Debug("Log directory %s does not exist, nothing to clean", lc.logDir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read log directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(lc.logDir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Error("Cannot remove %s: %v", path, err)
			return err
		}
		logger.Debug("Removed %s", path)
	}
	logger.Info("Cleaned %d entries from %s", len(entries), lc.logDir)
	return nil
}
