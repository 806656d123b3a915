package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// OpenLogFile creates a timestamped log file in dir and returns a writer
// teeing stdout and the file. Old logs beyond MaxLogFiles are removed first.
// The caller closes the returned file.
func OpenLogFile(dir string, now time.Time) (*os.File, io.Writer, error) {
	if err := os.MkdirAll(dir, LogDirPermissions); err != nil {
		return nil, nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	cleanupLogs(dir, MaxLogFiles-1)

	name := filepath.Join(dir, fmt.Sprintf(LogFileNamePattern, now.Format(LogFileTimeLayout)))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return f, io.MultiWriter(os.Stdout, f), nil
}

// cleanupLogs removes the oldest .log files until keep remain.
func cleanupLogs(dir string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var logs []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), LogFileSuffix) {
			logs = append(logs, entry.Name())
		}
	}
	// names embed the timestamp, so lexical order is age order
	sort.Strings(logs)

	for i := 0; i < len(logs)-keep; i++ {
		if err := os.Remove(filepath.Join(dir, logs[i])); err != nil {
			slog.Warn("Failed to delete old log file", "file", logs[i], "error", err)
		}
	}
}
