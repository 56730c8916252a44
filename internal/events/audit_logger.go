package events

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// Default maximum log file size (10MB)
	DefaultMaxLogSize = 10 * 1024 * 1024
	// Log file extension
	LogFileExtension = ".jsonl"
	// Archive directory name
	ArchiveDir = "archive"
)

// LogEntry represents a single audit log entry.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	EventType string                 `json:"event_type"`
	RunID     string                 `json:"run_id,omitempty"`
	StepID    int                    `json:"step_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// AuditLogger appends every published orchestration event to a JSONL
// file under the state dir, rotating when the file grows past maxSize.
// Attach it to a Bus with Attach.
type AuditLogger struct {
	mu          sync.Mutex
	file        *os.File
	currentSize int64
	maxSize     int64
	logPath     string
}

// NewAuditLogger creates a new audit logger instance.
func NewAuditLogger(logPath string, maxSize int64) (*AuditLogger, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxLogSize
	}

	logger := &AuditLogger{
		logPath: logPath,
		maxSize: maxSize,
	}

	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := logger.openLogFile(); err != nil {
		return nil, err
	}

	return logger, nil
}

// Attach subscribes the logger to every event type on the bus.
// Returns the unsubscribe function.
func (l *AuditLogger) Attach(bus *Bus) func() {
	return bus.SubscribeAll(func(e Event) {
		entry := LogEntry{
			Timestamp: e.Timestamp,
			EventType: string(e.Type),
			Details:   e.Data,
		}
		if runID, ok := e.Data["run_id"].(string); ok {
			entry.RunID = runID
		}
		if stepID, ok := e.Data["step_id"].(int); ok {
			entry.StepID = stepID
		}
		// Write failures are deliberately swallowed: the audit trail
		// must never break the run.
		_ = l.WriteEntry(&entry)
	})
}

func (l *AuditLogger) openLogFile() error {
	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	l.file = file
	l.currentSize = stat.Size()
	return nil
}

// WriteEntry writes a structured log entry to the file.
func (l *AuditLogger) WriteEntry(entry *LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("audit logger is closed")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	data = append(data, '\n')

	if l.currentSize+int64(len(data)) > l.maxSize {
		if err := l.rotate(); err != nil {
			return fmt.Errorf("failed to rotate log: %w", err)
		}
	}

	n, err := l.file.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write log entry: %w", err)
	}
	l.currentSize += int64(n)
	return nil
}

// rotate moves the current log into the archive dir and starts fresh.
// Caller must hold l.mu.
func (l *AuditLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("close current log: %w", err)
	}

	archiveDir := filepath.Join(filepath.Dir(l.logPath), ArchiveDir)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	base := filepath.Base(l.logPath)
	timestamp := time.Now().UTC().Format("20060102T150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s.%s", base, timestamp))
	if err := os.Rename(l.logPath, archivePath); err != nil {
		return fmt.Errorf("archive log: %w", err)
	}

	return l.openLogFile()
}

// Close flushes and closes the underlying log file.
func (l *AuditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
