package events

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAuditLogger_WriteEntry(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.jsonl")

	logger, err := NewAuditLogger(logPath, 0)
	if err != nil {
		t.Fatalf("NewAuditLogger failed: %v", err)
	}
	defer logger.Close()

	entry := &LogEntry{
		Timestamp: time.Now().UTC(),
		EventType: string(EventStepStarted),
		RunID:     "run_deadbeef",
		StepID:    1,
	}
	if err := logger.WriteEntry(entry); err != nil {
		t.Fatalf("WriteEntry failed: %v", err)
	}

	f, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("log file is empty")
	}
	var got LogEntry
	if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if got.EventType != string(EventStepStarted) || got.RunID != "run_deadbeef" || got.StepID != 1 {
		t.Errorf("unexpected entry: %+v", got)
	}
}

func TestAuditLogger_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.jsonl")

	// Tiny max size to force rotation on the second entry.
	logger, err := NewAuditLogger(logPath, 64)
	if err != nil {
		t.Fatalf("NewAuditLogger failed: %v", err)
	}
	defer logger.Close()

	for i := 0; i < 3; i++ {
		entry := &LogEntry{
			Timestamp: time.Now().UTC(),
			EventType: string(EventCommandFinished),
			Details:   map[string]interface{}{"command": "echo hello world"},
		}
		if err := logger.WriteEntry(entry); err != nil {
			t.Fatalf("WriteEntry %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, ArchiveDir))
	if err != nil {
		t.Fatalf("archive dir missing: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected at least one archived log after rotation")
	}
}

func TestAuditLogger_Attach(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "audit.jsonl")

	logger, err := NewAuditLogger(logPath, 0)
	if err != nil {
		t.Fatalf("NewAuditLogger failed: %v", err)
	}
	defer logger.Close()

	bus := NewBus(10)
	defer bus.Close()
	detach := logger.Attach(bus)
	defer detach()

	bus.Publish(EventRunStarted, map[string]interface{}{"run_id": "run_0badc0de"})

	// Delivery is asynchronous; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for {
		data, _ := os.ReadFile(logPath)
		if len(data) > 0 {
			var got LogEntry
			if err := json.Unmarshal(data[:len(data)-1], &got); err != nil {
				t.Fatalf("bad log line: %v", err)
			}
			if got.RunID != "run_0badc0de" {
				t.Errorf("run_id not promoted from details: %+v", got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("event never reached the audit log")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
