package internal_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/YoungY620/foldertxt/internal"
)

func TestNewHistoryLogger(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.jsonl")

	logger, err := internal.NewHistoryLogger(historyPath, "test")
	if err != nil {
		t.Fatalf("Failed to create history logger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		t.Error("History file was not created")
	}
}

func TestHistoryLogger_Log(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.jsonl")

	logger, err := internal.NewHistoryLogger(historyPath, "test")
	if err != nil {
		t.Fatalf("Failed to create history logger: %v", err)
	}

	logger.Log(internal.HistoryEntry{
		Type:   "output",
		Folder: "widgets",
		Path:   "/proj/lib/widgets.txt",
		Files:  2,
		Bytes:  64,
	})
	logger.LogInfo("info message")
	logger.LogDebug("debug message")
	logger.LogError("error message", nil)

	logger.Close()

	data, err := os.ReadFile(historyPath)
	if err != nil {
		t.Fatalf("Failed to read history file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected 4 log entries, got %d", len(lines))
	}

	var entry internal.HistoryEntry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}
	if entry.Type != "output" {
		t.Errorf("Expected type 'output', got '%s'", entry.Type)
	}
	if entry.Source != "test" {
		t.Errorf("Expected source 'test', got '%s'", entry.Source)
	}
	if entry.Seq != 1 {
		t.Errorf("Expected seq 1, got %d", entry.Seq)
	}
	if entry.Folder != "widgets" || entry.Files != 2 || entry.Bytes != 64 {
		t.Errorf("Unexpected output entry: %+v", entry)
	}

	var last internal.HistoryEntry
	if err := json.Unmarshal([]byte(lines[3]), &last); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}
	if last.Seq != 4 || last.Type != "error" {
		t.Errorf("Unexpected last entry: %+v", last)
	}
}

func TestHistoryLogger_Appends(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.jsonl")

	for i := 0; i < 2; i++ {
		logger, err := internal.NewHistoryLogger(historyPath, "test")
		if err != nil {
			t.Fatalf("Failed to create history logger: %v", err)
		}
		logger.LogInfo("run %d", i)
		logger.Close()
	}

	data, _ := os.ReadFile(historyPath)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 entries across runs, got %d", len(lines))
	}
}

func TestHistoryLogger_NilSafe(t *testing.T) {
	var logger *internal.HistoryLogger

	// These should not panic
	logger.Log(internal.HistoryEntry{Type: "test"})
	logger.LogInfo("test")
	logger.LogDebug("test")
	logger.LogError("test", nil)
	logger.Close()
}

func TestHistoryLogger_ErrorWithErr(t *testing.T) {
	historyPath := filepath.Join(t.TempDir(), "history.jsonl")

	logger, _ := internal.NewHistoryLogger(historyPath, "test")
	logger.LogError("something failed", os.ErrNotExist)
	logger.Close()

	// Logging after close is a no-op
	logger.LogInfo("dropped")

	data, _ := os.ReadFile(historyPath)
	if !strings.Contains(string(data), "file does not exist") {
		t.Error("Error message should contain the error text")
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("Entries logged after Close should be dropped")
	}
}
