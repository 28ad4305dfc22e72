package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// HistoryLogger appends one JSON object per line to a run history file
type HistoryLogger struct {
	file   *os.File
	mu     sync.Mutex
	seqNum int64
	source string
}

// HistoryEntry represents a single history record
type HistoryEntry struct {
	Seq       int64  `json:"seq"`
	Timestamp string `json:"ts"`
	Source    string `json:"src"`              // "dump" or "watch"
	Type      string `json:"type"`             // "output", "skip", "done", "error", "notice", "info", "debug"
	Folder    string `json:"folder,omitempty"` // subfolder name for output/skip entries
	Path      string `json:"path,omitempty"`
	Files     int    `json:"files,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
	Error     any    `json:"error,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Message   string `json:"msg,omitempty"`
}

// NewHistoryLogger opens path for appending with the given source tag
func NewHistoryLogger(path, source string) (*HistoryLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	return &HistoryLogger{file: f, source: source}, nil
}

// Log writes an entry to the history file
func (h *HistoryLogger) Log(entry HistoryEntry) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file == nil {
		return
	}

	h.seqNum++
	entry.Seq = h.seqNum
	entry.Timestamp = time.Now().Format(time.RFC3339Nano)
	entry.Source = h.source

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = h.file.Write(append(data, '\n'))
}

// LogError logs an error
func (h *HistoryLogger) LogError(message string, err error) {
	entry := HistoryEntry{Type: "error", Message: message}
	if err != nil {
		entry.Error = err.Error()
	}
	h.Log(entry)
}

// LogInfo logs an informational message
func (h *HistoryLogger) LogInfo(format string, v ...any) {
	msg := format
	if len(v) > 0 {
		msg = fmt.Sprintf(format, v...)
	}
	h.Log(HistoryEntry{Type: "info", Message: msg})
}

// LogDebug logs a debug message
func (h *HistoryLogger) LogDebug(format string, v ...any) {
	msg := format
	if len(v) > 0 {
		msg = fmt.Sprintf(format, v...)
	}
	h.Log(HistoryEntry{Type: "debug", Message: msg})
}

// Close closes the history file
func (h *HistoryLogger) Close() error {
	if h == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file != nil {
		err := h.file.Close()
		h.file = nil
		return err
	}
	return nil
}
