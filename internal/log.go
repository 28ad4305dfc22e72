// Package internal provides shared utilities for foldertxt
package internal

import (
	"fmt"
	"log"
	"strings"
	"sync"
)

// Log levels: error=0, notice=1, info=2, debug=3
const (
	levelError = iota
	levelNotice
	levelInfo
	levelDebug
)

var levelNames = []string{"error", "notice", "info", "debug"}

var (
	mu         sync.RWMutex
	logLevel   = levelInfo
	historyLog *HistoryLogger
)

// SetLogLevel sets the global log level. Unknown values fall back to info.
func SetLogLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(level) {
	case "error":
		logLevel = levelError
	case "notice":
		logLevel = levelNotice
	case "info":
		logLevel = levelInfo
	case "debug":
		logLevel = levelDebug
	default:
		logLevel = levelInfo
	}
}

// GetLogLevel returns the name of the current log level
func GetLogLevel() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[logLevel]
}

// InitHistoryLogger opens the run history file at path.
// Failures are logged and leave history disabled.
func InitHistoryLogger(path, source string) {
	h, err := NewHistoryLogger(path, source)
	if err != nil {
		LogError("Failed to open history file: %v", err)
		return
	}
	mu.Lock()
	historyLog = h
	mu.Unlock()
}

// CloseHistoryLogger closes the history logger
func CloseHistoryLogger() {
	mu.Lock()
	defer mu.Unlock()
	if historyLog != nil {
		historyLog.Close()
		historyLog = nil
	}
}

// Record writes a structured entry to the history file, if one is open
func Record(entry HistoryEntry) {
	if h := history(); h != nil {
		h.Log(entry)
	}
}

func history() *HistoryLogger {
	mu.RLock()
	defer mu.RUnlock()
	return historyLog
}

func enabled(level int) bool {
	mu.RLock()
	defer mu.RUnlock()
	return logLevel >= level
}

func LogError(format string, v ...any) {
	if enabled(levelError) {
		log.Printf("[ERROR] "+format, v...)
	}
	if h := history(); h != nil {
		h.LogError(fmt.Sprintf(format, v...), nil)
	}
}

func LogNotice(format string, v ...any) {
	if enabled(levelNotice) {
		log.Printf("[NOTICE] "+format, v...)
	}
	if h := history(); h != nil {
		h.Log(HistoryEntry{Type: "notice", Message: fmt.Sprintf(format, v...)})
	}
}

func LogInfo(format string, v ...any) {
	if enabled(levelInfo) {
		log.Printf("[INFO] "+format, v...)
	}
	if h := history(); h != nil {
		h.LogInfo(format, v...)
	}
}

func LogDebug(format string, v ...any) {
	if enabled(levelDebug) {
		log.Printf("[DEBUG] "+format, v...)
	}
	if h := history(); h != nil {
		h.LogDebug(format, v...)
	}
}
