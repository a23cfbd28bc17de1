package helpers

import (
	"strings"
	"sync"
)

// LogEntry is one captured log call
type LogEntry struct {
	Level    string
	Message  string
	Metadata map[string]interface{}
}

// MockLogger is an in-memory implementation of common.Logger for testing
type MockLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

// NewMockLogger creates a new mock logger
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Log records a log entry (in-memory only for testing)
func (m *MockLogger) Log(level, message string, metadata map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Message: message, Metadata: metadata})
}

// Contains checks whether any entry at the level mentions the text
func (m *MockLogger) Contains(level, text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && strings.Contains(e.Message, text) {
			return true
		}
	}
	return false
}
