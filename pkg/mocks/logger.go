package mocks

import (
	"fmt"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// Logger is a mock implementation of ports.Logger that records messages.
type Logger struct {
	mu sync.Mutex

	DebugMessages []string
	InfoMessages  []string
	WarnMessages  []string
	ErrorMessages []string
}

// NewLogger creates a recording logger.
func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.DebugMessages = append(l.DebugMessages, fmt.Sprintf(msg, args...))
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InfoMessages = append(l.InfoMessages, fmt.Sprintf(msg, args...))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.WarnMessages = append(l.WarnMessages, fmt.Sprintf(msg, args...))
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ErrorMessages = append(l.ErrorMessages, fmt.Sprintf(msg, args...))
}

// WithComponent returns the same logger; component prefixes are not recorded.
func (l *Logger) WithComponent(component string) ports.Logger {
	return l
}

// Warnings returns a copy of the recorded warning messages.
func (l *Logger) Warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.WarnMessages))
	copy(out, l.WarnMessages)
	return out
}

var _ ports.Logger = (*Logger)(nil)
