package notify

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// Log records notifications as structured log entries, including how long
// each loading notification stayed visible.
type Log struct {
	logger *slog.Logger

	mu      sync.Mutex
	started map[string]time.Time
}

func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Log{logger: logger, started: make(map[string]time.Time)}
}

func (l *Log) Loading(id, message string) {
	l.mu.Lock()
	l.started[id] = time.Now()
	l.mu.Unlock()
	l.logger.Debug("notification loading", "id", id, "message", message)
}

func (l *Log) Dismiss(id string) {
	l.mu.Lock()
	start, ok := l.started[id]
	delete(l.started, id)
	l.mu.Unlock()
	if !ok {
		return
	}
	l.logger.Debug("notification dismissed", "id", id, "visible", time.Since(start))
}

func (l *Log) Success(message string) {
	l.logger.Info("notification", "kind", "success", "message", message)
}

func (l *Log) Error(message string) {
	l.logger.Warn("notification", "kind", "error", "message", message)
}

// Notifier matches project.Notifier.
type Notifier interface {
	Loading(id, message string)
	Dismiss(id string)
	Success(message string)
	Error(message string)
}

// Multi fans every notification out to each notifier in order.
type Multi []Notifier

func (m Multi) Loading(id, message string) {
	for _, n := range m {
		n.Loading(id, message)
	}
}

func (m Multi) Dismiss(id string) {
	for _, n := range m {
		n.Dismiss(id)
	}
}

func (m Multi) Success(message string) {
	for _, n := range m {
		n.Success(message)
	}
}

func (m Multi) Error(message string) {
	for _, n := range m {
		n.Error(message)
	}
}
