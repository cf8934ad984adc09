package logger

import (
	"sync"

	log_model "narration-desk/models/log"
	"narration-desk/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request logs without holding up the response.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100), // Buffered channel to hold log entries
		done:    make(chan struct{}),
	}
}

// ProcessLog drains the channel until Close is called.
func (logger *AsyncLogger) ProcessLog() {
	Info("Starting asynchronous logger...")
	defer close(logger.done)

	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:          logEntry.Method,
			URL:             logEntry.URL,
			Route:           logEntry.Route,
			Actor:           logEntry.Actor,
			RequestBody:     logEntry.RequestBody,
			ResponseBody:    logEntry.ResponseBody,
			RequestHeaders:  logEntry.RequestHeaders,
			ResponseHeaders: logEntry.ResponseHeaders,
			StatusCode:      logEntry.StatusCode,
			CreatedAt:       logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log entry", err)
		} else {
			Debug("Inserted request log entry: " + dbLog.Method + " " + dbLog.URL)
		}
	}
}

// Log pushes a log entry into the channel. Entries are dropped when the buffer
// is full or the logger has been closed.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	if logger == nil {
		return
	}
	logger.mu.RLock()
	defer logger.mu.RUnlock()
	if logger.closed {
		Warning("Request logger closed, dropping entry for " + entry.Method + " " + entry.URL)
		return
	}
	select {
	case logger.channel <- entry:
	default:
		Warning("Request log buffer full, dropping entry for " + entry.Method + " " + entry.URL)
	}
}

// Close stops accepting entries and waits for the queued ones to be written.
func (logger *AsyncLogger) Close() {
	logger.mu.Lock()
	if !logger.closed {
		logger.closed = true
		close(logger.channel)
	}
	logger.mu.Unlock()
	<-logger.done
}
