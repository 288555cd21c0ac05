package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "estate-crm/internal/common/models"
	"estate-crm/internal/config"
	"estate-crm/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

const logBufferSize = 1000

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	TenantID  string
	UserID    string
	Caller    string
}

// LogSink persists one log record.
type LogSink interface {
	Insert(ctx context.Context, record common_models.Log) error
}

type mongoSink struct {
	collection *mongo.Collection
}

func (s *mongoSink) Insert(ctx context.Context, record common_models.Log) error {
	_, err := s.collection.InsertOne(ctx, record)
	return err
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	appId   string

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	return newDBLogWriter(&mongoSink{collection: mongodb.DB.Collection("logs")}, cfg.AppId, logBufferSize)
}

func newDBLogWriter(sink LogSink, appId string, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, buffer),
		appId:   appId,
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits until the worker has written the
// buffered ones, or until ctx ends. Entries logged after Close are dropped.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := common_models.Log{
			Message:      entry.Message,
			Level:        entry.Level.String(),
			LogLevelId:   mapLevelToInt(entry.Level),
			AppID:        w.appId,
			TenantID:     entry.TenantID,
			UserID:       entry.UserID,
			IpAddress:    entry.IpAddress,
			Caller:       entry.Caller,
			CreatedOnUtc: time.Now().UTC(),
		}

		// Errors are ignored to keep the app running
		_ = w.sink.Insert(context.Background(), record)
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
