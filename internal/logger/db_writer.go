package logger

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level    zapcore.Level
	Message  string
	UserID   string
	EntityID string
	Caller   string
	Time     time.Time
}

// LogRecord is the stored shape of a log line
type LogRecord struct {
	AppID     string    `bson:"app_id"`
	Level     string    `bson:"level"`
	Message   string    `bson:"message"`
	UserID    string    `bson:"user_id,omitempty"`
	EntityID  string    `bson:"entity_id,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// DBLogWriter inserts log records from a buffered channel so request
// handlers never wait on the database.
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appID      string
}

func NewDBLogWriter(collection *mongo.Collection, appID string) *DBLogWriter {
	writer := &DBLogWriter{
		collection: collection,
		logChan:    make(chan LogEntry, 1000),
		appID:      appID,
	}

	go writer.processLogs()

	return writer
}

// AddLog never blocks; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := LogRecord{
			AppID:     w.appID,
			Level:     entry.Level.String(),
			Message:   entry.Message,
			UserID:    entry.UserID,
			EntityID:  entry.EntityID,
			Caller:    entry.Caller,
			CreatedAt: entry.Time.UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Insert errors are ignored to keep the app running
		_, _ = w.collection.InsertOne(ctx, record)
		cancel()
	}
}
