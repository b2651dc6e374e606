package utils

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var serviceName = "main"

// SetServiceName sets the "service" field attached to every log entry.
func SetServiceName(name string) {
	if name != "" {
		serviceName = name
	}
}

// ExtractServiceName returns the "service" log field.
func ExtractServiceName() string {
	return serviceName
}

func GenerateTraceId() string {
	return uuid.New().String()
}

// LogEntry writes message to entry at the given level.
func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName,
	})

	LogEntry(entry, level, message)
}

func LogMessageWithFields(ctx context.Context, level, message string) {
	LogEntry(entryFor(ctx), level, message)
}

func LogMessageWithFieldsAndError(ctx context.Context, level, message string, err error) {
	LogEntry(entryFor(ctx).WithError(err), level, message)
}

func entryFor(ctx context.Context) *log.Entry {
	fields := log.Fields{
		"service": serviceName,
	}
	if traceId := TraceIdFromContext(ctx); traceId != "" {
		fields["traceId"] = traceId
	}
	return log.WithFields(fields)
}
