package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// StructuredLogger is a chi LogFormatter that writes one logrus entry per request.
type StructuredLogger struct {
	Logger logrus.FieldLogger
}

func (l *StructuredLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	fields := logrus.Fields{
		"http_method": r.Method,
		"uri":         r.RequestURI,
		"remote_addr": r.RemoteAddr,
		"user_agent":  r.UserAgent(),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		fields["req_id"] = reqID
	}
	return &StructuredLoggerEntry{Logger: l.Logger.WithFields(fields)}
}

type StructuredLoggerEntry struct {
	Logger logrus.FieldLogger
}

func (e *StructuredLoggerEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.Logger.WithFields(logrus.Fields{
		"resp_status":     status,
		"resp_bytes":      bytes,
		"resp_elapsed_ms": float64(elapsed.Nanoseconds()) / 1000000.0,
	}).Info("request complete")
}

func (e *StructuredLoggerEntry) Panic(v interface{}, stack []byte) {
	e.Logger.WithFields(logrus.Fields{
		"stack": string(stack),
		"panic": fmt.Sprintf("%+v", v),
	}).Error("request panicked")
}

// logEntry returns the request-scoped logger set up by the request logger middleware.
func logEntry(r *http.Request) logrus.FieldLogger {
	if entry, ok := middleware.GetLogEntry(r).(*StructuredLoggerEntry); ok {
		return entry.Logger
	}
	return logrus.StandardLogger()
}
