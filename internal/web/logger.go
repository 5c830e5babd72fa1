package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
)

// NewRequestLogger logs one line per request to logger.
func NewRequestLogger(logger hclog.Logger) func(next http.Handler) http.Handler {
	return middleware.RequestLogger(&requestLogger{logger: logger})
}

type requestLogger struct {
	logger hclog.Logger
}

func (l *requestLogger) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &requestLogEntry{
		logger: l.logger.With(
			"method", r.Method,
			"uri", r.RequestURI,
			"request_id", middleware.GetReqID(r.Context()),
		),
	}
}

type requestLogEntry struct {
	logger hclog.Logger
}

func (e *requestLogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.logger.Info("request", "status", status, "bytes", bytes, "elapsed", elapsed)
}

func (e *requestLogEntry) Panic(v interface{}, stack []byte) {
	e.logger.Error("request panic", "panic", v, "stack", string(stack))
}
