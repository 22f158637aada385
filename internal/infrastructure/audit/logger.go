package audit

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/you/healthrecords/domain"
)

// Logger writes audit events as structured log lines on a dedicated
// "audit" channel
type Logger struct {
	log zerolog.Logger
}

// NewLogger creates an audit logger on top of log
func NewLogger(log zerolog.Logger) domain.AuditLogger {
	return &Logger{log: log.With().Str("channel", "audit").Logger()}
}

// LogEvent implements domain.AuditLogger
func (l *Logger) LogEvent(ctx context.Context, event *domain.AuditEvent) error {
	if event == nil {
		return nil
	}

	evt := l.log.Info()
	if !event.Success {
		evt = l.log.Warn()
	}
	evt = evt.
		Str("event_type", string(event.EventType)).
		Time("timestamp", event.Timestamp).
		Bool("success", event.Success)

	if event.UserID != 0 {
		evt = evt.Uint("user_id", event.UserID)
	}
	if event.Email != "" {
		evt = evt.Str("email", event.Email)
	}
	if event.SessionID != "" {
		evt = evt.Str("session_id", event.SessionID)
	}
	if event.ErrorMsg != "" {
		evt = evt.Str("error_msg", event.ErrorMsg)
	}
	if len(event.Metadata) > 0 {
		evt = evt.Interface("metadata", event.Metadata)
	}
	if reqID, ok := ctx.Value(RequestIDKey{}).(string); ok && reqID != "" {
		evt = evt.Str("request_id", reqID)
	}

	evt.Msg("audit event")
	return nil
}

// RequestIDKey is the context key the HTTP layer stores the request id under
type RequestIDKey struct{}
