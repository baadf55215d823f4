package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// convertToZapFields converts an error and additional field maps into Zap's
// structured logging fields. If multiple field maps contain the same key,
// later maps override earlier ones.
func (l *Logger) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	for _, fieldMap := range fields {
		for key, value := range fieldMap {
			zapFields = append(zapFields, zap.Any(key, value))
		}
	}
	return zapFields
}

// traceFields extracts trace and span IDs from the context when tracing
// integration is enabled and a recording span is active.
func (l *Logger) traceFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return nil
	}
	return []zap.Field{
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	}
}

// Debug logs a debug-level message, useful for development and troubleshooting.
//
// Example:
//
//	log.Debug("cache key computed", nil, map[string]interface{}{
//	    "index": "articles",
//	    "key":   key,
//	})
func (l *Logger) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Debug(msg, l.convertToZapFields(err, fields...)...)
}

// Info logs an informational message, along with an optional error and
// structured fields. Use Info for general progress and successful operations.
func (l *Logger) Info(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Info(msg, l.convertToZapFields(err, fields...)...)
}

// Warn logs a warning message, indicating potential issues that are not
// necessarily errors: degraded providers, fallbacks taken, stale cache served.
func (l *Logger) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Warn(msg, l.convertToZapFields(err, fields...)...)
}

// Error logs an error message, including details of the error and additional
// context fields.
//
// Example:
//
//	if err := provider.Search(ctx, index, query, opts); err != nil {
//	    log.Error("database search failed", err, map[string]interface{}{
//	        "provider": provider.Name(),
//	        "index":    index,
//	    })
//	}
func (l *Logger) Error(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Error(msg, l.convertToZapFields(err, fields...)...)
}

// Fatal logs a critical error message and terminates the application.
// Use Fatal only for errors that make it impossible to continue running.
func (l *Logger) Fatal(msg string, err error, fields ...map[string]interface{}) {
	l.Zap.Fatal(msg, l.convertToZapFields(err, fields...)...)
}

// InfoCtx logs an informational message enriched with trace context when
// tracing integration is enabled.
func (l *Logger) InfoCtx(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	zapFields := append(l.traceFields(ctx), l.convertToZapFields(err, fields...)...)
	l.Zap.Info(msg, zapFields...)
}

// ErrorCtx logs an error message enriched with trace context when tracing
// integration is enabled.
func (l *Logger) ErrorCtx(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	zapFields := append(l.traceFields(ctx), l.convertToZapFields(err, fields...)...)
	l.Zap.Error(msg, zapFields...)
}
