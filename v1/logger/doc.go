// Package logger provides structured logging for smartsearch built on Uber's Zap.
//
// Every other package in this module accepts the logger through a small local
// Logger interface (Error/Warn/Info/Debug with message, optional error, and
// optional field maps), so consumers can substitute their own implementation.
// This package is the canonical one.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "smartsearch",
//	})
//	log.Info("started", nil, map[string]interface{}{"strategy": "auto"})
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config { return logger.Config{Level: logger.Debug} }),
//	)
//
// # Tracing Integration
//
// With EnableTracing set, the *Ctx logging methods extract the active
// OpenTelemetry span from the context and include trace_id/span_id fields,
// allowing log entries to be correlated with traces.
package logger
