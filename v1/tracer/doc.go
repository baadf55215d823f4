// Package tracer provides OpenTelemetry-based distributed tracing for
// smartsearch applications.
//
// The Tracer wraps an OpenTelemetry TracerProvider with convenience methods
// for span creation, error recording, attribute management, and W3C
// trace-context propagation across service boundaries. When export is
// enabled spans ship to an OTLP HTTP collector; otherwise they stay local,
// which suits tests.
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{Level: "info"})
//	tracerClient := tracer.NewClient(tracer.Config{
//	    ServiceName:  "smartsearch",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	}, log)
//
//	ctx, span := tracerClient.StartSpan(ctx, "search-request")
//	defer span.End()
//
//	resp, err := core.Search(ctx, "articles", query, opts)
//	if err != nil {
//	    tracerClient.RecordErrorOnSpan(span, err)
//	    return err
//	}
//	tracerClient.SetAttributes(span, map[string]interface{}{
//	    "search.index":   "articles",
//	    "search.results": len(resp.Results),
//	})
//
// # Cross-service propagation
//
// GetCarrier and SetCarrierOnContext move trace context through transport
// headers so spans on both sides join one distributed trace:
//
//	headers := tracerClient.GetCarrier(ctx)      // outgoing side
//	ctx = tracerClient.SetCarrierOnContext(ctx, headers) // incoming side
//
// # FX Module Integration
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Supply(tracer.Config{ServiceName: "smartsearch"}),
//	)
package tracer
