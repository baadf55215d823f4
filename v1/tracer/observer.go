package tracer

import (
	"context"
	"time"

	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/samas-io/smartsearch/v1/observability"
)

// Observer adapts a Tracer to the observability.Observer interface so
// component operations show up as spans alongside the metrics fed from the
// same fan-out.
//
// Operations arrive after they complete, so each span is created
// retroactively with the operation's real start and end timestamps derived
// from OperationContext.Duration.
type Observer struct {
	tracer *Tracer
}

// NewObserver creates an observer emitting spans through the given Tracer.
func NewObserver(t *Tracer) *Observer {
	return &Observer{tracer: t}
}

var _ observability.Observer = (*Observer)(nil)

// ObserveOperation emits one span named "<component>.<operation>" covering
// the operation's duration. Resource, sub-resource, size and metadata land as
// span attributes; a failed operation records the error and an error status.
func (o *Observer) ObserveOperation(ctx observability.OperationContext) {
	end := time.Now()
	start := end.Add(-ctx.Duration)

	_, span := o.tracer.tracer.Tracer("").Start(context.Background(),
		ctx.Component+"."+ctx.Operation,
		traceSpan.WithTimestamp(start),
		traceSpan.WithSpanKind(traceSpan.SpanKindInternal))

	attrs := map[string]interface{}{
		"component": ctx.Component,
		"operation": ctx.Operation,
	}
	if ctx.Resource != "" {
		attrs["resource"] = ctx.Resource
	}
	if ctx.SubResource != "" {
		attrs["sub_resource"] = ctx.SubResource
	}
	if ctx.Size > 0 {
		attrs["size"] = ctx.Size
	}
	for k, v := range ctx.Metadata {
		attrs[k] = v
	}
	o.tracer.SetAttributes(span, attrs)

	if ctx.Error != nil {
		o.tracer.RecordErrorOnSpan(span, ctx.Error)
	}
	span.End(traceSpan.WithTimestamp(end))
}
