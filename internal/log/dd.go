package log

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

// With returns the process logger carrying the given fields, plus Datadog
// correlation (dd.trace_id, dd.span_id as strings) when ctx holds an active
// span. Account flows log through this so a registration or code consumption
// can be tied back to its trace.
func With(ctx context.Context, fields ...zap.Field) *zap.Logger {
	if sp, ok := tracer.SpanFromContext(ctx); ok && sp != nil {
		if sc, ok := sp.Context().(ddtrace.SpanContext); ok {
			fields = append(fields,
				zap.String("dd.trace_id", fmt.Sprintf("%d", sc.TraceID())),
				zap.String("dd.span_id", fmt.Sprintf("%d", sc.SpanID())),
			)
		}
	}
	return L().With(fields...)
}
