package services

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/tracing"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dmitrijs2005/notekeeper/internal/server/services"

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracing.Tracer(tracerName).Start(ctx, name)
}

// endSpan marks span failed when err is set and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
