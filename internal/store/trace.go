package store

import (
	"context"
	"time"

	"github.com/DarkArtheme/museumguide-backend/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("museumguide/store")

// startOp opens a span for one collection operation. The returned func
// records latency and the outcome and must be called exactly once.
func startOp(ctx context.Context, name, operation, collection string) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "mongodb"),
		attribute.String("db.operation", operation),
		attribute.String("db.mongodb.collection", collection),
	))
	start := time.Now()

	return ctx, func(err error) {
		metrics.RecordDBOperation(operation, collection, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
