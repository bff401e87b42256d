package upload

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	slogctx "github.com/veqryn/slog-context"
)

var (
	metersOnce sync.Once
	tracer     trace.Tracer

	submissionCounter  metric.Int64Counter
	submissionDuration metric.Int64Histogram
)

func initMeters(ctx context.Context) {
	metersOnce.Do(func() {
		tracer = otel.Tracer("imaging-client/upload")
		meter := otel.Meter(
			"imaging-client/upload",
			metric.WithInstrumentationVersion(otel.Version()),
		)

		var err error

		submissionCounter, err = meter.Int64Counter(
			"processing.submission_count",
			metric.WithDescription("Outgoing submission count"),
			metric.WithUnit("submission"),
		)
		if err != nil {
			slogctx.Error(ctx, "Failed to create the submission_count meter", "error", err)
		}

		submissionDuration, err = meter.Int64Histogram(
			"processing.submission_duration",
			metric.WithDescription("Submission end to end duration"),
			metric.WithUnit("milliseconds"),
		)
		if err != nil {
			slogctx.Error(ctx, "Failed to create the submission_duration meter", "error", err)
		}
	})
}

func recordSubmission(ctx context.Context, task, outcome string, elapsedMillis int64) {
	attrs := metric.WithAttributes(
		attribute.String("task", task),
		attribute.String("outcome", outcome),
	)

	if submissionCounter != nil {
		submissionCounter.Add(ctx, 1, attrs)
	}
	if submissionDuration != nil {
		submissionDuration.Record(ctx, elapsedMillis, attrs)
	}
}
