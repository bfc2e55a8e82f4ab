// Package tracing initializes OpenTelemetry for the task API Lambda.
//
// The exporter is selected by configuration:
//   - "xrayudp": export directly to Lambda's built-in X-Ray daemon (no collector layer needed)
//   - "stdout": print traces to stdout (for local development)
package tracing

import (
	"context"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	lambdadetector "go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider builds and globally registers a tracer provider with
// X-Ray trace IDs and propagation. The caller owns shutdown.
func NewTracerProvider(ctx context.Context, exporterName string) (*trace.TracerProvider, error) {
	exporter, err := newExporter(ctx, exporterName)
	if err != nil {
		return nil, err
	}

	// Detect Lambda resource attributes (function name, version, etc.).
	res, err := lambdadetector.NewResourceDetector().Detect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "detecting lambda resource")
	}

	// Synchronous span processor: Lambda may freeze the container between
	// invocations, so spans must be exported before the handler returns.
	tp := trace.NewTracerProvider(
		trace.WithSpanProcessor(trace.NewSimpleSpanProcessor(exporter)),
		trace.WithResource(res),
		trace.WithIDGenerator(xray.NewIDGenerator()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(xray.Propagator{})
	return tp, nil
}

func newExporter(ctx context.Context, name string) (trace.SpanExporter, error) {
	switch name {
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "xrayudp", "":
		return xrayudp.NewSpanExporter(ctx)
	default:
		return nil, errors.Newf("unsupported exporter: %q (supported: xrayudp, stdout)", name)
	}
}
