package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dashtmpl/dashtmpl/internal/errors"
)

// Default tracer name.
const defaultTracerName = "dashtmpl"

// SpanName is the name of render spans.
const SpanName = "dashtmpl.render"

// TraceConfig configures render tracing.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "dashtmpl").
	TracerName string

	// Provider is the tracer provider. Default: the global provider.
	Provider trace.TracerProvider

	// AttributeExtractor adds custom attributes to every render span.
	AttributeExtractor func(ctx context.Context) []attribute.KeyValue
}

// TraceOption configures render tracing.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TraceOption {
	return func(c *TraceConfig) {
		c.Provider = tp
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx context.Context) []attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.AttributeExtractor = extractor
	}
}

// Tracer starts render spans.
type Tracer struct {
	tracer  trace.Tracer
	extract func(ctx context.Context) []attribute.KeyValue
}

// NewTracer creates a Tracer. The tracer provider is resolved once, so
// configure the global provider before creating the app.
func NewTracer(opts ...TraceOption) *Tracer {
	config := TraceConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	return &Tracer{
		tracer:  config.Provider.Tracer(config.TracerName),
		extract: config.AttributeExtractor,
	}
}

// RenderSpan is an in-flight render span.
type RenderSpan struct {
	span trace.Span
}

// StartRender starts a span for one render call.
func (t *Tracer) StartRender(ctx context.Context, entry, template string) (context.Context, *RenderSpan) {
	attrs := []attribute.KeyValue{
		attribute.String("dashtmpl.entry", entry),
	}
	if template != "" {
		attrs = append(attrs, attribute.String("dashtmpl.template", template))
	}
	if t.extract != nil {
		attrs = append(attrs, t.extract(ctx)...)
	}
	ctx, span := t.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, &RenderSpan{span: span}
}

// SetTemplate records the template that was actually rendered.
func (s *RenderSpan) SetTemplate(name string) {
	s.span.SetAttributes(attribute.String("dashtmpl.template", name))
}

// End records the outcome and ends the span.
func (s *RenderSpan) End(warnings int, err error) {
	s.span.SetAttributes(attribute.Int("dashtmpl.warnings", warnings))
	if err != nil {
		s.span.RecordError(err)
		if code := errors.Code(err); code != "" {
			s.span.SetAttributes(attribute.String("dashtmpl.error_code", code))
		}
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
