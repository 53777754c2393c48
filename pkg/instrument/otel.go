package instrument

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fluxion-dev/fluxion/pkg/fluxion"
)

// Default tracer name for fluxion registries.
const defaultTracerName = "fluxion"

// TraceConfig configures the OpenTelemetry observer.
type TraceConfig struct {
	// TracerName is the name of the tracer (default: "fluxion").
	TracerName string

	// IncludeActionType includes the action type in span attributes.
	// Enabled by default.
	IncludeActionType bool

	// Filter determines which dispatches to trace. Return true to trace.
	// If nil, all dispatches are traced.
	Filter func(store string, action fluxion.Action) bool

	// AttributeExtractor extracts custom attributes per dispatch.
	AttributeExtractor func(store string, action fluxion.Action) []attribute.KeyValue
}

// TraceOption configures the OpenTelemetry observer.
type TraceOption func(*TraceConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TraceOption {
	return func(c *TraceConfig) {
		c.TracerName = name
	}
}

// WithIncludeActionType enables/disables the action type attribute.
func WithIncludeActionType(include bool) TraceOption {
	return func(c *TraceConfig) {
		c.IncludeActionType = include
	}
}

// WithDispatchFilter sets a filter for which dispatches are traced.
func WithDispatchFilter(filter func(store string, action fluxion.Action) bool) TraceOption {
	return func(c *TraceConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(store string, action fluxion.Action) []attribute.KeyValue) TraceOption {
	return func(c *TraceConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultTraceConfig() TraceConfig {
	return TraceConfig{
		TracerName:        defaultTracerName,
		IncludeActionType: true,
	}
}

// otelObserver implements fluxion.Observer producing one span per dispatch.
// Dispatch is synchronous with no surrounding context, so spans are recorded
// retroactively with explicit start and end timestamps.
type otelObserver struct {
	config TraceConfig
	tracer trace.Tracer
}

// OpenTelemetry creates an observer emitting a span per dispatch via the
// global tracer provider. Configure the provider in main() before dispatches
// begin.
func OpenTelemetry(opts ...TraceOption) fluxion.Observer {
	config := defaultTraceConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &otelObserver{
		config: config,
		tracer: otel.Tracer(config.TracerName),
	}
}

func (o *otelObserver) OnStoreRegistered(string) {}

func (o *otelObserver) OnDispatch(store string, action fluxion.Action, changed bool, start time.Time, took time.Duration) {
	if o.config.Filter != nil && !o.config.Filter(store, action) {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("fluxion.store", store),
		attribute.Bool("fluxion.changed", changed),
	}
	if o.config.IncludeActionType {
		attrs = append(attrs, attribute.String("fluxion.action", action.Type))
	}
	if o.config.AttributeExtractor != nil {
		attrs = append(attrs, o.config.AttributeExtractor(store, action)...)
	}

	_, span := o.tracer.Start(context.Background(), "fluxion.dispatch",
		trace.WithTimestamp(start),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	span.End(trace.WithTimestamp(start.Add(took)))
}

func (o *otelObserver) OnNotify(stores []string, listeners int) {
	now := time.Now()
	_, span := o.tracer.Start(context.Background(), "fluxion.notify",
		trace.WithTimestamp(now),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.StringSlice("fluxion.stores", stores),
			attribute.Int("fluxion.listeners", listeners),
		),
	)
	span.End(trace.WithTimestamp(now))
}
