package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/formkit/pkg/form"
)

const defaultTracerName = "formkit"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "formkit").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// Filter reports whether an operation is traced. Nil traces all.
	Filter func(call *form.Call) bool

	// Attributes adds attributes to every span.
	Attributes []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithFilter sets which operations are traced.
func WithFilter(filter func(call *form.Call) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributes adds constant span attributes, such as the form's name.
func WithAttributes(attrs ...attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// OpenTelemetry creates middleware that traces form operations. Spans are
// named "form.<op>" and record the number of fields involved, the outcome
// of validations and any error.
func OpenTelemetry(opts ...OTelOption) form.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return form.MiddlewareFunc(func(ctx context.Context, call *form.Call, next func(context.Context) error) error {
		if config.Filter != nil && !config.Filter(call) {
			return next(ctx)
		}

		attrs := append([]attribute.KeyValue{
			attribute.String("formkit.op", string(call.Op)),
		}, config.Attributes...)

		spanCtx, span := tracer.Start(ctx, "form."+string(call.Op),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		err := next(spanCtx)

		span.SetAttributes(attribute.Int("formkit.fields", call.Fields))
		if call.Result != nil {
			span.SetAttributes(attribute.Bool("formkit.valid", call.Result.Valid()))
			if em, ok := call.Result.(*form.ErrorMap); ok {
				span.SetAttributes(attribute.StringSlice("formkit.error_fields", em.Names()))
			}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	})
}
