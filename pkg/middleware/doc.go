// Package middleware provides observability middleware for forms.
//
// # OpenTelemetry
//
// OpenTelemetry starts a span for every form operation. Field validators
// receive the span's context, so their own calls join the trace.
//
//	f := form.New(form.WithMiddleware(
//	    middleware.OpenTelemetry(middleware.WithTracerName("signup")),
//	))
//
// The global tracer provider is used unless WithTracerProvider is given.
//
// # Prometheus
//
// Prometheus collects:
//
//   - formkit_operations_total: operations by op and status
//   - formkit_operation_duration_seconds: operation duration by op
//   - formkit_validation_results_total: validations by outcome
//   - formkit_field_errors_total: failing fields by name
//   - formkit_active_sessions: open server sessions
//   - formkit_frame_errors_total: rejected client frames by kind
//
// Share one instance between forms:
//
//	metrics := middleware.Prometheus(middleware.WithNamespace("shop"))
//	f := form.New(form.WithMiddleware(metrics))
//	http.Handle("/metrics", promhttp.Handler())
package middleware
