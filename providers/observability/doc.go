// Package observability defines the interfaces and semantic conventions used
// for tracing, metrics and structured logging throughout pseudoscribe.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single
// injectable dependency. Callers propagate it, and the active [Span], through
// a [context.Context] with [ContextWithObserver] and [ContextWithSpan]; the
// recovery pipeline and the model providers read them back with
// [ObserverFromContext] and [SpanFromContext]. Every component is written to
// work with neither present.
//
// semconv.go holds the attribute keys, span, event and metric names.
package observability
