// Package observability defines the tracing, metrics and logging interfaces
// used across webcrawl.
//
// [Provider] composes [Tracer], [Metrics] and [Logger] into a single injectable
// dependency. An active [Provider] and [Span] travel through a
// [context.Context] via [ContextWithObserver] and [ContextWithSpan].
//
// semconv.go holds the attribute keys, span names and metric names, so that
// crawler backends, the tool and the MCP server report with the same
// vocabulary. The slogobs subpackage provides the log/slog backed
// implementation.
package observability
