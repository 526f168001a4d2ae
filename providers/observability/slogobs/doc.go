// Package slogobs provides an observability.Provider implementation backed by
// log/slog.
//
// Spans and metric updates become structured log records; counter values are
// also kept in memory and can be read back with [Observer.CounterValue]. The
// main entry point is [New]; output format and level are tuned with
// [WithFormat], [WithLevel], [WithOutput] and [WithLogger], or through the
// WEBCRAWL_LOG_FORMAT / WEBCRAWL_LOG_LEVEL environment variables.
package slogobs
