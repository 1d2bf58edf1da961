// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans and metric updates are written as DEBUG records; counters also keep
// their running totals in memory. Output format and level come from [New]'s
// options or, by default, from PSEUDOSCRIBE_LOG_FORMAT and
// PSEUDOSCRIBE_LOG_LEVEL.
package slogobs
