// Package middleware wraps model calls made by the pseudocode service.
//
//   - [NewTimeoutMiddleware] bounds each call with a deadline.
//   - [NewLoggingMiddleware] logs each call through slog at three verbosity
//     levels.
//
// Middlewares run outermost-first:
//
//	send := middleware.Chain(provider,
//	    middleware.NewTimeoutMiddleware(30*time.Second),
//	    middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	)
//
// A request travels Timeout → Logging → Provider and the reply comes back in
// reverse. Failed calls are never retried.
package middleware
