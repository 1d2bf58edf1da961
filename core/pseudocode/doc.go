// Package pseudocode prompts a model to translate pseudocode into five
// languages and to analyse its performance, then recovers the structured
// reply with package parse.
//
// Each call validates its input, waits for the optional client-side rate
// limiter, sends a single request and runs the reply through the recovery
// pipeline. Nothing is retried. [Service.TranslateAndAnalyze] issues both
// requests concurrently.
package pseudocode
