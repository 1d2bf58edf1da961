// Package parse recovers structured records from raw LLM text output.
//
// Models asked for "only the JSON object" still wrap it in markdown fences,
// surround it with prose, put raw newlines inside string values, leave stray
// backslashes and trailing commas, or stop mid-object. Recovery runs in
// stages:
//
//  1. [StripFences] removes a surrounding ```json fence.
//  2. [LocateObject] finds the first balanced {...} span, ignoring braces
//     inside string literals. No '{' at all ends recovery with NoJSONFound.
//  3. The tiers run in order and the first record wins:
//     strict ([ParseStrict]), heuristic ([ParseHeuristic]), the optional
//     lenient tier ([ParseLenient], see [WithLenientRepair]) and aggressive
//     ([Reconstruct]).
//  4. [Schema.Validate] checks the fields the caller requires.
//
// The aggressive tier only recovers flat string pairs. Records it produces
// never hold numbers or arrays, so a schema requiring them fails with
// MissingRequiredField instead of silently passing.
//
// Every failure is a [*RecoveryError] whose Kind tells where recovery stopped
// and whose Tiers list what was tried. The main entry points are [Recover],
// [Pipeline.Recover] and the generic [RecoverAs].
package parse
