// Package utils holds small helpers shared by pseudoscribe's internals: the
// synchronous JSON POST used by model providers ([DoPostSync]), JSON and
// truncation helpers for logs and CLI output, [Ptr] for optional wire fields
// and a [Timer] for latency measurements.
package utils
