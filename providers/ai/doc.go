// Package ai defines the provider-agnostic request and response types and the
// [Provider] interface that model backends implement. Each provider maps
// [ChatRequest] to its own wire format and its reply back to [ChatResponse],
// keeping the pseudocode service independent of any one vendor.
package ai
