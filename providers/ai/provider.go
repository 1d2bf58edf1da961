package ai

import (
	"context"
	"net/http"
)

// Provider sends one chat request to a model backend and returns the
// completed response. Implementations must be safe for concurrent use once
// configured.
type Provider interface {
	// SendMessage returns the model's reply, or an error if the call failed,
	// ctx was cancelled or the reply could not be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	WithAPIKey(apiKey string) Provider
	WithBaseURL(baseURL string) Provider
	WithHttpClient(httpClient *http.Client) Provider
}
