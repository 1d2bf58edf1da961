package middleware

import (
	"context"

	"github.com/leofalp/pseudoscribe/providers/ai"
)

// SendFunc sends a chat request to the model and returns the completed
// response. It is the unit threaded through a middleware chain.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// Middleware wraps the next SendFunc in the chain.
type Middleware func(next SendFunc) SendFunc

// Chain builds a SendFunc calling provider through middlewares. The first
// middleware is the outermost wrapper, so it runs first on the way in and
// last on the way out. Nil entries are skipped.
func Chain(provider ai.Provider, middlewares ...Middleware) SendFunc {
	var chain SendFunc = func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
		return provider.SendMessage(ctx, request)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] == nil {
			continue
		}
		chain = middlewares[i](chain)
	}

	return chain
}
