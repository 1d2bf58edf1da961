package middleware

import (
	"context"
	"time"

	"github.com/leofalp/pseudoscribe/providers/ai"
)

// NewTimeoutMiddleware bounds every provider call with a deadline. A caller
// context with a shorter deadline still wins. A non-positive timeout returns
// nil, which Chain skips.
func NewTimeoutMiddleware(timeout time.Duration) Middleware {
	if timeout <= 0 {
		return nil
	}
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}
