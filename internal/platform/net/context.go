// Package net holds request scoped helpers shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequestID stores a request id where chi's RequestID middleware would put it
// so RequestID works the same for HTTP requests and CLI invocations
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
