// Package net bridges the request id between chi and the rest of the
// platform. Everything else reads and writes the id through these two
// functions, so chi's context key never leaks past this file
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stamps reqID onto the context under the key the RequestID
// middleware uses, which lets tests and offline callers fabricate a
// request scope without running the middleware
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context, or "" outside a request
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}
