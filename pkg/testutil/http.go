package testutil

import (
	"context"
	"net/http"

	"coverledger/pkg/requestcontext"
)

// WithCaller adds a caller identity to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithCaller(req *http.Request, callerID string) *http.Request {
	if callerID == "" {
		return req
	}
	ctx := requestcontext.WithCallerID(req.Context(), callerID)
	return req.WithContext(ctx)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
