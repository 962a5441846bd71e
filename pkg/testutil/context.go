package testutil

import (
	"context"
	"net/http"
	"time"

	"namereg/pkg/requestcontext"
)

// ContextWithCaller simulates what the auth middleware does for an
// authenticated request.
func ContextWithCaller(account string) context.Context {
	return requestcontext.WithCallerID(context.Background(), account)
}

// ContextAt pins the request-scoped clock so lifecycle checks are
// deterministic.
func ContextAt(account string, now time.Time) context.Context {
	ctx := requestcontext.WithCallerID(context.Background(), account)
	return requestcontext.WithTime(ctx, now)
}

// WithCaller adds the calling account to the request context.
func WithCaller(req *http.Request, account string) *http.Request {
	return req.WithContext(requestcontext.WithCallerID(req.Context(), account))
}

// WithRequestTime pins the request-scoped clock on an HTTP request.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
