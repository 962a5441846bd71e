package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"namereg/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the account it was
// issued for.
type TokenValidator interface {
	ValidateToken(tokenString string) (account string, err error)
}

// RequireCaller resolves the calling account from the Authorization header
// and injects it into the context. Operations downstream read it through
// requestcontext.CallerID.
func RequireCaller(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			account, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "token validation failed",
					"request_id", requestcontext.RequestID(ctx),
					"error", err.Error(),
				)
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCallerID(ctx, account)))
		})
	}
}
