package middleware

import (
	"context"

	pkgAuth "github.com/mvalverde/imageflow-backend/pkg/auth"
)

type contextKey string

const ctxClaims contextKey = "token_claims"

// ClaimsFromContext returns the token claims seeded by the Auth middleware,
// or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *pkgAuth.Claims {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxClaims).(*pkgAuth.Claims); ok {
		return v
	}
	return nil
}

// WithClaims injects token claims into the context.
func WithClaims(ctx context.Context, claims *pkgAuth.Claims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClaims, claims)
}
