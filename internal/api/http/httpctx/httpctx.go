// Package httpctx carries verified credential claims through the request
// context.
package httpctx

import (
	"context"

	"github.com/dtroode/beatgate/internal/model"
)

type ctxKey int

const claimsKey ctxKey = iota

// WithClaims returns a context carrying the verified claims.
func WithClaims(ctx context.Context, claims model.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the claims placed by the access gate. The second return
// is false on requests that did not pass the gate.
func ClaimsFrom(ctx context.Context) (model.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(model.Claims)
	return claims, ok
}
